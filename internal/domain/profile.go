package domain

import (
	"encoding/json"
	"strings"
)

// ProfileKind distinguishes guests from registered users
type ProfileKind string

const (
	KindGuest      ProfileKind = "guest"
	KindRegistered ProfileKind = "registered"
)

// AccessibilityMode is the assistive flow chosen by the user
type AccessibilityMode string

const (
	ModeNone  AccessibilityMode = "none"
	ModeBlind AccessibilityMode = "blind"
	ModeDeaf  AccessibilityMode = "deaf"
)

// Valid reports whether m is a known mode
func (m AccessibilityMode) Valid() bool {
	switch m {
	case ModeNone, ModeBlind, ModeDeaf:
		return true
	}
	return false
}

// Language is a supported UI language
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageAmharic Language = "am"
)

// Valid reports whether l is supported
func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageAmharic
}

// ParseLanguage maps free-form input to a supported language
func ParseLanguage(s string) (Language, bool) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	return l, l.Valid()
}

// Profile is a persisted identity plus its personalized settings
type Profile struct {
	ID                   string            `json:"id"`
	DisplayName          string            `json:"displayName"`
	Kind                 ProfileKind       `json:"kind"`
	AccessibilityMode    AccessibilityMode `json:"accessibilityMode"`
	VoiceFeedbackEnabled bool              `json:"voiceFeedbackEnabled"`
	LanguagePreference   Language          `json:"languagePreference"`
	Preferences          Preferences       `json:"preferences"`
	CredentialHash       string            `json:"credentialHash,omitempty"`
}

// UnmarshalJSON defaults the mode, language and embedded preferences
// when the record omits them.
func (p *Profile) UnmarshalJSON(data []byte) error {
	type plain Profile
	decoded := plain{
		AccessibilityMode:  ModeNone,
		LanguagePreference: LanguageEnglish,
		Preferences:        DefaultPreferences(),
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*p = Profile(decoded)
	return nil
}

// IsRegistered reports whether the profile went through signup
func (p *Profile) IsRegistered() bool {
	return p != nil && p.Kind == KindRegistered
}

// Public returns a copy without the credential hash
func (p Profile) Public() Profile {
	p.CredentialHash = ""
	return p
}

// NormalizeProfileID turns a display name or login identifier into a profile id
func NormalizeProfileID(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ReservedProfileID reports whether id would map onto a key another record owns
func ReservedProfileID(id string) bool {
	return ProfileKey(id) == KeyCurrentProfile
}

// ProfileKey returns the store key of a profile record
func ProfileKey(id string) string {
	return KeyProfilePrefix + id
}

// Store keys owned by the managers
const (
	KeyPreferences    = "preferences"
	KeyCurrentProfile = "profile:current"
	KeyProfilePrefix  = "profile:"
	KeyHistory        = "history"
	KeyLanguage       = "language"
)
