package domain

import "encoding/json"

// FontSize is the UI text scale
type FontSize string

const (
	FontSmall  FontSize = "small"
	FontMedium FontSize = "medium"
	FontLarge  FontSize = "large"
)

// Valid reports whether f is one of the known sizes
func (f FontSize) Valid() bool {
	switch f {
	case FontSmall, FontMedium, FontLarge:
		return true
	}
	return false
}

// Preferences holds the accessibility display settings
type Preferences struct {
	Contrast     bool     `json:"contrast"`
	FontSize     FontSize `json:"fontSize"`
	ReduceMotion bool     `json:"reduceMotion"`
	DemoMode     bool     `json:"demoMode"`
}

// DefaultPreferences returns the documented defaults
func DefaultPreferences() Preferences {
	return Preferences{FontSize: FontMedium}
}

// UnmarshalJSON fills fields missing from data with their defaults.
func (p *Preferences) UnmarshalJSON(data []byte) error {
	type plain Preferences
	decoded := plain(DefaultPreferences())
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	if decoded.FontSize == "" {
		decoded.FontSize = FontMedium
	}
	*p = Preferences(decoded)
	return nil
}

// PreferencesPatch is a partial update; nil fields are left untouched
type PreferencesPatch struct {
	Contrast     *bool
	FontSize     *FontSize
	ReduceMotion *bool
	DemoMode     *bool
}

// Apply returns p with exactly the fields set in patch overwritten
func (p Preferences) Apply(patch PreferencesPatch) Preferences {
	if patch.Contrast != nil {
		p.Contrast = *patch.Contrast
	}
	if patch.FontSize != nil {
		p.FontSize = *patch.FontSize
	}
	if patch.ReduceMotion != nil {
		p.ReduceMotion = *patch.ReduceMotion
	}
	if patch.DemoMode != nil {
		p.DemoMode = *patch.DemoMode
	}
	return p
}

// Empty reports whether the patch sets nothing
func (u PreferencesPatch) Empty() bool {
	return u.Contrast == nil && u.FontSize == nil && u.ReduceMotion == nil && u.DemoMode == nil
}

// PatchFrom builds a patch that overwrites every field with p's values
func PatchFrom(p Preferences) PreferencesPatch {
	return PreferencesPatch{
		Contrast:     &p.Contrast,
		FontSize:     &p.FontSize,
		ReduceMotion: &p.ReduceMotion,
		DemoMode:     &p.DemoMode,
	}
}
