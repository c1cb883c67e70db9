package i18n

import (
	_ "embed"
	"errors"
	"fmt"

	"accessfirst/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var defaultMessages []byte

// Message keys used outside templates
const (
	KeyLoginReminder        = "login_reminder"
	KeyDemoStart            = "demo_start"
	KeyDemoEnd              = "demo_end"
	KeyErrDuplicateIdentity = "error_duplicate_identity"
	KeyErrNotFound          = "error_not_found"
	KeyErrInvalidCredential = "error_invalid_credential"
	KeyErrNoCurrentProfile  = "error_no_current_profile"
	KeyErrInvalidInput      = "error_invalid_input"
	KeyErrStorage           = "error_storage_unavailable"
	KeyErrGeneric           = "error_generic"
)

// Catalog holds translated strings per language
type Catalog struct {
	messages map[domain.Language]map[string]string
}

// Load parses a YAML document of the form {lang: {key: text}}
func Load(data []byte) (*Catalog, error) {
	var raw map[string]map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if _, ok := raw[string(domain.LanguageEnglish)]; !ok {
		return nil, fmt.Errorf("catalog has no %q section", domain.LanguageEnglish)
	}

	c := &Catalog{messages: make(map[domain.Language]map[string]string, len(raw))}
	for lang, msgs := range raw {
		c.messages[domain.Language(lang)] = msgs
	}
	return c, nil
}

// Default returns the embedded catalog
func Default() *Catalog {
	c, err := Load(defaultMessages)
	if err != nil {
		panic(err)
	}
	return c
}

// T returns the text for key in lang, falling back to English and then
// to the key itself.
func (c *Catalog) T(lang domain.Language, key string) string {
	if msg, ok := c.messages[lang][key]; ok {
		return msg
	}
	if msg, ok := c.messages[domain.LanguageEnglish][key]; ok {
		return msg
	}
	return key
}

// ErrorKey maps a domain error to its message key
func ErrorKey(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateIdentity):
		return KeyErrDuplicateIdentity
	case errors.Is(err, domain.ErrNotFound):
		return KeyErrNotFound
	case errors.Is(err, domain.ErrInvalidCredential):
		return KeyErrInvalidCredential
	case errors.Is(err, domain.ErrNoCurrentProfile):
		return KeyErrNoCurrentProfile
	case errors.Is(err, domain.ErrInvalidInput):
		return KeyErrInvalidInput
	case errors.Is(err, domain.ErrStorageUnavailable):
		return KeyErrStorage
	default:
		return KeyErrGeneric
	}
}

// Error returns the localized message for err
func (c *Catalog) Error(lang domain.Language, err error) string {
	return c.T(lang, ErrorKey(err))
}
