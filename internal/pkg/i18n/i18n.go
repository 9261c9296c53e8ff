package i18n

import (
	"fmt"
	"strings"
)

// DefaultLocale is used when a requested locale has no catalog entry.
const DefaultLocale = "en"

// Message keys known to the bundle.
const (
	KeySMSText = "sms_text"
)

// Bundle resolves message templates by locale and key. Templates use
// fmt.Sprintf verbs; Render applies the given arguments.
type Bundle struct {
	fallback string
	catalog  map[string]map[string]string
}

// Option customizes a Bundle.
type Option func(*Bundle)

// WithFallback overrides the fallback locale.
func WithFallback(locale string) Option {
	return func(b *Bundle) {
		b.fallback = normalize(locale)
	}
}

// WithMessages merges a locale catalog into the bundle, overriding
// built-in templates for matching keys.
func WithMessages(locale string, messages map[string]string) Option {
	return func(b *Bundle) {
		locale = normalize(locale)
		if b.catalog[locale] == nil {
			b.catalog[locale] = make(map[string]string)
		}
		for key, tmpl := range messages {
			b.catalog[locale][key] = tmpl
		}
	}
}

// NewBundle returns a Bundle with the built-in catalog applied first and
// the given options applied on top.
func NewBundle(opts ...Option) *Bundle {
	b := &Bundle{
		fallback: DefaultLocale,
		catalog: map[string]map[string]string{
			"en": {
				KeySMSText: "%s is your verification code. It is valid for %d minutes.",
			},
			"de": {
				KeySMSText: "%s ist dein Bestätigungscode. Er ist %d Minuten lang gültig.",
			},
			"da": {
				KeySMSText: "%s er din bekræftelseskode. Den er gyldig i %d minutter.",
			},
		},
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Render resolves the template for locale and key, falling back to the
// bundle's fallback locale, and applies args. Language-only matching is
// attempted for regional locales such as "de-CH".
func (b *Bundle) Render(locale, key string, args ...any) string {
	tmpl, ok := b.lookup(normalize(locale), key)
	if !ok {
		tmpl, ok = b.lookup(b.fallback, key)
	}
	if !ok {
		return key
	}

	return fmt.Sprintf(tmpl, args...)
}

func (b *Bundle) lookup(locale, key string) (string, bool) {
	if messages, ok := b.catalog[locale]; ok {
		if tmpl, ok := messages[key]; ok {
			return tmpl, true
		}
	}

	if lang, _, found := strings.Cut(locale, "-"); found {
		if messages, ok := b.catalog[lang]; ok {
			if tmpl, ok := messages[key]; ok {
				return tmpl, true
			}
		}
	}

	return "", false
}

func normalize(locale string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(locale), "_", "-"))
}
