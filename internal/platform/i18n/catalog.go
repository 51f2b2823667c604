// Package i18n holds the localized message catalogs for reports and errors.
package i18n

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BaseLocale is the canonical source locale for catalogs.
const BaseLocale = "en-US"

// Bundle stores message catalogs keyed by locale.
type Bundle struct {
	locales map[string]map[string]string
}

var (
	defaultOnce   sync.Once
	defaultBundle *Bundle
)

// Default returns the process-wide bundle, registered with x/text/message
// on first use.
func Default() *Bundle {
	defaultOnce.Do(func() {
		bundle, err := NewBundle(builtinCatalogs)
		if err != nil {
			panic(err)
		}
		if err := bundle.Register(); err != nil {
			panic(err)
		}
		defaultBundle = bundle
	})
	return defaultBundle
}

// NewBundle validates and copies the given locale catalogs.
func NewBundle(catalogs map[string]map[string]string) (*Bundle, error) {
	if _, ok := catalogs[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	b := &Bundle{locales: make(map[string]map[string]string, len(catalogs))}
	for locale, messages := range catalogs {
		if _, err := language.Parse(locale); err != nil {
			return nil, fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		copied := make(map[string]string, len(messages))
		for key, value := range messages {
			trimmed := strings.TrimSpace(key)
			if trimmed == "" {
				return nil, fmt.Errorf("catalog %s: message key cannot be blank", locale)
			}
			copied[trimmed] = value
		}
		b.locales[locale] = copied
	}
	return b, nil
}

// Register registers every message with x/text/message so printers created
// by Printer translate them.
func (b *Bundle) Register() error {
	if b == nil {
		return nil
	}
	for _, locale := range b.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		tags := []language.Tag{tag}
		if base, _ := tag.Base(); base.String() != "" && base.String() != "und" {
			baseTag, err := language.Parse(base.String())
			if err == nil && baseTag != tag {
				tags = append(tags, baseTag)
			}
		}
		messages := b.locales[locale]
		keys := make([]string, 0, len(messages))
		for key := range messages {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			for _, registerTag := range tags {
				if err := message.SetString(registerTag, key, messages[key]); err != nil {
					return fmt.Errorf("register %s/%s: %w", locale, key, err)
				}
			}
		}
	}
	return nil
}

// Locales returns all available locale identifiers.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Match resolves a requested locale to the closest supported one.
func (b *Bundle) Match(locale string) string {
	requested := strings.TrimSpace(locale)
	if requested == "" || b == nil {
		return BaseLocale
	}
	if _, ok := b.locales[requested]; ok {
		return requested
	}
	supported := b.Locales()
	tags := make([]language.Tag, 0, len(supported)+1)
	// The matcher falls back to its first tag.
	tags = append(tags, language.MustParse(BaseLocale))
	for _, l := range supported {
		tags = append(tags, language.MustParse(l))
	}
	_, index, confidence := language.NewMatcher(tags).Match(language.Make(requested))
	if confidence == language.No || index == 0 {
		return BaseLocale
	}
	return supported[index-1]
}

// Message returns one message value with base-locale fallback.
func (b *Bundle) Message(locale string, key string) (string, bool) {
	if b == nil {
		return "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false
	}
	if value, ok := b.locales[b.Match(locale)][key]; ok {
		return value, true
	}
	value, ok := b.locales[BaseLocale][key]
	return value, ok
}

// Printer returns an x/text printer for the closest supported locale.
func Printer(locale string) *message.Printer {
	bundle := Default()
	return message.NewPrinter(language.MustParse(bundle.Match(locale)))
}
