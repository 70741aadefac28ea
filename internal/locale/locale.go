// Package locale resolves the interface language.
package locale

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MrJamesThe3rd/pennywise/internal/kv"
)

// Key is the storage entry holding an explicitly chosen language.
const Key = "i18nextLng"

type Lang string

const (
	EN Lang = "en"
	UK Lang = "uk"
	FR Lang = "fr"
)

// Supported returns the selectable languages.
func Supported() []Lang {
	return []Lang{EN, UK, FR}
}

func (l Lang) IsSupported() bool {
	return slices.Contains(Supported(), l)
}

func (l Lang) Tag() language.Tag {
	return language.Make(string(l))
}

// Name returns the language's own name.
func (l Lang) Name() string {
	switch l {
	case UK:
		return "Українська"
	case FR:
		return "Français"
	}

	return "English"
}

// Printer formats numbers and translated messages for l.
func (l Lang) Printer() *message.Printer {
	return message.NewPrinter(l.Tag())
}

var (
	baseUK = language.MustParseBase("uk")
	baseRU = language.MustParseBase("ru")
	baseFR = language.MustParseBase("fr")
)

// Resolve maps a preference list to a supported language. Ukrainian or Russian
// anywhere in the list wins, then French, then English.
func Resolve(tags []language.Tag) Lang {
	bases := make([]language.Base, 0, len(tags))
	for _, t := range tags {
		b, _ := t.Base()
		bases = append(bases, b)
	}

	switch {
	case slices.Contains(bases, baseUK) || slices.Contains(bases, baseRU):
		return UK
	case slices.Contains(bases, baseFR):
		return FR
	}

	return EN
}

// envVars are read in POSIX precedence order.
var envVars = []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"}

// Preferences collects the language tags found in the process locale variables.
// Values such as "C" or "POSIX" are skipped.
func Preferences(getenv func(string) string) []language.Tag {
	var tags []language.Tag

	for _, name := range envVars {
		for v := range strings.SplitSeq(getenv(name), ":") {
			if i := strings.IndexAny(v, ".@"); i >= 0 {
				v = v[:i]
			}

			v = strings.ReplaceAll(v, "_", "-")
			if v == "" || v == "C" || v == "POSIX" {
				continue
			}

			t, err := language.Parse(v)
			if err != nil {
				continue
			}

			tags = append(tags, t)
		}
	}

	return tags
}

// Detect resolves the language from the environment.
func Detect(getenv func(string) string) Lang {
	return Resolve(Preferences(getenv))
}

// Service tracks the current language. Only an explicit Select is persisted.
type Service struct {
	kv       kv.Store
	detected Lang
	override Lang
}

// NewService detects the language from the process environment. A non-empty
// override wins over both stored and detected values and is never persisted.
func NewService(store kv.Store, override string) *Service {
	return newService(store, override, os.Getenv)
}

func newService(store kv.Store, override string, getenv func(string) string) *Service {
	s := &Service{kv: store, detected: Detect(getenv)}

	if override != "" {
		s.override = parse(override)
	}

	return s
}

// Current returns the language to display.
func (s *Service) Current(ctx context.Context) (Lang, error) {
	if s.override != "" {
		return s.override, nil
	}

	raw, err := s.kv.Get(ctx, Key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return s.detected, nil
		}

		return s.detected, fmt.Errorf("reading %s: %w", Key, err)
	}

	return parse(string(raw)), nil
}

// Select stores l as the explicit choice.
func (s *Service) Select(ctx context.Context, l Lang) error {
	if !l.IsSupported() {
		return fmt.Errorf("unsupported language %q", l)
	}

	if err := s.kv.Set(ctx, Key, []byte(l)); err != nil {
		return fmt.Errorf("writing %s: %w", Key, err)
	}

	return nil
}

// parse keeps the base language of a stored or configured value, so "uk-UA" is "uk".
func parse(v string) Lang {
	base, _, _ := strings.Cut(strings.ToLower(strings.ReplaceAll(v, "_", "-")), "-")

	if l := Lang(base); l.IsSupported() {
		return l
	}

	return EN
}
