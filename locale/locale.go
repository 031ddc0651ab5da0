// Package locale implements parsed BCP-47 locales carrying the script,
// emoji-presentation-style, and line-break subtags the layout engine needs,
// plus a process-wide interning cache mapping locale-list strings to small
// integer ids (mirroring minikin's LocaleList cache).
package locale

import (
	"strings"
	"sync"

	gotext "github.com/go-text/typesetting/language"
	"golang.org/x/text/language"
)

// EmojiStyle selects how emoji-presentation-neutral codepoints are rendered
// by default for a given locale, matching the `emoji` Unicode extension
// subtag (und-u-em-{default,emoji,text}).
type EmojiStyle uint8

const (
	EmojiStyleDefault EmojiStyle = iota
	EmojiStyleEmoji
	EmojiStyleText
)

// LineBreakSubtag selects a locale-specific line-breaking strictness,
// matching the `lb` Unicode extension subtag (und-u-lb-{strict,normal,loose}).
type LineBreakSubtag uint8

const (
	LineBreakNormal LineBreakSubtag = iota
	LineBreakStrict
	LineBreakLoose
)

// Locale is a single parsed BCP-47 language tag plus the subtags the layout
// engine consults directly.
type Locale struct {
	raw        string
	base       language.Base
	script     gotext.Script
	emojiStyle EmojiStyle
	lineBreak  LineBreakSubtag
}

// Parse parses a BCP-47 tag string into a Locale. Parse errors degrade to
// the "und" (undetermined) locale rather than failing, matching the
// engine-wide policy of never surfacing errors from locale/text handling.
func Parse(tag string) Locale {
	t, err := language.Parse(tag)
	var base language.Base
	if err == nil {
		base, _, _ = t.Raw()
	}
	scr := gotext.Script(0)
	if gs, err := gotext.ParseScript(scriptSubtag(tag)); err == nil {
		scr = gs
	}
	loc := Locale{
		raw:        tag,
		base:       base,
		script:     scr,
		emojiStyle: parseEmojiStyle(tag),
		lineBreak:  parseLineBreakSubtag(tag),
	}
	return loc
}

// scriptSubtag extracts a four-letter ISO 15924 script subtag from a raw
// BCP-47 tag, if present, e.g. "zh-Hant" -> "Hant".
func scriptSubtag(tag string) string {
	for _, part := range strings.Split(tag, "-") {
		if len(part) == 4 && isAlpha(part) {
			return part
		}
	}
	return ""
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

func parseEmojiStyle(tag string) EmojiStyle {
	switch extractExtension(tag, "em") {
	case "emoji":
		return EmojiStyleEmoji
	case "text":
		return EmojiStyleText
	default:
		return EmojiStyleDefault
	}
}

func parseLineBreakSubtag(tag string) LineBreakSubtag {
	switch extractExtension(tag, "lb") {
	case "strict":
		return LineBreakStrict
	case "loose":
		return LineBreakLoose
	default:
		return LineBreakNormal
	}
}

// extractExtension finds the value following "-u-<key>-" in a raw tag
// string. This is a small hand-rolled scan rather than a full Unicode
// locale extension parser, since the engine only ever consults these two
// keys.
func extractExtension(tag, key string) string {
	parts := strings.Split(strings.ToLower(tag), "-")
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == key && isUExtensionContext(parts, i) {
			return parts[i+1]
		}
	}
	return ""
}

func isUExtensionContext(parts []string, keyIdx int) bool {
	for i := keyIdx - 1; i >= 0; i-- {
		if parts[i] == "u" {
			return true
		}
		if len(parts[i]) == 1 {
			return false
		}
	}
	return false
}

// Script returns the locale's writing-system script.
func (l Locale) Script() gotext.Script { return l.script }

// EmojiStyle returns the locale's default emoji-presentation style.
func (l Locale) EmojiStyle() EmojiStyle { return l.emojiStyle }

// LineBreakStyle returns the locale's line-break strictness subtag.
func (l Locale) LineBreakStyle() LineBreakSubtag { return l.lineBreak }

// String returns the original tag text.
func (l Locale) String() string { return l.raw }

// LanguageBase returns the primary language subtag, e.g. "en", "pl".
func (l Locale) LanguageBase() string { return l.base.String() }

// List is an ordered, comma-separated list of locales in priority order,
// e.g. parsing Android's "LocaleList". The first locale is primary.
type List struct {
	raw     string
	locales []Locale
}

// ParseList parses a comma-separated BCP-47 locale list.
func ParseList(raw string) List {
	if raw == "" {
		return List{raw: raw}
	}
	parts := strings.Split(raw, ",")
	locales := make([]Locale, 0, len(parts))
	for _, p := range parts {
		locales = append(locales, Parse(strings.TrimSpace(p)))
	}
	return List{raw: raw, locales: locales}
}

// Locales returns the parsed locales in priority order.
func (l List) Locales() []Locale { return l.locales }

// Primary returns the first locale in the list, or the zero Locale if empty.
func (l List) Primary() Locale {
	if len(l.locales) == 0 {
		return Locale{}
	}
	return l.locales[0]
}

// Len returns the number of locales in the list, uncapped.
func (l List) Len() int { return len(l.locales) }

// ID is a small interned identifier for a locale list string, used as an
// informational field on Font and FontFamily and as a cache-key component.
type ID uint32

// Cache interns locale-list strings to small integer ids, process-wide,
// mirroring minikin's LocaleListCache. The zero Cache is ready to use; its
// mutex guards both maps, per spec.md §5 "Locks: LocaleListCache owns a
// mutex guarding id interning."
type Cache struct {
	mu     sync.Mutex
	byRaw  map[string]ID
	byID   []List
	nextID ID
}

// Intern returns the id for raw, parsing and registering it on first use.
func (c *Cache) Intern(raw string) ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.byRaw == nil {
		c.byRaw = make(map[string]ID)
	}
	if id, ok := c.byRaw[raw]; ok {
		return id
	}
	id := c.nextID
	c.nextID++
	c.byRaw[raw] = id
	c.byID = append(c.byID, ParseList(raw))
	return id
}

// Get resolves a previously interned id back to its List.
func (c *Cache) Get(id ID) (List, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if int(id) >= len(c.byID) {
		return List{}, false
	}
	return c.byID[id], true
}

// Default is the process-wide locale interning cache, matching the
// original's process-global LocaleListCache singleton.
var Default Cache
