package locale

import (
	"testing"

	gotext "github.com/go-text/typesetting/language"
)

func TestParseBasicFields(t *testing.T) {
	l := Parse("zh-Hant")
	if l.LanguageBase() != "zh" {
		t.Errorf("LanguageBase() = %q, want %q", l.LanguageBase(), "zh")
	}
	wantScript, err := gotext.ParseScript("Hant")
	if err != nil {
		t.Fatalf("gotext.ParseScript(Hant): %v", err)
	}
	if l.Script() != wantScript {
		t.Errorf("Script() = %v, want %v", l.Script(), wantScript)
	}
}

func TestParseInvalidTagDegradesToUndetermined(t *testing.T) {
	l := Parse("not a valid bcp47 tag!!")
	if l.String() != "not a valid bcp47 tag!!" {
		t.Errorf("String() should preserve the raw input even on parse failure")
	}
	// Parse never panics or errors; it degrades silently per the package's
	// "never surface errors from locale handling" policy.
	_ = l.LanguageBase()
}

func TestParseEmojiStyleExtension(t *testing.T) {
	cases := []struct {
		tag  string
		want EmojiStyle
	}{
		{"en-US", EmojiStyleDefault},
		{"en-US-u-em-emoji", EmojiStyleEmoji},
		{"en-US-u-em-text", EmojiStyleText},
	}
	for _, c := range cases {
		if got := Parse(c.tag).EmojiStyle(); got != c.want {
			t.Errorf("Parse(%q).EmojiStyle() = %v, want %v", c.tag, got, c.want)
		}
	}
}

func TestParseLineBreakExtension(t *testing.T) {
	cases := []struct {
		tag  string
		want LineBreakSubtag
	}{
		{"ja-JP", LineBreakNormal},
		{"ja-JP-u-lb-strict", LineBreakStrict},
		{"ja-JP-u-lb-loose", LineBreakLoose},
	}
	for _, c := range cases {
		if got := Parse(c.tag).LineBreakStyle(); got != c.want {
			t.Errorf("Parse(%q).LineBreakStyle() = %v, want %v", c.tag, got, c.want)
		}
	}
}

func TestParseListOrderAndPrimary(t *testing.T) {
	list := ParseList("fr-FR, en-US")
	if list.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", list.Len())
	}
	if list.Primary().LanguageBase() != "fr" {
		t.Errorf("Primary().LanguageBase() = %q, want %q", list.Primary().LanguageBase(), "fr")
	}
	if list.Locales()[1].LanguageBase() != "en" {
		t.Errorf("second locale LanguageBase() = %q, want %q", list.Locales()[1].LanguageBase(), "en")
	}
}

func TestParseListEmptyString(t *testing.T) {
	list := ParseList("")
	if list.Len() != 0 {
		t.Errorf("Len() = %d, want 0 for an empty locale list", list.Len())
	}
	if list.Primary().String() != "" {
		t.Errorf("Primary() of an empty list should be the zero Locale")
	}
}

func TestCacheInternIsIdempotent(t *testing.T) {
	var c Cache
	id1 := c.Intern("en-US,fr-FR")
	id2 := c.Intern("en-US,fr-FR")
	if id1 != id2 {
		t.Errorf("Intern of the same raw string twice returned different ids: %v != %v", id1, id2)
	}

	list, ok := c.Get(id1)
	if !ok {
		t.Fatalf("Get(%v) reported not found", id1)
	}
	if list.Primary().LanguageBase() != "en" {
		t.Errorf("interned list's primary locale = %q, want %q", list.Primary().LanguageBase(), "en")
	}
}

func TestCacheInternDistinctStringsGetDistinctIDs(t *testing.T) {
	var c Cache
	id1 := c.Intern("en-US")
	id2 := c.Intern("ja-JP")
	if id1 == id2 {
		t.Errorf("distinct locale-list strings should intern to distinct ids")
	}
}

func TestCacheGetUnknownID(t *testing.T) {
	var c Cache
	_, ok := c.Get(ID(999))
	if ok {
		t.Errorf("Get of an unregistered id should report false")
	}
}
