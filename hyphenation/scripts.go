package hyphenation

import "github.com/go-text/typesetting/language"

// scriptRule selects how a script renders a hyphenation break: which
// character (if any) replaces/joins at the break point, and whether joining
// scripts need a ZWJ to preserve cursive shaping, per spec.md §4.4.
type scriptRule uint8

const (
	ruleDefault         scriptRule = iota // Latin/Cyrillic/Greek/etc: pattern dictionary, plain hyphen
	ruleNoVisibleHyphen                   // Malayalam and other listed Brahmic scripts: break, no hyphen glyph
	ruleArabicJoining                     // Arabic/NKO/etc: soft hyphen always gives insert-hyphen-and-zwj; neighbours' joining type is not checked
	ruleHebrewMaqaf
	ruleArmenianHyphen
	ruleUCASHyphen
)

// scriptTags names every script this package gives a dedicated rule to,
// parsed once via go-text/typesetting's ISO 15924 parser rather than
// hand-rolled tag constants.
var scriptTags = struct {
	malayalam, kannada, telugu, tamil, oriya, bengali       language.Script
	arabic, nko, syriac, mandaic                            language.Script
	hebrew, armenian, canadianAboriginal                    language.Script
}{}

func init() {
	parse := func(tag string) language.Script {
		s, err := language.ParseScript(tag)
		if err != nil {
			return language.Script(0)
		}
		return s
	}
	scriptTags.malayalam = parse("Mlym")
	scriptTags.kannada = parse("Knda")
	scriptTags.telugu = parse("Telu")
	scriptTags.tamil = parse("Taml")
	scriptTags.oriya = parse("Orya")
	scriptTags.bengali = parse("Beng")
	scriptTags.arabic = parse("Arab")
	scriptTags.nko = parse("Nkoo")
	scriptTags.syriac = parse("Syrc")
	scriptTags.mandaic = parse("Mand")
	scriptTags.hebrew = parse("Hebr")
	scriptTags.armenian = parse("Armn")
	scriptTags.canadianAboriginal = parse("Cans")
}

// scriptRuleFor maps a Unicode script to its hyphenation rule. Scripts not
// listed use ruleDefault (pattern dictionary with a plain hyphen).
func scriptRuleFor(scr language.Script) scriptRule {
	switch scr {
	case scriptTags.malayalam, scriptTags.kannada, scriptTags.telugu,
		scriptTags.tamil, scriptTags.oriya, scriptTags.bengali:
		return ruleNoVisibleHyphen
	case scriptTags.arabic, scriptTags.nko, scriptTags.syriac, scriptTags.mandaic:
		return ruleArabicJoining
	case scriptTags.hebrew:
		return ruleHebrewMaqaf
	case scriptTags.armenian:
		return ruleArmenianHyphen
	case scriptTags.canadianAboriginal:
		return ruleUCASHyphen
	default:
		return ruleDefault
	}
}

// isJoiningCapable reports whether ch participates in Arabic-style cursive
// joining, a coarse approximation (Arabic block + presentation forms) since
// the full joining-type table lives in go-text/typesetting's shaping data,
// not duplicated here.
func isJoiningCapable(ch rune) bool {
	return (ch >= 0x0620 && ch <= 0x064A) ||
		(ch >= 0x066E && ch <= 0x06D3) ||
		(ch >= 0xFB50 && ch <= 0xFDFF) ||
		(ch >= 0xFE70 && ch <= 0xFEFC)
}

const (
	hardHyphen     = 0x2010
	hyphenMinus    = 0x002D
	softHyphen     = 0x00AD
	middleDot      = 0x00B7
	armenianHyphen = 0x058A
	hebrewMaqaf    = 0x05BE
	ucasHyphen     = 0x1400
)
