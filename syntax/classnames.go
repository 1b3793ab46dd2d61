package syntax

import (
	"strings"
	"sync"
	"unicode"
)

// Predefined escape classes. Each call returns a fresh class so callers may
// negate or nest it freely.

// DigitClass returns \d.
func DigitClass() *CharClass {
	return NewCharClass(FoldNone).AddRange('0', '9').Named(`\d`).Freeze()
}

// SpaceClass returns \s.
func SpaceClass() *CharClass {
	return NewCharClass(FoldNone).
		AddRune(' ').AddRange('\t', '\r').Named(`\s`).Freeze()
}

// WordClass returns \w.
func WordClass() *CharClass {
	return NewCharClass(FoldNone).
		AddRange('a', 'z').AddRange('A', 'Z').AddRange('0', '9').AddRune('_').
		Named(`\w`).Freeze()
}

type classBuilder func(fold FoldMode) *CharClass

func ranges(rs ...rune) classBuilder {
	return func(fold FoldMode) *CharClass {
		c := NewCharClass(fold)
		for i := 0; i+1 < len(rs); i += 2 {
			c.AddRange(rs[i], rs[i+1])
		}
		return c
	}
}

func pred(f func(rune) bool) classBuilder {
	return func(fold FoldMode) *CharClass {
		return NewCharClass(fold).AddPredicate(f)
	}
}

func table(t *unicode.RangeTable) classBuilder {
	return func(fold FoldMode) *CharClass {
		return NewCharClass(fold).AddTable(t, false)
	}
}

func tables(ts ...*unicode.RangeTable) classBuilder {
	return func(fold FoldMode) *CharClass {
		c := NewCharClass(fold)
		for _, t := range ts {
			c.AddTable(t, false)
		}
		return c
	}
}

// POSIX classes are US-ASCII only, as in java.util.regex.
var posixClasses = map[string]classBuilder{
	"Lower":  ranges('a', 'z'),
	"Upper":  ranges('A', 'Z'),
	"ASCII":  ranges(0, 0x7F),
	"Alpha":  ranges('a', 'z', 'A', 'Z'),
	"Digit":  ranges('0', '9'),
	"Alnum":  ranges('a', 'z', 'A', 'Z', '0', '9'),
	"Punct":  ranges(0x21, 0x2F, 0x3A, 0x40, 0x5B, 0x60, 0x7B, 0x7E),
	"Graph":  ranges(0x21, 0x7E),
	"Print":  ranges(0x20, 0x7E),
	"Blank":  ranges(' ', ' ', '\t', '\t'),
	"Cntrl":  ranges(0, 0x1F, 0x7F, 0x7F),
	"XDigit": ranges('0', '9', 'a', 'f', 'A', 'F'),
	"Space":  ranges(' ', ' ', '\t', '\r'),
	"all":    ranges(0, unicode.MaxRune),
	"LD":     pred(isLetterOrDigit),
}

var javaClasses = map[string]classBuilder{
	"javaLowerCase":     pred(unicode.IsLower),
	"javaUpperCase":     pred(unicode.IsUpper),
	"javaTitleCase":     pred(unicode.IsTitle),
	"javaWhitespace":    pred(IsJavaWhitespace),
	"javaSpaceChar":     tables(unicode.Zs, unicode.Zl, unicode.Zp),
	"javaISOControl":    ranges(0, 0x1F, 0x7F, 0x9F),
	"javaLetter":        pred(unicode.IsLetter),
	"javaDigit":         pred(unicode.IsDigit),
	"javaLetterOrDigit": pred(isLetterOrDigit),
	"javaAlphabetic":    pred(isAlphabetic),
	"javaIdeographic":   table(unicode.Ideographic),
}

// Binary properties with java.util.regex names, keyed by folded name.
var binaryProperties = map[string]classBuilder{
	"alphabetic":  pred(isAlphabetic),
	"letter":      pred(unicode.IsLetter),
	"lowercase":   tables(unicode.Ll, unicode.Other_Lowercase),
	"uppercase":   tables(unicode.Lu, unicode.Other_Uppercase),
	"titlecase":   table(unicode.Lt),
	"digit":       table(unicode.Nd),
	"hexdigit":    tables(unicode.Nd, unicode.Hex_Digit),
	"ideographic": table(unicode.Ideographic),
	"control":     table(unicode.Cc),
	"punctuation": table(unicode.P),
	"whitespace":  table(unicode.White_Space),
	"assigned":    pred(isAssigned),
}

var (
	looseIndexOnce sync.Once
	scriptIndex    map[string]*unicode.RangeTable
	propertyIndex  map[string]*unicode.RangeTable
)

func buildLooseIndex() {
	scriptIndex = make(map[string]*unicode.RangeTable, len(unicode.Scripts))
	for name, t := range unicode.Scripts {
		scriptIndex[foldName(name)] = t
	}
	propertyIndex = make(map[string]*unicode.RangeTable, len(unicode.Properties))
	for name, t := range unicode.Properties {
		propertyIndex[foldName(name)] = t
	}
}

// LookupClass resolves the name inside \p{...} to a class. It understands
// POSIX names (Lower, Alnum, ...), java.lang.Character predicates
// (javaLowerCase, ...), general categories (L, Lu, IsLu), scripts (IsLatin,
// script=Latin), binary properties (IsWhite_Space, IsAlphabetic) and blocks
// (InGreek, block=Greek). The returned class is frozen; ok is false for an
// unknown name.
func LookupClass(name string, fold FoldMode) (*CharClass, bool) {
	b := lookupBuilder(name)
	if b == nil {
		return nil, false
	}
	return b(fold).Named(`\p{` + name + `}`).Freeze(), true
}

//nolint:gocyclo,cyclop // flat name dispatch
func lookupBuilder(name string) classBuilder {
	if b, ok := posixClasses[name]; ok {
		return b
	}
	if b, ok := javaClasses[name]; ok {
		return b
	}
	if t, ok := unicode.Categories[name]; ok {
		return table(t)
	}
	looseIndexOnce.Do(buildLooseIndex)

	if key, value, ok := strings.Cut(name, "="); ok {
		switch foldName(key) {
		case "script", "sc":
			if t, ok := scriptIndex[foldName(value)]; ok {
				return table(t)
			}
		case "block", "blk":
			return blockBuilder(value)
		case "generalcategory", "gc":
			if t, ok := unicode.Categories[value]; ok {
				return table(t)
			}
		}
		return nil
	}

	switch {
	case strings.HasPrefix(name, "Is"):
		rest := name[2:]
		if t, ok := unicode.Categories[rest]; ok {
			return table(t)
		}
		folded := foldName(rest)
		if t, ok := scriptIndex[folded]; ok {
			return table(t)
		}
		if b, ok := binaryProperties[folded]; ok {
			return b
		}
		if t, ok := propertyIndex[folded]; ok {
			return table(t)
		}
		if b, ok := posixClasses[rest]; ok {
			return b
		}
	case strings.HasPrefix(name, "In"):
		return blockBuilder(name[2:])
	}
	// Bare block names are accepted for compatibility.
	return blockBuilder(name)
}

func blockBuilder(name string) classBuilder {
	blk, ok := LookupBlock(name)
	if !ok {
		return nil
	}
	return ranges(blk.Lo, blk.Hi)
}

// IsJavaWhitespace mirrors java.lang.Character.isWhitespace: space
// separators except the no-break spaces, plus the ASCII controls
// \t \n \v \f \r and the information separators U+001C..U+001F.
func IsJavaWhitespace(r rune) bool {
	switch {
	case r >= '\t' && r <= '\r', r >= 0x1C && r <= 0x1F:
		return true
	case r == 0xA0 || r == 0x2007 || r == 0x202F:
		return false
	}
	return unicode.In(r, unicode.Zs, unicode.Zl, unicode.Zp)
}

func isLetterOrDigit(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isAlphabetic(r rune) bool {
	return unicode.IsLetter(r) || unicode.Is(unicode.Nl, r) || unicode.Is(unicode.Other_Alphabetic, r)
}

func isAssigned(r rune) bool {
	for _, t := range unicode.Categories {
		if unicode.Is(t, r) {
			return true
		}
	}
	return false
}
