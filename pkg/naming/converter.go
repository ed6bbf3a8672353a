package naming

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Converter rewrites a symbol name into another form.
type Converter func(name string) string

const (
	AsIs       = "as-is"
	LowerCase  = "lowercase"
	UpperCase  = "uppercase"
	KebabCase  = "kebab-case"
	CamelCase  = "camel-case"
	PascalCase = "pascal-case"
	SnakeCase  = "snake-case"
)

// Casers hold state and cannot be shared between goroutines, so each
// conversion gets its own.
func lower(s string) string { return cases.Lower(language.Und).String(s) }
func upper(s string) string { return cases.Upper(language.Und).String(s) }
func title(s string) string { return cases.Title(language.Und, cases.NoLower).String(s) }

var converters = map[string]Converter{
	AsIs:      func(name string) string { return name },
	LowerCase: func(name string) string { return lower(name) },
	UpperCase: func(name string) string { return upper(name) },
	KebabCase: func(name string) string { return strings.Join(lowerWords(name), "-") },
	SnakeCase: func(name string) string { return strings.Join(lowerWords(name), "_") },
	CamelCase: func(name string) string {
		words := lowerWords(name)
		for i := 1; i < len(words); i++ {
			words[i] = title(words[i])
		}
		return strings.Join(words, "")
	},
	PascalCase: func(name string) string {
		words := lowerWords(name)
		for i := range words {
			words[i] = title(words[i])
		}
		return strings.Join(words, "")
	},
}

// LookupConverter returns the named converter.
func LookupConverter(name string) (Converter, error) {
	if c, ok := converters[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("unknown name converter %q (want one of %s)", name, strings.Join(ConverterNames(), ", "))
}

// ConverterNames returns the sorted list of known converter names.
func ConverterNames() []string {
	names := make([]string, 0, len(converters))
	for name := range converters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// splitWords splits a name on '-', '_', '.', ' ' and lower-to-upper case
// transitions: "fooBar-baz" -> ["foo", "Bar", "baz"].  Runs of upper case
// letters stay together: "HTMLElement" -> ["HTML", "Element"].
func splitWords(name string) []string {
	var words []string
	runes := []rune(name)
	start := -1
	for i, r := range runes {
		if r == '-' || r == '_' || r == '.' || r == ' ' {
			if start >= 0 {
				words = append(words, string(runes[start:i]))
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		if unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if !unicode.IsUpper(prev) || nextLower {
				words = append(words, string(runes[start:i]))
				start = i
			}
		}
	}
	if start >= 0 {
		words = append(words, string(runes[start:]))
	}
	return words
}

func lowerWords(name string) []string {
	words := splitWords(name)
	for i, w := range words {
		words[i] = lower(w)
	}
	return words
}
