package processing

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// PunctuationSpacingRule removes the space tokenized corpora leave before punctuation
type PunctuationSpacingRule struct{}

var punctuationSpacing = strings.NewReplacer(
	" ,", ",",
	" .", ".",
	" ?", "?",
	" !", "!",
)

func (r *PunctuationSpacingRule) Name() string {
	return "punctuation_spacing"
}

func (r *PunctuationSpacingRule) Description() string {
	return "Collapses spaced punctuation artifacts such as \" ,\" and \" ?\""
}

func (r *PunctuationSpacingRule) Apply(content string) string {
	return punctuationSpacing.Replace(content)
}

// QuoteNormalizationRule maps curly quotes to their ASCII equivalents
type QuoteNormalizationRule struct{}

var curlyQuotes = strings.NewReplacer(
	"’", "'", // Right single quote
	"‘", "'", // Left single quote
	"“", "\"", // Left double quote
	"”", "\"", // Right double quote
)

func (r *QuoteNormalizationRule) Name() string {
	return "quote_normalization"
}

func (r *QuoteNormalizationRule) Description() string {
	return "Normalizes curly apostrophes and quotation marks to ASCII"
}

func (r *QuoteNormalizationRule) Apply(content string) string {
	return curlyQuotes.Replace(content)
}

// WhitespaceCollapseRule replaces every whitespace run with a single space
type WhitespaceCollapseRule struct{}

func (r *WhitespaceCollapseRule) Name() string {
	return "whitespace_collapse"
}

func (r *WhitespaceCollapseRule) Description() string {
	return "Collapses runs of spaces, tabs and newlines into one space"
}

func (r *WhitespaceCollapseRule) Apply(content string) string {
	var b strings.Builder
	b.Grow(len(content))

	inSpace := false
	for len(content) > 0 {
		ru, size := utf8.DecodeRuneInString(content)
		if ru != utf8.RuneError && unicode.IsSpace(ru) {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
		} else {
			// Write raw bytes so invalid sequences survive for the ASCII rule.
			b.WriteString(content[:size])
			inSpace = false
		}
		content = content[size:]
	}

	return b.String()
}

// TrimRule removes leading and trailing whitespace
type TrimRule struct{}

func (r *TrimRule) Name() string {
	return "trim"
}

func (r *TrimRule) Description() string {
	return "Removes leading and trailing whitespace"
}

func (r *TrimRule) Apply(content string) string {
	return strings.TrimSpace(content)
}

// ASCIIOnlyRule drops every character outside 0x00-0x7F, including invalid UTF-8 bytes
type ASCIIOnlyRule struct{}

func (r *ASCIIOnlyRule) Name() string {
	return "ascii_only"
}

func (r *ASCIIOnlyRule) Description() string {
	return "Strips characters outside the ASCII range"
}

func (r *ASCIIOnlyRule) Apply(content string) string {
	if isASCII(content) {
		return content
	}
	t := runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	}))
	// runes.Remove never reports an error on string input.
	cleaned, _, _ := transform.String(t, content)
	return cleaned
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}
