package sanitizer

import (
	stdhtml "html"
	"io"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var (
	strictOnce   sync.Once
	strictPolicy *bluemonday.Policy
)

func strict() *bluemonday.Policy {
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// StripTags removes all HTML/XML tags and keeps only text nodes.
// Not a security boundary; output must still be escaped before rendering.
//
//   - "<p>Hello <strong>World</strong></p>" -> "Hello World"
//   - "Plain text" -> "Plain text"
func StripTags(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}

	tokenizer := html.NewTokenizer(strings.NewReader(input))
	var buf strings.Builder

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			if tokenizer.Err() == io.EOF {
				break
			}
			return ""
		}

		if tt == html.TextToken {
			buf.WriteString(tokenizer.Token().Data)
		}
	}

	return strings.TrimSpace(buf.String())
}

// PlainText reduces untrusted markup (feed summaries, excerpts) to a single line of
// plain text no longer than maxRunes. maxRunes <= 0 disables truncation.
func PlainText(input string, maxRunes int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	cleaned := stdhtml.UnescapeString(strict().Sanitize(input))
	// Feeds often entity-encode their markup, so unescaping can surface tags.
	if strings.ContainsRune(cleaned, '<') {
		cleaned = StripTags(cleaned)
	}
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	return Truncate(cleaned, maxRunes)
}

// CleanQuery normalizes user-supplied search text: control characters become
// spaces, surrounding whitespace is trimmed and the result is cut to maxRunes.
func CleanQuery(input string, maxRunes int) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, input)
	return strings.TrimSpace(Truncate(strings.TrimSpace(mapped), maxRunes))
}

// Truncate cuts s to at most maxRunes runes. maxRunes <= 0 returns s unchanged.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes])
}
