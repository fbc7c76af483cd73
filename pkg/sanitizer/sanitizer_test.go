package sanitizer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"wissensbank/backend/pkg/sanitizer"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "nested tags", input: "<p>Hello <strong>World</strong></p>", expected: "Hello World"},
		{name: "plain text", input: "Plain text", expected: "Plain text"},
		{name: "entity decoded", input: "<b>Fish &amp; Chips</b>", expected: "Fish & Chips"},
		{name: "empty", input: "", expected: ""},
		{name: "whitespace only", input: "   ", expected: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, sanitizer.StripTags(tc.input))
		})
	}
}

func TestPlainText(t *testing.T) {
	got := sanitizer.PlainText("<p>Acme  <script>alert(1)</script>\n<em>Corp</em> &amp; Co</p>", 0)
	require.NotContains(t, got, "<")
	require.NotContains(t, got, "alert(1)")
	require.Contains(t, got, "Acme")
	require.Contains(t, got, "Corp & Co")

	require.Equal(t, "", sanitizer.PlainText("   ", 10))
	require.Equal(t, "abc", sanitizer.PlainText("<i>abcdef</i>", 3))
}

func TestPlainText_EntityEncodedMarkup(t *testing.T) {
	got := sanitizer.PlainText("&lt;p&gt;Hallo &lt;b&gt;Welt&lt;/b&gt;&lt;/p&gt;", 0)
	require.Equal(t, "Hallo Welt", got)
}

func TestCleanQuery(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{name: "trims", input: "  acme  ", max: 140, expected: "acme"},
		{name: "control chars", input: "ac\x00me\tcorp\x7f", max: 140, expected: "ac me corp"},
		{name: "truncates", input: strings.Repeat("a", 200), max: 140, expected: strings.Repeat("a", 140)},
		{name: "multibyte", input: "übergröße", max: 4, expected: "über"},
		{name: "empty", input: "\n\r", max: 140, expected: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, sanitizer.CleanQuery(tc.input, tc.max))
		})
	}
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "abc", sanitizer.Truncate("abc", 0))
	require.Equal(t, "ab", sanitizer.Truncate("abc", 2))
	require.Equal(t, "abc", sanitizer.Truncate("abc", 5))
}
