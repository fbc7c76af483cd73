package digest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose_EscapesContent(t *testing.T) {
	html, err := Compose("Search Alert: <b>acme</b>", []Item{
		{Title: `<script>alert("x")</script>`, SourceLabel: "Bundestag & Co", PublishedLabel: "01.02.2025, 10:00:00", URL: "https://example.org/a/x"},
	}, "https://example.org/api/alerts/unsubscribe?id=1&token=t")
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "Search Alert: &lt;b&gt;acme&lt;/b&gt;")
	assert.Contains(t, html, "Bundestag &amp; Co")
	assert.Contains(t, html, `href="https://example.org/api/alerts/unsubscribe?id=1&amp;token=t"`)
}

func TestCompose_KeepsOrderAndDefaultsTitle(t *testing.T) {
	html, err := Compose("t", []Item{
		{Title: "Newest", URL: "https://example.org/a/1"},
		{Title: "", URL: "https://example.org/a/2"},
		{Title: "Oldest", URL: "https://example.org/a/3"},
	}, "https://example.org/manage")
	require.NoError(t, err)

	first := strings.Index(html, "Newest")
	second := strings.Index(html, untitled)
	third := strings.Index(html, "Oldest")
	require.True(t, first >= 0 && second >= 0 && third >= 0)
	assert.Less(t, first, second)
	assert.Less(t, second, third)
	assert.Equal(t, 3, strings.Count(html, "<li "))
}

func TestCompose_RejectsScriptURL(t *testing.T) {
	html, err := Compose("t", []Item{{Title: "x", URL: "javascript:alert(1)"}}, "https://example.org/manage")
	require.NoError(t, err)
	assert.NotContains(t, html, `href="javascript:`)
}

func TestAlertConfirmation(t *testing.T) {
	html, err := AlertConfirmation("Suche", "<Klima>", "https://example.org/c?id=1&token=a", "https://example.org/u?id=1&token=a")
	require.NoError(t, err)
	assert.Contains(t, html, "Suche: <strong>&lt;Klima&gt;</strong>")
	assert.Contains(t, html, "https://example.org/c?id=1&amp;token=a")
	assert.Contains(t, html, "Alert löschen")
}

func TestNewsletterConfirmation(t *testing.T) {
	html, err := NewsletterConfirmation("Wissens-Bank", "https://example.org/c", "https://example.org/u")
	require.NoError(t, err)
	assert.Contains(t, html, "Wissens-Bank Briefing")
	assert.NotContains(t, html, "<strong>")
}

func TestFormatPublished(t *testing.T) {
	assert.Equal(t, "", FormatPublished(nil))
	ts := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	assert.Equal(t, "03.02.2025, 04:05:06", FormatPublished(&ts))
}

func TestBriefing(t *testing.T) {
	html, err := Briefing("Wissens-Bank", []Item{
		{Title: "<b>Neu</b>", SourceLabel: "", URL: "https://example.org/a/neu"},
		{Title: "", SourceLabel: "Bundestag", URL: "https://example.org/a/alt"},
	}, "https://example.org/api/newsletter/unsubscribe?email=a%40b.de&token=t")
	require.NoError(t, err)

	assert.Contains(t, html, "Wissens-Bank Briefing (24h)")
	assert.Contains(t, html, "&lt;b&gt;Neu&lt;/b&gt;")
	assert.Contains(t, html, "(Quelle)")
	assert.Contains(t, html, "(Bundestag)")
	assert.Contains(t, html, untitled)
	assert.Less(t, strings.Index(html, "/a/neu"), strings.Index(html, "/a/alt"))
	assert.Contains(t, html, `href="https://example.org/api/newsletter/unsubscribe?email=a%40b.de&amp;token=t"`)
	assert.NotContains(t, html, "<p>—</p>")
}

func TestBriefing_Empty(t *testing.T) {
	html, err := Briefing("Wissens-Bank", nil, "https://example.org/u")
	require.NoError(t, err)
	assert.Contains(t, html, "<p>—</p>")
	assert.NotContains(t, html, "<li>")
}
