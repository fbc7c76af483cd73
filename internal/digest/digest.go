// Package digest renders notification mails. Rendering is pure: no I/O, and
// every content-derived field is escaped by html/template.
package digest

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// PublishedLayout matches the German short date-time the site shows.
const PublishedLayout = "02.01.2006, 15:04:05"

const untitled = "Untitled"

// Item is one matched document in a digest.
type Item struct {
	Title          string
	SourceLabel    string
	PublishedLabel string
	URL            string
}

const baseStyle = `font-family:system-ui,Segoe UI,Roboto,Arial,sans-serif;line-height:1.5`

var digestTmpl = template.Must(template.New("digest").Parse(`<div style="` + baseStyle + `">
<h2>{{.Title}}</h2>
<p>Neue Treffer seit dem letzten Check:</p>
<ol>{{range .Items}}
<li style="margin:0 0 10px 0">
<div style="font-weight:700">{{.Title}}</div>
<div style="color:#666;font-size:12px">{{.SourceLabel}} · {{.PublishedLabel}}</div>
<div><a href="{{.URL}}">{{.URL}}</a></div>
</li>{{end}}
</ol>
<hr>
<p style="color:#666;font-size:12px">Alert verwalten: <a href="{{.ManageURL}}">unsubscribe</a></p>
</div>`))

var briefingTmpl = template.Must(template.New("briefing").Parse(`<div style="` + baseStyle + `">
<h2>{{.SiteName}} Briefing (24h)</h2>
<p style="color:#666">Kurz, faktisch, klickbar.</p>
<h3>Neue Einträge</h3>
{{if .Items}}<ul>{{range .Items}}
<li><a href="{{.URL}}">{{.Title}}</a> <span style="color:#666">({{.SourceLabel}})</span></li>{{end}}
</ul>{{else}}<p>—</p>{{end}}
<hr>
<p style="color:#666;font-size:12px">Abmelden: <a href="{{.UnsubscribeURL}}">unsubscribe</a></p>
</div>`))

var confirmTmpl = template.Must(template.New("confirm").Parse(`<div style="` + baseStyle + `">
<h2>{{.Heading}}</h2>
<p>{{.Intro}}</p>
{{if .Label}}<p>{{.Label}}: <strong>{{.Subject}}</strong></p>{{end}}
<p><a href="{{.ConfirmURL}}" style="display:inline-block;padding:10px 14px;background:#111;color:#fff;text-decoration:none;border-radius:8px">{{.Action}}</a></p>
<p style="color:#666">Wenn du das nicht warst, ignoriere diese Mail.</p>
<hr>
<p style="color:#666;font-size:12px">Abmelden: <a href="{{.UnsubscribeURL}}">{{.UnsubscribeText}}</a></p>
</div>`))

// Compose renders the digest for one alert firing. Items keep the order given.
func Compose(title string, items []Item, manageURL string) (string, error) {
	rows := make([]Item, len(items))
	for i, it := range items {
		if it.Title == "" {
			it.Title = untitled
		}
		rows[i] = it
	}

	var buf bytes.Buffer
	err := digestTmpl.Execute(&buf, struct {
		Title     string
		Items     []Item
		ManageURL string
	}{title, rows, manageURL})
	if err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}
	return buf.String(), nil
}

// Briefing renders the daily newsletter. An empty item list still renders,
// with a placeholder instead of the list.
func Briefing(siteName string, items []Item, unsubscribeURL string) (string, error) {
	rows := make([]Item, len(items))
	for i, it := range items {
		if it.Title == "" {
			it.Title = untitled
		}
		if it.SourceLabel == "" {
			it.SourceLabel = "Quelle"
		}
		rows[i] = it
	}

	var buf bytes.Buffer
	err := briefingTmpl.Execute(&buf, struct {
		SiteName       string
		Items          []Item
		UnsubscribeURL string
	}{siteName, rows, unsubscribeURL})
	if err != nil {
		return "", fmt.Errorf("render briefing: %w", err)
	}
	return buf.String(), nil
}

// AlertConfirmation renders the double opt-in mail for a new alert.
// label is "Name" or "Suche"; subject is the slug or query.
func AlertConfirmation(label, subject, confirmURL, unsubscribeURL string) (string, error) {
	return renderConfirm(confirmData{
		Heading:         "Bestätige deinen Alert",
		Intro:           "Du hast einen Alert angelegt. Bitte kurz bestätigen:",
		Label:           label,
		Subject:         subject,
		Action:          "✅ Alert aktivieren",
		ConfirmURL:      confirmURL,
		UnsubscribeURL:  unsubscribeURL,
		UnsubscribeText: "Alert löschen",
	})
}

// NewsletterConfirmation renders the double opt-in mail for the briefing.
func NewsletterConfirmation(siteName, confirmURL, unsubscribeURL string) (string, error) {
	return renderConfirm(confirmData{
		Heading:         "Bitte bestätige dein " + siteName + " Briefing",
		Intro:           "Ein Klick genügt, dann bekommst du das tägliche Briefing.",
		Action:          "✅ Briefing aktivieren",
		ConfirmURL:      confirmURL,
		UnsubscribeURL:  unsubscribeURL,
		UnsubscribeText: "Abmelden",
	})
}

type confirmData struct {
	Heading         string
	Intro           string
	Label           string
	Subject         string
	Action          string
	ConfirmURL      string
	UnsubscribeURL  string
	UnsubscribeText string
}

func renderConfirm(data confirmData) (string, error) {
	var buf bytes.Buffer
	if err := confirmTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render confirmation: %w", err)
	}
	return buf.String(), nil
}

// FormatPublished returns the digest label for a publication time, or ""
// when unknown. Times are shown in UTC.
func FormatPublished(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(PublishedLayout)
}
