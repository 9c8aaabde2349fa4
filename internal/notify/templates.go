package notify

import (
	"bytes"
	"html/template"

	"github.com/Digital-Shane/trailer-tidy/internal/provider"
)

var (
	foundTemplate = template.Must(template.New("found").Parse(
		`Hello,<br><br><b>TRAILER for {{.SearchText}}</b><br><br>` +
			`Here is your trailer: <a href="{{.URL}}">{{.Title}}</a><br><br>` +
			`Yours sincerely<br>{{.Signature}}`))

	notFoundTemplate = template.Must(template.New("not_found").Parse(
		`Hello,<br><br>Unfortunately, the trailer for <b>{{.SearchText}}</b> was not found.<br><br>` +
			`Yours sincerely<br>{{.Signature}}`))
)

type bodyData struct {
	SearchText string
	Title      string
	URL        string
	Signature  string
}

// Subject returns the email subject for a search.
func Subject(searchText string) string {
	return searchText + " Trailer"
}

// RenderBody renders the HTML body. A nil trailer renders the not-found body.
func RenderBody(searchText string, trailer *provider.TrailerRecord, signature string) (string, error) {
	data := bodyData{SearchText: searchText, Signature: signature}
	tmpl := notFoundTemplate
	if trailer != nil {
		data.Title = trailer.Title
		data.URL = trailer.URL
		tmpl = foundTemplate
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
