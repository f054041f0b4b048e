// Package web embeds the HTML served by the photo controller.
package web

import (
	"embed"
	"html/template"

	"photos/models"
)

//go:embed templates/*.html
var templates embed.FS

// IndexTemplate is the name of the listing page template.
const IndexTemplate = "index.html"

// IndexPage is the data rendered by IndexTemplate.
type IndexPage struct {
	Photos []models.Photo
}

// Templates parses the embedded templates.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templates, "templates/*.html"))
}
