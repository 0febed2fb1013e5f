package dashboard

import (
	"embed"
	"html/template"
	"io"

	"github.com/bighogz/gainplot/internal/render"
)

//go:embed templates/index.html
var templateFS embed.FS

var page = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	View
	Title    string
	ImageURL string
	Help     []HelpSection
}

// WriteHTML renders the form page for v.
func WriteHTML(w io.Writer, v View) error {
	data := pageData{View: v, Title: "Graph Tool", Help: Help}
	if v.OK() {
		data.ImageURL = v.ChartURL(render.PNG)
	}
	return page.Execute(w, data)
}
