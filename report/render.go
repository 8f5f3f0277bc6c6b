package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var reportTemplate = template.Must(
	template.New("report.html.tmpl").
		Option("missingkey=error").
		ParseFS(templateFS, "templates/report.html.tmpl"),
)

// Render validates doc and writes it as HTML to w.
func Render(w io.Writer, doc Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := reportTemplate.Execute(w, doc); err != nil {
		return fmt.Errorf("execute report template: %w", err)
	}
	return nil
}

// RenderBytes is Render into a new buffer.
func RenderBytes(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
