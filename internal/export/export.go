// Package export turns a stored resume into a printable PDF. The pipeline
// has three stages: a schema-guided completion transforms the raw fields
// into a structured document, a second completion renders the document as
// standalone HTML, and a headless browser prints the HTML to PDF.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/resume-assistant/internal/llm"
	"github.com/jonathan/resume-assistant/internal/prompts"
	"github.com/jonathan/resume-assistant/internal/schemas"
)

// Source holds the raw resume fields fed into the transform stage.
type Source struct {
	Name       string
	Email      string
	Phone      string
	Experience string
	Education  string
	Skills     []string
}

// Basics is the contact block of a structured document.
type Basics struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Summary string `json:"summary"`
}

// Work is one employment entry.
type Work struct {
	Company    string   `json:"company"`
	Position   string   `json:"position"`
	StartDate  string   `json:"startDate"`
	EndDate    string   `json:"endDate"`
	Highlights []string `json:"highlights"`
}

// Education is one education entry.
type Education struct {
	Institution string `json:"institution"`
	Area        string `json:"area"`
	StudyType   string `json:"studyType"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

// Document is the structured resume produced by the transform stage. Its
// shape mirrors the embedded JSON Resume schema.
type Document struct {
	Basics    Basics      `json:"basics"`
	Work      []Work      `json:"work"`
	Education []Education `json:"education"`
	Skills    []string    `json:"skills"`
}

// Printer renders a standalone HTML page to a PDF file.
type Printer interface {
	Print(ctx context.Context, html string, outputPath string) error
}

// Exporter drives the transform, render and print stages.
type Exporter struct {
	client  llm.Client
	printer Printer
}

// NewExporter creates an exporter over the given completion client and
// printer.
func NewExporter(client llm.Client, printer Printer) *Exporter {
	return &Exporter{client: client, printer: printer}
}

// Transform converts raw resume fields into a structured document. The
// completion is schema-guided; its content is a JSON document that is
// decoded and validated against the schema before use, so a malformed
// model response can never reach the render stage.
func (e *Exporter) Transform(ctx context.Context, src Source) (*Document, error) {
	user := prompts.Format(prompts.MustGet("export.json", "transform-user"), map[string]string{
		"Name":       src.Name,
		"Email":      src.Email,
		"Phone":      src.Phone,
		"Experience": src.Experience,
		"Education":  src.Education,
		"Skills":     strings.Join(src.Skills, ", "),
	})
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: prompts.MustGet("export.json", "transform-system")},
		{Role: llm.RoleUser, Content: user},
	}

	content, err := e.client.ChatJSON(ctx, messages, llm.Schema{
		Name:   schemas.JSONResumeName,
		Schema: schemas.JSONResume(),
	})
	if err != nil {
		return nil, &TransformError{Message: "completion request failed", Cause: err}
	}

	// The completion body and the document are separate JSON layers; the
	// document is decoded in its own step so a parse failure names the
	// right layer.
	var doc Document
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, &TransformError{Message: "failed to parse structured document", Cause: err}
	}
	if err := schemas.ValidateJSONResume(content); err != nil {
		return nil, &TransformError{Message: "structured document failed schema validation", Cause: err}
	}
	return &doc, nil
}

// Render produces a standalone HTML rendering of the document.
func (e *Exporter) Render(ctx context.Context, doc *Document) (string, error) {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return "", &RenderError{Message: "failed to encode document", Cause: err}
	}

	user := prompts.Format(prompts.MustGet("export.json", "render-user"), map[string]string{
		"DocumentJSON": string(docJSON),
	})
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: prompts.MustGet("export.json", "render-system")},
		{Role: llm.RoleUser, Content: user},
	}

	content, err := e.client.Chat(ctx, messages)
	if err != nil {
		return "", &RenderError{Message: "completion request failed", Cause: err}
	}

	html := stripCodeFence(content)
	if err := checkRendered(html); err != nil {
		return "", err
	}
	return html, nil
}

// Export runs the full pipeline and writes the PDF to outputPath.
func (e *Exporter) Export(ctx context.Context, src Source, outputPath string) (*Document, error) {
	doc, err := e.Transform(ctx, src)
	if err != nil {
		return nil, err
	}

	html, err := e.Render(ctx, doc)
	if err != nil {
		return nil, err
	}

	page := PrintDocument(html)
	if err := e.printer.Print(ctx, page, outputPath); err != nil {
		return nil, &PrintError{Message: fmt.Sprintf("failed to print %s", outputPath), Cause: err}
	}
	return doc, nil
}

// checkRendered parses the HTML and rejects renderings with no visible
// body content.
func checkRendered(html string) error {
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return &RenderError{Message: "rendered output is not parseable HTML", Cause: err}
	}
	if strings.TrimSpace(parsed.Find("body").Text()) == "" {
		return &RenderError{Message: "rendered document has no visible content"}
	}
	return nil
}

// stripCodeFence removes a surrounding markdown code fence, if present.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	for _, prefix := range []string{"```html", "```"} {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			text = strings.TrimSuffix(strings.TrimSpace(text), "```")
			return strings.TrimSpace(text)
		}
	}
	return text
}

// printCSS pins the page geometry and print color handling; everything
// else comes inline from the rendered HTML.
const printCSS = `@page { size: A4; margin: 20mm; }
body { -webkit-print-color-adjust: exact; print-color-adjust: exact; margin: 0; }
.skill-tag { display: inline-block; background: #e8f0fe; color: #1a56db; padding: 2px 10px; margin: 2px; border-radius: 12px; font-size: 12px; }`

// PrintDocument wraps rendered body HTML in a standalone page carrying the
// print stylesheet.
func PrintDocument(html string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>%s</style>
</head>
<body>
%s
</body>
</html>`, printCSS, html)
}
