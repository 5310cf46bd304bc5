// Package renderer formats declarations as markdown reports and CSV details.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/rsutax"
)

//go:embed templates/*.md
var templatesFS embed.FS

var templates, _ = fs.Sub(templatesFS, "templates")

// declarationPartials are the sections shared by the declaration reports.
var declarationPartials = map[string]string{
	"declaration_title":        "declaration_title.md",
	"declaration_instructions": "declaration_instructions.md",
	"declaration_estimate":     "declaration_estimate.md",
	"declaration_lines":        "declaration_lines.md",
}

// RenderDeclaration renders the full declaration: instructions, estimate and lines.
func RenderDeclaration(d *rsutax.Declaration) string {
	return renderTemplate("declaration", "declaration.md", declarationPartials, d)
}

// RenderInstructions renders what to write in each form box.
func RenderInstructions(d *rsutax.Declaration) string {
	return renderTemplate("instructions", "instructions.md", declarationPartials, d)
}

// RenderEstimate renders the tax estimate.
func RenderEstimate(d *rsutax.Declaration) string {
	return renderTemplate("estimate", "estimate.md", declarationPartials, d)
}

// RenderRegime renders the constants of a fiscal year.
func RenderRegime(r rsutax.Regime) string {
	return renderTemplate("regime", "regime.md", nil, r)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
