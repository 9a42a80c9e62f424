package rendering

import (
	"bytes"
	"html/template"

	"github.com/jonathan/cv-agent/internal/types"
)

var cvTemplate = template.Must(template.New("cv").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  @page { size: A4; margin: 18mm; }
  body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 10.5pt; color: {{.Color}}; line-height: 1.45; }
  h1 { font-size: 20pt; margin: 0; }
  h2 { font-size: 12pt; text-transform: uppercase; letter-spacing: 1px; border-bottom: 1px solid {{.Color}}; padding-bottom: 2px; margin: 14px 0 6px; }
  .headline { font-size: 11.5pt; margin: 2px 0 6px; }
  .contact { font-size: 9.5pt; color: #555; }
  .entry { margin-bottom: 8px; }
  .entry-head { display: flex; justify-content: space-between; font-weight: bold; }
  .dates { font-weight: normal; color: #555; white-space: nowrap; }
  .summary { margin: 2px 0; }
  ul { margin: 2px 0 0 18px; padding: 0; }
  li { margin-bottom: 1px; }
  .skills td { padding: 1px 10px 1px 0; vertical-align: top; }
  .skills .label { font-weight: bold; white-space: nowrap; }
</style>
</head>
<body>
<h1>{{.CV.Name}}</h1>
{{if .CV.Headline}}<div class="headline">{{.CV.Headline}}</div>{{end}}
<div class="contact">
  {{if .CV.Email}}{{.CV.Email}}{{end}}{{if .CV.Phone}} &middot; {{.CV.Phone}}{{end}}{{if .CV.Location}} &middot; {{.CV.Location}}{{end}}{{if .CV.Website}} &middot; {{.CV.Website}}{{end}}
  {{range .CV.SocialNetworks}} &middot; {{.Network}}: {{.Username}}{{end}}
</div>
{{if .CV.Summary}}
<h2>Summary</h2>
<p class="summary">{{.CV.Summary}}</p>
{{end}}
{{if .CV.Sections.Experience}}
<h2>Experience</h2>
{{range .CV.Sections.Experience}}
<div class="entry">
  <div class="entry-head"><span>{{.Position}} &mdash; {{.Company}}{{if .Location}}, {{.Location}}{{end}}</span><span class="dates">{{.StartDate}} &ndash; {{.EndDate}}</span></div>
  {{if .Summary}}<div class="summary">{{.Summary}}</div>{{end}}
  {{if .Highlights}}<ul>{{range .Highlights}}<li>{{.}}</li>{{end}}</ul>{{end}}
</div>
{{end}}
{{end}}
{{if .CV.Sections.Projects}}
<h2>Projects</h2>
{{range .CV.Sections.Projects}}
<div class="entry">
  <div class="entry-head"><span>{{.Name}}</span>{{if .StartDate}}<span class="dates">{{.StartDate}}{{if .EndDate}} &ndash; {{.EndDate}}{{end}}</span>{{end}}</div>
  {{if .Summary}}<div class="summary">{{.Summary}}</div>{{end}}
  {{if .Highlights}}<ul>{{range .Highlights}}<li>{{.}}</li>{{end}}</ul>{{end}}
</div>
{{end}}
{{end}}
{{if .CV.Sections.Education}}
<h2>Education</h2>
{{range .CV.Sections.Education}}
<div class="entry">
  <div class="entry-head"><span>{{.Degree}}{{if .Area}} in {{.Area}}{{end}} &mdash; {{.Institution}}</span><span class="dates">{{.StartDate}} &ndash; {{.EndDate}}</span></div>
  {{if .Highlights}}<ul>{{range .Highlights}}<li>{{.}}</li>{{end}}</ul>{{end}}
</div>
{{end}}
{{end}}
{{if .CV.Sections.Skills}}
<h2>Skills</h2>
<table class="skills">
{{range .CV.Sections.Skills}}<tr><td class="label">{{.Label}}</td><td>{{.Details}}</td></tr>
{{end}}</table>
{{end}}
</body>
</html>
`))

var letterTemplate = template.Must(template.New("letter").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  @page { size: A4; margin: 25mm; }
  body { font-family: Georgia, "Times New Roman", serif; font-size: 11pt; color: #1a1a1a; line-height: 1.6; }
  p { margin: 0 0 12px; white-space: pre-line; }
</style>
</head>
<body>
{{range .Paragraphs}}<p>{{.}}</p>
{{end}}</body>
</html>
`))

// defaultAccentColor is used when the CV template sets no color.
const defaultAccentColor = "#2c3e50"

// CVHTML renders the CV document as a print-ready HTML page. Design
// settings come from the user's CV template.
func CVHTML(cv *types.CVDocument, design map[string]string) (string, error) {
	color := design["color"]
	if color == "" {
		color = defaultAccentColor
	}

	var buf bytes.Buffer
	err := cvTemplate.Execute(&buf, struct {
		CV    *types.CVDocument
		Color string
	}{CV: cv, Color: color})
	if err != nil {
		return "", &TemplateError{Message: "failed to render CV", Cause: err}
	}
	return buf.String(), nil
}

// LetterHTML renders the cover letter as a print-ready HTML page.
func LetterHTML(letter *types.CoverLetter) (string, error) {
	var buf bytes.Buffer
	err := letterTemplate.Execute(&buf, struct {
		Paragraphs []string
	}{Paragraphs: letter.Paragraphs()})
	if err != nil {
		return "", &TemplateError{Message: "failed to render cover letter", Cause: err}
	}
	return buf.String(), nil
}
