package printing

import (
	"bytes"
	"html/template"
)

const documentTemplate = `<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="UTF-8">
<title>{{.Doc.Title}}</title>
<style>
  body { font-family: {{.Font}}, Arial, sans-serif; font-size: 11pt; color: #222; margin: 0; }
  h1 { font-size: 20pt; margin: 0 0 12pt 0; color: {{.Accent}}; }
  .fields { margin: 0 0 12pt 0; border-collapse: collapse; }
  .fields td { padding: 2pt 12pt 2pt 0; vertical-align: top; }
  .fields td.label { color: #666; }
  table.items { width: 100%; border-collapse: collapse; margin: 12pt 0; }
  table.items th { text-align: left; border-bottom: 2px solid {{.Accent}}; padding: 4pt; }
  table.items td { border-bottom: 1px solid #ddd; padding: 4pt; }
  table.items .num { text-align: right; }
  .totals { margin-left: auto; border-collapse: collapse; }
  .totals td { padding: 2pt 0 2pt 24pt; text-align: right; }
  .totals tr:last-child td { font-weight: bold; border-top: 1px solid #222; }
  p { white-space: pre-wrap; }
  .logo { max-height: 60px; margin-bottom: 12pt; }
  .watermark { position: fixed; top: 40%; left: 0; width: 100%; text-align: center;
    font-size: 96pt; color: rgba(200, 0, 0, 0.12); transform: rotate(-30deg); }
</style>
</head>
<body>
{{- if .Doc.Watermark}}<div class="watermark">{{.Doc.Watermark}}</div>{{end}}
{{- if .Doc.LogoURL}}<img class="logo" src="{{.Doc.LogoURL}}" alt="">{{end}}
{{- range .Doc.Blocks}}
{{- if eq .Kind "heading"}}
<h1>{{.Text}}</h1>
{{- else if eq .Kind "paragraph"}}
<p>{{.Text}}</p>
{{- else if eq .Kind "fields"}}
<table class="fields">
{{- range .Fields}}<tr><td class="label">{{.Label}}</td><td>{{.Value}}</td></tr>{{end}}
</table>
{{- else if eq .Kind "totals"}}
<table class="totals">
{{- range .Fields}}<tr><td>{{.Label}}</td><td>{{.Value}}</td></tr>{{end}}
</table>
{{- else if eq .Kind "table"}}
<table class="items">
<thead><tr>{{range .Table.Columns}}<th{{if .Numeric}} class="num"{{end}}>{{.Label}}</th>{{end}}</tr></thead>
<tbody>
{{- $cols := .Table.Columns}}
{{- range .Table.Rows}}<tr>{{range $i, $cell := .}}<td{{if numeric $cols $i}} class="num"{{end}}>{{$cell}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
{{- end}}
{{- end}}
</body>
</html>`

var htmlTemplate = template.Must(template.New("document").Funcs(template.FuncMap{
	"numeric": func(cols []Column, i int) bool {
		return i < len(cols) && cols[i].Numeric
	},
}).Parse(documentTemplate))

const defaultAccent = "#1e88e5"

type templateData struct {
	Doc    *Document
	Lang   string
	Font   template.CSS
	Accent template.CSS
}

// BuildHTML renders doc with the fixed stylesheet and the given font family
func BuildHTML(doc *Document, font string) (string, error) {
	accent := doc.Accent
	if !isCSSColor(accent) {
		accent = defaultAccent
	}
	if !isFontName(font) {
		font = "Helvetica"
	}

	var buf bytes.Buffer
	err := htmlTemplate.Execute(&buf, templateData{
		Doc:    doc,
		Lang:   doc.Language.String(),
		Font:   template.CSS(font),
		Accent: template.CSS(accent),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// isCSSColor accepts #rgb and #rrggbb only; anything else could break out of the style block
func isCSSColor(s string) bool {
	if len(s) != 4 && len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}

func isFontName(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == ' ' || c == '-') {
			return false
		}
	}
	return true
}
