package digest

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"

	"github.com/faizmokh/pacli/internal/events"
)

const disclaimer = "Events may not be 100% accurate."

var funcs = map[string]any{
	"hasInfo": func(e events.Event) bool {
		return e.ExtraInfo != "" && e.ExtraInfo != events.DefaultExtraInfo
	},
}

var htmlTmpl = htmltemplate.Must(htmltemplate.New("digest").Funcs(funcs).Parse(`
{{- range .Sections -}}
<h2 style="color:#222;">{{ .Title }}</h2>
<div style="font-family:Segoe UI,Roboto,Arial,sans-serif;padding:24px;">
{{- if not .Events }}
<p>No events scheduled.</p>
{{- else }}
<ul style="font-size:1.1em;padding-left:18px;">
{{- range .Events }}
<li style="margin-bottom:16px;"><strong>{{ .Name }}</strong> <span style="color:#555;"><b>(Date: {{ .Date }}{{ with .Day }} - {{ . }}{{ end }})</b></span>
{{- with .Time }} <span style="color:#3182ce;">at {{ . }}</span>{{ end }}
{{- if hasInfo . }} <span style="color:#555;font-style:italic;">{{ .ExtraInfo }}</span>{{ end -}}
</li>
{{- end }}
</ul>
{{- end }}
</div>
{{ end -}}
<div style="font-size:0.85em;color:#888;margin-top:24px;text-align:center;">` + disclaimer + `</div>
`))

var textTmpl = template.Must(template.New("digest").Funcs(funcs).Parse(`
{{- range .Sections -}}
{{ .Title }}
{{- if not .Events }}
  No events scheduled.
{{- else }}
{{- range .Events }}
  - {{ .Name }} ({{ .Date }}{{ with .Day }} - {{ . }}{{ end }}){{ with .Time }} at {{ . }}{{ end }}{{ if hasInfo . }}: {{ .ExtraInfo }}{{ end }}
{{- end }}
{{- end }}

{{ end -}}
` + disclaimer + `
`))

// HTML renders d as an HTML email body.
func HTML(d Digest) (string, error) {
	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("render html digest: %w", err)
	}
	return buf.String(), nil
}

// Text renders d as a plain-text email body.
func Text(d Digest) (string, error) {
	var buf bytes.Buffer
	if err := textTmpl.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("render text digest: %w", err)
	}
	return strings.TrimLeft(buf.String(), "\n"), nil
}
