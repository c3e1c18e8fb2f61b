package httpapi

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type indexData struct {
	Ready  bool
	Labels []string
}

// indexHandler serves the upload page.
func indexHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := indexTmpl.Execute(&buf, indexData{Ready: svc.Ready(), Labels: svc.Labels()}); err != nil {
			zlog.Error().Err(err).Msg("render index")
			writeJSONError(w, http.StatusInternalServerError, "failed to render page")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	}
}
