package web

import (
	"bytes"
	"html/template"
	"image/png"
	"net/http"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/vincent-petithory/dataurl"

	"badc0de.net/pkg/go-rsi/rsi"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html><head><title>rsi</title></head>
<body>
<h1>Packages</h1>
<ul>
{{range .}}<li><a href="/rsi/{{.}}/">{{.}}</a></li>
{{else}}<li>No packages.</li>
{{end}}</ul>
</body></html>
`))

var packageTemplate = template.Must(template.New("package").Parse(`<!DOCTYPE html>
<html><head><title>{{.Name}}</title></head>
<body>
<h1>{{.Name}}</h1>
<p>{{.Width}}x{{.Height}}{{if .License}}, {{.License}}{{end}}{{if .Copyright}}, {{.Copyright}}{{end}}</p>
<p><a href="/rsi/{{.Name}}/meta.json">meta.json</a></p>
<table>
{{range .States}}<tr>
<td>{{if .Thumbnail}}<img src="{{.Thumbnail}}" alt="{{.Name}}">{{end}}</td>
<td><a href="/rsi/{{$.Name}}/{{.Name}}.png">{{.Name}}</a></td>
<td>{{.Directions}} directions, {{.Frames}} frames</td>
<td>{{range .Dirs}}<a href="/rsi/{{$.Name}}/{{.State}}/{{.Index}}.gif">{{.Label}}</a> {{end}}</td>
</tr>
{{end}}</table>
</body></html>
`))

type stateLink struct {
	State string
	Index int
	Label string
}

type stateRow struct {
	Name       string
	Thumbnail  template.URL
	Directions int
	Frames     int
	Dirs       []stateLink
}

type packagePage struct {
	Name      string
	Width     int
	Height    int
	License   string
	Copyright string
	States    []stateRow
}

// thumbnail returns the first frame of s as a data URL.
func thumbnail(s *rsi.State) (template.URL, error) {
	if len(s.Frames) == 0 || len(s.Frames[0]) == 0 {
		return "", nil
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, s.Frames[0][0].Image); err != nil {
		return "", err
	}
	byt, err := dataurl.New(buf.Bytes(), "image/png").MarshalText()
	if err != nil {
		return "", errors.Wrap(err, "failed to encode data url")
	}
	return template.URL(byt), nil
}

func (h *Handler) indexHandler(w http.ResponseWriter, r *http.Request) {
	names, err := h.Packages()
	if err != nil {
		glog.Errorf("web: %v", err)
		http.Error(w, "packages could not be listed", http.StatusInternalServerError)
		return
	}
	buf := &bytes.Buffer{}
	if err := indexTemplate.Execute(buf, names); err != nil {
		glog.Errorf("web: rendering index: %v", err)
		http.Error(w, "page could not be rendered", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) packageHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["pkg"]
	l := h.loadOrFail(w, name)
	if l == nil {
		return
	}

	size := l.r.Size()
	page := packagePage{
		Name:      name,
		Width:     size.X,
		Height:    size.Y,
		License:   l.r.License,
		Copyright: l.r.Copyright,
	}
	for _, s := range l.r.States() {
		thumb, err := thumbnail(s)
		if err != nil {
			glog.Warningf("web: thumbnail of %s/%s: %v", name, s.FullName(), err)
		}
		row := stateRow{
			Name:       s.FullName(),
			Thumbnail:  thumb,
			Directions: s.Directions,
			Frames:     s.FrameCount(),
		}
		for d := 0; d < s.Directions; d++ {
			row.Dirs = append(row.Dirs, stateLink{State: row.Name, Index: d, Label: rsi.Direction(d).String()})
		}
		page.States = append(page.States, row)
	}

	buf := &bytes.Buffer{}
	if err := packageTemplate.Execute(buf, page); err != nil {
		glog.Errorf("web: rendering %s: %v", name, err)
		http.Error(w, "page could not be rendered", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
