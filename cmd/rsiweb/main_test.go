package main

import (
	"image"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"badc0de.net/pkg/go-rsi/config"
	"badc0de.net/pkg/go-rsi/rsi"
	"badc0de.net/pkg/go-rsi/ttesting"
)

func TestRouter(t *testing.T) {
	root := t.TempDir()
	r := rsi.New(image.Pt(2, 2))
	s := r.NewState(1, "idle")
	if err := s.AddFrame(rsi.South, ttesting.Numbered(2, 2, 1), 1); err != nil {
		t.Fatal(err)
	}
	if err := r.Write(filepath.Join(root, "box.rsi"), nil); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Web.Root = root
	srv := httptest.NewServer(newRouter(cfg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/rsi/box/idle.png")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	ttesting.AssertEqualInt(t, "status", resp.StatusCode, http.StatusOK)
	ttesting.AssertEqualString(t, "content type", resp.Header.Get("Content-Type"), "image/png")

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	resp, err = http.DefaultTransport.RoundTrip(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	ttesting.AssertEqualString(t, "encoding", resp.Header.Get("Content-Encoding"), "gzip")
}

func TestDebugMux(t *testing.T) {
	rec := httptest.NewRecorder()
	debugMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/minimetrics", nil))
	ttesting.AssertEqualInt(t, "status", rec.Code, http.StatusOK)
	if !strings.HasPrefix(rec.Body.String(), "runtime.NumGoroutine(): ") {
		t.Errorf("unexpected body %q", rec.Body)
	}
}
