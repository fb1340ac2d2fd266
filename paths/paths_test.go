package paths

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-rsi/ttesting"
)

func TestIsRemote(t *testing.T) {
	tests := map[string]bool{
		"http://example.com/icon.dmi":  true,
		"https://example.com/icon.dmi": true,
		"HTTPS://example.com/icon.dmi": true,
		"icons/icon.dmi":               false,
		"/abs/icon.dmi":                false,
		"file:///abs/icon.dmi":         false,
		"http:icon.dmi":                false,
		"C:\\icons\\icon.dmi":          false,
	}
	for location, want := range tests {
		if got := IsRemote(location); got != want {
			t.Errorf("IsRemote(%q) = %v; want %v", location, got, want)
		}
	}
}

func TestOpenLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.dmi")
	if err := os.WriteFile(path, []byte("local"), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	b, _ := io.ReadAll(f)
	ttesting.AssertEqualString(t, "content", string(b), "local")

	if _, err := Open(context.Background(), path+".missing"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v; want os.ErrNotExist", err)
	}
}

func TestOpenRemote(t *testing.T) {
	ClearCache()
	defer ClearCache()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		switch r.URL.Path {
		case "/icon.dmi":
			fmt.Fprint(w, "remote icon")
		case "/broken.dmi":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	for i := 0; i < 2; i++ {
		f, err := Open(context.Background(), srv.URL+"/icon.dmi")
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		b, _ := io.ReadAll(f)
		ttesting.AssertEqualString(t, "content", string(b), "remote icon")
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			t.Errorf("Seek: %v", err)
		}
		f.Close()
	}
	ttesting.AssertEqualInt(t, "server hits", int(atomic.LoadInt32(&hits)), 1)

	if _, err := Open(context.Background(), srv.URL+"/missing.dmi"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("404: got %v; want os.ErrNotExist", err)
	}
	if _, err := Open(context.Background(), srv.URL+"/broken.dmi"); !errors.Is(err, os.ErrInvalid) {
		t.Errorf("500: got %v; want os.ErrInvalid", err)
	}
}

func TestOpenRemoteCancelled(t *testing.T) {
	ClearCache()
	defer ClearCache()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "late")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Open(ctx, srv.URL+"/icon.dmi"); err == nil {
		t.Errorf("Open with a cancelled context succeeded")
	}
}

func TestFind(t *testing.T) {
	// Tests run in the package directory.
	ttesting.AssertEqualString(t, "existing", Find("find.go"), "find.go")
	ttesting.AssertEqualString(t, "missing", Find("no-such-file.yaml"), "")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	var path string
	SetupFilePathFlag(fs, "find.go", "find_path", &path)
	ttesting.AssertEqualString(t, "flag default", path, "find.go")
}
