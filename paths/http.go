package paths

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/net/context/ctxhttp"
)

// Client is used for remote files.
var Client = http.DefaultClient

var (
	cache     map[string][]byte
	cacheLock sync.Mutex
)

// ClearCache forgets every remote file fetched so far.
func ClearCache() {
	cacheLock.Lock()
	defer cacheLock.Unlock()
	cache = nil
}

func openHTTP(ctx context.Context, location string) (ReadSeekCloser, error) {
	cacheLock.Lock()
	defer cacheLock.Unlock()

	if cache == nil {
		cache = make(map[string][]byte)
	}
	if buf, ok := cache[location]; ok {
		glog.V(2).Infof("paths: %s served from cache", location)
		return &bytesReaderWithDummyClose{bytes.NewReader(buf)}, nil
	}

	glog.V(1).Infof("paths: fetching %s", location)
	response, err := ctxhttp.Get(ctx, Client, location)
	if err != nil {
		return nil, errors.Wrapf(err, "paths.Open(%q): failed to fetch", location)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		e := os.ErrInvalid
		if response.StatusCode == http.StatusNotFound {
			e = os.ErrNotExist
		}
		return nil, errors.Wrapf(e, "paths.Open(%q): http response.StatusCode=%v, want 200", location, response.StatusCode)
	}

	buf := &bytes.Buffer{}
	if _, err := io.Copy(buf, response.Body); err != nil {
		return nil, errors.Wrap(err, "copying response to seekable buffer")
	}
	cache[location] = buf.Bytes()
	return &bytesReaderWithDummyClose{bytes.NewReader(buf.Bytes())}, nil
}

type bytesReaderWithDummyClose struct {
	*bytes.Reader
}

func (bytesReaderWithDummyClose) Close() error {
	return nil
}
