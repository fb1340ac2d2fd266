// Package paths finds and opens the files the tools work on, whether they
// live on the local filesystem or behind an http(s) URL.
package paths

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// ReadSeekCloser is what Open returns.
type ReadSeekCloser interface {
	io.ReadCloser
	io.Seeker
}

// getPossiblePaths lists the places Find looks at, in order: the working
// directory, the user's configuration directory and the directory of the
// running binary.
func getPossiblePaths(fileName string) []string {
	paths := []string{fileName}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "go-rsi", fileName))
	}
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), fileName))
	}
	return paths
}

// Find locates the passed file shortname and returns an absolute or relative
// path to find it at, or an empty string.
//
// For example, for "rsi.yaml" it may return "/home/me/.config/go-rsi/rsi.yaml".
func Find(fileName string) string {
	for _, path := range getPossiblePaths(fileName) {
		if f, err := os.Open(path); err == nil {
			f.Close()
			glog.V(1).Infof("paths.Find(%q)=%s", fileName, path)
			return path
		}
	}
	return ""
}

// IsRemote reports whether location is an http or https URL.
func IsRemote(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Open opens a local file or fetches an http(s) URL. Remote files are read
// fully into memory and cached for the lifetime of the process.
//
// ctx bounds the fetch of a remote file; it is not used for local files.
func Open(ctx context.Context, location string) (ReadSeekCloser, error) {
	if IsRemote(location) {
		return openHTTP(ctx, location)
	}
	f, err := os.Open(location)
	if err != nil {
		return nil, errors.Wrapf(err, "paths.Open(%q)", location)
	}
	return f, nil
}
