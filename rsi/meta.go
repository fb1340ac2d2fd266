package rsi

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// MetaFileName is the name of the metadata document inside a package
// directory.
const MetaFileName = "meta.json"

// SheetExtension is appended to a state's canonical name to form its sheet
// file name.
const SheetExtension = ".png"

// SheetFileName returns the file name of a state's sprite sheet.
func SheetFileName(fullName string) string {
	return fullName + SheetExtension
}

type metaSize struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// metaDocument is meta.json as written. Field order is the key order in the
// output.
type metaDocument struct {
	Version   int         `json:"version"`
	Size      metaSize    `json:"size"`
	License   string      `json:"license,omitempty"`
	Copyright string      `json:"copyright,omitempty"`
	States    []metaState `json:"states"`
}

type metaState struct {
	Name       string                 `json:"name"`
	Flags      map[string]interface{} `json:"flags,omitempty"`
	Directions int                    `json:"directions"`
	Delays     [][]float64            `json:"delays"`
}

// incomingMeta is meta.json as read; pointers tell missing fields apart from
// zero values.
type incomingMeta struct {
	Version *int `json:"version"`
	Size    *struct {
		X *int `json:"x"`
		Y *int `json:"y"`
	} `json:"size"`
	License   *string         `json:"license"`
	Copyright *string         `json:"copyright"`
	States    []incomingState `json:"states"`
}

type incomingState struct {
	Name       *string                `json:"name"`
	Flags      map[string]interface{} `json:"flags"`
	Directions *int                   `json:"directions"`
	Delays     [][]float64            `json:"delays"`
}

func marshalMeta(doc *metaDocument, indent int) ([]byte, error) {
	if indent > 0 {
		return json.MarshalIndent(doc, "", strings.Repeat(" ", indent))
	}
	return json.Marshal(doc)
}

func unmarshalMeta(r io.Reader) (*incomingMeta, error) {
	buf := &bytes.Buffer{}
	if _, err := io.Copy(buf, r); err != nil {
		return nil, errors.Wrap(err, "rsi: reading metadata")
	}
	dec := json.NewDecoder(buf)
	// Keep flag values verbatim instead of turning every number into float64.
	dec.UseNumber()
	var meta incomingMeta
	if err := dec.Decode(&meta); err != nil {
		return nil, formatErrorf("", "metadata is not valid JSON: %v", err)
	}
	if meta.Size == nil || meta.Size.X == nil || meta.Size.Y == nil {
		return nil, formatErrorf("", "metadata is missing size")
	}
	if *meta.Size.X <= 0 || *meta.Size.Y <= 0 {
		return nil, formatErrorf("", "size must be positive, got %dx%d", *meta.Size.X, *meta.Size.Y)
	}
	if meta.Version != nil && *meta.Version > LatestCompatibleVersion {
		return nil, formatErrorf("", "version %d is newer than supported version %d", *meta.Version, LatestCompatibleVersion)
	}
	if meta.States == nil {
		return nil, formatErrorf("", "metadata is missing states")
	}
	return &meta, nil
}
