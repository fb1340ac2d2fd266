package dmi

// This file contains code dealing with the PNG chunk stream, which
// image/png does not expose.

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/pkg/errors"
)

const pngSignature = "\x89PNG\r\n\x1a\n"

// descriptionKeyword is the text chunk keyword under which BYOND stores the
// icon description.
const descriptionKeyword = "Description"

type chunkHeader struct {
	Length uint32
	Type   [4]byte
}

// maxChunkLength is the largest chunk length allowed by the PNG format.
const maxChunkLength = 1<<31 - 1

// findDescription walks the chunks of an in-memory PNG file and returns the
// text of the first zTXt or tEXt chunk with the Description keyword.
func findDescription(r *bytes.Reader) (string, error) {
	sig := make([]byte, len(pngSignature))
	if _, err := io.ReadFull(r, sig); err != nil {
		return "", errors.Wrap(err, "could not read png signature")
	}
	if string(sig) != pngSignature {
		return "", errors.New("not a png file")
	}

	for {
		var h chunkHeader
		if err := binary.Read(r, binary.BigEndian, &h); err != nil {
			return "", errors.Wrap(err, "could not read chunk header")
		}
		if h.Length > maxChunkLength {
			return "", errors.Errorf("chunk %q too large: %d bytes", h.Type[:], h.Length)
		}
		// The chunk data and its 4 byte crc must fit in what is left.
		if int64(h.Length)+4 > int64(r.Len()) {
			return "", errors.Errorf("chunk %q claims %d bytes, only %d bytes left", h.Type[:], h.Length, r.Len())
		}
		data := make([]byte, h.Length)
		if _, err := io.ReadFull(r, data); err != nil {
			return "", errors.Wrapf(err, "could not read chunk %q", h.Type[:])
		}
		var crc uint32
		if err := binary.Read(r, binary.BigEndian, &crc); err != nil {
			return "", errors.Wrapf(err, "could not read crc of chunk %q", h.Type[:])
		}
		sum := crc32.NewIEEE()
		sum.Write(h.Type[:])
		sum.Write(data)
		if sum.Sum32() != crc {
			return "", errors.Errorf("chunk %q has a bad crc: got %08x, want %08x", h.Type[:], crc, sum.Sum32())
		}

		switch string(h.Type[:]) {
		case "zTXt":
			keyword, rest := splitKeyword(data)
			if keyword != descriptionKeyword {
				continue
			}
			// rest[0] is the compression method; 0 (deflate) is the only one
			// defined.
			if len(rest) < 1 || rest[0] != 0 {
				return "", errors.New("description uses an unknown compression method")
			}
			zr, err := zlib.NewReader(bytes.NewReader(rest[1:]))
			if err != nil {
				return "", errors.Wrap(err, "could not decompress description")
			}
			text, err := io.ReadAll(zr)
			if err != nil {
				return "", errors.Wrap(err, "could not decompress description")
			}
			return string(text), nil
		case "tEXt":
			keyword, rest := splitKeyword(data)
			if keyword == descriptionKeyword {
				return string(rest), nil
			}
		case "IEND":
			return "", errors.New("no description chunk")
		}
	}
}

// splitKeyword splits a text chunk into its null-terminated keyword and the
// rest of the data.
func splitKeyword(data []byte) (string, []byte) {
	i := bytes.IndexByte(data, 0)
	if i < 0 {
		return "", nil
	}
	return string(data[:i]), data[i+1:]
}
