//go:build windows

package imageprint

import (
	"fmt"
	"image"
	"io"
	"os"
)

func isTermItermWez() bool {
	return os.Getenv("TERM_PROGRAM") == "iTerm.app"
}

// PrintRasTerm is not supported on windows; it prints a note instead.
func PrintRasTerm(w io.Writer, i image.Image) error {
	_, err := fmt.Fprintf(w, "rasterm not supported on windows (%v image)\n", i.Bounds().Size())
	return err
}
