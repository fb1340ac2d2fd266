// Package imageprint prints images on terminal.
//
// This package has an API with no stability guarantees.
package imageprint

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	ic "image/color"
	"image/png"
	"io"

	"github.com/gookit/color"
	"github.com/pkg/errors"
)

// Mode selects how pixels reach the terminal.
type Mode int

const (
	// Mode24bit changes the background colour with 24-bit escape sequences.
	Mode24bit Mode = iota
	// Mode256Color lets gookit/color pick the closest colour the terminal
	// supports.
	Mode256Color
	// ModeNoColor prints ascii art only.
	ModeNoColor
	// ModeITerm sends a PNG with iTerm2's inline image escape sequence.
	ModeITerm
	// ModeRasTerm sends a real image with kitty, iTerm or sixel graphics.
	ModeRasTerm
)

// ParseMode maps the names used on the command line to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "24bit", "":
		return Mode24bit, nil
	case "256":
		return Mode256Color, nil
	case "none":
		return ModeNoColor, nil
	case "iterm":
		return ModeITerm, nil
	case "rasterm":
		return ModeRasTerm, nil
	}
	return 0, errors.Errorf("imageprint: unknown mode %q", s)
}

// Options control Print. A nil *Options prints in 24-bit colour with blanks.
type Options struct {
	Mode Mode
	// Blanks prints coloured blanks instead of ascii art.
	Blanks bool
}

// Print writes img to w. name is reported to terminals that show file names.
func Print(w io.Writer, img image.Image, name string, opts *Options) error {
	if opts == nil {
		opts = &Options{Blanks: true}
	}
	switch opts.Mode {
	case Mode256Color:
		return Print256Color(w, img, opts.Blanks)
	case ModeNoColor:
		return PrintNoColor(w, img, opts.Blanks)
	case ModeITerm:
		return PrintITerm(w, img, name)
	case ModeRasTerm:
		return PrintRasTerm(w, img)
	}
	return Print24bit(w, img, opts.Blanks)
}

func shade(w io.Writer, col ic.Color, mode Mode, blanks bool) {
	cR, cG, cB, cA := col.RGBA()
	if cA == 0 {
		fmt.Fprint(w, "\x1b[0m  ")
		return
	}

	text := "  "
	if !blanks {
		switch a := ((cR + cG + cB) / 3) >> 8; {
		case a < 32:
			text = ".."
		case a < 64:
			text = "--"
		case a < 128:
			text = "=="
		default:
			text = "##"
		}
	}

	r, g, b := uint8(cR>>8), uint8(cG>>8), uint8(cB>>8)
	switch mode {
	case ModeNoColor:
		fmt.Fprint(w, text)
	case Mode256Color:
		fmt.Fprint(w, color.RGB(r, g, b, true).Sprint(text))
	default:
		fmt.Fprintf(w, "\x1b[48;2;%d;%d;%dm%s\x1b[0m", r, g, b, text)
	}
}

func printPixels(w io.Writer, i image.Image, mode Mode, blanks bool) error {
	bw := &bytes.Buffer{}
	for y := i.Bounds().Min.Y; y < i.Bounds().Max.Y; y++ {
		for x := i.Bounds().Min.X; x < i.Bounds().Max.X; x++ {
			shade(bw, i.At(x, y), mode, blanks)
		}
		if mode != ModeNoColor {
			bw.WriteString("\x1b[0m")
		}
		bw.WriteString("\n")
	}
	_, err := w.Write(bw.Bytes())
	return err
}

// Print256Color draws an image using 256color'd ascii art.
func Print256Color(w io.Writer, i image.Image, blanks bool) error {
	return printPixels(w, i, Mode256Color, blanks)
}

// Print24bit draws an image using 24bit color escape sequences by changing background.
func Print24bit(w io.Writer, i image.Image, blanks bool) error {
	return printPixels(w, i, Mode24bit, blanks)
}

// PrintNoColor draws an image without using color escape sequences. Only
// makes sense with blanks=false.
func PrintNoColor(w io.Writer, i image.Image, blanks bool) error {
	return printPixels(w, i, ModeNoColor, blanks)
}

// PrintITerm draws an image using iTerm2's escape sequences. Nothing is
// printed on other terminals.
//
// https://www.iterm2.com/documentation-images.html
func PrintITerm(w io.Writer, i image.Image, fn string) error {
	if !isTermItermWez() {
		return nil
	}
	return writeITerm(w, i, fn)
}

func writeITerm(w io.Writer, i image.Image, fn string) error {
	name := base64.StdEncoding.EncodeToString([]byte(fn))
	b := &bytes.Buffer{}
	bEnc := base64.NewEncoder(base64.StdEncoding, b)
	if err := png.Encode(bEnc, i); err != nil {
		return err
	}
	bEnc.Close()
	_, err := fmt.Fprintf(w, "\n\033]1337;File=name=%s;inline=1;size=%d,width=%dpx;height=%dpx:%s\a\n", name, b.Len(), i.Bounds().Size().X, i.Bounds().Size().Y, b.String())
	return err
}
