package main

import (
	"context"
	"fmt"
	"image"
	"image/gif"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-rsi/anim"
	"badc0de.net/pkg/go-rsi/config"
	"badc0de.net/pkg/go-rsi/dmi"
	"badc0de.net/pkg/go-rsi/imagediff"
	"badc0de.net/pkg/go-rsi/imageprint"
	"badc0de.net/pkg/go-rsi/paths"
	"badc0de.net/pkg/go-rsi/rsi"
	"badc0de.net/pkg/go-rsi/split"
)

const (
	exitOK      = 0
	exitUsage   = 1
	exitFailure = 2
)

// usageError marks mistakes in the command line or its arguments, as
// opposed to operations that failed.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...interface{}) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ue *usageError
	if errors.As(err, &ue) {
		return exitUsage
	}
	return exitFailure
}

type cli struct {
	cfg   *config.Config
	out   io.Writer
	scale int

	// termSize is replaced in tests.
	termSize func() (imageprint.TermSize, error)
}

type command struct {
	args int // required arguments; optional ones come on top
	opt  int
	run  func(c *cli, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"from_dmi": {2, 0, (*cli).fromDMI},
	"new":      {2, 0, (*cli).newRsi},
	"diff":     {3, 0, (*cli).diff},
	"split":    {2, 0, (*cli).split},
	"show":     {1, 1, (*cli).show},
	"gif":      {4, 0, (*cli).gif},
	"info":     {1, 0, (*cli).info},
	"config":   {0, 0, (*cli).printConfig},
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usagef("no command specified")
	}
	name, args := args[0], args[1:]
	cmd, ok := commands[name]
	if !ok {
		return usagef("unknown command %q", name)
	}
	if len(args) < cmd.args || len(args) > cmd.args+cmd.opt {
		return usagef("%s: wrong number of arguments", name)
	}
	return cmd.run(c, ctx, args)
}

func (c *cli) writeOptions() *rsi.WriteOptions {
	return &rsi.WriteOptions{
		EncodeOptions: rsi.EncodeOptions{
			Indent:      c.cfg.Indent,
			Parallelism: c.cfg.Parallelism,
		},
		MakeParents: c.cfg.MakeParents,
	}
}

func (c *cli) open(path string) (*rsi.Rsi, error) {
	return rsi.Open(path, &rsi.DecodeOptions{Parallelism: c.cfg.Parallelism})
}

func (c *cli) fromDMI(ctx context.Context, args []string) error {
	input, output := args[0], args[1]

	if c.cfg.Fetch.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Fetch.Timeout)
		defer cancel()
	}
	f, err := paths.Open(ctx, input)
	if err != nil {
		return errors.Wrapf(err, "opening %s", input)
	}
	defer f.Close()

	icon, err := dmi.Decode(f)
	if err != nil {
		return errors.Wrapf(err, "reading %s", input)
	}
	copyright := c.cfg.Copyright
	if copyright == "" && paths.IsRemote(input) {
		copyright = "Taken from " + input
	}
	r, err := rsi.Import(icon, &rsi.ImportOptions{
		License:   c.cfg.License,
		Copyright: copyright,
	})
	if err != nil {
		return err
	}

	if c.cfg.Splitter != "" {
		s, err := split.ByName(c.cfg.Splitter)
		if err != nil {
			return usagef("%v", err)
		}
		return split.SplitTo(s, r, output, c.writeOptions())
	}
	if err := r.Write(output, c.writeOptions()); err != nil {
		return err
	}
	glog.Infof("converted %s into %s: %d states", input, output, r.Len())
	return nil
}

func parseDimensions(s string) (image.Point, error) {
	parts := strings.Split(s, "x")
	if len(parts) != 2 {
		return image.Point{}, usagef("incorrect amount of dimensions in %q, expected exactly 2", s)
	}
	x, errX := strconv.Atoi(parts[0])
	y, errY := strconv.Atoi(parts[1])
	if errX != nil || errY != nil || x < 1 || y < 1 {
		return image.Point{}, usagef("invalid dimensions %q", s)
	}
	return image.Pt(x, y), nil
}

func (c *cli) newRsi(ctx context.Context, args []string) error {
	output := args[0]
	size, err := parseDimensions(args[1])
	if err != nil {
		return err
	}
	if _, err := os.Stat(output); err == nil {
		return usagef("%s already exists", output)
	}
	if !c.cfg.MakeParents {
		if _, err := os.Stat(filepath.Dir(output)); err != nil {
			return usagef("parent directory of %s does not exist", output)
		}
	}

	r := rsi.New(size)
	r.License = c.cfg.License
	r.Copyright = c.cfg.Copyright
	return r.Write(output, c.writeOptions())
}

func (c *cli) diff(ctx context.Context, args []string) error {
	return imagediff.DiffFiles(args[0], args[1], args[2])
}

func (c *cli) split(ctx context.Context, args []string) error {
	name := c.cfg.Splitter
	if name == "" {
		name = "simple"
	}
	s, err := split.ByName(name)
	if err != nil {
		return usagef("%v", err)
	}
	r, err := c.open(args[0])
	if err != nil {
		return err
	}
	return split.SplitTo(s, r, args[1], c.writeOptions())
}

func (c *cli) show(ctx context.Context, args []string) error {
	mode, err := imageprint.ParseMode(c.cfg.Print.Mode)
	if err != nil {
		return usagef("%v", err)
	}
	r, err := c.open(args[0])
	if err != nil {
		return err
	}
	enc, err := rsi.Encode(r, &rsi.EncodeOptions{Parallelism: c.cfg.Parallelism})
	if err != nil {
		return err
	}

	var ts *imageprint.TermSize
	if c.cfg.Print.Downsize {
		getSize := c.termSize
		if getSize == nil {
			getSize = imageprint.GetTermSize
		}
		if s, err := getSize(); err == nil {
			ts = &s
		} else {
			glog.Warningf("not downsizing: %v", err)
		}
	}

	opts := &imageprint.Options{Mode: mode, Blanks: c.cfg.Print.Blanks}
	shown := 0
	for _, sheet := range enc.Sheets {
		if len(args) > 1 && sheet.Name != args[1] {
			continue
		}
		var img image.Image = sheet.Image
		if ts != nil {
			img = imageprint.Fit(img, *ts, mode)
		}
		fmt.Fprintf(c.out, "%s:\n", sheet.Name)
		if err := imageprint.Print(c.out, img, rsi.SheetFileName(sheet.Name), opts); err != nil {
			return err
		}
		shown++
	}
	if len(args) > 1 && shown == 0 {
		return usagef("no state %q in %s", args[1], args[0])
	}
	return nil
}

// parseDirection accepts a direction index or name, such as 2 or east.
func parseDirection(s string) (rsi.Direction, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > int(rsi.NorthWest) {
			return 0, usagef("direction %d out of range", n)
		}
		return rsi.Direction(n), nil
	}
	for d := rsi.South; d <= rsi.NorthWest; d++ {
		if strings.EqualFold(d.String(), s) {
			return d, nil
		}
	}
	return 0, usagef("unknown direction %q", s)
}

func (c *cli) gif(ctx context.Context, args []string) error {
	dir, err := parseDirection(args[2])
	if err != nil {
		return err
	}
	if c.scale < 1 || c.scale > anim.MaxScale {
		return usagef("scale must be between 1 and %d", anim.MaxScale)
	}
	r, err := c.open(args[0])
	if err != nil {
		return err
	}
	s := r.State(args[1])
	if s == nil {
		return usagef("no state %q in %s", args[1], args[0])
	}
	g, err := anim.GIF(s, dir, c.scale)
	if err != nil {
		return err
	}

	f, err := os.Create(args[3])
	if err != nil {
		return errors.Wrap(err, "creating output")
	}
	if err := gif.EncodeAll(f, g); err != nil {
		f.Close()
		return errors.Wrap(err, "encoding gif")
	}
	return f.Close()
}

func (c *cli) info(ctx context.Context, args []string) error {
	r, err := c.open(args[0])
	if err != nil {
		return err
	}
	size := r.Size()
	fmt.Fprintf(c.out, "size: %dx%d\n", size.X, size.Y)
	if r.License != "" {
		fmt.Fprintf(c.out, "license: %s\n", r.License)
	}
	if r.Copyright != "" {
		fmt.Fprintf(c.out, "copyright: %s\n", r.Copyright)
	}
	fmt.Fprintf(c.out, "states: %d\n", r.Len())
	for _, s := range r.States() {
		fmt.Fprintf(c.out, "  %s: %d directions, %d frames, delays %v\n", s.FullName(), s.Directions, s.FrameCount(), s.Delays()[0])
	}
	return nil
}

func (c *cli) printConfig(ctx context.Context, args []string) error {
	b, err := c.cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = c.out.Write(b)
	return err
}
