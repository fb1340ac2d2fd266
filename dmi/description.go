package dmi

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	descriptionBegin = "# BEGIN DMI"
	descriptionEnd   = "# END DMI"

	defaultIconSize = 32
)

// State is one state as listed in the description.
type State struct {
	Name string
	// Dirs is the number of directions, 1 unless stated otherwise.
	Dirs int
	// Frames is the number of frames per direction, 1 unless stated otherwise.
	Frames int
	// Delays are in deciseconds. BYOND sometimes writes more delays than
	// there are frames.
	Delays []float64
	// Loop is the number of times the animation plays; 0 means forever.
	Loop     int
	Rewind   bool
	Movement bool
	// Hotspots are kept as written ("x,y,frame").
	Hotspots []string
	// Extra holds keys this package does not know about.
	Extra map[string]string

	// first is the index of the state's first icon in the image.
	first int
}

// icons returns the number of icons the state occupies.
func (s *State) icons() int {
	return s.Dirs * s.Frames
}

type description struct {
	Version string
	Width   int
	Height  int
	States  []State
}

// parseDescription parses the text of a Description chunk.
func parseDescription(text string) (*description, error) {
	d := &description{Width: defaultIconSize, Height: defaultIconSize}
	var cur *State
	began := false

	sc := bufio.NewScanner(strings.NewReader(text))
	line := 0
	for sc.Scan() {
		line++
		l := strings.TrimSpace(sc.Text())
		switch {
		case l == "":
			continue
		case l == descriptionBegin:
			began = true
			continue
		case l == descriptionEnd:
			if !began {
				return nil, errors.Errorf("line %d: %q before %q", line, descriptionEnd, descriptionBegin)
			}
			return d.finish()
		case strings.HasPrefix(l, "#"):
			continue
		}
		if !began {
			return nil, errors.Errorf("line %d: description does not start with %q", line, descriptionBegin)
		}

		eq := strings.IndexByte(l, '=')
		if eq < 0 {
			return nil, errors.Errorf("line %d: expected key = value, got %q", line, l)
		}
		key := strings.TrimSpace(l[:eq])
		value := strings.TrimSpace(l[eq+1:])

		if key == "state" {
			name, err := unquote(value)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
			d.States = append(d.States, State{Name: name, Dirs: 1, Frames: 1})
			cur = &d.States[len(d.States)-1]
			continue
		}

		var err error
		if cur == nil {
			err = d.setHeader(key, value)
		} else {
			err = cur.set(key, value)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return nil, errors.Errorf("description does not end with %q", descriptionEnd)
}

func (d *description) setHeader(key, value string) error {
	var err error
	switch key {
	case "version":
		d.Version = value
	case "width":
		d.Width, err = positiveInt(key, value)
	case "height":
		d.Height, err = positiveInt(key, value)
	}
	return err
}

func (s *State) set(key, value string) error {
	var err error
	switch key {
	case "dirs":
		s.Dirs, err = positiveInt(key, value)
	case "frames":
		s.Frames, err = positiveInt(key, value)
	case "delay":
		s.Delays = s.Delays[:0]
		for _, part := range strings.Split(value, ",") {
			delay, perr := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if perr != nil {
				return errors.Wrapf(perr, "bad delay %q", value)
			}
			s.Delays = append(s.Delays, delay)
		}
	case "loop":
		s.Loop, err = strconv.Atoi(value)
	case "rewind":
		s.Rewind, err = parseFlag(value)
	case "movement":
		s.Movement, err = parseFlag(value)
	case "hotspot":
		s.Hotspots = append(s.Hotspots, value)
	default:
		if s.Extra == nil {
			s.Extra = map[string]string{}
		}
		s.Extra[key] = value
	}
	return errors.Wrapf(err, "bad %s", key)
}

// finish assigns every state its position in the image.
func (d *description) finish() (*description, error) {
	first := 0
	for i := range d.States {
		d.States[i].first = first
		first += d.States[i].icons()
	}
	return d, nil
}

func positiveInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, errors.Errorf("%s must be positive, got %d", key, n)
	}
	return n, nil
}

func parseFlag(value string) (bool, error) {
	n, err := strconv.Atoi(value)
	return n != 0, err
}

// unquote reads a double-quoted string in which \" and \\ are escapes.
func unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", errors.Errorf("expected a quoted string, got %s", s)
	}
	var b strings.Builder
	in := s[1 : len(s)-1]
	for i := 0; i < len(in); i++ {
		c := in[i]
		if c == '\\' && i+1 < len(in) {
			i++
			c = in[i]
		} else if c == '"' {
			return "", errors.Errorf("unescaped quote in %s", s)
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}
