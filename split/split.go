// Package split breaks one package into several smaller ones by looking at
// state names.
package split

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-rsi/rsi"
)

// Group is one package produced by a Splitter, together with the name it is
// written under.
type Group struct {
	Name string
	Rsi  *rsi.Rsi
}

// Splitter partitions the states of a package into groups.
//
// Every group has the size, license and copyright of the input package. The
// input package is not modified. Groups are returned sorted by name. When two
// states end up under the same name in the same group, the later one in
// canonical order wins.
type Splitter interface {
	Split(r *rsi.Rsi) ([]Group, error)
}

// cutFunc decides where a state goes. It returns the group key and the new
// base name of the state; rename is false when the state keeps its name.
type cutFunc func(fullName string) (group, name string, rename bool)

type splitter struct {
	name string
	cut  cutFunc
}

func (s *splitter) String() string { return s.name }

func (s *splitter) Split(r *rsi.Rsi) ([]Group, error) {
	groups := map[string]*rsi.Rsi{}
	for _, st := range r.States() {
		key, name, rename := s.cut(st.FullName())
		if rename {
			st = st.Renamed(name)
		}
		g, ok := groups[key]
		if !ok {
			g = newLike(r)
			groups[key] = g
		}
		if prev := g.State(st.FullName()); prev != nil {
			glog.V(1).Infof("split: %s: state %q replaces an earlier state in group %q", s.name, st.FullName(), key)
		}
		if err := g.SetState(st); err != nil {
			return nil, errors.Wrapf(err, "split: adding state to group %q", key)
		}
	}
	return sorted(groups), nil
}

// newLike returns an empty package with the size, license and copyright of r.
func newLike(r *rsi.Rsi) *rsi.Rsi {
	n := rsi.New(r.Size())
	n.License = r.License
	n.Copyright = r.Copyright
	return n
}

func sorted(groups map[string]*rsi.Rsi) []Group {
	out := make([]Group, 0, len(groups))
	for name, g := range groups {
		out = append(out, Group{Name: name, Rsi: g})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// simple puts every state in a package of its own, named after the state's
// base name. States sharing a base name overwrite each other.
type simple struct{}

func (simple) String() string { return "simple" }

func (simple) Split(r *rsi.Rsi) ([]Group, error) {
	groups := map[string]*rsi.Rsi{}
	for _, st := range r.States() {
		if _, ok := groups[st.Name]; ok {
			glog.V(1).Infof("split: simple: state %q replaces an earlier state with base name %q", st.FullName(), st.Name)
		}
		g := newLike(r)
		if err := g.SetState(st); err != nil {
			return nil, errors.Wrapf(err, "split: adding state %q", st.FullName())
		}
		groups[st.Name] = g
	}
	return sorted(groups), nil
}

var (
	// Simple puts every state into its own package.
	Simple Splitter = simple{}

	// Hyphen groups "ak-20" and "ak-40" into "ak" as states "20" and "40".
	Hyphen = Delimiter("-")

	// Underscore is Hyphen for underscores.
	Underscore = Delimiter("_")

	// Number groups "infected", "infected0" and "infected1" into "infected";
	// the numbered states are renamed to their number.
	Number Splitter = &splitter{name: "number", cut: cutNumber}
)

// Delimiter returns a splitter that groups states by the text before the first
// sep in their canonical name, and renames them to the text after the last
// sep. States without sep keep their name and are grouped under it.
func Delimiter(sep string) Splitter {
	return &splitter{
		name: "delimiter " + sep,
		cut: func(full string) (string, string, bool) {
			prefix := full
			if i := strings.Index(full, sep); i >= 0 {
				prefix = full[:i]
			}
			suffix := full
			if i := strings.LastIndex(full, sep); i >= 0 {
				suffix = full[i+len(sep):]
			}
			if prefix == suffix {
				return full, full, false
			}
			return prefix, suffix, true
		},
	}
}

// cutNumber splits a name before its trailing ASCII digits. Names without
// trailing digits, or made of digits only, are not split: "infected" keeps
// its name rather than becoming an empty-named state in group "infected".
func cutNumber(full string) (string, string, bool) {
	i := len(full)
	for i > 0 && full[i-1] >= '0' && full[i-1] <= '9' {
		i--
	}
	prefix, suffix := full[:i], full[i:]
	if prefix == "" || suffix == "" {
		return full, full, false
	}
	return prefix, suffix, true
}

// ByName returns the splitter with the passed name: simple, hyphen,
// underscore or number.
func ByName(name string) (Splitter, error) {
	switch strings.ToLower(name) {
	case "simple":
		return Simple, nil
	case "hyphen":
		return Hyphen, nil
	case "underscore":
		return Underscore, nil
	case "number":
		return Number, nil
	}
	return nil, errors.Errorf("split: unknown splitter %q", name)
}

// SplitTo splits r and writes every group into dir as <group>.rsi. All groups
// are encoded before the first one is written.
func SplitTo(s Splitter, r *rsi.Rsi, dir string, opts *rsi.WriteOptions) error {
	if opts == nil {
		opts = &rsi.WriteOptions{}
	}
	groups, err := s.Split(r)
	if err != nil {
		return err
	}

	encoded := make([]*rsi.Encoded, len(groups))
	for i, g := range groups {
		if encoded[i], err = rsi.Encode(g.Rsi, &opts.EncodeOptions); err != nil {
			return errors.Wrapf(err, "split: encoding group %q", g.Name)
		}
	}
	for i, g := range groups {
		path := filepath.Join(dir, g.Name+".rsi")
		if err := encoded[i].WriteTo(path, opts.MakeParents); err != nil {
			return errors.Wrapf(err, "split: writing group %q", g.Name)
		}
	}
	glog.Infof("split: wrote %d packages to %s", len(groups), dir)
	return nil
}
