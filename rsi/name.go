package rsi

import (
	"sort"
	"strings"
)

// selectorSeparator joins a state's base name and its selectors on disk.
const selectorSeparator = "+"

// StateName returns the canonical on-disk name for a state: the base name,
// followed by the selectors sorted in byte order, all joined with "+".
//
// The passed selectors slice is not modified.
func StateName(name string, selectors []string) string {
	if len(selectors) == 0 {
		return name
	}
	sorted := append([]string(nil), selectors...)
	sort.Strings(sorted)
	return name + selectorSeparator + strings.Join(sorted, selectorSeparator)
}

// ParseStateName splits an on-disk name back into the base name and its
// selectors. A name whose selectors are not in canonical order was not made
// by StateName; it is returned whole, with no selectors, so that
// StateName(ParseStateName(s)) == s for every s.
func ParseStateName(full string) (string, []string) {
	parts := strings.Split(full, selectorSeparator)
	if len(parts) == 1 || !sort.StringsAreSorted(parts[1:]) {
		return full, nil
	}
	return parts[0], parts[1:]
}
