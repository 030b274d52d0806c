// Package nav resolves which bottom-navigation entry is highlighted for a route.
package nav

import (
	"errors"
	"strings"
)

var ErrUnknownRole = errors.New("nav: unknown role")

type Entry struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Route  string `json:"route"`
	Active bool   `json:"active"`
}

type destination struct {
	key     string
	label   string
	route   string
	aliases []string
}

var menus = map[string][]destination{
	"lessor": {
		{key: "home", label: "Home", route: "/home_lessor"},
		{key: "settings", label: "Settings", route: "/setting", aliases: []string{"/editPark", "/editLessorProfile"}},
	},
	"renter": {
		{key: "home", label: "Home", route: "/home_renter"},
		{key: "calendar", label: "Calendar", route: "/calendar"},
		{key: "settings", label: "Settings", route: "/setting", aliases: []string{"/editRenterProfile"}},
	},
}

// Entries returns the menu for role with the entry matching path marked active.
// At most one entry is active; an unmatched path highlights nothing.
func Entries(role, currentPath string) ([]Entry, error) {
	dests, ok := menus[role]
	if !ok {
		return nil, ErrUnknownRole
	}
	currentPath = normalize(currentPath)

	entries := make([]Entry, 0, len(dests))
	for _, d := range dests {
		entries = append(entries, Entry{
			Key:    d.key,
			Label:  d.label,
			Route:  d.route,
			Active: d.matches(currentPath),
		})
	}
	return entries, nil
}

func (d destination) matches(p string) bool {
	if p == d.route {
		return true
	}
	for _, a := range d.aliases {
		if p == a {
			return true
		}
	}
	return false
}

func normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}
