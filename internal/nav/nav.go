// Package nav builds the console sidebar from its embedded definition.
package nav

import (
	_ "embed"
	"fmt"
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"gopkg.in/yaml.v3"
)

//go:embed nav.yaml
var definition []byte

// Menu is the whole sidebar.
type Menu struct {
	Brand    string    `yaml:"brand"`
	Sections []Section `yaml:"sections"`
}

// Section is a top-level sidebar entry. A section either links somewhere
// itself or groups Items.
type Section struct {
	Title string  `yaml:"title"`
	Path  string  `yaml:"path"`
	Icon  string  `yaml:"icon"`
	Items []Entry `yaml:"items"`

	Active bool `yaml:"-"`
	Open   bool `yaml:"-"`
}

type Entry struct {
	Title string `yaml:"title"`
	Path  string `yaml:"path"`

	Active bool `yaml:"-"`
}

const (
	baseLink   = "flex items-center gap-2 rounded px-3 py-2 text-sm text-gray-300 hover:bg-gray-700"
	activeLink = "bg-gray-900 text-white font-semibold"
	childLink  = "pl-9 py-1.5"
)

// Load parses the embedded sidebar.
func Load() (*Menu, error) {
	return Parse(definition)
}

// Parse reads a sidebar definition and checks every link is an admin path.
func Parse(data []byte) (*Menu, error) {
	var m Menu
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse sidebar: %w", err)
	}
	for _, s := range m.Sections {
		if s.Path == "" && len(s.Items) == 0 {
			return nil, fmt.Errorf("sidebar section %q has neither a path nor items", s.Title)
		}
		for _, p := range s.paths() {
			if !strings.HasPrefix(p, "/admin") {
				return nil, fmt.Errorf("sidebar link %q is outside /admin", p)
			}
		}
	}
	return &m, nil
}

// MustLoad is Load for program start.
func MustLoad() *Menu {
	m, err := Load()
	if err != nil {
		panic(err)
	}
	return m
}

func (s Section) paths() []string {
	var out []string
	if s.Path != "" {
		out = append(out, s.Path)
	}
	for _, it := range s.Items {
		out = append(out, it.Path)
	}
	return out
}

// For returns a copy of the menu with the entry for path marked active and
// its section opened. The longest matching path wins, so
// /admin/stories/gallery does not also light up /admin/stories.
func (m *Menu) For(path string) Menu {
	best := ""
	for _, s := range m.Sections {
		for _, p := range s.paths() {
			if matches(path, p) && len(p) > len(best) {
				best = p
			}
		}
	}

	out := Menu{Brand: m.Brand, Sections: make([]Section, len(m.Sections))}
	for i, s := range m.Sections {
		s.Items = append([]Entry(nil), s.Items...)
		s.Active = best != "" && s.Path == best
		for j := range s.Items {
			if s.Items[j].Path == best {
				s.Items[j].Active = true
				s.Open = true
			}
		}
		out.Sections[i] = s
	}
	return out
}

// Title is the label of the active entry, used as the page heading.
func (m Menu) Title() string {
	for _, s := range m.Sections {
		if s.Active {
			return s.Title
		}
		for _, it := range s.Items {
			if it.Active {
				return it.Title
			}
		}
	}
	return m.Brand
}

func matches(path, prefix string) bool {
	if prefix == "/admin" {
		return path == "/admin" || path == "/admin/"
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// LinkClass composes the classes for a sidebar link.
func LinkClass(active, child bool) string {
	classes := []string{baseLink}
	if child {
		classes = append(classes, childLink)
	}
	if active {
		classes = append(classes, activeLink)
	}
	return twmerge.Merge(classes...)
}

// Class merges tailwind class lists, later ones winning on conflicts.
func Class(classes ...string) string {
	return twmerge.Merge(classes...)
}
