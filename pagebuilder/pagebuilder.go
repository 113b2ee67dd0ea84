// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pagebuilder

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"sort"
)

var (
	ErrUnknownSectionType = errors.New("unknown section type")
	ErrMissingSectionID   = errors.New("section id is required")
	ErrDuplicateSection   = errors.New("duplicate section id")
	ErrInvalidSettings    = errors.New("invalid page settings")
)

// Section types the front-end knows how to render
var SectionTypes = map[string]bool{
	"hero":         true,
	"about":        true,
	"services":     true,
	"tours":        true,
	"blog":         true,
	"pricing":      true,
	"testimonials": true,
	"newsletter":   true,
	"map":          true,
	"cta":          true,
}

type Section struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Enabled bool           `json:"enabled"`
	Order   int            `json:"order"`
	Props   map[string]any `json:"props,omitempty"`
}

type Settings struct {
	Sections []Section        `json:"sections"`
	Theme    map[string]string `json:"theme,omitempty"`
}

// SectionPatch changes one section. Nil fields are left alone; a nil prop
// value (JSON null) deletes the prop.
type SectionPatch struct {
	ID      string         `json:"id"`
	Type    *string        `json:"type,omitempty"`
	Enabled *bool          `json:"enabled,omitempty"`
	Order   *int           `json:"order,omitempty"`
	Props   map[string]any `json:"props,omitempty"`
}

type Patch struct {
	Sections []SectionPatch     `json:"sections,omitempty"`
	Theme    map[string]*string `json:"theme,omitempty"`
	Remove   []string           `json:"remove,omitempty"`
}

// Parse decodes a stored settings blob. Empty input yields empty settings.
func Parse(raw []byte) (Settings, error) {
	var s Settings
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return s, nil
}

// ParsePatch decodes a PATCH body
func ParsePatch(raw []byte) (Patch, error) {
	var p Patch
	if err := json.Unmarshal(raw, &p); err != nil {
		return Patch{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return p, nil
}

// Merge applies p on top of base and returns normalized settings.
// Sections are matched by ID; unmatched patches append new sections, which
// then need a type. base is not modified.
func Merge(base Settings, p Patch) (Settings, error) {
	out := Clone(base)

	index := make(map[string]int, len(out.Sections))
	for i, s := range out.Sections {
		index[s.ID] = i
	}

	for _, sp := range p.Sections {
		if sp.ID == "" {
			return Settings{}, ErrMissingSectionID
		}
		i, ok := index[sp.ID]
		if !ok {
			if sp.Type == nil {
				return Settings{}, fmt.Errorf("%w: new section %q has no type", ErrUnknownSectionType, sp.ID)
			}
			out.Sections = append(out.Sections, Section{ID: sp.ID, Enabled: true, Order: len(out.Sections)})
			i = len(out.Sections) - 1
			index[sp.ID] = i
		}

		sec := &out.Sections[i]
		if sp.Type != nil {
			sec.Type = *sp.Type
		}
		if sp.Enabled != nil {
			sec.Enabled = *sp.Enabled
		}
		if sp.Order != nil {
			sec.Order = *sp.Order
		}
		for k, v := range sp.Props {
			if v == nil {
				delete(sec.Props, k)
				continue
			}
			if sec.Props == nil {
				sec.Props = make(map[string]any)
			}
			sec.Props[k] = v
		}
	}

	if len(p.Remove) > 0 {
		drop := make(map[string]bool, len(p.Remove))
		for _, id := range p.Remove {
			drop[id] = true
		}
		kept := out.Sections[:0]
		for _, s := range out.Sections {
			if !drop[s.ID] {
				kept = append(kept, s)
			}
		}
		out.Sections = kept
	}

	for k, v := range p.Theme {
		if v == nil {
			delete(out.Theme, k)
			continue
		}
		if out.Theme == nil {
			out.Theme = make(map[string]string)
		}
		out.Theme[k] = *v
	}

	return Normalize(out)
}

// Normalize validates section IDs and types and sorts sections by Order, then ID
func Normalize(s Settings) (Settings, error) {
	seen := make(map[string]bool, len(s.Sections))
	for _, sec := range s.Sections {
		if sec.ID == "" {
			return Settings{}, ErrMissingSectionID
		}
		if seen[sec.ID] {
			return Settings{}, fmt.Errorf("%w: %s", ErrDuplicateSection, sec.ID)
		}
		seen[sec.ID] = true
		if !SectionTypes[sec.Type] {
			return Settings{}, fmt.Errorf("%w: %q", ErrUnknownSectionType, sec.Type)
		}
	}

	sort.SliceStable(s.Sections, func(i, j int) bool {
		if s.Sections[i].Order != s.Sections[j].Order {
			return s.Sections[i].Order < s.Sections[j].Order
		}
		return s.Sections[i].ID < s.Sections[j].ID
	})
	if s.Sections == nil {
		s.Sections = []Section{}
	}
	return s, nil
}

// Resolve returns the stored settings of a page, or its defaults when the
// page was never saved. A saved blob is the whole page: sections, props and
// theme keys it lacks stay deleted.
func Resolve(page string, stored []byte) (Settings, error) {
	if len(stored) == 0 {
		return Normalize(Defaults(page))
	}
	saved, err := Parse(stored)
	if err != nil {
		return Settings{}, err
	}
	return Normalize(saved)
}

// Published keeps only the enabled sections
func Published(s Settings) Settings {
	out := Settings{Sections: []Section{}, Theme: s.Theme}
	for _, sec := range s.Sections {
		if sec.Enabled {
			out.Sections = append(out.Sections, sec)
		}
	}
	return out
}

// Clone deep-copies settings so merges never alias the caller's maps
func Clone(s Settings) Settings {
	out := Settings{Theme: maps.Clone(s.Theme)}
	if s.Sections != nil {
		out.Sections = make([]Section, len(s.Sections))
		for i, sec := range s.Sections {
			sec.Props = cloneProps(sec.Props)
			out.Sections[i] = sec
		}
	}
	return out
}

func cloneProps(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch vv := v.(type) {
		case map[string]any:
			out[k] = cloneProps(vv)
		case []any:
			out[k] = append([]any(nil), vv...)
		default:
			out[k] = v
		}
	}
	return out
}
