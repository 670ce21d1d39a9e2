package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SeriesGroup collects the movies and episodes that share a series name.
type SeriesGroup struct {
	Title      string `json:"title"`
	Movies     []Item `json:"movies"`
	Episodes   []Item `json:"episodes"`
	TotalItems int    `json:"total_items"`
}

// Add appends it to the movie or episode list and bumps TotalItems.
// Coming-soon items are not part of a series group.
func (g *SeriesGroup) Add(it Item) {
	switch it.Category {
	case CategoryMovie:
		g.Movies = append(g.Movies, it)
	case CategoryEpisode:
		g.Episodes = append(g.Episodes, it)
	default:
		return
	}
	g.TotalItems++
}

// SeriesIndex maps series name to group and remembers first-insertion order.
// It encodes as a JSON object whose keys follow that order.
type SeriesIndex struct {
	names  []string
	groups map[string]*SeriesGroup
}

func NewSeriesIndex() *SeriesIndex {
	return &SeriesIndex{groups: make(map[string]*SeriesGroup)}
}

// GetOrCreate returns the group for name, creating an empty one at the end
// of the order if it does not exist yet.
func (s *SeriesIndex) GetOrCreate(name string) *SeriesGroup {
	if s.groups == nil {
		s.groups = make(map[string]*SeriesGroup)
	}
	if g, ok := s.groups[name]; ok {
		return g
	}
	g := &SeriesGroup{Title: name, Movies: []Item{}, Episodes: []Item{}}
	s.groups[name] = g
	s.names = append(s.names, name)
	return g
}

func (s *SeriesIndex) Get(name string) (*SeriesGroup, bool) {
	if s == nil {
		return nil, false
	}
	g, ok := s.groups[name]
	return g, ok
}

// Names returns the series names in insertion order.
func (s *SeriesIndex) Names() []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s *SeriesIndex) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

func (s *SeriesIndex) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if s != nil {
		for i, name := range s.names {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := MarshalPlain(name)
			if err != nil {
				return nil, err
			}
			v, err := MarshalPlain(s.groups[name])
			if err != nil {
				return nil, fmt.Errorf("encode series %q: %w", name, err)
			}
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(v)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *SeriesIndex) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = SeriesIndex{groups: make(map[string]*SeriesGroup)}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("series index: expected object, got %v", tok)
	}

	idx := SeriesIndex{groups: make(map[string]*SeriesGroup)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("series index: expected key, got %v", tok)
		}
		var g SeriesGroup
		if err := dec.Decode(&g); err != nil {
			return fmt.Errorf("series index %q: %w", name, err)
		}
		if _, dup := idx.groups[name]; !dup {
			idx.names = append(idx.names, name)
		}
		idx.groups[name] = &g
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = idx
	return nil
}
