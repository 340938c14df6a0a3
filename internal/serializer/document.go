// Package serializer converts scenes to and from JSON documents.
package serializer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/jamgo/engine/internal/core/ecs"
)

// Document is the persisted form of a scene:
//
//	{ "assets":     { "<AssetType>": ["relative/path", ...] },
//	  "entities":   ["<entityId>", ...],
//	  "components": { "<ComponentName>": { "<entityId>": {...} } },
//	  "userdata":   {...} }
//
// Empty sections are omitted. Entity ids are decimal strings.
type Document struct {
	Assets     map[string][]string                   `json:"assets,omitempty"`
	Entities   []string                              `json:"entities,omitempty"`
	Components map[string]map[string]json.RawMessage `json:"components,omitempty"`
	UserData   json.RawMessage                       `json:"userdata,omitempty"`
}

// Encode renders doc as indented JSON. Object keys are sorted.
func Encode(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode scene document: %w", err)
	}
	return append(data, '\n'), nil
}

func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode scene document: %w", err)
	}
	return &doc, nil
}

// ErrEntityRange is returned for entity ids whose index the entity pool can
// never hold.
var ErrEntityRange = errors.New("entity index out of range")

func formatID(id ecs.EntityID) string { return strconv.FormatUint(uint64(id), 10) }

func parseID(s string) (ecs.EntityID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return ecs.Null, fmt.Errorf("entity id %q: %w", s, err)
	}
	id := ecs.EntityID(v)
	if id.Generation() == 0 {
		return ecs.Null, fmt.Errorf("entity id %q has no generation", s)
	}
	if id.Index() >= ecs.MaxEntities {
		return ecs.Null, fmt.Errorf("entity id %q: %w", s, ErrEntityRange)
	}
	return id, nil
}

// EntityIDs parses the entity section.
func (d *Document) EntityIDs() ([]ecs.EntityID, error) {
	ids := make([]ecs.EntityID, 0, len(d.Entities))
	for _, s := range d.Entities {
		id, err := parseID(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// validate checks every id before a scene is touched.
func (d *Document) validate() error {
	if _, err := d.EntityIDs(); err != nil {
		return err
	}
	for name, byID := range d.Components {
		for s := range byID {
			if _, err := parseID(s); err != nil {
				return fmt.Errorf("component %q: %w", name, err)
			}
		}
	}
	return nil
}

// sortedIDs orders component keys by numeric id.
func sortedIDs(byID map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(byID))
	for k := range byID {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.ParseUint(keys[i], 10, 64)
		b, _ := strconv.ParseUint(keys[j], 10, 64)
		return a < b
	})
	return keys
}

// isEmpty reports null, empty objects and empty arrays.
func isEmpty(raw json.RawMessage) bool {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return len(bytes.TrimSpace(raw)) == 0
	}
	switch buf.String() {
	case "", "null", "{}", "[]":
		return true
	}
	return false
}
