// Package scene defines the scene document exchanged between the editor and
// the project API: an ordered list of primitive objects with transform and
// material attributes.
package scene

import (
	"encoding/json"
	"fmt"
)

type ObjectType string

const (
	TypeBox      ObjectType = "box"
	TypeSphere   ObjectType = "sphere"
	TypeCone     ObjectType = "cone"
	TypeCylinder ObjectType = "cylinder"
)

func (t ObjectType) Valid() bool {
	switch t {
	case TypeBox, TypeSphere, TypeCone, TypeCylinder:
		return true
	}
	return false
}

// Object is one primitive in a scene. It holds only value fields, so a
// slice copy of []Object is a deep copy.
type Object struct {
	ID       string     `json:"id"`
	Type     ObjectType `json:"type"`
	Position [3]float64 `json:"position"`
	Rotation [3]float64 `json:"rotation"`
	Scale    [3]float64 `json:"scale"`
	Color    string     `json:"color"`
}

// Document is the scene payload. Object order is render/list order and is
// preserved on round-trip.
type Document struct {
	Objects []Object `json:"objects"`
}

// ValidationError reports a malformed scene document.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid scene document: " + e.Reason
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ParseDocument decodes and validates a scene document. The top-level
// "objects" field must be present and a sequence; every object needs a
// document-unique id and a recognized primitive type.
func ParseDocument(data []byte) (*Document, error) {
	var wire struct {
		Objects *[]Object `json:"objects"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, invalid("%v", err)
	}
	if wire.Objects == nil {
		return nil, invalid("missing objects field")
	}

	doc := &Document{Objects: *wire.Objects}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *Document) Validate() error {
	seen := make(map[string]struct{}, len(d.Objects))
	for i, obj := range d.Objects {
		if obj.ID == "" {
			return invalid("object %d has empty id", i)
		}
		if _, dup := seen[obj.ID]; dup {
			return invalid("duplicate object id %q", obj.ID)
		}
		seen[obj.ID] = struct{}{}

		if !obj.Type.Valid() {
			return invalid("object %q has unknown type %q", obj.ID, obj.Type)
		}
	}
	return nil
}

func (d *Document) Encode() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
