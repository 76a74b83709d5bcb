// Package projects implements the project record store and its HTTP
// surface: named scenes persisted as opaque jsonb documents with an
// optional thumbnail asset in object storage.
package projects

import (
	"encoding/json"
	"errors"
	"time"
)

var ErrNotFound = errors.New("project not found")

// Project is a persisted named scene plus optional thumbnail. JSON field
// names match the editor's wire format.
type Project struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  *string         `json:"description"`
	SceneData    json.RawMessage `json:"sceneData"`
	ThumbnailURL *string         `json:"thumbnailUrl"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// UpdateFields carries a partial update. Nil pointers (and false Set
// flags) mean "leave untouched"; Set with a nil value means an explicit
// clear.
type UpdateFields struct {
	Name            *string
	Description     *string
	DescriptionSet  bool
	SceneData       []byte
	ThumbnailURL    *string
	ThumbnailURLSet bool
}

func (f UpdateFields) empty() bool {
	return f.Name == nil && !f.DescriptionSet && f.SceneData == nil && !f.ThumbnailURLSet
}
