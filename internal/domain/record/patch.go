package record

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Decode builds a record from a loosely typed payload
func Decode[T any](fields map[string]any) (*T, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return &out, nil
}

// Patch overlays a partial payload on an existing record. Identity and
// ownership fields cannot be changed through a patch.
func Patch[T any, PT interface {
	*T
	Entity
}](current PT, patch map[string]any) (PT, error) {
	base := *current.Meta()

	raw, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var merged map[string]any
	if err := json.Unmarshal(raw, &merged); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	for k, v := range patch {
		merged[k] = v
	}

	next, err := Decode[T](merged)
	if err != nil {
		return nil, err
	}
	out := PT(next)
	meta := out.Meta()
	meta.ID = base.ID
	meta.CreatedBy = base.CreatedBy
	meta.CreatedAt = base.CreatedAt
	return out, nil
}

// protectedKeys can never be set by a client payload
var protectedKeys = []string{"_id", "id", "createdBy"}

// Sanitize strips identity and ownership keys from a client payload
func Sanitize(fields map[string]any) map[string]any {
	for _, k := range protectedKeys {
		delete(fields, k)
	}
	return fields
}

// NewReference returns a fresh opaque reference string
func NewReference() string {
	return uuid.NewString()
}
