package model

import (
	"gorm.io/datatypes"
)

const (
	KeyValueScopeSite = "site"

	KeyValueKeyAbout   = "about"
	KeyValueKeyContact = "contact"
	KeyValueKeyFooter  = "footer"
)

// KeyValue stores page content and settings of the website, e.g. the text of
// the About page or the contact details.
//
// Values are serialized using GORM's json serializer, which leverages the
// database JSON type when available (e.g., PostgreSQL, MySQL), and falls back
// to TEXT in others (e.g., SQLite). The `Scope` field enables namespacing.
type KeyValue struct {
	CreatedAt int `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt int `gorm:"autoUpdateTime" json:"updated_at"`

	// Scope allows grouping keys by namespace
	Scope string `gorm:"primaryKey;size:64" json:"scope"`

	// Key is the identifier within a scope.
	Key string `gorm:"primaryKey;size:128" json:"key"`

	// Value is stored as native JSON/JSONB (where supported) using datatypes.JSON.
	Value datatypes.JSON `json:"value"`
}

// KeyValueStore defines operations for scoped key-value storage.
type KeyValueStore interface {
	// Get retrieves the value for a (scope, key). Returns (nil, nil) if not found.
	Get(scope, key string) (datatypes.JSON, error)
	// GetAs unmarshals the value for a (scope, key) into out; false if not found.
	GetAs(scope, key string, out any) (bool, error)
	// Set stores/replaces the value for a (scope, key).
	Set(scope, key string, value datatypes.JSON) error
	// SetAny marshals v and stores it for a (scope, key).
	SetAny(scope, key string, v any) error
	// Delete removes the entry for a (scope, key). No error if missing.
	Delete(scope, key string) error
	// List returns all entries of a scope
	List(scope string) ([]KeyValue, error)
}
