package storage

import (
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/brightpath-it/backoffice/storage/model"
)

// KeyValueStorage implements model.KeyValueStore using GORM.
type KeyValueStorage struct {
	db *gorm.DB
}

// KeyValue provides an accessor for scoped key-value storage.
func (s *Storage) KeyValue() *KeyValueStorage {
	return &KeyValueStorage{db: s.db}
}

// Get returns the JSON value for a (scope, key). If not found, returns nil, nil.
func (s *KeyValueStorage) Get(scope, key string) (datatypes.JSON, error) {
	// Read the JSON/JSONB value as raw bytes to support scalar JSON (e.g., numbers).
	var raw []byte
	row := s.db.Model(&model.KeyValue{}).
		Select("value").
		Where(
			&model.KeyValue{
				Scope: scope,
				Key:   key,
			},
		).
		Row()
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, dbError(err, "settings: get failed")
	}
	if raw == nil {
		return nil, nil
	}
	return raw, nil
}

// Set upserts the JSON value for a (scope, key). The value must be valid JSON.
func (s *KeyValueStorage) Set(scope, key string, value datatypes.JSON) error {
	if !json.Valid(value) {
		return model.ValidationError{Message: "value of '" + key + "' is not valid JSON"}
	}
	kv := model.KeyValue{
		Scope: scope,
		Key:   key,
		Value: value,
	}
	err := s.db.Clauses(
		clause.OnConflict{
			Columns: []clause.Column{
				{Name: "scope"},
				{Name: "key"},
			},
			DoUpdates: clause.AssignmentColumns(
				[]string{
					"value",
					"updated_at",
				},
			),
		},
	).Create(&kv).Error
	if err != nil {
		return dbError(err, "settings: set failed")
	}
	return nil
}

// Delete removes a (scope, key) pair. No error if it's missing.
func (s *KeyValueStorage) Delete(scope, key string) error {
	err := s.db.Where(
		&model.KeyValue{
			Scope: scope,
			Key:   key,
		},
	).Delete(&model.KeyValue{}).Error
	if err != nil {
		return dbError(err, "settings: delete failed")
	}
	return nil
}

// GetAs retrieves and unmarshals the value for (scope, key) into out.
// out must be a pointer to the target type. Returns (false, nil) if not found.
func (s *KeyValueStorage) GetAs(scope, key string, out any) (bool, error) {
	raw, err := s.Get(scope, key)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err = json.Unmarshal(raw, out); err != nil {
		return false, errors.Wrapf(err, "settings: could not decode '%s'", key)
	}
	return true, nil
}

// SetAny marshals v to JSON and stores it at (scope, key).
func (s *KeyValueStorage) SetAny(scope, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errors.WithStack(err)
	}
	return s.Set(scope, key, datatypes.JSON(b))
}

// List returns all entries of a scope ordered by key
func (s *KeyValueStorage) List(scope string) ([]model.KeyValue, error) {
	var rows []model.KeyValue
	if err := s.db.Where("scope = ?", scope).Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&rows).Error; err != nil {
		return nil, dbError(err, "settings: list failed")
	}
	return rows, nil
}
