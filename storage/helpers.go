package storage

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/brightpath-it/backoffice/storage/model"
)

// dbError wraps an unexpected database error
func dbError(err error, msg string) error {
	return model.PersistenceError{Err: errors.Wrap(err, msg)}
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// isUniqueConstraintError reports whether err is caused by a violated unique
// index. Translated gorm errors are preferred; the driver messages are the
// fallback for drivers without error translation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}

// SiteSettings returns all settings of the site scope keyed by their key
func SiteSettings(kvStorage model.KeyValueStore) (map[string]datatypes.JSON, error) {
	settings := make(map[string]datatypes.JSON)
	if kvStorage == nil {
		return settings, nil
	}
	rows, err := kvStorage.List(model.KeyValueScopeSite)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		settings[row.Key] = row.Value
	}
	return settings, nil
}
