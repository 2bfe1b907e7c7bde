package storage

import (
	"strconv"

	"github.com/fatih/structs"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/brightpath-it/backoffice/storage/model"
)

// CatalogStorage implements model.CatalogStore for one catalog item type
type CatalogStorage[T model.CatalogItem] struct {
	db   *gorm.DB
	name string
}

// Name returns the name of the catalog, e.g. "services"
func (s *CatalogStorage[T]) Name() string {
	return s.name
}

func slugOf[T model.CatalogItem](item *T) string {
	slug, _ := structs.New(item).Field("Slug").Value().(string)
	return slug
}

// List returns the catalog items ordered by their sort order, newest first
// within the same sort order
func (s *CatalogStorage[T]) List(filter model.CatalogFilter) ([]T, error) {
	q := s.db.Model(new(T))
	if filter.Field != "" {
		column, err := model.CatalogFilterColumn(s.name, filter.Field)
		if err != nil {
			return nil, err
		}
		var value any = filter.Value
		if column == "is_active" {
			b, err := strconv.ParseBool(filter.Value)
			if err != nil {
				return nil, model.ValidationError{
					Message: "isActive must be a boolean",
					Allowed: []string{
						"true",
						"false",
					},
				}
			}
			value = b
		}
		q = q.Where(
			clause.Eq{
				Column: clause.Column{Name: column},
				Value:  value,
			},
		)
	}
	var items []T
	if err := q.Order("sort_order ASC, created_at DESC").Find(&items).Error; err != nil {
		return nil, dbError(err, s.name+": list failed")
	}
	return items, nil
}

// Get returns the item with the passed slug
func (s *CatalogStorage[T]) Get(slug string) (*T, error) {
	var item T
	if err := s.db.Where("slug = ?", slug).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NotFoundErrorFmt("%s item not found: %s", s.name, slug)
		}
		return nil, dbError(err, s.name+": get failed")
	}
	return &item, nil
}

// Create stores a new item; the slug must not be taken
func (s *CatalogStorage[T]) Create(item T) (*T, error) {
	if err := model.ValidateCatalogItem(&item); err != nil {
		return nil, err
	}
	if err := s.db.Create(&item).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, model.AlreadyExistsErrorFmt("%s item already exists: %s", s.name, slugOf(&item))
		}
		return nil, dbError(err, s.name+": create failed")
	}
	return &item, nil
}

// Update replaces all fields of the item with the passed slug. The slug
// itself may change.
func (s *CatalogStorage[T]) Update(slug string, item T) (*T, error) {
	if err := model.ValidateCatalogItem(&item); err != nil {
		return nil, err
	}
	res := s.db.Model(new(T)).
		Where("slug = ?", slug).
		Select("*").
		Omit("id", "created_at").
		Updates(&item)
	if res.Error != nil {
		if isUniqueConstraintError(res.Error) {
			return nil, model.AlreadyExistsErrorFmt("%s item already exists: %s", s.name, slugOf(&item))
		}
		return nil, dbError(res.Error, s.name+": update failed")
	}
	if res.RowsAffected == 0 {
		return nil, model.NotFoundErrorFmt("%s item not found: %s", s.name, slug)
	}
	return s.Get(slugOf(&item))
}

// Delete hard deletes the item with the passed slug
func (s *CatalogStorage[T]) Delete(slug string) error {
	res := s.db.Where("slug = ?", slug).Delete(new(T))
	if res.Error != nil {
		return dbError(res.Error, s.name+": delete failed")
	}
	if res.RowsAffected == 0 {
		return model.NotFoundErrorFmt("%s item not found: %s", s.name, slug)
	}
	return nil
}
