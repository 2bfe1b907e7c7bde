package model

import (
	"time"

	"tideland.dev/go/slices"
)

// CatalogItem is implemented by the entities shown on the public Services,
// Training and Careers pages.
type CatalogItem interface {
	Service | TrainingCourse | CareerPosting
}

// Service is an IT or staffing service offered on the Services page
type Service struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Slug        string    `gorm:"uniqueIndex;size:128" json:"slug" validate:"required,max=128"`
	Title       string    `json:"title" validate:"required,max=200"`
	Summary     string    `json:"summary" validate:"max=500"`
	Description string    `json:"description"`
	Category    string    `gorm:"index;size:64" json:"category" validate:"max=64"`
	IsActive    bool      `gorm:"index" json:"isActive"`
	SortOrder   int       `json:"sortOrder"`
}

// TrainingCourse is a course listed on the Training page
type TrainingCourse struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Slug        string    `gorm:"uniqueIndex;size:128" json:"slug" validate:"required,max=128"`
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description"`
	Duration    string    `json:"duration" validate:"max=64"`
	Mode        string    `gorm:"index;size:16" json:"mode" validate:"omitempty,oneof=online onsite hybrid"`
	Fee         string    `json:"fee" validate:"max=64"`
	IsActive    bool      `gorm:"index" json:"isActive"`
	SortOrder   int       `json:"sortOrder"`
}

// CareerPosting is an open position listed on the Careers page
type CareerPosting struct {
	ID              uint      `gorm:"primaryKey" json:"-"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Slug            string    `gorm:"uniqueIndex;size:128" json:"slug" validate:"required,max=128"`
	Title           string    `json:"title" validate:"required,max=200"`
	Department      string    `gorm:"index;size:64" json:"department" validate:"max=64"`
	Location        string    `json:"location" validate:"max=128"`
	EmploymentType  string    `gorm:"index;size:32" json:"employmentType" validate:"omitempty,oneof=full-time part-time contract internship"`
	ExperienceLevel string    `gorm:"index;size:32" json:"experienceLevel" validate:"omitempty,oneof=entry mid senior lead"`
	Description     string    `json:"description"`
	IsActive        bool      `gorm:"index" json:"isActive"`
	SortOrder       int       `json:"sortOrder"`
}

// catalogFilterColumns maps the filterable JSON fields per catalog type to columns
var catalogFilterColumns = map[string]map[string]string{
	"services": {
		"isActive": "is_active",
		"category": "category",
	},
	"trainings": {
		"isActive": "is_active",
		"mode":     "mode",
	},
	"careers": {
		"isActive":        "is_active",
		"department":      "department",
		"employmentType":  "employment_type",
		"experienceLevel": "experience_level",
	},
}

// CatalogFilterColumn maps a filter field of the named catalog to its column
func CatalogFilterColumn(catalog, field string) (string, error) {
	columns := catalogFilterColumns[catalog]
	column, ok := columns[field]
	if !ok {
		allowed := make([]string, 0, len(columns))
		for f := range columns {
			allowed = append(allowed, f)
		}
		return "", ValidationError{
			Message: "cannot filter " + catalog + " by '" + field + "'",
			Allowed: slices.Sort(allowed),
		}
	}
	return column, nil
}

// ValidateCatalogItem checks the struct tags of a catalog item
func ValidateCatalogItem[T CatalogItem](item *T) error {
	return validateStruct(item)
}

// CatalogFilter narrows a catalog listing by a single field
type CatalogFilter struct {
	Field string
	Value string
}

// CatalogStore stores one type of catalog item, addressed by slug
type CatalogStore[T CatalogItem] interface {
	Name() string
	List(filter CatalogFilter) ([]T, error)
	Get(slug string) (*T, error)
	Create(item T) (*T, error)
	Update(slug string, item T) (*T, error)
	Delete(slug string) error
}
