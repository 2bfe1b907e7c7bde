package storage

import (
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/brightpath-it/backoffice/internal/id"
	"github.com/brightpath-it/backoffice/storage/model"
)

// Storage is a GORM-based storage implementation
type Storage struct {
	db         *gorm.DB
	userParams Argon2idParams
	clock      clockwork.Clock
	ids        *id.Generator
}

var models = []any{
	&model.Request{},
	&model.StatusEntry{},
	&model.Service{},
	&model.TrainingCourse{},
	&model.CareerPosting{},
	&model.KeyValue{},
	&model.User{},
}

// NewStorage creates a new GORM-based storage
func NewStorage(config Config) (*Storage, error) {
	db, err := Connect(config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	// Auto migrate the schemas
	if err = db.AutoMigrate(models...); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	ids, err := id.NewGenerator(config.NodeID)
	if err != nil {
		return nil, err
	}

	// Fill user hash params with defaults if zero values
	params := config.UsersHash
	if params.Time == 0 {
		params = defaultHashParams()
	}
	clock := config.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Storage{
		db:         db,
		userParams: params,
		clock:      clock,
		ids:        ids,
	}, nil
}

// DB returns the underlying gorm connection
func (s *Storage) DB() *gorm.DB {
	return s.db
}

// Requests returns the RequestStorage of the passed kind
func (s *Storage) Requests(kind model.Kind) *RequestStorage {
	return &RequestStorage{
		db:    s.db,
		kind:  kind,
		clock: s.clock,
		ids:   s.ids,
	}
}

// Services returns the CatalogStorage for services
func (s *Storage) Services() *CatalogStorage[model.Service] {
	return &CatalogStorage[model.Service]{db: s.db, name: "services"}
}

// Trainings returns the CatalogStorage for training courses
func (s *Storage) Trainings() *CatalogStorage[model.TrainingCourse] {
	return &CatalogStorage[model.TrainingCourse]{db: s.db, name: "trainings"}
}

// Careers returns the CatalogStorage for career postings
func (s *Storage) Careers() *CatalogStorage[model.CareerPosting] {
	return &CatalogStorage[model.CareerPosting]{db: s.db, name: "careers"}
}

// Backends groups all storages of this warehouse
func (s *Storage) Backends() model.Backends {
	requests := make(map[string]model.RequestStore, len(model.Kinds))
	for _, k := range model.Kinds {
		requests[k.Name] = s.Requests(k)
	}
	return model.Backends{
		Requests:  requests,
		Services:  s.Services(),
		Trainings: s.Trainings(),
		Careers:   s.Careers(),
		KV:        s.KeyValue(),
		Users:     s.UsersStorage(),
	}
}
