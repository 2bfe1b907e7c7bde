package model

// Backends groups all storage interfaces used by the application.
// It provides a single struct that can be passed around instead of
// multiple return values for each storage backend.
type Backends struct {
	Requests  map[string]RequestStore
	Services  CatalogStore[Service]
	Trainings CatalogStore[TrainingCourse]
	Careers   CatalogStore[CareerPosting]
	KV        KeyValueStore
	Users     UsersStore
}

// RequestStoreFor returns the RequestStore of the passed kind
func (b Backends) RequestStoreFor(kind Kind) RequestStore {
	return b.Requests[kind.Name]
}
