package storage

import (
	"strings"

	arrays "github.com/adam-hanna/arrayOperations"
	"github.com/fatih/structs"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"tideland.dev/go/slices"

	"github.com/brightpath-it/backoffice/internal/id"
	"github.com/brightpath-it/backoffice/storage/model"
)

// RequestStorage implements model.RequestStore for one model.Kind using GORM
type RequestStorage struct {
	db    *gorm.DB
	kind  model.Kind
	clock clockwork.Clock
	ids   *id.Generator
}

// Kind returns the kind of requests handled by this storage
func (s *RequestStorage) Kind() model.Kind {
	return s.kind
}

func historyInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

func (s *RequestStorage) notFound(requestID string) error {
	return model.NotFoundErrorFmt("%s request not found: %s", s.kind.Name, requestID)
}

func (s *RequestStorage) byRequestID(tx *gorm.DB, requestID string) *gorm.DB {
	return tx.Where("request_id = ? AND kind = ?", requestID, s.kind.Name)
}

func (s *RequestStorage) find(tx *gorm.DB, requestID string) (*model.Request, error) {
	var r model.Request
	err := s.byRequestID(tx.Preload("StatusHistory", historyInOrder), requestID).First(&r).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.notFound(requestID)
		}
		return nil, dbError(err, "requests: get failed")
	}
	return &r, nil
}

// Create validates and stores a new request. The request starts with exactly
// one history entry holding the initial status of the kind.
func (s *RequestStorage) Create(req model.NewRequest, actor string) (*model.Request, error) {
	actor, err := checkActor(actor)
	if err != nil {
		return nil, err
	}
	if err = req.Validate(s.kind); err != nil {
		return nil, err
	}
	now := s.clock.Now().UTC()
	r := model.Request{
		RequestID:       s.ids.RequestID(s.kind.Prefix, now),
		Kind:            s.kind.Name,
		SubjectRef:      optionalString(req.SubjectRef),
		Name:            strings.TrimSpace(req.Name),
		Email:           strings.TrimSpace(req.Email),
		Phone:           strings.TrimSpace(req.Phone),
		Message:         req.Message,
		Company:         req.Company,
		Subject:         req.Subject,
		ExperienceLevel: req.ExperienceLevel,
		ResumeURL:       req.ResumeURL,
		SourceCountry:   req.SourceCountry,
		CreatedAt:       now,
		StatusHistory: []model.StatusEntry{
			{
				Status:    s.kind.Initial,
				Note:      s.kind.CreatedNote,
				ChangedAt: now,
				ChangedBy: actor,
			},
		},
	}
	if err := s.db.Create(&r).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, model.AlreadyExistsErrorFmt("request id already exists: %s", r.RequestID)
		}
		return nil, dbError(err, "requests: create failed")
	}
	log.WithFields(
		log.Fields{
			"kind":      s.kind.Name,
			"requestId": r.RequestID,
		},
	).Info("request created")
	return &r, nil
}

// AppendStatus appends a status entry and / or patches the contact fields of
// a request in one transaction. Existing history entries are never changed.
func (s *RequestStorage) AppendStatus(requestID string, update model.StatusUpdate, actor string) (
	*model.Request, error,
) {
	actor, err := checkActor(actor)
	if err != nil {
		return nil, err
	}
	if err = update.Validate(s.kind); err != nil {
		return nil, err
	}
	var out *model.Request
	err = s.db.Transaction(
		func(tx *gorm.DB) (err error) {
			out, err = s.appendStatus(tx, requestID, update, actor)
			return
		},
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RequestStorage) appendStatus(tx *gorm.DB, requestID string, update model.StatusUpdate, actor string) (
	*model.Request, error,
) {
	var r model.Request
	if err := s.byRequestID(tx.Select("id"), requestID).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.notFound(requestID)
		}
		return nil, dbError(err, "requests: get failed")
	}
	if update.Status != nil {
		note := strings.TrimSpace(update.Note)
		if note == "" {
			note = model.DefaultStatusNote(*update.Status)
		}
		entry := model.StatusEntry{
			RequestDBID: r.ID,
			Status:      *update.Status,
			Note:        note,
			ChangedAt:   s.clock.Now().UTC(),
			ChangedBy:   actor,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return nil, dbError(err, "requests: append status failed")
		}
	}
	if !update.Patch.IsEmpty() {
		if err := tx.Model(&model.Request{}).Where("id = ?", r.ID).
			Updates(patchColumns(update.Patch)).Error; err != nil {
			return nil, dbError(err, "requests: update failed")
		}
	}
	return s.find(tx, requestID)
}

// patchColumns turns the set fields of a patch into a column map
func patchColumns(p model.ContactPatch) map[string]any {
	columns := structs.Map(p)
	for k, v := range columns {
		if sp, ok := v.(*string); ok {
			columns[k] = *sp
		}
	}
	return columns
}

// BulkAppendStatus applies the same update to all passed requests in one
// transaction. Request ids that do not exist are reported as missing.
func (s *RequestStorage) BulkAppendStatus(requestIDs []string, update model.StatusUpdate, actor string) (
	*model.BulkResult, error,
) {
	actor, err := checkActor(actor)
	if err != nil {
		return nil, err
	}
	if update.Status == nil || !update.Patch.IsEmpty() {
		return nil, model.ValidationError{Message: "bulk updates must set a status and nothing else"}
	}
	if err = update.Validate(s.kind); err != nil {
		return nil, err
	}
	wanted := slices.Unique(requestIDs)
	if len(wanted) == 0 {
		return nil, model.ValidationError{Message: "requestIds must not be empty"}
	}
	var existing []string
	if err := s.db.Model(&model.Request{}).
		Where("kind = ? AND request_id IN ?", s.kind.Name, wanted).
		Pluck("request_id", &existing).Error; err != nil {
		return nil, dbError(err, "requests: bulk lookup failed")
	}
	found := arrays.Intersect(wanted, existing)
	err = s.db.Transaction(
		func(tx *gorm.DB) error {
			for _, rid := range found {
				if _, err := s.appendStatus(tx, rid, update, actor); err != nil {
					return err
				}
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	result := &model.BulkResult{
		Updated: found,
		Missing: slices.Subtract(wanted, existing),
	}
	if result.Updated == nil {
		result.Updated = []string{}
	}
	if result.Missing == nil {
		result.Missing = []string{}
	}
	return result, nil
}

// Get returns the request with the passed request id
func (s *RequestStorage) Get(requestID string) (*model.Request, error) {
	return s.find(s.db, requestID)
}

// Delete hard deletes a request together with its history
func (s *RequestStorage) Delete(requestID, actor string) (*model.DeletionRecord, error) {
	actor, err := checkActor(actor)
	if err != nil {
		return nil, err
	}
	var record *model.DeletionRecord
	err = s.db.Transaction(
		func(tx *gorm.DB) error {
			var r model.Request
			if err := s.byRequestID(tx, requestID).First(&r).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return s.notFound(requestID)
				}
				return dbError(err, "requests: get failed")
			}
			if err := tx.Where("request_db_id = ?", r.ID).Delete(&model.StatusEntry{}).Error; err != nil {
				return dbError(err, "requests: delete history failed")
			}
			if err := tx.Delete(&r).Error; err != nil {
				return dbError(err, "requests: delete failed")
			}
			record = &model.DeletionRecord{
				RequestID:  r.RequestID,
				Kind:       r.Kind,
				Name:       r.Name,
				Email:      r.Email,
				SubjectRef: r.SubjectRef,
				DeletedAt:  s.clock.Now().UTC(),
				DeletedBy:  actor,
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	log.WithFields(
		log.Fields{
			"kind":      s.kind.Name,
			"requestId": requestID,
			"actor":     actor,
		},
	).Info("request deleted")
	return record, nil
}

// latestEntries selects the id of the newest history entry of every request
func (s *RequestStorage) latestEntries() *gorm.DB {
	return s.db.Model(&model.StatusEntry{}).Select("MAX(id)").Group("request_db_id")
}

// List returns the requests matching the filter, newest first
func (s *RequestStorage) List(filter model.RequestFilter) ([]model.Request, error) {
	q := s.db.Where("kind = ?", s.kind.Name)
	if filter.Field != "" {
		column, err := s.kind.FilterColumn(filter.Field)
		if err != nil {
			return nil, err
		}
		q = q.Where(
			clause.Eq{
				Column: clause.Column{Name: column},
				Value:  s.kind.FilterValue(filter.Field, filter.Value),
			},
		)
	}
	if len(filter.Statuses) > 0 {
		current := s.db.Model(&model.StatusEntry{}).
			Select("request_db_id").
			Where("id IN (?) AND status IN ?", s.latestEntries(), filter.Statuses.Strings())
		q = q.Where("id IN (?)", current)
	}
	var requests []model.Request
	if err := q.Preload("StatusHistory", historyInOrder).
		Order("created_at DESC, id DESC").
		Find(&requests).Error; err != nil {
		return nil, dbError(err, "requests: list failed")
	}
	return requests, nil
}

// Stats counts the requests of this kind by their current status. Every
// status of the kind is present in the result.
func (s *RequestStorage) Stats() (map[model.Status]int64, error) {
	var rows []struct {
		Status model.Status
		Count  int64
	}
	err := s.db.Model(&model.StatusEntry{}).
		Select("status_entries.status AS status, COUNT(*) AS count").
		Joins("JOIN requests ON requests.id = status_entries.request_db_id").
		Where("requests.kind = ?", s.kind.Name).
		Where("status_entries.id IN (?)", s.latestEntries()).
		Group("status_entries.status").
		Scan(&rows).Error
	if err != nil {
		return nil, dbError(err, "requests: stats failed")
	}
	stats := make(map[model.Status]int64, len(s.kind.Statuses))
	for _, st := range s.kind.Statuses {
		stats[st] = 0
	}
	for _, row := range rows {
		stats[row.Status] = row.Count
	}
	return stats, nil
}

// Import stores records exported from the previous document store. Records
// whose request id already exists are skipped. Records without a history get
// one seeded from their top-level status.
func (s *RequestStorage) Import(records []model.LegacyRequest, actor string) (int, error) {
	actor, err := checkActor(actor)
	if err != nil {
		return 0, err
	}
	imported := 0
	err = s.db.Transaction(
		func(tx *gorm.DB) error {
			for i, legacy := range records {
				r, err := s.fromLegacy(legacy, actor)
				if err != nil {
					return errors.WithMessagef(err, "record %d", i)
				}
				var count int64
				if err = tx.Model(&model.Request{}).Where("request_id = ?", r.RequestID).
					Count(&count).Error; err != nil {
					return dbError(err, "requests: import lookup failed")
				}
				if count > 0 {
					log.WithField("requestId", r.RequestID).Debug("skipping already imported request")
					continue
				}
				if err = tx.Create(r).Error; err != nil {
					return dbError(err, "requests: import failed")
				}
				imported++
			}
			return nil
		},
	)
	if err != nil {
		return 0, err
	}
	return imported, nil
}

// checkActor returns the trimmed actor; every change must be attributed
func checkActor(actor string) (string, error) {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return "", model.ValidationError{Message: "actor is required"}
	}
	return actor, nil
}

func (s *RequestStorage) fromLegacy(l model.LegacyRequest, actor string) (*model.Request, error) {
	contact := model.NewRequest{
		Name:       l.Name,
		Email:      l.Email,
		Phone:      l.Phone,
		Message:    l.Message,
		SubjectRef: l.Subject(s.kind),
	}
	if err := contact.Validate(s.kind); err != nil {
		return nil, err
	}
	createdAt := l.CreatedAt.UTC()
	if l.CreatedAt.IsZero() {
		createdAt = s.clock.Now().UTC()
	}
	requestID := strings.TrimSpace(l.RequestID)
	if requestID == "" {
		requestID = s.ids.RequestID(s.kind.Prefix, createdAt)
	}
	r := &model.Request{
		RequestID:  requestID,
		Kind:       s.kind.Name,
		SubjectRef: optionalString(contact.SubjectRef),
		Name:       strings.TrimSpace(contact.Name),
		Email:      strings.TrimSpace(contact.Email),
		Phone:      strings.TrimSpace(contact.Phone),
		Message:    contact.Message,
		CreatedAt:  createdAt,
	}
	for _, e := range l.StatusHistory {
		st, err := model.ParseStatus(s.kind, e.Status)
		if err != nil {
			return nil, err
		}
		entry := model.StatusEntry{
			Status:    st,
			Note:      e.Note,
			ChangedAt: e.UpdatedAt.UTC(),
			ChangedBy: e.UpdatedBy,
		}
		if entry.Note == "" {
			entry.Note = model.DefaultStatusNote(st)
		}
		if e.UpdatedAt.IsZero() {
			entry.ChangedAt = createdAt
		}
		if entry.ChangedBy == "" {
			entry.ChangedBy = actor
		}
		r.StatusHistory = append(r.StatusHistory, entry)
	}
	if len(r.StatusHistory) > 0 {
		if current, _ := model.CurrentStatus(r); l.Status != "" && model.Status(l.Status) != current {
			log.WithFields(
				log.Fields{
					"requestId": requestID,
					"status":    l.Status,
					"history":   current,
				},
			).Warn("legacy status differs from history, keeping history")
		}
		return r, nil
	}
	seed := model.StatusEntry{
		Status:    s.kind.Initial,
		Note:      s.kind.CreatedNote,
		ChangedAt: createdAt,
		ChangedBy: actor,
	}
	if l.Status != "" {
		st, err := model.ParseStatus(s.kind, l.Status)
		if err != nil {
			return nil, err
		}
		if st != s.kind.Initial {
			seed.Status = st
			seed.Note = "Imported with status " + string(st)
		}
	}
	r.StatusHistory = []model.StatusEntry{seed}
	return r, nil
}
