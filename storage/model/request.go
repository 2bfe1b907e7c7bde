package model

import (
	"encoding/json"
	"time"
)

// Request is a lead-like record submitted by a site visitor: a service
// request, a training request, a career application or a contact request.
// Its state is tracked by an append-only StatusHistory; the current status is
// always the status of the last entry and never stored separately.
type Request struct {
	ID              uint          `gorm:"primaryKey" json:"-"`
	RequestID       string        `gorm:"uniqueIndex;size:64" json:"requestId"`
	Kind            string        `gorm:"index;size:32" json:"kind"`
	SubjectRef      *string       `gorm:"index;size:255" json:"subjectRef,omitempty"`
	Name            string        `json:"name"`
	Email           string        `gorm:"index" json:"email"`
	Phone           string        `json:"phone"`
	Message         string        `json:"message,omitempty"`
	Company         string        `json:"company,omitempty"`
	Subject         string        `json:"subject,omitempty"`
	ExperienceLevel string        `gorm:"index;size:32" json:"experienceLevel,omitempty"`
	ResumeURL       string        `json:"resumeUrl,omitempty"`
	SourceCountry   string        `gorm:"size:8" json:"sourceCountry,omitempty"`
	CreatedAt       time.Time     `gorm:"index;autoCreateTime:false" json:"createdAt"`
	StatusHistory   []StatusEntry `gorm:"foreignKey:RequestDBID;constraint:OnDelete:CASCADE" json:"statusHistory"`
}

// StatusEntry is one entry of a request's status history
type StatusEntry struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	RequestDBID uint      `gorm:"column:request_db_id;index" json:"-"`
	Status      Status    `gorm:"index;size:32" json:"status"`
	Note        string    `json:"note"`
	ChangedAt   time.Time `json:"updatedAt"`
	ChangedBy   string    `json:"updatedBy"`
}

// CurrentStatus returns the status of the last history entry of the request.
func CurrentStatus(r *Request) (Status, error) {
	if r == nil || len(r.StatusHistory) == 0 {
		return "", ErrEmptyHistory
	}
	return r.StatusHistory[len(r.StatusHistory)-1].Status, nil
}

// MarshalJSON implements the json.Marshaler interface.
// It adds the derived currentStatus field.
func (r Request) MarshalJSON() ([]byte, error) {
	type request Request
	current, _ := CurrentStatus(&r)
	return json.Marshal(
		struct {
			request
			CurrentStatus Status `json:"currentStatus,omitempty"`
		}{
			request:       request(r),
			CurrentStatus: current,
		},
	)
}

// NewRequest holds the fields a visitor submits when creating a request.
// The subject reference can be given as subjectRef or under the kind
// specific alias (serviceId, courseId, careerId).
type NewRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required,min=5,max=32"`
	Message         string `json:"message" validate:"max=5000"`
	SubjectRef      string `json:"subjectRef"`
	ServiceID       string `json:"serviceId"`
	CourseID        string `json:"courseId"`
	CareerID        string `json:"careerId"`
	Company         string `json:"company" validate:"max=200"`
	Subject         string `json:"subject" validate:"max=300"`
	ExperienceLevel string `json:"experienceLevel"`
	ResumeURL       string `json:"resumeUrl" validate:"omitempty,url"`
	SourceCountry   string `json:"-"`
}

// subjectFor returns the subject reference for the passed kind
func (r NewRequest) subjectFor(kind Kind) string {
	if r.SubjectRef != "" {
		return r.SubjectRef
	}
	switch kind.SubjectAlias {
	case "serviceId":
		return r.ServiceID
	case "courseId":
		return r.CourseID
	case "careerId":
		return r.CareerID
	}
	return ""
}

// Validate checks the request against the generic rules and the rules of
// the passed kind, and normalizes the subject reference into SubjectRef.
func (r *NewRequest) Validate(kind Kind) error {
	if err := validateStruct(r); err != nil {
		return err
	}
	r.SubjectRef = r.subjectFor(kind)
	if kind.SubjectRequired && r.SubjectRef == "" {
		return ValidationError{Message: kind.SubjectAlias + " is required"}
	}
	if kind.Validate != nil {
		return kind.Validate(r)
	}
	return nil
}

// ContactPatch holds optional changes to the contact fields of a request.
// Only non-nil fields are applied.
type ContactPatch struct {
	Name    *string `json:"name,omitempty" structs:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Email   *string `json:"email,omitempty" structs:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" structs:"phone,omitempty" validate:"omitempty,min=5,max=32"`
	Message *string `json:"message,omitempty" structs:"message,omitempty" validate:"omitempty,max=5000"`
}

// IsEmpty reports whether the patch changes nothing
func (p ContactPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Message == nil
}

// StatusUpdate is an administrative change to a request: an optional status
// to append and an optional patch of contact fields.
type StatusUpdate struct {
	Status *Status
	Note   string
	Patch  ContactPatch
}

// Validate checks the update for the passed kind; it does not touch storage.
func (u StatusUpdate) Validate(kind Kind) error {
	if u.Status == nil && u.Patch.IsEmpty() {
		return ValidationError{Message: "nothing to update: provide a status or contact fields"}
	}
	if u.Status != nil && !kind.Allows(*u.Status) {
		return ValidationError{
			Message: "invalid status '" + string(*u.Status) + "' for " + kind.Name + " requests",
			Allowed: kind.Statuses.Strings(),
		}
	}
	return validateStruct(u.Patch)
}

// DeletionRecord summarizes a hard deleted request for audit display
type DeletionRecord struct {
	RequestID  string    `json:"requestId"`
	Kind       string    `json:"kind"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	SubjectRef *string   `json:"subjectRef,omitempty"`
	DeletedAt  time.Time `json:"deletedAt"`
	DeletedBy  string    `json:"deletedBy"`
}

// RequestFilter narrows a request listing. Field and Value filter by a single
// top-level field; Statuses filters by current status.
type RequestFilter struct {
	Field    string
	Value    string
	Statuses Statuses
}

// BulkResult reports the outcome of a bulk status update
type BulkResult struct {
	Updated []string `json:"updated"`
	Missing []string `json:"missing"`
}

// LegacyRequest is a request as exported from the previous document store.
// Older records may only carry a top-level status and no history.
type LegacyRequest struct {
	RequestID     string              `json:"requestId"`
	SubjectRef    string              `json:"subjectRef"`
	ServiceID     string              `json:"serviceId"`
	CourseID      string              `json:"courseId"`
	CareerID      string              `json:"careerId"`
	Name          string              `json:"name"`
	Email         string              `json:"email"`
	Phone         string              `json:"phone"`
	Message       string              `json:"message"`
	Status        string              `json:"status"`
	StatusHistory []LegacyStatusEntry `json:"statusHistory"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// LegacyStatusEntry is a history entry of a LegacyRequest
type LegacyStatusEntry struct {
	Status    string    `json:"status"`
	Note      string    `json:"note"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy string    `json:"updatedBy"`
}

// Subject returns the subject reference of the legacy record for the kind
func (l LegacyRequest) Subject(kind Kind) string {
	return NewRequest{
		SubjectRef: l.SubjectRef,
		ServiceID:  l.ServiceID,
		CourseID:   l.CourseID,
		CareerID:   l.CareerID,
	}.subjectFor(kind)
}

// RequestStore is the status history protocol for one Kind of request.
// Every change is attributed to an actor; a blank actor is rejected.
type RequestStore interface {
	Kind() Kind
	// Create stores a new request with a single seed history entry
	Create(req NewRequest, actor string) (*Request, error)
	// AppendStatus appends a history entry and/or patches contact fields
	AppendStatus(requestID string, update StatusUpdate, actor string) (*Request, error)
	// BulkAppendStatus applies the same status update to several requests
	BulkAppendStatus(requestIDs []string, update StatusUpdate, actor string) (*BulkResult, error)
	// Get returns a request by its request id
	Get(requestID string) (*Request, error)
	// Delete hard deletes a request and returns a summary
	Delete(requestID string, actor string) (*DeletionRecord, error)
	// List returns requests, newest first
	List(filter RequestFilter) ([]Request, error)
	// Stats counts requests by their current status
	Stats() (map[Status]int64, error)
	// Import stores legacy records, skipping request ids that already exist.
	// Every record must pass the contact checks of Create.
	Import(records []LegacyRequest, actor string) (int, error)
}
