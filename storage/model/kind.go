package model

import (
	"slices"
	"strings"
)

// Kind describes one type of request-like record. All four request types
// share storage, handlers and the status history protocol; a Kind only
// supplies what differs between them.
type Kind struct {
	// Name is the short name, used in routes as "<name>-requests"
	Name string
	// Prefix is prepended to generated request ids
	Prefix string
	// Statuses is the closed set of statuses of this kind
	Statuses Statuses
	// Initial is the status a new request starts with
	Initial Status
	// CreatedNote is the note of the seed history entry
	CreatedNote string
	// SubjectRequired marks kinds whose requests must reference a catalog item
	SubjectRequired bool
	// SubjectAlias is the kind specific JSON name of the subject reference
	SubjectAlias string
	// FilterFields lists the JSON field names a listing may be filtered by
	FilterFields []string
	// Validate applies additional kind specific checks to new requests
	Validate func(req *NewRequest) error
}

// ExperienceLevels are the accepted values for NewRequest.ExperienceLevel
var ExperienceLevels = []string{
	"entry",
	"mid",
	"senior",
	"lead",
}

var leadStatuses = Statuses{
	StatusDraft,
	StatusPending,
	StatusFollowup1,
	StatusFollowup2,
	StatusApproved,
	StatusRejected,
}

// The request kinds handled by the back office
var (
	ServiceRequests = Kind{
		Name:            "service",
		Prefix:          "SR",
		Statuses:        leadStatuses,
		Initial:         StatusDraft,
		CreatedNote:     "Service request created",
		SubjectRequired: true,
		SubjectAlias:    "serviceId",
		FilterFields:    []string{"subjectRef", "email", "company"},
	}
	TrainingRequests = Kind{
		Name:            "training",
		Prefix:          "TR",
		Statuses:        leadStatuses,
		Initial:         StatusDraft,
		CreatedNote:     "Training request created",
		SubjectRequired: true,
		SubjectAlias:    "courseId",
		FilterFields:    []string{"subjectRef", "email", "company"},
	}
	CareerApplications = Kind{
		Name:   "career",
		Prefix: "CA",
		Statuses: Statuses{
			StatusPending,
			StatusReviewing,
			StatusInterviewed,
			StatusSelected,
			StatusRejected,
		},
		Initial:         StatusPending,
		CreatedNote:     "Application submitted",
		SubjectRequired: true,
		SubjectAlias:    "careerId",
		FilterFields:    []string{"subjectRef", "email", "experienceLevel"},
		Validate:        validateCareerApplication,
	}
	ContactRequests = Kind{
		Name:   "contact",
		Prefix: "CR",
		Statuses: Statuses{
			StatusNew,
			StatusRead,
			StatusReplied,
			StatusResolved,
			StatusArchived,
		},
		Initial:      StatusNew,
		CreatedNote:  "Contact request received",
		SubjectAlias: "subjectRef",
		FilterFields: []string{"subjectRef", "email"},
		Validate:     validateContactRequest,
	}
)

// Kinds lists all request kinds
var Kinds = []Kind{
	ServiceRequests,
	TrainingRequests,
	CareerApplications,
	ContactRequests,
}

// KindByName returns the Kind with the passed name
func KindByName(name string) (Kind, bool) {
	for _, k := range Kinds {
		if k.Name == name {
			return k, true
		}
	}
	return Kind{}, false
}

// KindNames returns the names of all kinds
func KindNames() []string {
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = k.Name
	}
	return names
}

// Allows reports whether the status belongs to this kind
func (k Kind) Allows(s Status) bool {
	return k.Statuses.Contains(s)
}

// FilterColumn maps a filter field of this kind to its column name.
func (k Kind) FilterColumn(field string) (string, error) {
	if !slices.Contains(k.FilterFields, field) {
		return "", ValidationError{
			Message: "cannot filter " + k.Name + " requests by '" + field + "'",
			Allowed: k.FilterFields,
		}
	}
	return requestColumns[field], nil
}

// FilterValue normalizes a filter value the way the field is stored.
// Experience levels are stored lower case.
func (k Kind) FilterValue(field, value string) string {
	value = strings.TrimSpace(value)
	if field == "experienceLevel" {
		return strings.ToLower(value)
	}
	return value
}

var requestColumns = map[string]string{
	"subjectRef":      "subject_ref",
	"email":           "email",
	"company":         "company",
	"experienceLevel": "experience_level",
}

func validateCareerApplication(req *NewRequest) error {
	if req.ExperienceLevel == "" {
		return nil
	}
	req.ExperienceLevel = strings.ToLower(req.ExperienceLevel)
	if !slices.Contains(ExperienceLevels, req.ExperienceLevel) {
		return ValidationError{
			Message: "invalid experience level '" + req.ExperienceLevel + "'",
			Allowed: ExperienceLevels,
		}
	}
	return nil
}

func validateContactRequest(req *NewRequest) error {
	if strings.TrimSpace(req.Message) == "" {
		return ValidationError{Message: "message is required"}
	}
	return nil
}
