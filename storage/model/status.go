package model

import (
	slices2 "slices"
	"strings"

	"tideland.dev/go/slices"
)

// Status is the state a request is in at one point of its history,
// e.g. "pending" or "approved". Which values are valid depends on the Kind
// of the request.
type Status string

// Constants for Status
const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusFollowup1 Status = "followup1"
	StatusFollowup2 Status = "followup2"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"

	StatusReviewing   Status = "reviewing"
	StatusInterviewed Status = "interviewed"
	StatusSelected    Status = "selected"

	StatusNew      Status = "new"
	StatusRead     Status = "read"
	StatusReplied  Status = "replied"
	StatusResolved Status = "resolved"
	StatusArchived Status = "archived"
)

// String returns the canonical string representation for the status.
func (s Status) String() string {
	return string(s)
}

// Statuses is a list of Status values
type Statuses []Status

// Strings returns the statuses as plain strings
func (s Statuses) Strings() []string {
	out := make([]string, len(s))
	for i, st := range s {
		out[i] = string(st)
	}
	return out
}

// Contains reports whether the status is part of the list
func (s Statuses) Contains(status Status) bool {
	return slices2.Contains(s, status)
}

// ParseStatus converts a string to a Status of the passed Kind, returning a
// ValidationError naming the allowed values for invalid input.
func ParseStatus(kind Kind, v string) (Status, error) {
	s := Status(strings.TrimSpace(v))
	if !kind.Statuses.Contains(s) {
		return "", ValidationError{
			Message: "invalid status '" + v + "' for " + kind.Name + " requests",
			Allowed: kind.Statuses.Strings(),
		}
	}
	return s, nil
}

// ParseStatuses parses a comma separated list of statuses, e.g. from a query
// parameter. Empty input gives an empty list. All unknown values are reported
// in one ValidationError.
func ParseStatuses(kind Kind, v string) (Statuses, error) {
	var parsed []Status
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			parsed = append(parsed, Status(p))
		}
	}
	if len(parsed) == 0 {
		return nil, nil
	}
	parsed = slices.Unique(parsed)
	if unknown := slices.Subtract(parsed, []Status(kind.Statuses)); len(unknown) > 0 {
		return nil, ValidationError{
			Message: "invalid status filter '" + strings.Join(Statuses(unknown).Strings(), ",") + "' for " +
				kind.Name + " requests",
			Allowed: kind.Statuses.Strings(),
		}
	}
	return parsed, nil
}

// DefaultStatusNote is the note recorded when a status change comes without one
func DefaultStatusNote(s Status) string {
	return "Status updated to " + string(s)
}
