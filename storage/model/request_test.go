package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validNewRequest() NewRequest {
	return NewRequest{
		Name:  "Jane Doe",
		Email: "jane@example.com",
		Phone: "+1 555 0100",
	}
}

func TestNewRequestValidate(t *testing.T) {
	t.Run(
		"service alias", func(t *testing.T) {
			r := validNewRequest()
			r.ServiceID = "S1"
			require.NoError(t, r.Validate(ServiceRequests))
			assert.Equal(t, "S1", r.SubjectRef)
		},
	)
	t.Run(
		"subjectRef wins over alias", func(t *testing.T) {
			r := validNewRequest()
			r.SubjectRef = "T9"
			r.CourseID = "T1"
			require.NoError(t, r.Validate(TrainingRequests))
			assert.Equal(t, "T9", r.SubjectRef)
		},
	)
	t.Run(
		"missing subject", func(t *testing.T) {
			r := validNewRequest()
			err := r.Validate(CareerApplications)
			var verr ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Message, "careerId")
		},
	)
	t.Run(
		"missing contact fields", func(t *testing.T) {
			r := NewRequest{ServiceID: "S1"}
			err := r.Validate(ServiceRequests)
			var verr ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Message, "name is required")
			assert.Contains(t, verr.Message, "email is required")
			assert.Contains(t, verr.Message, "phone is required")
		},
	)
	t.Run(
		"invalid email", func(t *testing.T) {
			r := validNewRequest()
			r.Email = "not-an-email"
			r.ServiceID = "S1"
			err := r.Validate(ServiceRequests)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "email must be a valid email address")
		},
	)
	t.Run(
		"career experience level", func(t *testing.T) {
			r := validNewRequest()
			r.CareerID = "C1"
			r.ExperienceLevel = "Senior"
			require.NoError(t, r.Validate(CareerApplications))
			assert.Equal(t, "senior", r.ExperienceLevel)

			r.ExperienceLevel = "wizard"
			var verr ValidationError
			require.True(t, errors.As(r.Validate(CareerApplications), &verr))
			assert.Equal(t, ExperienceLevels, verr.Allowed)
		},
	)
	t.Run(
		"contact needs message but no subject", func(t *testing.T) {
			r := validNewRequest()
			assert.Error(t, r.Validate(ContactRequests))
			r.Message = "Please call me back"
			assert.NoError(t, r.Validate(ContactRequests))
			assert.Empty(t, r.SubjectRef)
		},
	)
}

func TestStatusUpdateValidate(t *testing.T) {
	approved := StatusApproved
	bogus := Status("bogus")
	email := "broken"
	name := "Jane Roe"

	assert.Error(t, StatusUpdate{}.Validate(ServiceRequests))
	assert.NoError(t, StatusUpdate{Status: &approved}.Validate(ServiceRequests))
	assert.NoError(t, StatusUpdate{Patch: ContactPatch{Name: &name}}.Validate(ContactRequests))

	var verr ValidationError
	require.True(t, errors.As(StatusUpdate{Status: &bogus}.Validate(ServiceRequests), &verr))
	assert.Equal(t, ServiceRequests.Statuses.Strings(), verr.Allowed)

	require.True(t, errors.As(StatusUpdate{Status: &approved}.Validate(ContactRequests), &verr))
	assert.Equal(t, ContactRequests.Statuses.Strings(), verr.Allowed)

	assert.Error(t, StatusUpdate{Patch: ContactPatch{Email: &email}}.Validate(ContactRequests))
}

func TestRequestMarshalJSONAddsCurrentStatus(t *testing.T) {
	ref := "S1"
	r := Request{
		RequestID:  "SR-1-1",
		Kind:       ServiceRequests.Name,
		SubjectRef: &ref,
		Name:       "Jane Doe",
		StatusHistory: []StatusEntry{
			{Status: StatusDraft, Note: "Service request created", ChangedBy: "admin"},
			{Status: StatusApproved, Note: "ok", ChangedBy: "admin"},
		},
	}
	data, err := json.Marshal(r)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "approved", out["currentStatus"])
	assert.Equal(t, "SR-1-1", out["requestId"])
	assert.Equal(t, "S1", out["subjectRef"])
	history := out["statusHistory"].([]any)
	require.Len(t, history, 2)
	assert.Equal(t, "admin", history[0].(map[string]any)["updatedBy"])
	assert.NotContains(t, out, "ID")
}

func TestKindFilterColumn(t *testing.T) {
	col, err := CareerApplications.FilterColumn("experienceLevel")
	require.NoError(t, err)
	assert.Equal(t, "experience_level", col)

	_, err = ServiceRequests.FilterColumn("experienceLevel")
	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, ServiceRequests.FilterFields, verr.Allowed)
}

func TestKindFilterValue(t *testing.T) {
	assert.Equal(t, "senior", CareerApplications.FilterValue("experienceLevel", " Senior"))
	assert.Equal(t, "Jane@Example.com", CareerApplications.FilterValue("email", "Jane@Example.com "))
}

func TestKindByName(t *testing.T) {
	k, ok := KindByName("training")
	require.True(t, ok)
	assert.Equal(t, "TR", k.Prefix)
	_, ok = KindByName("invoice")
	assert.False(t, ok)
	assert.Equal(t, []string{"service", "training", "career", "contact"}, KindNames())
}
