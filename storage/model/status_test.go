package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(ServiceRequests, "approved")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, s)

	_, err = ParseStatus(ServiceRequests, "selected")
	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, ServiceRequests.Statuses.Strings(), verr.Allowed)

	s, err = ParseStatus(CareerApplications, "selected")
	require.NoError(t, err)
	assert.Equal(t, StatusSelected, s)
}

func TestParseStatuses(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		in      string
		want    Statuses
		wantErr bool
	}{
		{name: "empty", kind: ContactRequests, in: ""},
		{name: "only separators", kind: ContactRequests, in: " , ,"},
		{name: "single", kind: ContactRequests, in: "read", want: Statuses{StatusRead}},
		{
			name: "several with spaces", kind: ServiceRequests, in: "draft, pending",
			want: Statuses{StatusDraft, StatusPending},
		},
		{name: "unknown", kind: ContactRequests, in: "read,approved", wantErr: true},
	}
	for _, test := range tests {
		t.Run(
			test.name, func(t *testing.T) {
				got, err := ParseStatuses(test.kind, test.in)
				if test.wantErr {
					var verr ValidationError
					require.True(t, errors.As(err, &verr))
					assert.Contains(t, verr.Message, "approved")
					assert.NotContains(t, verr.Message, "read,")
					return
				}
				require.NoError(t, err)
				assert.ElementsMatch(t, test.want, got)
			},
		)
	}
}

func TestDefaultStatusNote(t *testing.T) {
	assert.Equal(t, "Status updated to followup1", DefaultStatusNote(StatusFollowup1))
}

func TestCurrentStatus(t *testing.T) {
	_, err := CurrentStatus(&Request{})
	assert.ErrorIs(t, err, ErrEmptyHistory)
	_, err = CurrentStatus(nil)
	assert.ErrorIs(t, err, ErrEmptyHistory)

	r := &Request{
		StatusHistory: []StatusEntry{
			{Status: StatusDraft},
			{Status: StatusPending},
			{Status: StatusApproved},
		},
	}
	s, err := CurrentStatus(r)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, s)
}
