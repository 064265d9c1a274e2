package state

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmission_Paths(t *testing.T) {
	tests := []struct {
		name    string
		events  []string
		final   string
		status  int
		message string
	}{
		{"posted", []string{EventAuthorize, EventParse, EventPost}, StatePosted, http.StatusOK, ""},
		{"unauthorized", []string{EventDeny}, StateUnauthorized, http.StatusForbidden, "Unauthorized"},
		{"invalid json", []string{EventAuthorize, EventReject}, StateInvalid, http.StatusBadRequest, "Invalid JSON"},
		{"post failed", []string{EventAuthorize, EventParse, EventFail}, StateFailed, http.StatusUnauthorized, "Error in posting review"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var transitions []string
			s := NewSubmission(func(from, to string) {
				transitions = append(transitions, from+"->"+to)
			})

			for _, e := range tt.events {
				require.NoError(t, s.Trigger(context.Background(), e))
			}

			assert.Equal(t, tt.final, s.Current())
			assert.Len(t, transitions, len(tt.events))

			o, ok := s.Outcome()
			require.True(t, ok)
			assert.Equal(t, tt.status, o.Status)
			assert.Equal(t, tt.message, o.Message)
		})
	}
}

func TestSubmission_NotDoneUntilTerminal(t *testing.T) {
	s := NewSubmission(nil)
	_, ok := s.Outcome()
	assert.False(t, ok)

	require.NoError(t, s.Trigger(context.Background(), EventAuthorize))
	_, ok = s.Outcome()
	assert.False(t, ok)
}

func TestSubmission_InvalidTransition(t *testing.T) {
	s := NewSubmission(nil)

	// 未授权时不能直接提交
	err := s.Trigger(context.Background(), EventPost)
	assert.Error(t, err)
	assert.Equal(t, StateReceived, s.Current())

	require.NoError(t, s.Trigger(context.Background(), EventDeny))
	assert.Error(t, s.Trigger(context.Background(), EventAuthorize))
}
