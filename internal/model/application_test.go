package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplicationStatusTransitions(t *testing.T) {
	cases := []struct {
		from    ApplicationStatus
		to      ApplicationStatus
		allowed bool
	}{
		{ApplicationStatusPending, ApplicationStatusApproved, true},
		{ApplicationStatusPending, ApplicationStatusRejected, true},
		{ApplicationStatusPending, ApplicationStatusCompleted, false},
		{ApplicationStatusApproved, ApplicationStatusCompleted, true},
		{ApplicationStatusApproved, ApplicationStatusRejected, false},
		{ApplicationStatusApproved, ApplicationStatusPending, false},
		{ApplicationStatusRejected, ApplicationStatusApproved, false},
		{ApplicationStatusCompleted, ApplicationStatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestParseApplicationStatus(t *testing.T) {
	s, ok := ParseApplicationStatus("approved")
	assert.True(t, ok)
	assert.Equal(t, ApplicationStatusApproved, s)

	_, ok = ParseApplicationStatus("archived")
	assert.False(t, ok)
}
