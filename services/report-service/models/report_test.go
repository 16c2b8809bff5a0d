package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnumValidation(t *testing.T) {
	require := require.New(t)

	require.True(Status("under_review").Valid())
	require.False(Status("archived").Valid())

	require.True(IncidentType("stray").Valid())
	require.False(IncidentType("noise").Valid())

	require.True(AnimalType("wildlife").Valid())
	require.False(AnimalType("fish").Valid())

	require.True(Urgency("critical").Valid())
	require.False(Urgency("urgent").Valid())

	require.True(Ongoing("recent").Valid())
	require.False(Ongoing("no").Valid())

	require.True(ContactPreference("none").Valid())
	require.False(ContactPreference("mail").Valid())
}

func TestEscalationSets(t *testing.T) {
	require := require.New(t)

	require.ElementsMatch([]Urgency{UrgencyHigh, UrgencyCritical}, EscalatedUrgencies)
	require.ElementsMatch([]Status{StatusPending, StatusUnderReview, StatusInProgress}, ActiveStatuses)
}
