package models

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermissiveTransitions(t *testing.T) {
	require := require.New(t)
	table := PermissiveTransitions()

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			require.True(table.Allowed(from, to), "%s -> %s", from, to)
		}
	}
}

func TestStrictTransitions(t *testing.T) {
	require := require.New(t)
	table := StrictTransitions()

	require.True(table.Allowed(StatusPending, StatusResolved))
	require.True(table.Allowed(StatusResolved, StatusInProgress))
	require.False(table.Allowed(StatusResolved, StatusPending))
	require.False(table.Allowed(StatusRejected, StatusPending))

	// same-status writes always pass
	require.True(table.Allowed(StatusRejected, StatusRejected))
}

func TestTransitionCheckError(t *testing.T) {
	require := require.New(t)
	table := StrictTransitions()

	err := table.Check(StatusResolved, StatusPending)
	require.Error(err)

	var terr *TransitionError
	require.True(errors.As(err, &terr))
	require.Equal(StatusResolved, terr.From)
	require.Equal(StatusPending, terr.To)

	require.NoError(table.Check(StatusPending, StatusUnderReview))
}

func TestLoadTransitionsPresets(t *testing.T) {
	require := require.New(t)

	table, err := LoadTransitions("")
	require.NoError(err)
	require.True(table.Allowed(StatusResolved, StatusPending))

	table, err = LoadTransitions("strict")
	require.NoError(err)
	require.False(table.Allowed(StatusResolved, StatusPending))
}

func TestLoadTransitionsFromFile(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "transitions.json")
	require.NoError(os.WriteFile(path, []byte(`{"pending":["resolved"],"resolved":[]}`), 0o644))

	table, err := LoadTransitions(path)
	require.NoError(err)
	require.True(table.Allowed(StatusPending, StatusResolved))
	require.False(table.Allowed(StatusPending, StatusClosed))
	require.False(table.Allowed(StatusResolved, StatusPending))
}

func TestLoadTransitionsRejectsUnknownStatus(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "transitions.json")
	require.NoError(os.WriteFile(path, []byte(`{"pending":["archived"]}`), 0o644))

	_, err := LoadTransitions(path)
	require.Error(err)
}
