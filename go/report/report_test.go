package report

import (
	"bytes"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func open(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "report.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUnmappedCounts(t *testing.T) {
	s := open(t)
	a, b := uuid.New(), uuid.New()
	require.NoError(t, s.StartSession(a, "1.12", "1.16"))
	require.NoError(t, s.StartSession(b, "1.7.10", "1.12"))

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.AddUnmapped(a, "3000", 2)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	require.NoError(t, s.AddUnmapped(a, "3001:4", 20))
	require.NoError(t, s.AddUnmapped(b, "3000", 1))

	got, err := s.Unmapped(a)
	require.NoError(t, err)
	require.Equal(t, []Unmapped{{"3001:4", 20}, {"3000", 16}}, got)

	got, err = s.Unmapped(b)
	require.NoError(t, err)
	require.Equal(t, []Unmapped{{"3000", 1}}, got)

	sessions, err := s.Sessions()
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	ids := []string{sessions[0].ID, sessions[1].ID}
	require.ElementsMatch(t, []string{a.String(), b.String()}, ids)
	require.False(t, sessions[0].StartedAt.IsZero())
}

func TestPlaceholders(t *testing.T) {
	s := open(t)
	id := uuid.New()
	require.NoError(t, s.StartSession(id, "1.12", "1.12"))
	require.NoError(t, s.PutPlaceholders(id, map[string]int{"mod:a": 271, "mod:b": 272}))
	require.NoError(t, s.PutPlaceholders(id, map[string]int{"mod:b": 272, "mod:c": 273}))

	got, err := s.Placeholders(id)
	require.NoError(t, err)
	require.Equal(t, []Placeholder{{"mod:a", 271}, {"mod:b", 272}, {"mod:c", 273}}, got)

	none, err := s.Placeholders(uuid.New())
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestFailures(t *testing.T) {
	s := open(t)
	id := uuid.New()
	require.NoError(t, s.StartSession(id, "1.12", "1.16"))

	payload := bytes.Repeat([]byte("corrupt chunk "), 500)
	require.NoError(t, s.AddFailure(id, -1, 4, errors.New("truncated nbt"), payload))
	require.NoError(t, s.AddFailure(id, 2, 2, errors.New("no payload"), nil))
	// a retry replaces the earlier record
	require.NoError(t, s.AddFailure(id, 2, 2, errors.New("still broken"), nil))

	got, err := s.Failures(id)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, -1, got[0].X)
	require.Equal(t, "truncated nbt", got[0].Reason)
	require.Equal(t, payload, got[0].Payload)
	require.Equal(t, "still broken", got[1].Reason)
	require.Empty(t, got[1].Payload)
}
