// ABOUTME: Tests for the SQLite activity log
// ABOUTME: Verifies recording and newest-first recent feed ordering
package activity

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLog(t *testing.T) *Log {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "activity.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestRecordAndRecent(t *testing.T) {
	l := setupTestLog(t)
	ctx := context.Background()

	require.NoError(t, l.Record(ctx, "customers", "c1", ActionCreated, "Created customer Arjun Subramaniam"))
	require.NoError(t, l.Record(ctx, "customers", "c1", ActionUpdated, "Updated customer Arjun Subramaniam"))
	require.NoError(t, l.Record(ctx, "deals", "d1", ActionDeleted, "Deleted deal CRM Integration"))

	entries, err := l.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest first
	assert.Equal(t, ActionDeleted, entries[0].Action)
	assert.Equal(t, "deals", entries[0].Kind)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].OccurredAt.After(entries[i-1].OccurredAt))
	}
}

func TestRecentHonorsLimit(t *testing.T) {
	l := setupTestLog(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Record(ctx, "leads", "l1", ActionUpdated, "Moved lead"))
	}

	entries, err := l.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRecentEmptyLog(t *testing.T) {
	l := setupTestLog(t)

	entries, err := l.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
