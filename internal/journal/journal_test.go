package journal_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wexinc/devboot/internal/journal"
)

func openMemory(t *testing.T) *journal.Journal {
	t.Helper()
	j, err := journal.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestOpen_CreatesFileAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.db")

	j, err := journal.Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Record(context.Background(), journal.Entry{RunID: "r1", Kind: journal.KindApp, ItemID: "Git.Git", Success: true}))
	require.NoError(t, j.Close())

	// Reopening must not re-run migrations.
	j, err = journal.Open(path)
	require.NoError(t, err)
	defer j.Close()

	entries, err := j.Recent(context.Background(), 0, journal.Filter{})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, path, j.Path())
}

func TestRecordAndRecent(t *testing.T) {
	j := openMemory(t)
	ctx := context.Background()

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, j.Record(ctx, journal.Entry{
		RunID: "run-1", Kind: journal.KindApp, ItemID: "Git.Git", Name: "Git",
		Success: true, Duration: 1500 * time.Millisecond, CreatedAt: at,
	}))
	require.NoError(t, j.Record(ctx, journal.Entry{
		RunID: "run-1", Kind: journal.KindShell, ItemID: "bash", Name: "Bash",
		Success: false, Detail: "permission denied",
	}))

	entries, err := j.Recent(ctx, 10, journal.Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "bash", entries[0].ItemID, "newest first")
	assert.False(t, entries[0].Success)
	assert.Equal(t, "permission denied", entries[0].Detail)
	assert.False(t, entries[0].CreatedAt.IsZero())

	assert.Equal(t, journal.KindApp, entries[1].Kind)
	assert.Equal(t, "Git", entries[1].Name)
	assert.True(t, entries[1].Success)
	assert.Equal(t, 1500*time.Millisecond, entries[1].Duration)
	assert.True(t, at.Equal(entries[1].CreatedAt))
}

func TestRecent_LimitAndFilter(t *testing.T) {
	j := openMemory(t)
	ctx := context.Background()

	for i, ok := range []bool{true, false, true, false, true} {
		kind := journal.KindApp
		if i == 4 {
			kind = journal.KindShell
		}
		require.NoError(t, j.Record(ctx, journal.Entry{RunID: "r", Kind: kind, ItemID: string(rune('a' + i)), Success: ok}))
	}

	entries, err := j.Recent(ctx, 2, journal.Filter{})
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = j.Recent(ctx, 0, journal.Filter{Kind: journal.KindApp})
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	entries, err = j.Recent(ctx, 0, journal.Filter{FailedOnly: true})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.False(t, e.Success)
	}
}

func TestClear(t *testing.T) {
	j := openMemory(t)
	ctx := context.Background()

	require.NoError(t, j.Record(ctx, journal.Entry{RunID: "r", Kind: journal.KindPackageManager, ItemID: "winget"}))
	require.NoError(t, j.Record(ctx, journal.Entry{RunID: "r", Kind: journal.KindApp, ItemID: "x"}))

	n, err := j.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	entries, err := j.Recent(ctx, 0, journal.Filter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}
