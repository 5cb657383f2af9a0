package repository

import (
	"path/filepath"
	"testing"

	"dropwire/drop-agent/internal/database"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRepo(t *testing.T) *PinRepository {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPinRepository(db.DB)
}

func TestPinRepository_AddListRemove(t *testing.T) {
	repo := newTestRepo(t)

	ids, err := repo.List()
	require.NoError(t, err)
	require.Empty(t, ids)

	require.NoError(t, repo.Add("r1"))
	require.NoError(t, repo.Add("r2"))

	ids, err = repo.List()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"r1", "r2"}, ids)

	require.NoError(t, repo.Remove("r1"))

	ids, err = repo.List()
	require.NoError(t, err)
	require.Equal(t, []string{"r2"}, ids)
}

func TestPinRepository_AddIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Add("r1"))
	require.NoError(t, repo.Add("r1"))

	ids, err := repo.List()
	require.NoError(t, err)
	require.Equal(t, []string{"r1"}, ids)
}

func TestPinRepository_RemoveMissingIsNoop(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Remove("ghost"))
}
