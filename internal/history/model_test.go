package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"dropwire/drop-agent/internal/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLister struct {
	records []models.InteractionRecord
	err     error
}

func (f *fakeLister) GetDevices(_ context.Context) ([]models.InteractionRecord, error) {
	return f.records, f.err
}

type fakePinStore struct {
	ids       []string
	listErr   error
	addErr    error
	removeErr error

	added   []string
	removed []string
}

func (f *fakePinStore) List() ([]string, error) {
	return f.ids, f.listErr
}

func (f *fakePinStore) Add(id string) error {
	f.added = append(f.added, id)
	return f.addErr
}

func (f *fakePinStore) Remove(id string) error {
	f.removed = append(f.removed, id)
	return f.removeErr
}

func at(t time.Time) *time.Time {
	return &t
}

var base = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func record(id, name string, action models.Action, ts *time.Time) models.InteractionRecord {
	return models.InteractionRecord{ID: id, Name: name, Action: action, Timestamp: ts}
}

func loadedModel(t *testing.T, records []models.InteractionRecord) *Model {
	t.Helper()
	m := NewModel(&fakeLister{records: records}, nil, zap.NewNop())
	require.NoError(t, m.Load(context.Background()))
	return m
}

func TestLoad_FiltersDeclined(t *testing.T) {
	m := loadedModel(t, []models.InteractionRecord{
		record("1", "a", models.ActionAccepted, at(base)),
		record("2", "b", models.ActionDeclined, at(base)),
		record("3", "c", models.ActionDropped, at(base)),
		record("4", "d", models.ActionDeclined, nil),
	})

	require.Equal(t, 2, m.Len())
	for _, r := range m.Records() {
		require.NotEqual(t, models.ActionDeclined, r.Action)
	}
}

func TestLoad_FetchError(t *testing.T) {
	lister := &fakeLister{err: errors.New("network down")}
	m := NewModel(lister, nil, zap.NewNop())

	err := m.Load(context.Background())
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	require.Contains(t, loadErr.Error(), "network down")
	require.Empty(t, m.Records())
}

func TestLoad_ErrorClearsPreviousWorkingSet(t *testing.T) {
	lister := &fakeLister{records: []models.InteractionRecord{
		record("1", "a", models.ActionAccepted, at(base)),
	}}
	m := NewModel(lister, nil, zap.NewNop())
	require.NoError(t, m.Load(context.Background()))
	require.Equal(t, 1, m.Len())

	lister.err = errors.New("boom")
	require.Error(t, m.Load(context.Background()))
	require.Zero(t, m.Len())
}

func TestRecords_PinnedSortFirst(t *testing.T) {
	m := loadedModel(t, []models.InteractionRecord{
		record("old-pinned", "a", models.ActionAccepted, at(base.Add(-48*time.Hour))),
		record("new-unpinned", "b", models.ActionReturned, at(base)),
	})
	m.TogglePin("old-pinned")

	out := m.Records()
	require.Equal(t, "old-pinned", out[0].ID)
	require.Equal(t, "new-unpinned", out[1].ID)
}

func TestRecords_TimestampDescendingWithinPinGroup(t *testing.T) {
	m := loadedModel(t, []models.InteractionRecord{
		record("oldest", "a", models.ActionAccepted, at(base.Add(-time.Hour))),
		record("newest", "b", models.ActionAccepted, at(base)),
		record("middle", "c", models.ActionAccepted, at(base.Add(-30*time.Minute))),
	})

	out := m.Records()
	require.Equal(t, []string{"newest", "middle", "oldest"},
		[]string{out[0].ID, out[1].ID, out[2].ID})
}

func TestRecords_MissingTimestampSortsOldest(t *testing.T) {
	m := loadedModel(t, []models.InteractionRecord{
		record("unknown", "a", models.ActionAccepted, nil),
		record("ancient", "b", models.ActionAccepted, at(base.Add(-10*365*24*time.Hour))),
	})

	out := m.Records()
	require.Equal(t, "ancient", out[0].ID)
	require.Equal(t, "unknown", out[1].ID)
}

func TestRecords_StableForEqualKeys(t *testing.T) {
	same := at(base)
	m := loadedModel(t, []models.InteractionRecord{
		record("first", "a", models.ActionAccepted, same),
		record("second", "b", models.ActionAccepted, same),
		record("third", "c", models.ActionAccepted, same),
	})

	out := m.Records()
	require.Equal(t, []string{"first", "second", "third"},
		[]string{out[0].ID, out[1].ID, out[2].ID})
}

func TestRecords_ReturnsACopy(t *testing.T) {
	m := loadedModel(t, []models.InteractionRecord{
		record("1", "a", models.ActionAccepted, at(base)),
	})

	out := m.Records()
	out[0].Name = "mutated"
	require.Equal(t, "a", m.Records()[0].Name)
}

func TestTogglePin_IsItsOwnInverse(t *testing.T) {
	m := NewModel(&fakeLister{}, nil, zap.NewNop())

	require.False(t, m.IsPinned("x"))
	m.TogglePin("x")
	require.True(t, m.IsPinned("x"))
	m.TogglePin("x")
	require.False(t, m.IsPinned("x"))
}

func TestTogglePin_EmptyIDIsNoop(t *testing.T) {
	store := &fakePinStore{}
	m := NewModel(&fakeLister{}, store, zap.NewNop())

	m.TogglePin("")
	require.Zero(t, m.PinnedCount())
	require.Empty(t, store.added)
}

func TestTogglePin_DoesNotMutateWorkingSet(t *testing.T) {
	m := loadedModel(t, []models.InteractionRecord{
		record("1", "a", models.ActionAccepted, at(base)),
		record("2", "b", models.ActionAccepted, at(base.Add(-time.Hour))),
	})

	m.TogglePin("2")
	require.Equal(t, 2, m.Len())
}

func TestTogglePin_PersistsThroughStore(t *testing.T) {
	store := &fakePinStore{}
	m := NewModel(&fakeLister{}, store, zap.NewNop())

	m.TogglePin("x")
	m.TogglePin("x")
	require.Equal(t, []string{"x"}, store.added)
	require.Equal(t, []string{"x"}, store.removed)
}

func TestTogglePin_StoreErrorDoesNotBreakToggle(t *testing.T) {
	store := &fakePinStore{addErr: errors.New("disk full")}
	m := NewModel(&fakeLister{}, store, zap.NewNop())

	m.TogglePin("x")
	require.True(t, m.IsPinned("x"))
}

func TestNewModel_SeedsPinsFromStore(t *testing.T) {
	store := &fakePinStore{ids: []string{"a", "b"}}
	m := NewModel(&fakeLister{}, store, zap.NewNop())

	require.True(t, m.IsPinned("a"))
	require.True(t, m.IsPinned("b"))
	require.Equal(t, 2, m.PinnedCount())
}

func TestSelectContact(t *testing.T) {
	m := NewModel(&fakeLister{}, nil, zap.NewNop())
	rec := record("1", "a", models.ActionAccepted, at(base))

	m.SelectContact(rec)
	sel := m.Selection()
	require.Equal(t, SelectionContactCard, sel.Kind)
	require.Equal(t, rec, sel.Record)

	m.CloseContact()
	require.Equal(t, SelectionNone, m.Selection().Kind)
}

func TestSelectContact_RefusesDeclined(t *testing.T) {
	m := NewModel(&fakeLister{}, nil, zap.NewNop())

	m.SelectContact(record("1", "a", models.ActionDeclined, at(base)))
	require.Equal(t, SelectionNone, m.Selection().Kind)
}

func TestSelection_IsSingleValued(t *testing.T) {
	m := NewModel(&fakeLister{}, nil, zap.NewNop())
	rec := record("1", "a", models.ActionAccepted, at(base))

	m.SelectContact(rec)
	m.RequestDelete(rec)

	// Requesting a delete replaces the contact card; both are never active.
	require.Equal(t, SelectionDeleteConfirm, m.Selection().Kind)
}

func TestConfirmDelete_RemovesExactlyOne(t *testing.T) {
	m := loadedModel(t, []models.InteractionRecord{
		record("1", "a", models.ActionAccepted, at(base)),
		record("2", "b", models.ActionAccepted, at(base)),
		record("3", "c", models.ActionAccepted, at(base)),
	})

	m.RequestDelete(m.Records()[1])
	require.Equal(t, 3, m.Len())

	m.ConfirmDelete()
	require.Equal(t, 2, m.Len())
	require.Equal(t, SelectionNone, m.Selection().Kind)
	for _, r := range m.Records() {
		require.NotEqual(t, "2", r.ID)
	}
}

func TestCancelDelete_RemovesNothing(t *testing.T) {
	m := loadedModel(t, []models.InteractionRecord{
		record("1", "a", models.ActionAccepted, at(base)),
	})

	m.RequestDelete(m.Records()[0])
	m.CancelDelete()
	require.Equal(t, 1, m.Len())
	require.Equal(t, SelectionNone, m.Selection().Kind)
}

func TestConfirmDelete_WithoutRequestIsNoop(t *testing.T) {
	m := loadedModel(t, []models.InteractionRecord{
		record("1", "a", models.ActionAccepted, at(base)),
	})

	m.ConfirmDelete()
	require.Equal(t, 1, m.Len())
}

func TestConfirmDelete_RecordWithoutIDIsNotDeleted(t *testing.T) {
	m := loadedModel(t, []models.InteractionRecord{
		record("", "legacy", models.ActionAccepted, at(base)),
		record("1", "a", models.ActionAccepted, at(base)),
	})

	m.RequestDelete(record("", "legacy", models.ActionAccepted, at(base)))
	m.ConfirmDelete()

	require.Equal(t, 2, m.Len())
	require.Equal(t, SelectionNone, m.Selection().Kind)
}
