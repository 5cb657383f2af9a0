package history

import (
	"context"
	"fmt"
	"sort"
	"time"

	"dropwire/drop-agent/internal/models"

	"go.uber.org/zap"
)

// DeviceLister is the discovery API: the sole data source for the history.
type DeviceLister interface {
	GetDevices(ctx context.Context) ([]models.InteractionRecord, error)
}

// PinStore persists the pin set beyond the session. May be nil, in which
// case pins live only in memory.
type PinStore interface {
	List() ([]string, error)
	Add(recordID string) error
	Remove(recordID string) error
}

// SelectionKind tags the single active selection.
type SelectionKind int

const (
	SelectionNone SelectionKind = iota
	SelectionContactCard
	SelectionDeleteConfirm
)

// Selection is a tagged union: at most one modal-backing record is active at
// a time, never a contact card and a delete confirmation together.
type Selection struct {
	Kind   SelectionKind
	Record models.InteractionRecord
}

// LoadError wraps a failed history fetch. The message is surfaced to the
// user; the working set stays empty.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load drop history: %v", e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Model owns the in-memory drop history: the working set, the pin set and
// the selection state. It is owned by a single screen instance and is not
// safe for concurrent use.
type Model struct {
	client DeviceLister
	pins   PinStore
	logger *zap.Logger

	records   []models.InteractionRecord
	pinned    map[string]struct{}
	selection Selection
}

// NewModel creates a history model, seeding the pin set from the store.
func NewModel(client DeviceLister, pins PinStore, logger *zap.Logger) *Model {
	m := &Model{
		client: client,
		pins:   pins,
		logger: logger,
		pinned: make(map[string]struct{}),
	}

	if pins != nil {
		ids, err := pins.List()
		if err != nil {
			logger.Warn("Failed to load persisted pins", zap.Error(err))
		}
		for _, id := range ids {
			m.pinned[id] = struct{}{}
		}
	}

	return m
}

// Load fetches the history and installs it as the working set. Declined
// records are dropped here, at the data-model boundary, so no downstream
// consumer ever sees one.
func (m *Model) Load(ctx context.Context) error {
	fetched, err := m.client.GetDevices(ctx)
	if err != nil {
		m.records = nil
		return &LoadError{Err: err}
	}

	records := make([]models.InteractionRecord, 0, len(fetched))
	for _, record := range fetched {
		if record.Action == models.ActionDeclined {
			continue
		}
		records = append(records, record)
	}
	m.records = records

	m.logger.Info("Drop history loaded",
		zap.Int("record_count", len(records)),
		zap.Int("declined_filtered", len(fetched)-len(records)),
	)
	return nil
}

// Records returns the working set in display order: pinned first, then
// newest first. Records without a timestamp sort as the oldest possible
// instant. Equal keys keep their fetch order.
func (m *Model) Records() []models.InteractionRecord {
	out := make([]models.InteractionRecord, len(m.records))
	copy(out, m.records)

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := m.IsPinned(out[i].ID), m.IsPinned(out[j].ID)
		if pi != pj {
			return pi
		}
		return sortInstant(out[i]).After(sortInstant(out[j]))
	})
	return out
}

func sortInstant(record models.InteractionRecord) time.Time {
	if record.Timestamp == nil {
		return time.Time{}
	}
	return *record.Timestamp
}

// IsPinned reports pin membership for a record id.
func (m *Model) IsPinned(id string) bool {
	_, ok := m.pinned[id]
	return ok
}

// TogglePin flips pin membership for a record id. Records without an id
// cannot be pinned. The working set itself is untouched; only the derived
// order changes.
func (m *Model) TogglePin(id string) {
	if id == "" {
		return
	}

	if _, ok := m.pinned[id]; ok {
		delete(m.pinned, id)
		if m.pins != nil {
			if err := m.pins.Remove(id); err != nil {
				m.logger.Warn("Failed to persist unpin", zap.String("record_id", id), zap.Error(err))
			}
		}
	} else {
		m.pinned[id] = struct{}{}
		if m.pins != nil {
			if err := m.pins.Add(id); err != nil {
				m.logger.Warn("Failed to persist pin", zap.String("record_id", id), zap.Error(err))
			}
		}
	}
}

// PinnedCount returns the size of the pin set.
func (m *Model) PinnedCount() int {
	return len(m.pinned)
}

// Len returns the size of the working set.
func (m *Model) Len() int {
	return len(m.records)
}

// SelectContact opens the contact card for a record. Declined records are
// refused; the load filter makes this unreachable, the guard stays as a
// defensive assertion of the contract.
func (m *Model) SelectContact(record models.InteractionRecord) {
	if record.Action == models.ActionDeclined {
		m.logger.Warn("Refusing contact card for declined record",
			zap.String("record_id", record.ID),
		)
		return
	}
	m.selection = Selection{Kind: SelectionContactCard, Record: record}
}

// CloseContact clears the selection unconditionally.
func (m *Model) CloseContact() {
	m.selection = Selection{}
}

// RequestDelete opens the delete confirmation for a record. The working set
// is not mutated until ConfirmDelete.
func (m *Model) RequestDelete(record models.InteractionRecord) {
	m.selection = Selection{Kind: SelectionDeleteConfirm, Record: record}
}

// ConfirmDelete removes the pending record from the working set and clears
// the selection. Records without an id cannot be uniquely matched and are
// left in place. Local-only: persisting the deletion is the backend's
// concern.
func (m *Model) ConfirmDelete() {
	if m.selection.Kind != SelectionDeleteConfirm {
		return
	}
	id := m.selection.Record.ID
	m.selection = Selection{}

	if id == "" {
		m.logger.Warn("Cannot delete record without an id")
		return
	}

	kept := m.records[:0]
	for _, record := range m.records {
		if record.ID == id {
			continue
		}
		kept = append(kept, record)
	}
	m.records = kept
}

// CancelDelete clears the pending delete without touching the working set.
func (m *Model) CancelDelete() {
	m.selection = Selection{}
}

// Selection returns the current selection state.
func (m *Model) Selection() Selection {
	return m.selection
}
