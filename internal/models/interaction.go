package models

import "time"

// Action is the recorded outcome of a drop interaction.
type Action string

const (
	ActionAccepted Action = "accepted"
	ActionReturned Action = "returned"
	ActionDropped  Action = "dropped"
	ActionDeclined Action = "declined"
)

// InteractionRecord is one proximity drop exchange with a nearby device.
// A nil Timestamp means the capture instant is unknown. An empty ID marks a
// legacy or unsynced record: it cannot be pinned or deleted individually.
type InteractionRecord struct {
	ID           string     `json:"id,omitempty"`
	Name         string     `json:"name"`
	RSSI         int        `json:"rssi"`
	DistanceFeet float64    `json:"distanceFeet"`
	Action       Action     `json:"action"`
	Timestamp    *time.Time `json:"timestamp,omitempty"`
}

// Pinnable reports whether the record carries a stable identifier.
func (r *InteractionRecord) Pinnable() bool {
	return r.ID != ""
}
