// Package domain contains core concepts of the chat system.
// This file defines Participant entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

// Participant is an active named session in the room.
// Name is the primary key: at most one Participant exists per name.
type Participant struct {
	Name     string
	LastSeen time.Time
}

// IsStale reports whether the participant has been silent for longer than threshold at now.
func (p Participant) IsStale(now time.Time, threshold time.Duration) bool {
	return now.Sub(p.LastSeen) > threshold
}
