// Package domain contains core concepts of the chat system.
// This file defines Message events and related rules.
// Messages are immutable except for an edit by their author.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Broadcast is the recipient meaning "visible to everyone".
const Broadcast = "Todos"

const (
	JoinedText = "joined the room"
	LeftText   = "left the room"
)

// Kind values are the ones exchanged with clients.
type Kind string

const (
	KindStatus    Kind = "status"
	KindBroadcast Kind = "message"
	KindTargeted  Kind = "private_message"
)

// Message represents a chat event.
type Message struct {
	ID   uuid.UUID // unique identifier
	From string
	To   string
	Text string
	Kind Kind
	Time time.Time
}

// VisibleTo reports whether identity may read the message.
func (m Message) VisibleTo(identity string) bool {
	return m.From == identity || m.To == identity || m.To == Broadcast
}

// OwnedBy reports whether identity authored the message.
func (m Message) OwnedBy(identity string) bool {
	return m.From == identity
}

func NewStatusMessage(name, text string, at time.Time) Message {
	return Message{
		From: name,
		To:   Broadcast,
		Text: text,
		Kind: KindStatus,
		Time: at,
	}
}
