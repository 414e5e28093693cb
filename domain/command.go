package domain

import "github.com/google/uuid"

type JoinCommand struct {
	Name string
}

type SendMessageCommand struct {
	Caller string
	To     string
	Text   string
	Kind   string
}

type GetMessagesCommand struct {
	Caller string
	Limit  int
}

type EditMessageCommand struct {
	ID     uuid.UUID
	Caller string
	To     string
	Text   string
	Kind   string
}

type DeleteMessageCommand struct {
	ID     uuid.UUID
	Caller string
}
