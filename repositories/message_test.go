package repositories

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"presence-chat/domain"
	"presence-chat/errors"
	"presence-chat/storage"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func appendAll(t *testing.T, repository MessageRepository, messages ...domain.Message) []domain.Message {
	t.Helper()
	stored := make([]domain.Message, 0, len(messages))
	for _, message := range messages {
		m, err := repository.Append(message)
		require.NoError(t, err)
		stored = append(stored, m)
	}
	return stored
}

func Test_Append_Assigns_Id_And_Find_It(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openHandle(t), slog.Default())
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	stored, err := repository.Append(domain.Message{From: "Ana", To: "Bia", Text: "oi", Kind: domain.KindTargeted, Time: at})
	req.NoError(err)
	req.NotEqual(uuid.Nil, stored.ID)

	found, err := repository.FindByID(stored.ID)
	req.NoError(err)
	req.Equal(stored, found)
}

func Test_Find_Unknown_Message(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openHandle(t), slog.Default())

	_, err := repository.FindByID(uuid.New())
	req.ErrorIs(err, errors.ErrNotFound)
}

func Test_QueryFor_Filters_And_Keeps_Insertion_Order(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openHandle(t), slog.Default())
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	// Given messages whose timestamps are not in insertion order
	stored := appendAll(t, repository,
		domain.NewStatusMessage("Ana", domain.JoinedText, at.Add(time.Hour)),
		domain.Message{From: "Ana", To: "Bia", Text: "1", Kind: domain.KindTargeted, Time: at},
		domain.Message{From: "Bia", To: "Carla", Text: "2", Kind: domain.KindTargeted, Time: at},
		domain.Message{From: "Carla", To: "Ana", Text: "3", Kind: domain.KindTargeted, Time: at.Add(-time.Hour)},
		domain.Message{From: "Carla", To: domain.Broadcast, Text: "4", Kind: domain.KindBroadcast, Time: at},
	)

	// When Ana lists her messages
	messages, err := repository.QueryFor("Ana", 0)
	req.NoError(err)

	// Then she sees what she sent, what was addressed to her and broadcasts, in insertion order
	req.Equal([]domain.Message{stored[0], stored[1], stored[3], stored[4]}, messages)

	// And Bia does not see the private message between Carla and Ana
	messages, err = repository.QueryFor("Bia", -1)
	req.NoError(err)
	req.Equal([]string{domain.JoinedText, "1", "2", "4"}, lo.Map(messages, func(m domain.Message, _ int) string { return m.Text }))
}

func Test_QueryFor_With_Limit_Returns_A_Prefix(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openHandle(t), slog.Default())
	at := time.Now()

	var messages []domain.Message
	for i := range 5 {
		messages = append(messages, domain.Message{From: "Ana", To: domain.Broadcast, Text: fmt.Sprint(i), Kind: domain.KindBroadcast, Time: at})
	}
	// A private message between others must not count toward the limit
	messages = append([]domain.Message{{From: "Bia", To: "Carla", Text: "hidden", Kind: domain.KindTargeted, Time: at}}, messages...)
	appendAll(t, repository, messages...)

	limited, err := repository.QueryFor("Dani", 2)
	req.NoError(err)
	req.Equal([]string{"0", "1"}, lo.Map(limited, func(m domain.Message, _ int) string { return m.Text }))

	all, err := repository.QueryFor("Dani", 50)
	req.NoError(err)
	req.Len(all, 5)
}

func Test_Edit_Message_Keeps_Author_And_Time(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openHandle(t), slog.Default())
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	stored := appendAll(t, repository, domain.Message{From: "Ana", To: "Bia", Text: "oi", Kind: domain.KindTargeted, Time: at})[0]

	edited, err := repository.EditByID(stored.ID, domain.Broadcast, "olá", domain.KindBroadcast)
	req.NoError(err)

	found, err := repository.FindByID(stored.ID)
	req.NoError(err)
	req.Equal(edited, found)
	req.Equal(domain.Message{ID: stored.ID, From: "Ana", To: domain.Broadcast, Text: "olá", Kind: domain.KindBroadcast, Time: at}, found)

	_, err = repository.EditByID(uuid.New(), "Bia", "x", domain.KindTargeted)
	req.ErrorIs(err, errors.ErrNotFound)
}

func Test_Delete_Message(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openHandle(t), slog.Default())
	stored := appendAll(t, repository,
		domain.Message{From: "Ana", To: domain.Broadcast, Text: "first", Kind: domain.KindBroadcast, Time: time.Now()},
		domain.Message{From: "Ana", To: domain.Broadcast, Text: "second", Kind: domain.KindBroadcast, Time: time.Now()},
	)

	req.NoError(repository.DeleteByID(stored[0].ID))

	_, err := repository.FindByID(stored[0].ID)
	req.ErrorIs(err, errors.ErrNotFound)
	req.ErrorIs(repository.DeleteByID(stored[0].ID), errors.ErrNotFound)

	messages, err := repository.QueryFor("Ana", 0)
	req.NoError(err)
	req.Equal([]domain.Message{stored[1]}, messages)
}

func Test_Message_Store_Unavailable_Before_Open(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(storage.NewHandle(slog.Default()), slog.Default())

	_, err := repository.Append(domain.Message{From: "Ana"})
	req.ErrorIs(err, errors.ErrUnavailable)
	_, err = repository.QueryFor("Ana", 0)
	req.ErrorIs(err, errors.ErrUnavailable)
	_, err = repository.FindByID(uuid.New())
	req.ErrorIs(err, errors.ErrUnavailable)
	req.ErrorIs(repository.DeleteByID(uuid.New()), errors.ErrUnavailable)
}
