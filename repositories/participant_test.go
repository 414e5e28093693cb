package repositories

import (
	"log/slog"
	"sync"
	"testing"
	"time"

	"presence-chat/errors"
	"presence-chat/storage"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func openHandle(t *testing.T) *storage.Handle {
	t.Helper()
	handle := storage.NewHandle(logs.GetLoggerFromLevel(slog.LevelDebug))
	require.NoError(t, handle.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR)))
	t.Cleanup(func() { _ = handle.Close() })
	return handle
}

func Test_Register_And_List_Participants(t *testing.T) {
	req := require.New(t)
	repository := NewParticipantRepository(openHandle(t), slog.Default())
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	// When two participants join
	ana, err := repository.Register("Ana", at)
	req.NoError(err)
	_, err = repository.Register("Bia", at.Add(time.Second))
	req.NoError(err)

	// Then both are listed with their last liveness signal
	req.Equal("Ana", ana.Name)
	participants, err := repository.List()
	req.NoError(err)
	req.Len(participants, 2)
	req.Equal("Ana", participants[0].Name)
	req.Equal(at, participants[0].LastSeen)
	req.Equal("Bia", participants[1].Name)
}

func Test_Register_Same_Name_Twice_Is_A_Conflict(t *testing.T) {
	req := require.New(t)
	repository := NewParticipantRepository(openHandle(t), slog.Default())

	_, err := repository.Register("Ana", time.Now())
	req.NoError(err)

	_, err = repository.Register("Ana", time.Now())
	req.ErrorIs(err, errors.ErrConflict)

	participants, err := repository.List()
	req.NoError(err)
	req.Len(participants, 1)
}

func Test_Concurrent_Register_Only_One_Wins(t *testing.T) {
	req := require.New(t)
	repository := NewParticipantRepository(openHandle(t), slog.Default())
	const attempts = 20

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repository.Register("Ana", time.Now())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var errs []error
	for err := range results {
		errs = append(errs, err)
	}
	successes := lo.CountBy(errs, func(err error) bool { return err == nil })
	req.Equal(1, successes)
	for _, err := range errs {
		if err != nil {
			req.ErrorIs(err, errors.ErrConflict)
		}
	}
}

func Test_Heartbeat_Refreshes_Last_Seen(t *testing.T) {
	req := require.New(t)
	repository := NewParticipantRepository(openHandle(t), slog.Default())
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	_, err := repository.Register("Ana", at)
	req.NoError(err)

	req.NoError(repository.Heartbeat("Ana", at.Add(5*time.Second)))

	participants, err := repository.List()
	req.NoError(err)
	req.Equal(at.Add(5*time.Second), participants[0].LastSeen)
}

func Test_Heartbeat_Unknown_Participant_Never_Creates_It(t *testing.T) {
	req := require.New(t)
	repository := NewParticipantRepository(openHandle(t), slog.Default())

	err := repository.Heartbeat("Ghost", time.Now())
	req.ErrorIs(err, errors.ErrNotFound)

	participants, err := repository.List()
	req.NoError(err)
	req.Empty(participants)
}

func Test_Evict_Participant(t *testing.T) {
	req := require.New(t)
	repository := NewParticipantRepository(openHandle(t), slog.Default())
	_, err := repository.Register("Ana", time.Now())
	req.NoError(err)

	req.NoError(repository.Evict("Ana"))
	req.ErrorIs(repository.Evict("Ana"), errors.ErrNotFound)
	req.ErrorIs(repository.Heartbeat("Ana", time.Now()), errors.ErrNotFound)

	// The name is free again once evicted
	_, err = repository.Register("Ana", time.Now())
	req.NoError(err)
}

func Test_Participant_Store_Unavailable_Before_Open(t *testing.T) {
	req := require.New(t)
	repository := NewParticipantRepository(storage.NewHandle(slog.Default()), slog.Default())

	_, err := repository.Register("Ana", time.Now())
	req.ErrorIs(err, errors.ErrUnavailable)
	_, err = repository.List()
	req.ErrorIs(err, errors.ErrUnavailable)
	req.ErrorIs(repository.Heartbeat("Ana", time.Now()), errors.ErrUnavailable)
	req.ErrorIs(repository.Evict("Ana"), errors.ErrUnavailable)
}

func Test_Find_Participant(t *testing.T) {
	req := require.New(t)
	repository := NewParticipantRepository(openHandle(t), slog.Default())
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	_, err := repository.Register("Ana", at)
	req.NoError(err)

	found, err := repository.Find("Ana")
	req.NoError(err)
	req.Equal("Ana", found.Name)
	req.Equal(at, found.LastSeen)

	_, err = repository.Find("Bia")
	req.ErrorIs(err, errors.ErrNotFound)
}
