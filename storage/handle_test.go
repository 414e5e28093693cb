package storage

import (
	"log/slog"
	"testing"

	"presence-chat/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestHandle_Unavailable_Until_Opened(t *testing.T) {
	req := require.New(t)
	handle := NewHandle(logs.GetLoggerFromLevel(slog.LevelDebug))

	// Given a handle which has not been opened yet
	_, err := handle.DB()
	req.ErrorIs(err, errors.ErrUnavailable)
	req.False(handle.Ready())

	// When the database is opened
	req.NoError(handle.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR)))

	// Then the handle is ready
	db, err := handle.DB()
	req.NoError(err)
	req.NotNil(db)
	req.True(handle.Ready())

	// And it becomes unavailable again once closed
	req.NoError(handle.Close())
	_, err = handle.DB()
	req.ErrorIs(err, errors.ErrUnavailable)
}

func TestHandle_Open_Twice_Fails(t *testing.T) {
	req := require.New(t)
	handle := NewHandle(logs.GetLoggerFromLevel(slog.LevelDebug))
	defer handle.Close()

	req.NoError(handle.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR)))
	req.Error(handle.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR)))
	req.True(handle.Ready())
}
