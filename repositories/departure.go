//go:generate go run go.uber.org/mock/mockgen -source=departure.go -destination=../mocks/mock_departure_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"time"

	"presence-chat/domain"
	"presence-chat/errors"
	"presence-chat/storage"

	"github.com/dgraph-io/badger/v4"
)

type IDepartureRepository interface {
	Depart(name string, status domain.Message) (domain.Message, error)
	DepartIfUnchanged(name string, seenAt time.Time, status domain.Message) (domain.Message, error)
}

// DepartureRepository records a departure status and removes the participant
// in a single transaction, so neither is ever visible without the other.
type DepartureRepository struct {
	handle   *storage.Handle
	messages MessageRepository
	log      *slog.Logger
}

func NewDepartureRepository(handle *storage.Handle, messages MessageRepository, log *slog.Logger) DepartureRepository {
	return DepartureRepository{handle: handle, messages: messages, log: log}
}

// Depart appends status and evicts name.
func (r DepartureRepository) Depart(name string, status domain.Message) (domain.Message, error) {
	return r.depart(name, status, func(diskParticipant) error { return nil })
}

// DepartIfUnchanged departs name only if its LastSeen still equals seenAt.
// A heartbeat received since seenAt fails it with ErrRefreshed and leaves the store untouched.
func (r DepartureRepository) DepartIfUnchanged(name string, seenAt time.Time, status domain.Message) (domain.Message, error) {
	return r.depart(name, status, func(disk diskParticipant) error {
		if disk.LastSeen != seenAt.UnixNano() {
			return errors.ErrRefreshed
		}
		return nil
	})
}

func (r DepartureRepository) depart(name string, status domain.Message, check func(diskParticipant) error) (domain.Message, error) {
	db, err := r.handle.DB()
	if err != nil {
		return domain.Message{}, err
	}
	var appended domain.Message
	err = updateWithRetry(r.handle, r.log, func(txn *badger.Txn) error {
		disk, err := getDiskParticipant(txn, name)
		if err != nil {
			return err
		}
		if err := check(disk); err != nil {
			return err
		}
		appended, err = r.messages.stage(db, txn, status)
		if err != nil {
			return err
		}
		return txn.Delete(participantKey(name))
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("depart %q: %w", name, toStoreError(err))
	}
	return appended, nil
}
