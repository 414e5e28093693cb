//go:generate go run go.uber.org/mock/mockgen -source=participant.go -destination=../mocks/mock_participant_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"presence-chat/domain"
	"presence-chat/errors"
	"presence-chat/storage"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
)

const participantPrefix = "participant:"

// Transactions touching the same participant key may conflict under load.
// Heartbeat and eviction are retried so the caller sees the serialized outcome.
const maxConflictRetries = 3

type IParticipantRepository interface {
	Register(name string, at time.Time) (domain.Participant, error)
	Heartbeat(name string, at time.Time) error
	Find(name string) (domain.Participant, error)
	List() ([]domain.Participant, error)
	Evict(name string) error
}

type ParticipantRepository struct {
	handle *storage.Handle
	log    *slog.Logger
}

func NewParticipantRepository(handle *storage.Handle, log *slog.Logger) ParticipantRepository {
	return ParticipantRepository{handle: handle, log: log}
}

type diskParticipant struct {
	Name     string `cbor:"1,keyasint"`
	LastSeen int64  `cbor:"2,keyasint"`
}

// Register inserts the participant unless the name is already taken.
// The existence check and the write share one transaction: when two joins race
// on the same name, badger refuses the second commit and it surfaces as ErrConflict.
func (r ParticipantRepository) Register(name string, at time.Time) (domain.Participant, error) {
	db, err := r.handle.DB()
	if err != nil {
		return domain.Participant{}, err
	}
	participant := domain.Participant{Name: name, LastSeen: at.UTC()}
	bytes, err := cbor.Marshal(fromParticipant(participant))
	if err != nil {
		return domain.Participant{}, err
	}
	err = db.Update(func(txn *badger.Txn) error {
		key := participantKey(name)
		if _, err := txn.Get(key); err == nil {
			return errors.ErrConflict
		} else if !stderrors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, bytes)
	})
	if stderrors.Is(err, badger.ErrConflict) {
		return domain.Participant{}, fmt.Errorf("register %q: %w", name, errors.ErrConflict)
	}
	if err != nil {
		return domain.Participant{}, fmt.Errorf("register %q: %w", name, toStoreError(err))
	}
	return participant, nil
}

// Heartbeat refreshes LastSeen. It never creates a participant.
func (r ParticipantRepository) Heartbeat(name string, at time.Time) error {
	bytes, err := cbor.Marshal(fromParticipant(domain.Participant{Name: name, LastSeen: at.UTC()}))
	if err != nil {
		return err
	}
	err = r.updateWithRetry(func(txn *badger.Txn) error {
		key := participantKey(name)
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Set(key, bytes)
	})
	if err != nil {
		return fmt.Errorf("heartbeat %q: %w", name, toStoreError(err))
	}
	return nil
}

func (r ParticipantRepository) Find(name string) (domain.Participant, error) {
	db, err := r.handle.DB()
	if err != nil {
		return domain.Participant{}, err
	}
	var disk diskParticipant
	err = db.View(func(txn *badger.Txn) error {
		disk, err = getDiskParticipant(txn, name)
		return err
	})
	if err != nil {
		return domain.Participant{}, fmt.Errorf("participant %q: %w", name, toStoreError(err))
	}
	return toParticipant(disk), nil
}

// List returns a snapshot of all active participants, ordered by name.
func (r ParticipantRepository) List() ([]domain.Participant, error) {
	db, err := r.handle.DB()
	if err != nil {
		return nil, err
	}
	participants := []domain.Participant{}
	err = db.View(func(txn *badger.Txn) error {
		prefix := []byte(participantPrefix)
		options := badger.DefaultIteratorOptions
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var disk diskParticipant
				if err := cbor.Unmarshal(value, &disk); err != nil {
					return err
				}
				participants = append(participants, toParticipant(disk))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, toStoreError(err)
	}
	return participants, nil
}

func (r ParticipantRepository) Evict(name string) error {
	err := r.updateWithRetry(func(txn *badger.Txn) error {
		key := participantKey(name)
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("evict %q: %w", name, toStoreError(err))
	}
	return nil
}

func (r ParticipantRepository) updateWithRetry(fn func(txn *badger.Txn) error) error {
	return updateWithRetry(r.handle, r.log, fn)
}

func updateWithRetry(handle *storage.Handle, log *slog.Logger, fn func(txn *badger.Txn) error) error {
	db, err := handle.DB()
	if err != nil {
		return err
	}
	for attempt := 1; ; attempt++ {
		err = db.Update(fn)
		if !stderrors.Is(err, badger.ErrConflict) || attempt == maxConflictRetries {
			return err
		}
		log.Debug("Participant transaction conflict, retrying", "attempt", attempt)
	}
}

func getDiskParticipant(txn *badger.Txn, name string) (diskParticipant, error) {
	var disk diskParticipant
	item, err := txn.Get(participantKey(name))
	if err != nil {
		return disk, err
	}
	err = item.Value(func(value []byte) error {
		return cbor.Unmarshal(value, &disk)
	})
	return disk, err
}

func participantKey(name string) []byte {
	return []byte(participantPrefix + name)
}

func fromParticipant(p domain.Participant) diskParticipant {
	return diskParticipant{Name: p.Name, LastSeen: p.LastSeen.UnixNano()}
}

func toParticipant(d diskParticipant) domain.Participant {
	return domain.Participant{Name: d.Name, LastSeen: time.Unix(0, d.LastSeen).UTC()}
}

// toStoreError translates badger failures into the domain taxonomy.
func toStoreError(err error) error {
	switch {
	case stderrors.Is(err, badger.ErrKeyNotFound):
		return errors.ErrNotFound
	case stderrors.Is(err, badger.ErrDBClosed):
		return errors.ErrUnavailable
	default:
		return err
	}
}
