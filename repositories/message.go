//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"presence-chat/domain"
	"presence-chat/storage"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

const (
	messagePrefix  = "msg:"
	sequencePrefix = "msgseq:"
	sequenceKey    = "seq:messages"
	// Number of sequence values leased from badger at once.
	sequenceBandwidth = 100
)

type IMessageRepository interface {
	Append(message domain.Message) (domain.Message, error)
	QueryFor(identity string, limit int) ([]domain.Message, error)
	FindByID(id uuid.UUID) (domain.Message, error)
	EditByID(id uuid.UUID, to, text string, kind domain.Kind) (domain.Message, error)
	DeleteByID(id uuid.UUID) error
}

type MessageRepository struct {
	handle *storage.Handle
	log    *slog.Logger
	lease  *sequenceLease
}

// sequenceLease is shared by the copies of a MessageRepository.
type sequenceLease struct {
	mu       sync.Mutex
	sequence *badger.Sequence
}

func NewMessageRepository(handle *storage.Handle, log *slog.Logger) MessageRepository {
	return MessageRepository{handle: handle, log: log, lease: &sequenceLease{}}
}

// DiskMessage is the persisted form of a message.
// Seq orders messages by insertion, independently of their timestamps.
type DiskMessage struct {
	ID   string `cbor:"1,keyasint"`
	Seq  uint64 `cbor:"2,keyasint"`
	From string `cbor:"3,keyasint"`
	To   string `cbor:"4,keyasint"`
	Text string `cbor:"5,keyasint"`
	Kind string `cbor:"6,keyasint"`
	At   int64  `cbor:"7,keyasint"`
}

// Append stores a new message under a fresh id.
// Two keys are written in the same transaction:
//  1. "msg:{uuid}" holds the message itself.
//  2. "msgseq:{seq_padded}" points back to the uuid; the 19-digit zero padding keeps
//     a prefix scan in insertion order.
func (m MessageRepository) Append(message domain.Message) (domain.Message, error) {
	db, err := m.handle.DB()
	if err != nil {
		return domain.Message{}, err
	}
	var appended domain.Message
	err = db.Update(func(txn *badger.Txn) error {
		appended, err = m.stage(db, txn, message)
		return err
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("append message: %w", toStoreError(err))
	}
	return appended, nil
}

// stage writes message into txn under a fresh id and sequence.
// Nothing is visible until txn commits; a discarded txn leaves a gap in the sequence.
func (m MessageRepository) stage(db *badger.DB, txn *badger.Txn, message domain.Message) (domain.Message, error) {
	seq, err := m.nextSequence(db)
	if err != nil {
		return domain.Message{}, fmt.Errorf("message sequence: %w", err)
	}
	message.ID = uuid.New()
	message.Time = message.Time.UTC()
	disk := fromMessage(message, seq)
	bytes, err := cbor.Marshal(disk)
	if err != nil {
		return domain.Message{}, err
	}
	if err := txn.Set(messageKey(message.ID), bytes); err != nil {
		return domain.Message{}, err
	}
	if err := txn.Set(seqKey(seq), []byte(disk.ID)); err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

// QueryFor returns, in insertion order, every message sent by identity, addressed
// to identity, or broadcast. A positive limit keeps only the first limit matches.
func (m MessageRepository) QueryFor(identity string, limit int) ([]domain.Message, error) {
	db, err := m.handle.DB()
	if err != nil {
		return nil, err
	}
	messages := []domain.Message{}
	err = db.View(func(txn *badger.Txn) error {
		prefix := []byte(sequencePrefix)
		options := badger.DefaultIteratorOptions
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(messages) == limit {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", limit))
				break
			}
			id, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			message, err := getMessage(txn, []byte(messagePrefix+string(id)))
			if err != nil {
				return err
			}
			if message.VisibleTo(identity) {
				messages = append(messages, message)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query messages for %q: %w", identity, toStoreError(err))
	}
	return messages, nil
}

func (m MessageRepository) FindByID(id uuid.UUID) (domain.Message, error) {
	db, err := m.handle.DB()
	if err != nil {
		return domain.Message{}, err
	}
	var message domain.Message
	err = db.View(func(txn *badger.Txn) error {
		message, err = getMessage(txn, messageKey(id))
		return err
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("message %s: %w", id, toStoreError(err))
	}
	return message, nil
}

// EditByID replaces the recipient, text and kind of a message. Id, author and time are kept.
func (m MessageRepository) EditByID(id uuid.UUID, to, text string, kind domain.Kind) (domain.Message, error) {
	db, err := m.handle.DB()
	if err != nil {
		return domain.Message{}, err
	}
	var edited domain.Message
	err = db.Update(func(txn *badger.Txn) error {
		disk, err := getDiskMessage(txn, messageKey(id))
		if err != nil {
			return err
		}
		disk.To, disk.Text, disk.Kind = to, text, string(kind)
		bytes, err := cbor.Marshal(disk)
		if err != nil {
			return err
		}
		edited, err = toMessage(disk)
		if err != nil {
			return err
		}
		return txn.Set(messageKey(id), bytes)
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("edit message %s: %w", id, toStoreError(err))
	}
	return edited, nil
}

func (m MessageRepository) DeleteByID(id uuid.UUID) error {
	db, err := m.handle.DB()
	if err != nil {
		return err
	}
	err = db.Update(func(txn *badger.Txn) error {
		disk, err := getDiskMessage(txn, messageKey(id))
		if err != nil {
			return err
		}
		if err := txn.Delete(seqKey(disk.Seq)); err != nil {
			return err
		}
		return txn.Delete(messageKey(id))
	})
	if err != nil {
		return fmt.Errorf("delete message %s: %w", id, toStoreError(err))
	}
	return nil
}

// Release returns the leased but unused sequence numbers to badger.
func (m MessageRepository) Release() error {
	m.lease.mu.Lock()
	defer m.lease.mu.Unlock()
	if m.lease.sequence == nil {
		return nil
	}
	err := m.lease.sequence.Release()
	m.lease.sequence = nil
	return err
}

func (m MessageRepository) nextSequence(db *badger.DB) (uint64, error) {
	m.lease.mu.Lock()
	defer m.lease.mu.Unlock()
	if m.lease.sequence == nil {
		seq, err := db.GetSequence([]byte(sequenceKey), sequenceBandwidth)
		if err != nil {
			return 0, err
		}
		m.lease.sequence = seq
	}
	return m.lease.sequence.Next()
}

func getMessage(txn *badger.Txn, key []byte) (domain.Message, error) {
	disk, err := getDiskMessage(txn, key)
	if err != nil {
		return domain.Message{}, err
	}
	return toMessage(disk)
}

func getDiskMessage(txn *badger.Txn, key []byte) (DiskMessage, error) {
	var disk DiskMessage
	item, err := txn.Get(key)
	if err != nil {
		return disk, err
	}
	err = item.Value(func(value []byte) error {
		return cbor.Unmarshal(value, &disk)
	})
	return disk, err
}

func messageKey(id uuid.UUID) []byte {
	return []byte(messagePrefix + id.String())
}

func seqKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%019d", sequencePrefix, seq))
}

func fromMessage(message domain.Message, seq uint64) DiskMessage {
	return DiskMessage{
		ID:   message.ID.String(),
		Seq:  seq,
		From: message.From,
		To:   message.To,
		Text: message.Text,
		Kind: string(message.Kind),
		At:   message.Time.UnixNano(),
	}
}

func toMessage(disk DiskMessage) (domain.Message, error) {
	parsedID, err := uuid.Parse(disk.ID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:   parsedID,
		From: disk.From,
		To:   disk.To,
		Text: disk.Text,
		Kind: domain.Kind(disk.Kind),
		Time: time.Unix(0, disk.At).UTC(),
	}, nil
}
