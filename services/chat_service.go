//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	stderrors "errors"
	"fmt"
	"log/slog"

	"presence-chat/domain"
	"presence-chat/errors"
	"presence-chat/moderation"
	"presence-chat/observability"
	"presence-chat/repositories"
	"presence-chat/validation"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

type IChatService interface {
	Join(cmd domain.JoinCommand) (string, error)
	Heartbeat(name string) error
	Leave(name string) error
	ListParticipants() ([]domain.Participant, error)
	SendMessage(cmd domain.SendMessageCommand) (domain.Message, error)
	GetMessages(cmd domain.GetMessagesCommand) ([]domain.Message, error)
	EditMessage(cmd domain.EditMessageCommand) (domain.Message, error)
	DeleteMessage(cmd domain.DeleteMessageCommand) error
}

// ChatService is the request facing side of the room.
// Every operation validates and authorizes before touching a store,
// so a rejected request never leaves a partial mutation behind.
type ChatService struct {
	participants repositories.IParticipantRepository
	messages     repositories.IMessageRepository
	departures   repositories.IDepartureRepository
	sanitizer    moderation.Sanitizer
	clock        clockwork.Clock
	metrics      *observability.Metrics
	log          *slog.Logger
}

func NewChatService(
	log *slog.Logger,
	participants repositories.IParticipantRepository,
	messages repositories.IMessageRepository,
	departures repositories.IDepartureRepository,
	sanitizer moderation.Sanitizer,
	clock clockwork.Clock,
	metrics *observability.Metrics,
) *ChatService {
	return &ChatService{
		participants: participants,
		messages:     messages,
		departures:   departures,
		sanitizer:    sanitizer,
		clock:        clock,
		metrics:      metrics,
		log:          log,
	}
}

// Join registers a participant under its sanitized name and announces it to the room.
// It returns the name as stored, which may differ from the one sent.
func (s *ChatService) Join(cmd domain.JoinCommand) (string, error) {
	if err := validation.ValidateJoin(validation.JoinRequest{Name: cmd.Name}); err != nil {
		return "", err
	}
	name := moderation.StripHTML(cmd.Name)
	if name == "" {
		return "", errors.NewValidationError(`"name" is empty once sanitized`)
	}

	now := s.clock.Now()
	if _, err := s.participants.Register(name, now); err != nil {
		return "", err
	}
	s.metrics.ParticipantsJoined.Inc()

	// Not rolled back on failure: the participant stays registered without its join status.
	if _, err := s.messages.Append(domain.NewStatusMessage(name, domain.JoinedText, now)); err != nil {
		return "", fmt.Errorf("join status for %q: %w", name, err)
	}
	s.metrics.MessageAppended(domain.KindStatus)
	s.log.Debug("Participant joined", "name", name)
	return name, nil
}

func (s *ChatService) Heartbeat(name string) error {
	return s.participants.Heartbeat(name, s.clock.Now())
}

// Leave lets a participant depart before the sweeper would evict it.
func (s *ChatService) Leave(name string) error {
	status := domain.NewStatusMessage(name, domain.LeftText, s.clock.Now())
	if _, err := s.departures.Depart(name, status); err != nil {
		return err
	}
	s.metrics.MessageAppended(domain.KindStatus)
	s.metrics.ParticipantLeft("leave")
	return nil
}

func (s *ChatService) ListParticipants() ([]domain.Participant, error) {
	return s.participants.List()
}

// SendMessage appends a message authored by the caller.
// From always comes from the asserted identity, never from the payload.
func (s *ChatService) SendMessage(cmd domain.SendMessageCommand) (domain.Message, error) {
	if err := s.requireActive(cmd.Caller); err != nil {
		return domain.Message{}, err
	}
	text, err := s.cleanMessage(cmd.To, cmd.Text, cmd.Kind)
	if err != nil {
		return domain.Message{}, err
	}
	message, err := s.messages.Append(domain.Message{
		From: cmd.Caller,
		To:   cmd.To,
		Text: text,
		Kind: domain.Kind(cmd.Kind),
		Time: s.clock.Now(),
	})
	if err != nil {
		return domain.Message{}, err
	}
	s.metrics.MessageAppended(message.Kind)
	return message, nil
}

func (s *ChatService) GetMessages(cmd domain.GetMessagesCommand) ([]domain.Message, error) {
	if cmd.Caller == "" {
		return nil, errors.NewValidationError(`"User" header is required`)
	}
	return s.messages.QueryFor(cmd.Caller, cmd.Limit)
}

// EditMessage rewrites a message. Only its author may do so:
// a missing message is ErrNotFound whoever asks, someone else's message is ErrUnauthorized.
func (s *ChatService) EditMessage(cmd domain.EditMessageCommand) (domain.Message, error) {
	if err := s.requireActive(cmd.Caller); err != nil {
		return domain.Message{}, err
	}
	text, err := s.cleanMessage(cmd.To, cmd.Text, cmd.Kind)
	if err != nil {
		return domain.Message{}, err
	}
	if err := s.requireOwner(cmd.ID, cmd.Caller); err != nil {
		return domain.Message{}, err
	}
	return s.messages.EditByID(cmd.ID, cmd.To, text, domain.Kind(cmd.Kind))
}

func (s *ChatService) DeleteMessage(cmd domain.DeleteMessageCommand) error {
	if err := s.requireOwner(cmd.ID, cmd.Caller); err != nil {
		return err
	}
	return s.messages.DeleteByID(cmd.ID)
}

func (s *ChatService) requireActive(caller string) error {
	_, err := s.participants.Find(caller)
	if stderrors.Is(err, errors.ErrNotFound) {
		return fmt.Errorf("%q: %w", caller, errors.ErrUnknownParticipant)
	}
	return err
}

func (s *ChatService) requireOwner(id uuid.UUID, caller string) error {
	message, err := s.messages.FindByID(id)
	if err != nil {
		return err
	}
	if !message.OwnedBy(caller) {
		return fmt.Errorf("message %s by %q: %w", id, caller, errors.ErrUnauthorized)
	}
	return nil
}

// cleanMessage validates the payload then returns the sanitized text.
func (s *ChatService) cleanMessage(to, text, kind string) (string, error) {
	err := validation.ValidateMessage(validation.MessageRequest{To: to, Text: text, Type: kind})
	if err != nil {
		return "", err
	}
	cleaned := s.sanitizer.Clean(text)
	if cleaned == "" {
		return "", errors.NewValidationError(`"text" is empty once sanitized`)
	}
	return cleaned, nil
}
