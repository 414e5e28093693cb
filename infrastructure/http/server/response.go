package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"presence-chat/domain"
	"presence-chat/errors"

	"github.com/samber/lo"
)

type joinRequest struct {
	Name string `json:"name"`
}

type joinResponse struct {
	Name string `json:"name"`
}

type messageRequest struct {
	To   string `json:"to"`
	Text string `json:"text"`
	Type string `json:"type"`
}

type participantResponse struct {
	Name       string `json:"name"`
	LastStatus int64  `json:"lastStatus"`
}

type messageResponse struct {
	ID   string `json:"_id"`
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
	Type string `json:"type"`
	Time string `json:"time"`
}

func toParticipantResponses(participants []domain.Participant) []participantResponse {
	return lo.Map(participants, func(p domain.Participant, _ int) participantResponse {
		return participantResponse{Name: p.Name, LastStatus: p.LastSeen.UnixMilli()}
	})
}

func toMessageResponse(m domain.Message, location *time.Location) messageResponse {
	return messageResponse{
		ID:   m.ID.String(),
		From: m.From,
		To:   m.To,
		Text: m.Text,
		Type: string(m.Kind),
		Time: m.Time.In(location).Format(time.TimeOnly),
	}
}

func toMessageResponses(messages []domain.Message, location *time.Location) []messageResponse {
	return lo.Map(messages, func(m domain.Message, _ int) messageResponse {
		return toMessageResponse(m, location)
	})
}

// JSONError writes {"error": message} with the given status code.
func JSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// JSONWrite writes the provided value as JSON with the given status code.
func JSONWrite(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	return json.NewEncoder(w).Encode(v)
}

// writeError answers with the status mapped from err.
// Validation failures list every violation; internal failures never leak their cause.
func (s *ChatServer) writeError(w http.ResponseWriter, err error) {
	status := errors.MapToHTTPStatus(err)
	var validationErr *errors.ValidationError
	switch {
	case stderrors.As(err, &validationErr):
		_ = JSONWrite(w, status, validationErr.Violations)
	case status == http.StatusInternalServerError:
		s.log.Error("Request failed", "error", err)
		JSONError(w, status, "internal error")
	default:
		JSONError(w, status, err.Error())
	}
}
