package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"presence-chat/auth"
	"presence-chat/domain"
	"presence-chat/errors"
	"presence-chat/observability"
	"presence-chat/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// ChatServer exposes the chat service over HTTP.
// Clients poll GET /messages, nothing is pushed.
type ChatServer struct {
	chatService services.IChatService
	metrics     *observability.Metrics
	gatherer    prometheus.Gatherer
	location    *time.Location
	log         *slog.Logger
}

// NewChatServer displays message times in location.
func NewChatServer(log *slog.Logger, chatService services.IChatService,
	metrics *observability.Metrics, gatherer prometheus.Gatherer, location *time.Location) *ChatServer {
	return &ChatServer{chatService: chatService, metrics: metrics, gatherer: gatherer, location: location, log: log}
}

// Handler builds the router with its middlewares.
func (s *ChatServer) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.accessLog, auth.IdentityMiddleware)

	r.HandleFunc("/participants", s.join).Methods(http.MethodPost)
	r.HandleFunc("/participants", s.listParticipants).Methods(http.MethodGet)
	r.HandleFunc("/participants", s.leave).Methods(http.MethodDelete)
	r.HandleFunc("/status", s.heartbeat).Methods(http.MethodPost)

	r.HandleFunc("/messages", s.sendMessage).Methods(http.MethodPost)
	r.HandleFunc("/messages", s.getMessages).Methods(http.MethodGet)
	r.HandleFunc("/messages/{id}", s.editMessage).Methods(http.MethodPut)
	r.HandleFunc("/messages/{id}", s.deleteMessage).Methods(http.MethodDelete)

	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", auth.UserHeader},
	}).Handler(r)
}

func (s *ChatServer) join(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if !s.decode(w, r, &req) {
		return
	}
	name, err := s.chatService.Join(domain.JoinCommand{Name: req.Name})
	if err != nil {
		s.writeError(w, err)
		return
	}
	_ = JSONWrite(w, http.StatusCreated, joinResponse{Name: name})
}

func (s *ChatServer) listParticipants(w http.ResponseWriter, _ *http.Request) {
	participants, err := s.chatService.ListParticipants()
	if err != nil {
		s.writeError(w, err)
		return
	}
	_ = JSONWrite(w, http.StatusOK, toParticipantResponses(participants))
}

func (s *ChatServer) leave(w http.ResponseWriter, r *http.Request) {
	if err := s.chatService.Leave(auth.IdentityFromContext(r.Context())); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *ChatServer) heartbeat(w http.ResponseWriter, r *http.Request) {
	if err := s.chatService.Heartbeat(auth.IdentityFromContext(r.Context())); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *ChatServer) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if !s.decode(w, r, &req) {
		return
	}
	message, err := s.chatService.SendMessage(domain.SendMessageCommand{
		Caller: auth.IdentityFromContext(r.Context()),
		To:     req.To,
		Text:   req.Text,
		Kind:   req.Type,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	_ = JSONWrite(w, http.StatusCreated, toMessageResponse(message, s.location))
}

func (s *ChatServer) getMessages(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, errors.NewValidationError(fmt.Sprintf(`"limit" must be an integer, got %q`, raw)))
			return
		}
		limit = parsed
	}
	messages, err := s.chatService.GetMessages(domain.GetMessagesCommand{
		Caller: auth.IdentityFromContext(r.Context()),
		Limit:  limit,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	_ = JSONWrite(w, http.StatusOK, toMessageResponses(messages, s.location))
}

func (s *ChatServer) editMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := s.messageID(w, r)
	if !ok {
		return
	}
	var req messageRequest
	if !s.decode(w, r, &req) {
		return
	}
	message, err := s.chatService.EditMessage(domain.EditMessageCommand{
		ID:     id,
		Caller: auth.IdentityFromContext(r.Context()),
		To:     req.To,
		Text:   req.Text,
		Kind:   req.Type,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	_ = JSONWrite(w, http.StatusOK, toMessageResponse(message, s.location))
}

func (s *ChatServer) deleteMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := s.messageID(w, r)
	if !ok {
		return
	}
	err := s.chatService.DeleteMessage(domain.DeleteMessageCommand{
		ID:     id,
		Caller: auth.IdentityFromContext(r.Context()),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// messageID parses the {id} path variable. An id that cannot exist is reported as not found.
func (s *ChatServer) messageID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := mux.Vars(r)["id"]
	id, err := uuid.Parse(raw)
	if err != nil {
		s.writeError(w, fmt.Errorf("message %q: %w", raw, errors.ErrNotFound))
		return uuid.Nil, false
	}
	return id, true
}

// decode reads the JSON body into v.
// A well formed body with a field of the wrong type is a validation failure, anything unparseable is a 400.
func (s *ChatServer) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		if typeErr.Field == "" {
			s.writeError(w, errors.NewValidationError("body must be a JSON object"))
		} else {
			s.writeError(w, errors.NewValidationError(fmt.Sprintf("%q must be a %s", typeErr.Field, typeErr.Type)))
		}
		return false
	}
	JSONError(w, http.StatusBadRequest, "invalid json")
	return false
}
