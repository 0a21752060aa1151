package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"buzzy-agent/internal/domain"
	"buzzy-agent/internal/observability"
	"buzzy-agent/internal/usecase"
)

const (
	correlationHeader      = "X-Correlation-Id"
	defaultStoredExchanges = 3
)

type Responder interface {
	Respond(ctx context.Context, in usecase.ChatInput) (usecase.ChatOutput, error)
}

// TranscriptStore is the caller-owned conversation store. It is optional.
type TranscriptStore interface {
	GetHistory(ctx context.Context, conversationID string, limit int) ([]domain.ConversationMessage, error)
	Record(ctx context.Context, conversationID, message, answer string, category domain.IntentCategory, mode string) error
}

type chatRequest struct {
	Message             string                       `json:"message"`
	ConversationHistory []domain.ConversationMessage `json:"conversationHistory"`
	ConversationID      string                       `json:"conversationId,omitempty"`
}

type chatResponse struct {
	Answer         string                `json:"answer"`
	Category       domain.IntentCategory `json:"category,omitempty"`
	Mode           usecase.Mode          `json:"mode"`
	Degraded       bool                  `json:"degraded"`
	ConversationID string                `json:"conversationId,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	uc              Responder
	store           TranscriptStore
	storedExchanges int
	logger          *slog.Logger
	newID           func() string
}

type Option func(*Handler)

// WithTranscripts enables loading and persisting conversations. When a request
// names a conversation but sends no history, up to exchanges stored exchanges
// are loaded.
func WithTranscripts(store TranscriptStore, exchanges int) Option {
	return func(h *Handler) {
		h.store = store
		if exchanges > 0 {
			h.storedExchanges = exchanges
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

func NewHandler(uc Responder, opts ...Option) (*Handler, error) {
	if uc == nil {
		return nil, errors.New("handler: responder must not be nil")
	}
	h := &Handler{
		uc:              uc,
		storedExchanges: defaultStoredExchanges,
		logger:          slog.Default(),
		newID:           uuid.NewString,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Handle serves POST /chat from API Gateway.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	correlationID := headerValue(event.Headers, correlationHeader)
	if correlationID == "" {
		correlationID = h.newID()
	}
	log := h.logger.With("correlation_id", correlationID)
	ctx = observability.WithLogger(ctx, log)

	switch event.HTTPMethod {
	case http.MethodOptions:
		return respond(http.StatusNoContent, correlationID, nil), nil
	case http.MethodPost:
	default:
		return respond(http.StatusMethodNotAllowed, correlationID, errorResponse{Error: "METHOD_NOT_ALLOWED"}), nil
	}

	req, err := decodeRequest(event)
	if err != nil {
		log.Info("rejected chat request", "reason", err.Error())
		return respond(http.StatusBadRequest, correlationID, errorResponse{Error: string(usecase.ErrorInvalidInput)}), nil
	}

	convID := strings.TrimSpace(req.ConversationID)
	history := req.ConversationHistory
	if h.store != nil {
		if convID == "" {
			convID = h.newID()
		} else if len(history) == 0 {
			stored, err := h.store.GetHistory(ctx, convID, h.storedExchanges)
			if err != nil {
				log.Warn("failed to load stored history", "conversation_id", convID, "err", err)
			} else {
				history = stored
			}
		}
	}

	out, err := h.uc.Respond(ctx, usecase.ChatInput{Message: req.Message, History: history})
	if err != nil {
		status, code := errorStatus(err)
		log.Error("chat request failed", "status", status, "err", err)
		return respond(status, correlationID, errorResponse{Error: code}), nil
	}

	if h.store != nil && out.Mode != usecase.ModeHealth {
		if err := h.store.Record(ctx, convID, req.Message, out.Answer, out.Category, string(out.Mode)); err != nil {
			log.Warn("failed to record exchange", "conversation_id", convID, "err", err)
		}
	}

	return respond(http.StatusOK, correlationID, chatResponse{
		Answer:         out.Answer,
		Category:       out.Category,
		Mode:           out.Mode,
		Degraded:       out.Degraded,
		ConversationID: convID,
	}), nil
}

func decodeRequest(event events.APIGatewayProxyRequest) (chatRequest, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return chatRequest{}, errors.New("body is not valid base64")
		}
		body = decoded
	}

	var req chatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return chatRequest{}, errors.New("body is not valid JSON")
	}
	if strings.TrimSpace(req.Message) == "" {
		return chatRequest{}, errors.New("message is required")
	}
	for _, m := range req.ConversationHistory {
		if !m.Role.Valid() {
			return chatRequest{}, errors.New("history contains an unknown role")
		}
	}
	return req, nil
}

func errorStatus(err error) (int, string) {
	var ucErr *usecase.Error
	if !errors.As(err, &ucErr) {
		return http.StatusInternalServerError, string(usecase.ErrorInternal)
	}
	switch ucErr.Code {
	case usecase.ErrorInvalidInput:
		return http.StatusBadRequest, string(ucErr.Code)
	default:
		return http.StatusInternalServerError, string(usecase.ErrorInternal)
	}
}

func respond(status int, correlationID string, payload any) events.APIGatewayProxyResponse {
	headers := map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type, " + correlationHeader,
		"Access-Control-Allow-Methods": "OPTIONS, POST",
		correlationHeader:              correlationID,
	}
	if payload == nil {
		return events.APIGatewayProxyResponse{StatusCode: status, Headers: headers}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"INTERNAL_ERROR"}`)
	}
	return events.APIGatewayProxyResponse{StatusCode: status, Headers: headers, Body: string(body)}
}

// headerValue looks a header up case-insensitively; API Gateway preserves the
// client's casing.
func headerValue(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
