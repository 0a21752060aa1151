package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/require"

	"buzzy-agent/internal/domain"
	"buzzy-agent/internal/usecase"
)

type stubUseCase struct {
	out   usecase.ChatOutput
	err   error
	in    usecase.ChatInput
	calls int
}

func (s *stubUseCase) Respond(_ context.Context, in usecase.ChatInput) (usecase.ChatOutput, error) {
	s.calls++
	s.in = in
	return s.out, s.err
}

type recorded struct {
	conversationID string
	message        string
	answer         string
	category       domain.IntentCategory
	mode           string
}

type fakeStore struct {
	history    []domain.ConversationMessage
	historyErr error
	recordErr  error
	limit      int
	records    []recorded
}

func (f *fakeStore) GetHistory(_ context.Context, _ string, limit int) ([]domain.ConversationMessage, error) {
	f.limit = limit
	return f.history, f.historyErr
}

func (f *fakeStore) Record(_ context.Context, conversationID, message, answer string, category domain.IntentCategory, mode string) error {
	f.records = append(f.records, recorded{conversationID, message, answer, category, mode})
	return f.recordErr
}

func makeEvent(body string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/chat",
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}
}

func parseBody[T any](t *testing.T, body string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	return v
}

func liveOutput() usecase.ChatOutput {
	return usecase.ChatOutput{Answer: "hello", Category: domain.IntentGreeting, Mode: usecase.ModeLive}
}

func TestNewHandler_ValidatesDependency(t *testing.T) {
	_, err := NewHandler(nil)
	require.Error(t, err)
}

func TestHandle_HappyPath(t *testing.T) {
	uc := &stubUseCase{out: liveOutput()}
	h, err := NewHandler(uc)
	require.NoError(t, err)

	resp, err := h.Handle(context.Background(), makeEvent(`{"message":"Hi!","conversationHistory":[{"role":"user","content":"q"},{"role":"assistant","content":"a"}]}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Hi!", uc.in.Message)
	require.Equal(t, []domain.ConversationMessage{
		{Role: domain.RoleUser, Content: "q"},
		{Role: domain.RoleAssistant, Content: "a"},
	}, uc.in.History)

	out := parseBody[chatResponse](t, resp.Body)
	require.Equal(t, "hello", out.Answer)
	require.Equal(t, domain.IntentGreeting, out.Category)
	require.Equal(t, usecase.ModeLive, out.Mode)
	require.Empty(t, out.ConversationID)
	require.NotEmpty(t, resp.Headers["X-Correlation-Id"])
}

func TestHandle_DegradedFlag(t *testing.T) {
	uc := &stubUseCase{out: usecase.ChatOutput{Answer: "canned", Category: domain.IntentPricing, Mode: usecase.ModeFallback, Degraded: true}}
	h, err := NewHandler(uc)
	require.NoError(t, err)

	resp, err := h.Handle(context.Background(), makeEvent(`{"message":"How much is it?"}`))
	require.NoError(t, err)
	out := parseBody[chatResponse](t, resp.Body)
	require.True(t, out.Degraded)
	require.Equal(t, usecase.ModeFallback, out.Mode)
}

func TestHandle_Base64Body(t *testing.T) {
	uc := &stubUseCase{out: liveOutput()}
	h, err := NewHandler(uc)
	require.NoError(t, err)

	event := makeEvent(base64.StdEncoding.EncodeToString([]byte(`{"message":"Hi!"}`)))
	event.IsBase64Encoded = true
	resp, err := h.Handle(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Hi!", uc.in.Message)
}

func TestHandle_InvalidRequests(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "not json", body: `not-json`},
		{name: "missing message", body: `{"conversationHistory":[]}`},
		{name: "blank message", body: `{"message":"   "}`},
		{name: "unknown role", body: `{"message":"Hi","conversationHistory":[{"role":"robot","content":"beep"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := &stubUseCase{}
			h, err := NewHandler(uc)
			require.NoError(t, err)

			resp, err := h.Handle(context.Background(), makeEvent(tc.body))
			require.NoError(t, err)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.Equal(t, string(usecase.ErrorInvalidInput), parseBody[errorResponse](t, resp.Body).Error)
			require.Zero(t, uc.calls)
		})
	}
}

func TestHandle_Methods(t *testing.T) {
	h, err := NewHandler(&stubUseCase{})
	require.NoError(t, err)

	event := makeEvent("")
	event.HTTPMethod = http.MethodOptions
	resp, err := h.Handle(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])

	event.HTTPMethod = http.MethodGet
	resp, err = h.Handle(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHandle_UseCaseErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "invalid input", err: &usecase.Error{Code: usecase.ErrorInvalidInput, Reason: "empty_message"}, status: http.StatusBadRequest, code: string(usecase.ErrorInvalidInput)},
		{name: "drift", err: &usecase.Error{Code: usecase.ErrorInternal, Reason: "response_bank_drift"}, status: http.StatusInternalServerError, code: string(usecase.ErrorInternal)},
		{name: "unexpected", err: errors.New("boom"), status: http.StatusInternalServerError, code: string(usecase.ErrorInternal)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, err := NewHandler(&stubUseCase{err: tc.err})
			require.NoError(t, err)

			resp, err := h.Handle(context.Background(), makeEvent(`{"message":"Hi!"}`))
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
			require.Equal(t, tc.code, parseBody[errorResponse](t, resp.Body).Error)
		})
	}
}

func TestHandle_UsesProvidedCorrelationID_CaseInsensitive(t *testing.T) {
	h, err := NewHandler(&stubUseCase{out: liveOutput()})
	require.NoError(t, err)

	event := makeEvent(`{"message":"Hi!"}`)
	event.Headers["x-correlation-id"] = "corr-123"
	resp, err := h.Handle(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, "corr-123", resp.Headers["X-Correlation-Id"])
}

func TestHandle_Transcripts_NewConversation(t *testing.T) {
	store := &fakeStore{}
	uc := &stubUseCase{out: liveOutput()}
	h, err := NewHandler(uc, WithTranscripts(store, 3))
	require.NoError(t, err)
	h.newID = func() string { return "generated-id" }

	resp, err := h.Handle(context.Background(), makeEvent(`{"message":"Hi!"}`))
	require.NoError(t, err)
	require.Equal(t, "generated-id", parseBody[chatResponse](t, resp.Body).ConversationID)
	require.Zero(t, store.limit, "a new conversation has no stored history")
	require.Equal(t, []recorded{{"generated-id", "Hi!", "hello", domain.IntentGreeting, "live"}}, store.records)
}

func TestHandle_Transcripts_LoadsStoredHistory(t *testing.T) {
	stored := []domain.ConversationMessage{
		{Role: domain.RoleUser, Content: "earlier"},
		{Role: domain.RoleAssistant, Content: "reply"},
	}
	store := &fakeStore{history: stored}
	uc := &stubUseCase{out: liveOutput()}
	h, err := NewHandler(uc, WithTranscripts(store, 2))
	require.NoError(t, err)

	resp, err := h.Handle(context.Background(), makeEvent(`{"message":"And prices?","conversationId":"conv-1"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 2, store.limit)
	require.Equal(t, stored, uc.in.History)
	require.Equal(t, "conv-1", parseBody[chatResponse](t, resp.Body).ConversationID)
}

func TestHandle_Transcripts_FailuresDoNotChangeResponse(t *testing.T) {
	store := &fakeStore{historyErr: errors.New("dynamodb down"), recordErr: errors.New("write failed")}
	uc := &stubUseCase{out: liveOutput()}
	h, err := NewHandler(uc, WithTranscripts(store, 3))
	require.NoError(t, err)

	resp, err := h.Handle(context.Background(), makeEvent(`{"message":"Hi!","conversationId":"conv-1"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "hello", parseBody[chatResponse](t, resp.Body).Answer)
	require.Empty(t, uc.in.History)
	require.Len(t, store.records, 1)
}

func TestHandle_Transcripts_SkipsHealthCheck(t *testing.T) {
	store := &fakeStore{}
	uc := &stubUseCase{out: usecase.ChatOutput{Answer: usecase.TestConnectionReply, Mode: usecase.ModeHealth}}
	h, err := NewHandler(uc, WithTranscripts(store, 3))
	require.NoError(t, err)

	resp, err := h.Handle(context.Background(), makeEvent(`{"message":"test connection"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, store.records)
}
