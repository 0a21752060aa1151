package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"buzzy-agent/internal/domain"
	"buzzy-agent/internal/intent"
	"buzzy-agent/internal/observability"
)

const (
	// TestConnectionMessage is the health-check sentinel sent by the chat widget.
	TestConnectionMessage = "test connection"
	// TestConnectionReply is returned for TestConnectionMessage without any other work.
	TestConnectionReply = "Connection successful! Buzzy is ready to chat. 🐝"

	defaultMaxAttempts   = 3
	defaultRetryDelay    = time.Second
	defaultHistoryWindow = 6
	defaultMaxTokens     = 500
)

// Mode tells the caller which path produced an answer.
type Mode string

const (
	ModeLive     Mode = "live"
	ModeFallback Mode = "fallback"
	ModeHealth   Mode = "health"
)

type Classifier interface {
	Classify(text string, childLike bool) domain.IntentCategory
}

type ResponsePicker interface {
	Pick(category domain.IntentCategory) (string, error)
}

type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
}

// Settings tunes the live model path. Zero values fall back to defaults.
type Settings struct {
	Model         string
	MaxTokens     int
	MaxAttempts   int
	RetryDelay    time.Duration
	HistoryWindow int
}

type ChatService struct {
	classifier Classifier
	picker     ResponsePicker
	llm        Completer
	sleeper    Sleeper

	model         string
	maxTokens     int
	maxAttempts   int
	retryDelay    time.Duration
	historyWindow int
}

type ChatInput struct {
	Message string
	History []domain.ConversationMessage
}

type ChatOutput struct {
	Answer   string
	Category domain.IntentCategory
	Mode     Mode
	// Degraded is set when a canned reply stood in for the live model.
	Degraded bool
}

type Option func(*ChatService)

// WithSleeper replaces the timer used between retry attempts.
func WithSleeper(s Sleeper) Option {
	return func(svc *ChatService) {
		if s != nil {
			svc.sleeper = s
		}
	}
}

// NewChatService wires the classifier and reply bank with an optional live
// completion client. A nil llm disables the live path: every answer then comes
// from the reply bank.
func NewChatService(c Classifier, p ResponsePicker, llm Completer, settings Settings, opts ...Option) (*ChatService, error) {
	if c == nil {
		return nil, errors.New("usecase: classifier must not be nil")
	}
	if p == nil {
		return nil, errors.New("usecase: response picker must not be nil")
	}
	model := strings.TrimSpace(settings.Model)
	if llm != nil && model == "" {
		return nil, errors.New("usecase: model must not be empty when a completion client is set")
	}
	if settings.MaxTokens <= 0 {
		settings.MaxTokens = defaultMaxTokens
	}
	if settings.MaxAttempts <= 0 {
		settings.MaxAttempts = defaultMaxAttempts
	}
	if settings.RetryDelay <= 0 {
		settings.RetryDelay = defaultRetryDelay
	}
	if settings.HistoryWindow <= 0 {
		settings.HistoryWindow = defaultHistoryWindow
	}
	svc := &ChatService{
		classifier:    c,
		picker:        p,
		llm:           llm,
		sleeper:       timerSleeper{},
		model:         model,
		maxTokens:     settings.MaxTokens,
		maxAttempts:   settings.MaxAttempts,
		retryDelay:    settings.RetryDelay,
		historyWindow: settings.HistoryWindow,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Respond answers one user message. It prefers the live model and degrades to a
// canned reply for the classified intent; upstream failures never surface as
// errors. The only error is a category missing from the reply bank.
func (s *ChatService) Respond(ctx context.Context, in ChatInput) (ChatOutput, error) {
	if in.Message == TestConnectionMessage {
		return ChatOutput{Answer: TestConnectionReply, Mode: ModeHealth}, nil
	}

	log := observability.FromContext(ctx)
	childLike := intent.IsChildLike(in.Message)
	category := s.classifier.Classify(in.Message, childLike)

	if s.llm != nil {
		req := buildCompletionRequest(s.model, s.maxTokens, s.historyWindow, in.Message, in.History, childLike)
		answer, err := s.completeWithRetry(ctx, req)
		if err == nil {
			log.Info("answered with live model", "category", category, "child_like", childLike, "temperature", req.Temperature)
			return ChatOutput{Answer: answer, Category: category, Mode: ModeLive}, nil
		}
		log.Warn("live model unavailable, using canned reply", "category", category, "err", err)
	}

	reply, err := s.picker.Pick(category)
	if err != nil {
		log.Error("reply bank has no entry for category", "category", category, "err", err)
		return ChatOutput{}, newError(ErrorInternal, "response_bank_drift", err)
	}
	return ChatOutput{Answer: reply, Category: category, Mode: ModeFallback, Degraded: true}, nil
}
