package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"buzzy-agent/handler"
	appconfig "buzzy-agent/internal/config"
	"buzzy-agent/internal/integrations/paramstore"
	"buzzy-agent/internal/integrations/perplexity"
	"buzzy-agent/internal/intent"
	"buzzy-agent/internal/observability"
	"buzzy-agent/internal/repository"
	"buzzy-agent/internal/responses"
	"buzzy-agent/internal/usecase"
)

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	conf, err := appconfig.Read()
	if err != nil {
		slog.Error("failed to read configuration", "err", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(os.Stdout, conf.LogLevel)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "config", conf)

	// ---- AWS SDK config ----
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		logger.Error("failed to load AWS config", "err", err)
		os.Exit(1)
	}

	// ---- Reply bank ----
	selector := responses.NewSelector()
	if err := selector.Validate(); err != nil {
		logger.Error("reply bank is out of sync with intent categories", "err", err)
		os.Exit(1)
	}

	// ---- Live model (optional) ----
	var llm usecase.Completer
	if conf.Completion.Enabled {
		ssmClient, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
		if err != nil {
			logger.Error("failed to create SSM client", "err", err)
			os.Exit(1)
		}
		client, err := perplexity.NewClient(ssmClient, conf.ParamPrefix,
			perplexity.WithBaseURL(conf.Completion.BaseURL),
			perplexity.WithHTTPClient(&http.Client{Timeout: conf.Completion.Timeout}),
		)
		if err != nil {
			logger.Error("failed to create completion client", "err", err)
			os.Exit(1)
		}
		llm = client
	} else {
		logger.Warn("live model disabled, answering from the reply bank only")
	}

	chatService, err := usecase.NewChatService(intent.NewClassifier(), selector, llm, usecase.Settings{
		Model:         conf.Completion.Model,
		MaxTokens:     conf.Completion.MaxTokens,
		MaxAttempts:   conf.Retry.MaxAttempts,
		RetryDelay:    conf.Retry.Delay,
		HistoryWindow: conf.HistoryWindow,
	})
	if err != nil {
		logger.Error("failed to create chat service", "err", err)
		os.Exit(1)
	}

	// ---- Handler ----
	opts := []handler.Option{handler.WithLogger(logger)}
	if conf.StateTable != "" {
		transcripts, err := repository.New(awsdynamodb.NewFromConfig(awsCfg), conf.StateTable)
		if err != nil {
			logger.Error("failed to create transcript store", "err", err)
			os.Exit(1)
		}
		opts = append(opts, handler.WithTranscripts(transcripts, conf.StoredExchanges))
	}

	h, err := handler.NewHandler(chatService, opts...)
	if err != nil {
		logger.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}
