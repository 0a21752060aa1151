package config

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	ParamPrefix string `env:"PARAM_PREFIX" env-required:"true"`
	StateTable  string `env:"STATE_TABLE"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"info"`

	// HistoryWindow is the number of prior messages forwarded to the model.
	HistoryWindow int `env:"HISTORY_WINDOW" env-default:"6"`
	// StoredExchanges is how many persisted exchanges are loaded when a request
	// names a conversation but carries no history.
	StoredExchanges int `env:"STORED_HISTORY_EXCHANGES" env-default:"3"`

	Completion Completion
	Retry      Retry
}

type Completion struct {
	Enabled   bool          `env:"LIVE_MODEL_ENABLED" env-default:"true"`
	BaseURL   string        `env:"COMPLETION_BASE_URL" env-default:"https://api.perplexity.ai"`
	Model     string        `env:"COMPLETION_MODEL" env-default:"sonar"`
	MaxTokens int           `env:"COMPLETION_MAX_TOKENS" env-default:"500"`
	Timeout   time.Duration `env:"COMPLETION_TIMEOUT" env-default:"15s"`
}

type Retry struct {
	MaxAttempts int           `env:"RETRY_MAX_ATTEMPTS" env-default:"3"`
	Delay       time.Duration `env:"RETRY_DELAY" env-default:"1s"`
}

func (conf Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("param_prefix", conf.ParamPrefix),
		slog.String("state_table", conf.StateTable),
		slog.String("log_level", conf.LogLevel),
		slog.Int("history_window", conf.HistoryWindow),
		slog.Int("stored_history_exchanges", conf.StoredExchanges),
		slog.Group("completion",
			slog.Bool("enabled", conf.Completion.Enabled),
			slog.String("base_url", conf.Completion.BaseURL),
			slog.String("model", conf.Completion.Model),
			slog.Int("max_tokens", conf.Completion.MaxTokens),
			slog.Duration("timeout", conf.Completion.Timeout),
		),
		slog.Group("retry",
			slog.Int("max_attempts", conf.Retry.MaxAttempts),
			slog.Duration("delay", conf.Retry.Delay),
		),
	)
}

func Read() (Config, error) {
	var conf Config
	if err := cleanenv.ReadEnv(&conf); err != nil {
		return Config{}, err
	}
	conf.ParamPrefix = strings.TrimRight(strings.TrimSpace(conf.ParamPrefix), "/")
	conf.StateTable = strings.TrimSpace(conf.StateTable)
	if err := conf.validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}

func (conf Config) validate() error {
	var errs []error
	if conf.ParamPrefix == "" {
		errs = append(errs, errors.New("config: PARAM_PREFIX must not be empty"))
	}
	if conf.HistoryWindow < 1 {
		errs = append(errs, errors.New("config: HISTORY_WINDOW must be at least 1"))
	}
	if conf.StoredExchanges < 0 {
		errs = append(errs, errors.New("config: STORED_HISTORY_EXCHANGES must not be negative"))
	}
	if conf.Retry.MaxAttempts < 1 {
		errs = append(errs, errors.New("config: RETRY_MAX_ATTEMPTS must be at least 1"))
	}
	if conf.Retry.Delay <= 0 {
		errs = append(errs, errors.New("config: RETRY_DELAY must be positive"))
	}
	if conf.Completion.Enabled && strings.TrimSpace(conf.Completion.Model) == "" {
		errs = append(errs, errors.New("config: COMPLETION_MODEL must be set when the live model is enabled"))
	}
	return errors.Join(errs...)
}
