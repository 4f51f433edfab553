package cli

import (
	"github.com/christlutheran/kbchat/pkg/adapter"
	"github.com/christlutheran/kbchat/pkg/repository"
	"github.com/christlutheran/kbchat/pkg/service/gateway"
	"github.com/christlutheran/kbchat/pkg/service/kb"
	"github.com/christlutheran/kbchat/pkg/usecase/answer"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// config holds configuration values
type config struct {
	dataDir   string
	kbConfig  string
	logLevel  string
	logFormat string

	// Upstream model
	apiKey    string
	model     string
	deepModel string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "data-dir",
			Aliases:     []string{"d"},
			Usage:       "Directory of knowledge base documents",
			Value:       "data",
			Sources:     cli.EnvVars("KBCHAT_DATA_DIR"),
			Destination: &cfg.dataDir,
		},
		&cli.StringFlag{
			Name:        "kb-config",
			Usage:       "Optional YAML file overriding scoring and selection tunables",
			Sources:     cli.EnvVars("KBCHAT_KB_CONFIG"),
			Destination: &cfg.kbConfig,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("KBCHAT_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console, json)",
			Value:       "console",
			Sources:     cli.EnvVars("KBCHAT_LOG_FORMAT"),
			Destination: &cfg.logFormat,
		},
	}
}

// llmFlags returns flags for the upstream model configuration
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key",
			Sources:     cli.EnvVars("OPENAI_API_KEY"),
			Destination: &cfg.apiKey,
		},
		&cli.StringFlag{
			Name:        "model",
			Usage:       "Model tier serving standard requests",
			Value:       "gpt-4o-mini",
			Sources:     cli.EnvVars("KBCHAT_MODEL"),
			Destination: &cfg.model,
		},
		&cli.StringFlag{
			Name:        "deep-model",
			Usage:       "Model tier serving deep-dive requests",
			Value:       "gpt-4o",
			Sources:     cli.EnvVars("KBCHAT_DEEP_MODEL"),
			Destination: &cfg.deepModel,
		},
	}
}

// newCorpus creates the corpus store over the configured data directory
func (cfg *config) newCorpus() *repository.Corpus {
	return repository.NewCorpus(cfg.dataDir)
}

// newSelector creates the section selector, applying the optional tunables file
func (cfg *config) newSelector() (*kb.Selector, error) {
	tun, err := kb.LoadTunables(cfg.kbConfig)
	if err != nil {
		return nil, err
	}
	return kb.NewSelector(tun), nil
}

// newUseCase wires the answering pipeline. It requires the API key.
func (cfg *config) newUseCase(corpus *repository.Corpus) (*answer.UseCase, error) {
	if cfg.apiKey == "" {
		return nil, goerr.New("openai-api-key is required")
	}

	openai, err := adapter.NewOpenAI(cfg.apiKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create openai adapter")
	}

	selector, err := cfg.newSelector()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create selector")
	}

	return answer.New(answer.NewInput{
		Corpus:     corpus,
		OpenAI:     openai,
		Gateway:    gateway.New(),
		Selector:   selector,
		Classifier: kb.NewClassifier(),
		Tiers: answer.ModelTiers{
			Standard: cfg.model,
			Deep:     cfg.deepModel,
		},
	})
}
