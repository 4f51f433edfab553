package cli

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/christlutheran/kbchat/pkg/server"
	"github.com/christlutheran/kbchat/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	var cfg config
	var addr string
	var watch bool

	flags := append(globalFlags(&cfg), llmFlags(&cfg)...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Listen address",
			Value:       ":8080",
			Sources:     cli.EnvVars("KBCHAT_ADDR"),
			Destination: &addr,
		},
		&cli.BoolFlag{
			Name:        "watch",
			Usage:       "Invalidate the corpus cache when the data directory changes",
			Value:       true,
			Sources:     cli.EnvVars("KBCHAT_WATCH"),
			Destination: &watch,
		},
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP chat service",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.New(cfg.logLevel, os.Stdout)
			if cfg.logFormat == "json" {
				logger = logging.NewJSON(cfg.logLevel, os.Stdout)
			}
			logging.SetDefault(logger)
			ctx = logging.With(ctx, logger)

			corpus := cfg.newCorpus()

			var asker server.Asker
			if cfg.apiKey != "" {
				uc, err := cfg.newUseCase(corpus)
				if err != nil {
					return goerr.Wrap(err, "failed to build answering pipeline")
				}
				asker = uc
			} else {
				// Keep serving health checks; chat requests report the
				// missing credential.
				logger.Warn("OPENAI_API_KEY is not set, chat requests will fail")
			}

			if watch {
				go func() {
					if err := corpus.Watch(ctx); err != nil {
						logger.Warn("corpus watching disabled", "error", err)
					}
				}()
			}

			srv := server.New(server.NewInput{
				Asker:   asker,
				Corpus:  corpus,
				Version: Version,
			})

			httpServer := &http.Server{
				Addr:              addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			logger.Info("starting server", "addr", addr, "version", Version, "dataDir", cfg.dataDir)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return goerr.Wrap(err, "server stopped")
			}
			return nil
		},
	}
}
