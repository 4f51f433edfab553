package cli

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

// Version identifies the running build in the health payload. Overridable at
// build time via -ldflags "-X github.com/christlutheran/kbchat/pkg/cli.Version=...".
var Version = "kb-v8-go"

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:  "kbchat",
		Usage: "Grounded chat service for the church knowledge base",
		Commands: []*cli.Command{
			serveCommand(),
			askCommand(),
			versionCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
