package cli

import (
	"context"
	"fmt"
	"runtime"

	"github.com/urfave/cli/v3"
)

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the build version",
		Action: func(ctx context.Context, c *cli.Command) error {
			fmt.Printf("kbchat %s (%s)\n", Version, runtime.Version())
			return nil
		},
	}
}
