package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/christlutheran/kbchat/pkg/usecase/answer"
	"github.com/christlutheran/kbchat/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func askCommand() *cli.Command {
	var cfg config
	var deepDive bool

	flags := append(globalFlags(&cfg), llmFlags(&cfg)...)
	flags = append(flags, &cli.BoolFlag{
		Name:        "deep-dive",
		Usage:       "Force deep-dive mode",
		Destination: &deepDive,
	})

	return &cli.Command{
		Name:      "ask",
		Usage:     "Ask one question from the terminal",
		ArgsUsage: "<question>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if question == "" {
				return goerr.New("question is required")
			}

			logger := logging.New(cfg.logLevel, os.Stderr)
			logging.SetDefault(logger)
			ctx = logging.With(ctx, logger)

			uc, err := cfg.newUseCase(cfg.newCorpus())
			if err != nil {
				return err
			}

			out, err := uc.Ask(ctx, answer.Input{Text: question, DeepDive: deepDive})
			if err != nil {
				return goerr.Wrap(err, "failed to answer")
			}

			fmt.Println(out.Reply)

			if len(out.PickedTitles) > 0 {
				fmt.Fprintln(os.Stderr, "\ncontext sections:")
				for _, title := range out.PickedTitles {
					fmt.Fprintf(os.Stderr, "  - %s\n", title)
				}
			}
			for _, act := range out.ToolActivity {
				fmt.Fprintf(os.Stderr, "tool %s ok=%v %s\n", act.Tool, act.OK, act.Note)
			}
			if out.OfferDeepDive {
				fmt.Fprintln(os.Stderr, answer.DeepDiveHint)
			}
			return nil
		},
	}
}
