// Command chatstream streams chat replies from OpenAI-compatible, Anthropic and
// Gemini endpoints.
//
//	chatstream send -p anthropic "Explain the CAP theorem"
//	chatstream test
//	chatstream auth set gemini
//
// API keys are read from the config file, the OS keyring or the provider's
// environment variable; a .env file in the working directory is loaded first.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	if err := newRootCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "chatstream:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "chatstream",
		Usage: "Stream chat replies from LLM providers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML provider configuration",
				Value:   defaultConfigPath(),
				Sources: cli.EnvVars("CHATSTREAM_CONFIG"),
			},
			&cli.StringFlag{Name: "log-level", Usage: "trace, debug, info, warn or error (default from CHATSTREAM_LOG_LEVEL)"},
			&cli.StringFlag{Name: "log-format", Usage: "text or json (default from CHATSTREAM_LOG_FORMAT)"},
		},
		Commands: []*cli.Command{
			newSendCommand(),
			newTestCommand(),
			newProvidersCommand(),
			newAuthCommand(),
		},
	}
}
