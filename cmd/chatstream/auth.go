package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/leofalp/chatstream/core/config"
	"github.com/leofalp/chatstream/providers/ai"
)

func newAuthCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage provider API keys in the OS keyring",
		Commands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Store an API key; read from stdin when not given",
				ArgsUsage: "<provider> [api-key]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					providerID, err := authProvider(cmd)
					if err != nil {
						return err
					}
					apiKey := cmd.Args().Get(1)
					if apiKey == "" {
						fmt.Fprintf(os.Stderr, "Enter %s API key: ", providerLabel(providerID))
						apiKey, err = bufio.NewReader(os.Stdin).ReadString('\n')
						if err != nil && apiKey == "" {
							return fmt.Errorf("error reading API key: %w", err)
						}
					}
					apiKey = strings.TrimSpace(apiKey)
					if apiKey == "" {
						return cli.Exit("API key cannot be empty", 2)
					}
					if err := config.NewKeyringStore().Set(providerID, apiKey); err != nil {
						return err
					}
					fmt.Printf("%s API key stored in keyring\n", providerLabel(providerID))
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "Remove a stored API key",
				ArgsUsage: "<provider>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					providerID, err := authProvider(cmd)
					if err != nil {
						return err
					}
					if err := config.NewKeyringStore().Delete(providerID); err != nil {
						return err
					}
					fmt.Printf("%s API key removed from keyring\n", providerLabel(providerID))
					return nil
				},
			},
		},
	}
}

func authProvider(cmd *cli.Command) (string, error) {
	providerID := cmd.Args().First()
	if providerID == "" {
		return "", cli.Exit("a provider id is required", 2)
	}
	if _, ok := config.Info(providerID); !ok {
		return "", fmt.Errorf("%w: %q", ai.ErrUnknownProvider, providerID)
	}
	return providerID, nil
}
