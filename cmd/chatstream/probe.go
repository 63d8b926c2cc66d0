package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/leofalp/chatstream/core/config"
	"github.com/leofalp/chatstream/providers/ai"
)

func newTestCommand() *cli.Command {
	return &cli.Command{
		Name:  "test",
		Usage: "Check connectivity and credentials of one or all providers",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "provider", Aliases: []string{"p"}, Usage: "provider id; all providers when empty"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			providerIDs := a.source.ProviderIDs()
			if providerID := cmd.String("provider"); providerID != "" {
				providerIDs = []string{providerID}
			}

			failed := 0
			for _, providerID := range providerIDs {
				description, err := a.service.TestConnection(ctx, providerID)
				if err != nil {
					failed++
				}
				fmt.Printf("%-24s %s\n", providerLabel(providerID), probeResult(description, err))
			}
			if failed > 0 {
				return cli.Exit(fmt.Sprintf("%d of %d providers failed", failed, len(providerIDs)), 1)
			}
			return nil
		},
	}
}

func probeResult(description string, err error) string {
	var streamErr *ai.StreamError
	switch {
	case err == nil:
		return description
	case errors.Is(err, config.ErrNotConfigured):
		return "not configured"
	case errors.As(err, &streamErr):
		return fmt.Sprintf("failed [%s] %s", streamErr.Code, streamErr.Message)
	default:
		return "failed: " + err.Error()
	}
}
