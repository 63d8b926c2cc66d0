package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/leofalp/chatstream/core/config"
)

func newProvidersCommand() *cli.Command {
	return &cli.Command{
		Name:  "providers",
		Usage: "List providers with their resolved model and endpoint",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			writer := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tNAME\tMODEL\tBASE URL\tSTATUS")
			for _, providerID := range a.source.ProviderIDs() {
				name := providerID
				if info, ok := config.Info(providerID); ok {
					name = info.DisplayName
				}
				resolved, err := a.source.Lookup(providerID)
				status := "ready"
				if err != nil {
					resolved = config.WithDefaults(providerID, resolved)
					status = "not configured"
				}
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n", providerID, name, resolved.Model, resolved.BaseURL, status)
			}
			return writer.Flush()
		},
	}
}
