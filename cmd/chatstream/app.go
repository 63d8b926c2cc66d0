package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/leofalp/chatstream/core/chat"
	"github.com/leofalp/chatstream/core/config"
	"github.com/leofalp/chatstream/core/dispatch"
	"github.com/leofalp/chatstream/providers/ai"
	"github.com/leofalp/chatstream/providers/observability/slogobs"
)

// app bundles what every subcommand needs.
type app struct {
	observer   *slogobs.Observer
	source     *config.FileSource
	dispatcher *dispatch.Dispatcher
	service    *chat.Service
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "chatstream.yml"
	}
	return filepath.Join(dir, "chatstream", "config.yml")
}

func newApp(cmd *cli.Command) (*app, error) {
	observer, err := newObserver(cmd)
	if err != nil {
		return nil, err
	}

	source, err := config.LoadFile(cmd.String("config"), nil)
	if err != nil {
		return nil, err
	}

	dispatcher := dispatch.NewDefault(ai.WithObserver(observer))
	return &app{
		observer:   observer,
		source:     source,
		dispatcher: dispatcher,
		service:    chat.NewService(source, dispatcher),
	}, nil
}

func newObserver(cmd *cli.Command) (*slogobs.Observer, error) {
	var opts []slogobs.Option
	if level := cmd.String("log-level"); level != "" {
		parsed, err := slogobs.ParseLogLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid --log-level: %w", err)
		}
		opts = append(opts, slogobs.WithLevel(parsed))
	}
	if format := cmd.String("log-format"); format != "" {
		opts = append(opts, slogobs.WithFormat(slogobs.ParseFormat(format)))
	}
	return slogobs.New(opts...), nil
}

// providerLabel renders "Display Name (id)" for known providers.
func providerLabel(providerID string) string {
	if info, ok := config.Info(providerID); ok {
		return fmt.Sprintf("%s (%s)", info.DisplayName, providerID)
	}
	return providerID
}
