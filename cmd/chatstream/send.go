package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/leofalp/chatstream/core/chat"
	"github.com/leofalp/chatstream/core/config"
	"github.com/leofalp/chatstream/providers/ai"
	"github.com/leofalp/chatstream/providers/ai/openai"
)

func providerFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "provider",
		Aliases: []string{"p"},
		Usage:   "provider id (openai, anthropic, gemini)",
		Value:   openai.ProviderID,
		Sources: cli.EnvVars("CHATSTREAM_PROVIDER"),
	}
}

func newSendCommand() *cli.Command {
	return &cli.Command{
		Name:      "send",
		Usage:     "Send a prompt and stream the reply to stdout",
		ArgsUsage: "<prompt>",
		Flags: []cli.Flag{
			providerFlag(),
			&cli.StringFlag{Name: "model", Aliases: []string{"m"}, Usage: "override the configured model"},
			&cli.StringFlag{Name: "system", Aliases: []string{"s"}, Usage: "system prompt (ignored by Anthropic and Gemini)"},
		},
		Action: runSend,
	}
}

// modelOverride replaces the model of every resolved configuration.
type modelOverride struct {
	config.Source
	model string
}

func (m modelOverride) Lookup(providerID string) (ai.ProviderConfig, error) {
	resolved, err := m.Source.Lookup(providerID)
	if err != nil {
		return resolved, err
	}
	resolved.Model = m.model
	return resolved, nil
}

func runSend(ctx context.Context, cmd *cli.Command) error {
	prompt := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if prompt == "" {
		return cli.Exit("a prompt is required", 2)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	service := a.service
	if model := cmd.String("model"); model != "" {
		service = chat.NewService(modelOverride{Source: a.source, model: model}, a.dispatcher)
	}

	providerID := cmd.String("provider")
	var history []ai.Message
	if system := cmd.String("system"); system != "" {
		history = append(history, ai.Message{Role: ai.RoleSystem, Content: system})
	}
	history = append(history, ai.NewUserMessage(prompt))

	fmt.Fprintf(os.Stderr, "%s - %s\n", chat.TitleFromPrompt(prompt), providerLabel(providerID))

	reply, err := service.Send(ctx, providerID, history, func(event ai.StreamEvent) {
		if event.Type == ai.StreamEventDelta {
			fmt.Print(event.Text)
		}
	})
	if err != nil {
		return err
	}

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupts)
	go func() {
		select {
		case <-interrupts:
			_ = service.Cancel(providerID)
		case <-reply.Done():
		}
	}()

	snapshot, err := reply.Wait(ctx)
	fmt.Println()
	if err != nil {
		return err
	}

	switch snapshot.Status {
	case chat.StatusFailed:
		return cli.Exit(fmt.Sprintf("[%s] %s", snapshot.ErrorCode, strings.TrimPrefix(snapshot.Content, "error: ")), 1)
	case chat.StatusCancelled:
		fmt.Fprintln(os.Stderr, "[cancelled]")
		return cli.Exit("", 130)
	}
	return nil
}
