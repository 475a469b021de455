package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/gradtrack/gradtrack/internal/config"
	"github.com/gradtrack/gradtrack/internal/session"
	"github.com/spf13/cobra"
)

var (
	chatMessage   string
	chatSessionID string
	chatTrace     bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant in the terminal",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Send a single message and exit")
	chatCmd.Flags().StringVarP(&chatSessionID, "session", "s", "cli:default", "Session ID")
	chatCmd.Flags().BoolVar(&chatTrace, "trace", false, "Show reasoning steps")
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if chatTrace {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	app, err := buildApp(cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	sess := session.New(chatSessionID)

	// One-shot mode.
	if chatMessage != "" {
		return chatTurn(cmd.Context(), app, sess, chatMessage)
	}

	printHeader("GradTrack Chat")
	if app.provider == nil {
		color.Yellow("No API key found: running offline with rule-based responses.")
	} else {
		fmt.Printf("Model: %s\n", cfg.Model.Name)
	}
	fmt.Println("Type 'exit' to quit, 'reset' to clear the session.")

	scanner := bufio.NewScanner(os.Stdin)
	prompt := color.New(color.FgGreen, color.Bold)
	for {
		prompt.Print("\nyou> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "exit", line == "quit":
			return nil
		case line == "reset":
			sess.Clear()
			color.Yellow("Session cleared.")
			continue
		}
		if err := chatTurn(cmd.Context(), app, sess, line); err != nil {
			color.Red("Error: %v", err)
		}
	}
}

func chatTurn(ctx context.Context, a *app, sess *session.Session, message string) error {
	result, err := a.agent.Process(ctx, message, sess)
	if err != nil {
		return err
	}

	if chatTrace {
		for _, step := range result.Trace {
			color.HiBlack("  [%s] %s", step.Step, step.Message)
		}
	}
	if len(result.ToolsUsed) > 0 {
		color.HiBlack("  (tools: %s)", strings.Join(result.ToolsUsed, ", "))
	}
	color.New(color.FgCyan, color.Bold).Print("gradtrack> ")
	fmt.Println(result.Response)
	return nil
}
