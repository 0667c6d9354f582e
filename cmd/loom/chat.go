package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loomchat/loom/conversation"
	"github.com/loomchat/loom/core/protocol"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat loop",
	Long: `Resumes the active session (or creates one on first use) and reads
messages from stdin. Slash commands inside the loop:

  /new           start a fresh session
  /switch <id>   switch to another session
  /sessions      list known sessions
  /quit          exit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		co, err := newCore()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		return runChat(ctx, co)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(ctx context.Context, co *conversation.Coordinator) error {
	ctrl := co.Controller()

	if err := ctrl.Resume(ctx); err != nil {
		return err
	}
	if ctrl.State() == conversation.StateIdle {
		if _, err := co.NewSession(ctx); err != nil {
			return err
		}
	}

	out := os.Stdout
	fmt.Fprintf(out, "session %s\n\n", idStyle.Render(ctrl.SessionID()))
	for _, msg := range ctrl.Messages() {
		renderMessage(out, msg)
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(out, promptStyle.Render("> "))
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			quit, err := runSlashCommand(ctx, co, line, out)
			if err != nil {
				renderError(out, err.Error())
			}
			if quit {
				return nil
			}
			continue
		}

		before := len(ctrl.Messages())
		ctrl.Send(ctx, line)

		for _, msg := range ctrl.Messages()[before:] {
			// The optimistic user entry was typed; only echo replies.
			if msg.Role != protocol.RoleUser {
				renderMessage(out, msg)
			}
		}
		if reason := ctrl.LastError(); reason != "" {
			renderError(out, reason)
		}

		if ctx.Err() != nil {
			return nil
		}
	}

	return scanner.Err()
}

// runSlashCommand handles the in-loop commands. The bool result requests
// loop exit.
func runSlashCommand(ctx context.Context, co *conversation.Coordinator, line string, out *os.File) (bool, error) {
	fields := strings.Fields(line)
	ctrl := co.Controller()

	switch fields[0] {
	case "/quit", "/exit":
		return true, nil

	case "/new":
		id, err := co.NewSession(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(out, "session %s\n\n", idStyle.Render(id))
		for _, msg := range ctrl.Messages() {
			renderMessage(out, msg)
		}
		return false, nil

	case "/switch":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: /switch <session-id>")
		}
		if err := co.SwitchTo(ctx, fields[1]); err != nil {
			return false, err
		}
		fmt.Fprintf(out, "session %s\n\n", idStyle.Render(ctrl.SessionID()))
		for _, msg := range ctrl.Messages() {
			renderMessage(out, msg)
		}
		return false, nil

	case "/sessions":
		printSessions(ctx, co, out)
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %s", fields[0])
	}
}
