package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/loomchat/loom/conversation"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage conversation sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		co, err := newCore()
		if err != nil {
			return err
		}
		printSessions(cmd.Context(), co, os.Stdout)
		return nil
	},
}

var sessionsNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a fresh session and make it active",
	RunE: func(cmd *cobra.Command, args []string) error {
		co, err := newCore()
		if err != nil {
			return err
		}
		id, err := co.NewSession(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

var sessionsSwitchCmd = &cobra.Command{
	Use:   "switch <session-id>",
	Short: "Make another session active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		co, err := newCore()
		if err != nil {
			return err
		}
		return co.SwitchTo(cmd.Context(), args[0])
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd, sessionsNewCmd, sessionsSwitchCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func printSessions(ctx context.Context, co *conversation.Coordinator, out *os.File) {
	entries := co.Sessions(ctx)
	if len(entries) == 0 {
		fmt.Fprintln(out, "no sessions yet; run `loom chat` to start one")
		return
	}

	active := co.Active(ctx)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	for _, m := range entries {
		marker := " "
		if m.ID == active {
			marker = activeStyle.Render("*")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			marker,
			idStyle.Render(m.ID),
			previewStyle.Render(m.Preview),
			dateStyle.Render(m.LastTouched.Format("2006-01-02 15:04")),
		)
	}
	w.Flush()
}
