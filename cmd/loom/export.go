package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/loomchat/loom/backend"
	"github.com/loomchat/loom/export"
	"github.com/loomchat/loom/session"
	"github.com/loomchat/loom/store"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export <session-id>",
	Short: "Export a session transcript",
	Long: `Fetches the session's stored history from the backend and writes it in
the chosen format (json, jsonl, yaml, md) to stdout or a file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig()
		if err != nil {
			return err
		}

		id := args[0]
		client := backend.New(&cfg.Backend)

		messages, err := client.History(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to fetch history for %s: %w", id, err)
		}

		transcript := &export.Transcript{
			SessionID: id,
			Messages:  messages,
		}

		// Directory metadata is best-effort; an unregistered id still
		// exports its backend history.
		if st, err := store.New(&cfg.Store); err == nil {
			for _, m := range session.NewDirectory(st).List(cmd.Context()) {
				if m.ID == id {
					transcript.Preview = m.Preview
					transcript.LastTouched = m.LastTouched
					break
				}
			}
		}

		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		var out io.Writer = os.Stdout
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		return exporter.Export(transcript, out)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format: json, jsonl, yaml, md")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}
