package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"noten/internal/board"
	"noten/internal/document"
	"noten/internal/render"
)

func newExportCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:       "export png|text <file>",
		Short:     "Render a board document to PNG or plain text",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"png", "text"},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, path := args[0], args[1]
			ext := map[string]string{"png": ".png", "text": ".txt"}[format]
			if ext == "" {
				return fmt.Errorf("unknown export format %q, want png or text", format)
			}
			if output == "" {
				output = strings.TrimSuffix(path, filepath.Ext(path)) + ext
			}

			data, err := document.ReadFile(path)
			if err != nil {
				return err
			}
			store := board.NewStore()
			res, err := document.Apply(store, data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			b := store.Board()

			switch format {
			case "png":
				err = render.SavePNG(output, b)
			case "text":
				var txt string
				if txt, err = render.Text(b, a.cfg.UI.Zoom); err == nil {
					err = document.WriteFile(output, []byte(txt))
				}
			}
			if err != nil {
				a.log.Error().Err(err).Str("path", output).Msg("export failed")
				return err
			}
			a.log.Info().Str("format", format).Str("path", output).Int("dropped", len(res.Dropped)).Msg("board exported")
			fmt.Fprintf(cmd.OutOrStdout(), "exported %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: input name with .png or .txt)")
	return cmd
}
