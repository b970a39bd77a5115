package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"noten/internal/document"
)

// ErrDroppedEdges is returned by check --strict when an edge record could
// not be kept.
var ErrDroppedEdges = errors.New("document has edges that cannot be loaded")

func newCheckCmd(a *app) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a board document",
		Long: `check loads a board document the way the editor does and reports what
would be repaired: edges pointing at missing notes, self-loops, missing or
duplicate ids and unknown handle names or colors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := document.ReadFile(args[0])
			if err != nil {
				return err
			}
			res, err := document.Import(data)
			if err != nil {
				a.log.Warn().Err(err).Str("path", args[0]).Msg("check failed")
				return fmt.Errorf("%s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d notes, %d edges\n", args[0], len(res.Notes), len(res.Edges))
			for _, d := range res.Dropped {
				id := d.EdgeID
				if id == "" {
					id = "(no id)"
				}
				fmt.Fprintf(out, "  dropped edge %s %s -> %s: %s\n", id, d.Source, d.Target, d.Reason)
			}
			if res.Repaired > 0 {
				fmt.Fprintf(out, "  %d fields reset to defaults\n", res.Repaired)
			}
			a.log.Info().Str("path", args[0]).
				Int("notes", len(res.Notes)).
				Int("edges", len(res.Edges)).
				Int("dropped", len(res.Dropped)).
				Msg("document checked")

			if strict && len(res.Dropped) > 0 {
				return fmt.Errorf("%s: %w (%d)", args[0], ErrDroppedEdges, len(res.Dropped))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when any edge would be dropped")
	return cmd
}
