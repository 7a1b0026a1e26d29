package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docmender/docmender/internal/unidiff"
)

var validateCmd = &cobra.Command{
	Use:   "validate [patch-file]",
	Short: "Check a unified diff against the safety rules (non-destructive)",
	Long: `Check a proposed unified diff for structural soundness and destructive
changes without applying it. Reads from stdin when no file is given.

Exit codes:
  0 — patch accepted
  1 — patch rejected (reason printed)`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, _, err := commandSetup(cmd)
	if err != nil {
		return err
	}

	source := "-"
	if len(args) == 1 {
		source = args[0]
	}
	diffText, err := readInput(source)
	if err != nil {
		return fmt.Errorf("reading patch: %w", err)
	}

	v := unidiff.Validate(diffText, cfg.diffRules())
	if !v.OK {
		return fmt.Errorf("patch rejected: %s", v.Reason)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "patch accepted")
	return nil
}
