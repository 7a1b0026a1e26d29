package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docmender/docmender/internal/unidiff"
)

var patchCmd = &cobra.Command{
	Use:   "patch <file> [patch-file]",
	Short: "Validate and apply a unified diff to a file",
	Long: `Validate a unified diff against the safety rules and apply it to a file.
Reads the patch from stdin when no patch file is given.

The patch is normally applied through the git-style patch engine; --no-tool
forces the self-contained applier, which also handles bare hunks without
---/+++ file trailers.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPatch,
}

func init() {
	patchCmd.Flags().Bool("no-tool", false, "skip the patch tool and use the self-contained applier")
	patchCmd.Flags().Bool("force", false, "apply even when the safety rules reject the patch")
	patchCmd.Flags().BoolP("dry-run", "n", false, "print the patched document to stdout instead of writing the file")
}

func runPatch(cmd *cobra.Command, args []string) error {
	cfg, _, err := commandSetup(cmd)
	if err != nil {
		return err
	}

	target := args[0]
	source := "-"
	if len(args) == 2 {
		source = args[1]
	}

	doc, err := readInput(target)
	if err != nil {
		return fmt.Errorf("reading %s: %w", target, err)
	}
	diffText, err := readInput(source)
	if err != nil {
		return fmt.Errorf("reading patch: %w", err)
	}

	force, _ := cmd.Flags().GetBool("force")
	if v := unidiff.Validate(diffText, cfg.diffRules()); !v.OK && !force {
		return fmt.Errorf("patch rejected: %s (use --force to apply anyway)", v.Reason)
	}

	apply := unidiff.Apply
	if noTool, _ := cmd.Flags().GetBool("no-tool"); noTool {
		apply = unidiff.ApplyManual
	}
	updated, err := apply(doc, diffText)
	if err != nil {
		return fmt.Errorf("applying patch: %w", err)
	}

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		fmt.Fprint(cmd.OutOrStdout(), updated)
		return nil
	}
	if err := os.WriteFile(target, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return nil
}
