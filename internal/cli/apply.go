package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docmender/docmender/internal/genai"
	"github.com/docmender/docmender/internal/resolver"
)

var applyCmd = &cobra.Command{
	Use:   "apply <file>",
	Short: "Resolve a change request against a file and write the result",
	Long: `Resolve a fuzzy change request against a documentation file.

The reference text says what passage the request is about (it does not have to
be an exact quote) and the suggestion says what it should become. When the
suggestion is omitted, the reference is treated as an instruction describing
the change.

Examples:
  docmender apply README.md --ref "the Install section" --suggest "$(cat new-install.md)"
  docmender apply docs/setup.md --ref-file ref.txt --suggest-file new.txt
  docmender apply guide.md --ref "add a troubleshooting section" --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().String("ref", "", "reference text the request points at")
	applyCmd.Flags().String("ref-file", "", "read the reference text from a file")
	applyCmd.Flags().String("suggest", "", "suggested replacement text")
	applyCmd.Flags().String("suggest-file", "", "read the suggestion from a file")
	applyCmd.Flags().String("instructions", "", "extra instructions forwarded to the generator")
	applyCmd.Flags().BoolP("dry-run", "n", false, "print the updated document to stdout instead of writing the file")
	applyCmd.Flags().StringP("output", "o", "", "write the updated document here instead of in place")
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, logger, err := commandSetup(cmd)
	if err != nil {
		return err
	}
	target := args[0]

	ref, err := flagOrFile(cmd, "ref", "ref-file")
	if err != nil {
		return err
	}
	if ref == "" {
		return fmt.Errorf("a reference is required: use --ref or --ref-file")
	}
	suggest, err := flagOrFile(cmd, "suggest", "suggest-file")
	if err != nil {
		return err
	}

	doc, err := readInput(target)
	if err != nil {
		return fmt.Errorf("reading %s: %w", target, err)
	}

	gen, err := genai.New(genai.Config{
		Provider: cfg.Generator.Provider,
		Model:    cfg.Generator.Model,
		APIKey:   cfg.Generator.APIKey,
		BaseURL:  cfg.Generator.BaseURL,
	}, logger)
	if err != nil {
		return err
	}

	instructions, _ := cmd.Flags().GetString("instructions")
	r := resolver.New(gen, cfg.resolverOptions(), logger)
	out := r.Resolve(cmd.Context(), resolver.ChangeRequest{
		DocumentText:       doc,
		ReferenceText:      ref,
		SuggestionText:     suggest,
		FileID:             target,
		CustomInstructions: instructions,
	})

	if !out.Applied() {
		return fmt.Errorf("could not resolve change: %s", out.Reason)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "applied via %s strategy (%d lines changed)\n", out.Strategy, out.ChangedLines)

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		fmt.Fprint(cmd.OutOrStdout(), out.Text)
		return nil
	}

	dest := target
	if o, _ := cmd.Flags().GetString("output"); o != "" {
		dest = o
	}
	if dest == "-" {
		fmt.Fprint(cmd.OutOrStdout(), out.Text)
		return nil
	}
	if err := os.WriteFile(dest, []byte(out.Text), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return nil
}

func flagOrFile(cmd *cobra.Command, flag, fileFlag string) (string, error) {
	if path, _ := cmd.Flags().GetString(fileFlag); path != "" {
		text, err := readInput(path)
		if err != nil {
			return "", fmt.Errorf("reading --%s: %w", fileFlag, err)
		}
		return text, nil
	}
	val, _ := cmd.Flags().GetString(flag)
	return val, nil
}
