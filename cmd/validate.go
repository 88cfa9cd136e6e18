// Package cmd holds the blinknode subcommands.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/smazurov/blinknode/internal/page"
	"github.com/spf13/cobra"
)

// CreateValidateTemplateCmd creates the validate-template command.
func CreateValidateTemplateCmd() *cobra.Command {
	var dir string
	var name string

	cmd := &cobra.Command{
		Use:   "validate-template",
		Short: "Check a page template for the required placeholders",
		Long: `Load the page template from an assets directory and verify that it
contains every status placeholder the server substitutes.

Exit codes:
  0 - Template is valid
  1 - Template is missing or lacks placeholders

Example:
  blinknode validate-template -d /srv/blinknode`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidateTemplate(cmd, os.DirFS(dir), dir, name)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Assets directory containing the template")
	cmd.Flags().StringVarP(&name, "template", "t", page.DefaultTemplate, "Template file name inside the directory")

	return cmd
}

func runValidateTemplate(cmd *cobra.Command, fsys fs.FS, dir, name string) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read template %s in %s: %w", name, dir, err)
	}

	if missing := page.MissingTokens(string(data)); len(missing) > 0 {
		out := cmd.ErrOrStderr()
		fmt.Fprintf(out, "Template %s is missing placeholders:\n", name)
		for _, tok := range missing {
			fmt.Fprintf(out, "  %s\n", tok)
		}
		return errors.New("template is invalid")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Template is valid!\n")
	fmt.Fprintf(out, "  Directory:    %s\n", dir)
	fmt.Fprintf(out, "  Template:     %s (%d bytes)\n", name, len(data))
	fmt.Fprintf(out, "  Placeholders: %d\n", len(page.Tokens()))
	return nil
}
