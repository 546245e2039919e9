package main

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	digestPage      int
	digestPageSize  int
	digestOutput    string
	digestClipboard bool
)

var digestCmd = &cobra.Command{
	Use:   "digest [path | git-url]",
	Short: "Print one page of the codebase digest",
	Long: `Render the codebase as Markdown and print the requested page.

The target defaults to the configured root. A git URL is shallow-cloned into
a temporary directory first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDigest,
}

func init() {
	digestCmd.Flags().IntVarP(&digestPage, "page", "p", 1, "Page to print (1-based)")
	digestCmd.Flags().IntVar(&digestPageSize, "page-size", 0, "Page capacity in characters (0 uses page_size)")
	digestCmd.Flags().StringVarP(&digestOutput, "output", "o", "", "Write the page to a file instead of stdout")
	digestCmd.Flags().BoolVar(&digestClipboard, "clipboard", false, "Also copy the page to the clipboard")

	rootCmd.AddCommand(digestCmd)
}

func runDigest(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	var target string
	if len(args) > 0 {
		target = args[0]
	}

	svc, cleanup, err := newService(ctx, target)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := svc.Engine.Generate(ctx, svc.Root, digestPage, digestPageSize)
	if err != nil {
		return fmt.Errorf("generating digest: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"page":  res.CurrentPage,
		"pages": res.TotalPages,
		"more":  res.HasMorePages,
	}).Debug("digest generated")

	if digestOutput != "" {
		if err := os.WriteFile(digestOutput, []byte(res.Content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", digestOutput, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote page %d of %d to %s\n", res.CurrentPage, res.TotalPages, digestOutput)
	} else {
		fmt.Fprint(cmd.OutOrStdout(), res.Content)
	}

	if digestClipboard {
		if err := clipboard.WriteAll(res.Content); err != nil {
			return fmt.Errorf("copying to clipboard: %w", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Copied to clipboard")
	}
	return nil
}
