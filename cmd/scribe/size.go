package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/praetorian-inc/scribe/pkg/report"
)

var (
	sizeColor  string
	sizeFormat string
)

var sizeCmd = &cobra.Command{
	Use:   "size [path | git-url]",
	Short: "Report codebase size and token estimates",
	Long: `Count files, characters and estimated tokens, and warn when the codebase
exceeds the Claude or GPT token limit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSize,
}

func init() {
	sizeCmd.Flags().StringVar(&sizeColor, "color", "auto", "Color output: auto, always, never")
	sizeCmd.Flags().StringVar(&sizeFormat, "format", "human", "Output format: human, json")

	rootCmd.AddCommand(sizeCmd)
}

// styles holds color formatters for the size report
type styles struct {
	heading *color.Color
	warning *color.Color
	value   *color.Color
}

// newStyles creates color formatters for report output
// enabled overrides the global color.NoColor detection in both directions
func newStyles(enabled bool) *styles {
	s := &styles{
		heading: color.New(color.Bold),
		warning: color.New(color.Bold, color.FgHiRed),
		value:   color.New(color.FgHiBlue),
	}

	if enabled {
		s.heading.EnableColor()
		s.warning.EnableColor()
		s.value.EnableColor()
	} else {
		s.heading.DisableColor()
		s.warning.DisableColor()
		s.value.DisableColor()
	}

	return s
}

func colorEnabled(mode string) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		return term.IsTerminal(int(os.Stdout.Fd())) && os.Getenv("NO_COLOR") == "", nil
	default:
		return false, fmt.Errorf("invalid --color value %q (want auto, always or never)", mode)
	}
}

func runSize(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	enabled, err := colorEnabled(sizeColor)
	if err != nil {
		return err
	}
	color.NoColor = !enabled

	var target string
	if len(args) > 0 {
		target = args[0]
	}
	svc, cleanup, err := newService(ctx, target)
	if err != nil {
		return err
	}
	defer cleanup()

	rep, err := svc.Size(ctx)
	if err != nil {
		return fmt.Errorf("building size report: %w", err)
	}

	out := cmd.OutOrStdout()
	switch sizeFormat {
	case "json":
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	case "human":
		fmt.Fprint(out, styleReport(rep, newStyles(enabled)))
	default:
		return fmt.Errorf("unsupported format: %s", sizeFormat)
	}
	return nil
}

// styleReport colors the Markdown report line by line.
func styleReport(rep *report.SizeReport, s *styles) string {
	lines := strings.SplitAfter(rep.Content, "\n")
	var b strings.Builder
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "## WARNING"):
			b.WriteString(s.warning.Sprint(line))
		case strings.HasPrefix(line, "#"):
			b.WriteString(s.heading.Sprint(line))
		case strings.HasPrefix(line, "- "):
			b.WriteString(s.value.Sprint(line))
		default:
			b.WriteString(line)
		}
	}
	return b.String()
}
