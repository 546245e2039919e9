// Package report builds the pre-flight size summary a client reads before
// requesting the digest itself.
package report

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/praetorian-inc/scribe/pkg/enum"
	"github.com/praetorian-inc/scribe/pkg/ignore"
	"github.com/praetorian-inc/scribe/pkg/types"
)

// DefaultTopN is how many of the largest files are listed.
const DefaultTopN = 10

// FileStat is the size information of one file.
type FileStat struct {
	Name      string `json:"name"`
	SizeChars int    `json:"size_chars"`
	SizeBytes int64  `json:"size_bytes"`
}

// KB returns the on-disk size in kilobytes.
func (f FileStat) KB() float64 {
	return float64(f.SizeBytes) / 1024
}

// Warning records a token budget that the codebase exceeds.
type Warning struct {
	Family string `json:"family"`
	Tokens int    `json:"tokens"`
	Limit  int    `json:"limit"`
}

// SizeReport is the outcome of a size check.
type SizeReport struct {
	Content    string            `json:"content"`
	HasWarning bool              `json:"has_warning"`
	Warnings   []Warning         `json:"warnings,omitempty"`
	Tokens     types.TokenTotals `json:"tokens"`
	Limits     Limits            `json:"limits"`
	TotalFiles int               `json:"total_files"`
	TotalChars int               `json:"total_chars"`
	Largest    []FileStat        `json:"largest"`
}

// Reporter produces size reports. Source should omit content and count
// tokens; only sizes and totals are consulted.
type Reporter struct {
	Source enum.Source
	Limits Limits
	TopN   int
}

// NewReporter creates a reporter with the given limits.
func NewReporter(source enum.Source, limits Limits) *Reporter {
	return &Reporter{Source: source, Limits: limits, TopN: DefaultTopN}
}

// Generate enumerates root and reports its size.
func (r *Reporter) Generate(ctx context.Context, root string) (*SizeReport, error) {
	res, err := r.Source.Load(ctx, root)
	if err != nil {
		return nil, err
	}
	rep := Build(res.Records, res.Totals, r.Limits, r.TopN)
	logrus.WithFields(logrus.Fields{
		"root":    root,
		"files":   rep.TotalFiles,
		"claude":  rep.Tokens.Claude,
		"gpt":     rep.Tokens.GPT,
		"warning": rep.HasWarning,
	}).Debug("size report built")
	return rep, nil
}

// Build assembles a report from already enumerated records.
func Build(records []types.FileRecord, totals types.TokenTotals, limits Limits, topN int) *SizeReport {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if limits.Claude <= 0 {
		limits.Claude = DefaultClaudeLimit
	}
	if limits.GPT <= 0 {
		limits.GPT = DefaultGPTLimit
	}

	rep := &SizeReport{
		Tokens:     totals,
		Limits:     limits,
		TotalFiles: len(records),
		Largest:    Largest(records, topN),
	}
	for _, rec := range records {
		rep.TotalChars += rec.SizeChars
	}
	if totals.Claude > limits.Claude {
		rep.Warnings = append(rep.Warnings, Warning{Family: "Claude", Tokens: totals.Claude, Limit: limits.Claude})
	}
	if totals.GPT > limits.GPT {
		rep.Warnings = append(rep.Warnings, Warning{Family: "GPT", Tokens: totals.GPT, Limit: limits.GPT})
	}
	rep.HasWarning = len(rep.Warnings) > 0
	rep.Content = Markdown(rep)
	return rep
}

// Largest returns the n biggest records by character count, name breaking ties.
func Largest(records []types.FileRecord, n int) []FileStat {
	stats := make([]FileStat, len(records))
	for i, rec := range records {
		stats[i] = FileStat{Name: rec.Name, SizeChars: rec.SizeChars, SizeBytes: rec.SizeBytes}
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].SizeChars != stats[j].SizeChars {
			return stats[i].SizeChars > stats[j].SizeChars
		}
		return stats[i].Name < stats[j].Name
	})
	if len(stats) > n {
		stats = stats[:n]
	}
	return stats
}

// Markdown renders rep for a client.
func Markdown(rep *SizeReport) string {
	var b strings.Builder
	b.WriteString("# Codebase Size Report\n\n")

	for _, w := range rep.Warnings {
		fmt.Fprintf(&b, "## WARNING: %s token limit exceeded\n\n", w.Family)
		fmt.Fprintf(&b, "The codebase is estimated at %s tokens for %s models, above the limit of %s tokens. "+
			"The digest will be split across several pages and may not fit in one conversation.\n\n",
			humanize.Comma(int64(w.Tokens)), w.Family, humanize.Comma(int64(w.Limit)))
	}

	b.WriteString("## Token Summary\n\n")
	fmt.Fprintf(&b, "- Files: %s\n", humanize.Comma(int64(rep.TotalFiles)))
	fmt.Fprintf(&b, "- Characters: %s\n", humanize.Comma(int64(rep.TotalChars)))
	fmt.Fprintf(&b, "- Claude: %s tokens (limit %s)\n", humanize.Comma(int64(rep.Tokens.Claude)), humanize.Comma(int64(rep.Limits.Claude)))
	fmt.Fprintf(&b, "- GPT: %s tokens (limit %s)\n\n", humanize.Comma(int64(rep.Tokens.GPT)), humanize.Comma(int64(rep.Limits.GPT)))

	b.WriteString("## Largest Files\n\n")
	if len(rep.Largest) == 0 {
		b.WriteString("No files found.\n\n")
	}
	for i, f := range rep.Largest {
		fmt.Fprintf(&b, "%d. `%s`: %.2f KB\n", i+1, f.Name, f.KB())
	}
	if len(rep.Largest) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("## Next Step\n\n")
	if rep.HasWarning {
		fmt.Fprintf(&b, "Consider adding large or irrelevant files to a `%s` file in the project root, "+
			"then call `get_codebase_size` again. To continue anyway, call `get_codebase` with page: 1 "+
			"and keep requesting pages until told to stop.\n", ignore.ProjectFile)
	} else {
		b.WriteString("Call `get_codebase` with page: 1 to retrieve the codebase.\n")
	}
	return b.String()
}
