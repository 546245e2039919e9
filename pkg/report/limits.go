package report

import (
	"strconv"
	"strings"
)

const (
	// DefaultClaudeLimit is the token budget assumed for Claude models.
	DefaultClaudeLimit = 150000

	// DefaultGPTLimit is the token budget assumed for GPT models.
	DefaultGPTLimit = 128000
)

// Limits are the per-family token budgets a codebase is checked against.
type Limits struct {
	Claude int
	GPT    int
}

// DefaultLimits returns the built-in budgets.
func DefaultLimits() Limits {
	return Limits{Claude: DefaultClaudeLimit, GPT: DefaultGPTLimit}
}

// ParseLimits builds Limits from raw override values. Empty, non-numeric
// and non-positive values fall back to the defaults without error.
func ParseLimits(claude, gpt string) Limits {
	return Limits{
		Claude: parseLimit(claude, DefaultClaudeLimit),
		GPT:    parseLimit(gpt, DefaultGPTLimit),
	}
}

func parseLimit(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
