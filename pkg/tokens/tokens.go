// Package tokens estimates how many tokens a text costs for each target model family.
package tokens

import (
	"math"
	"unicode/utf8"

	tiktoken "github.com/pkoukk/tiktoken-go"
	"github.com/sirupsen/logrus"

	"github.com/praetorian-inc/scribe/pkg/types"
)

// Counter estimates the token count of a text.
type Counter interface {
	CountTokens(text string) int
}

// DefaultTiktokenModel selects the encoding used for the GPT family.
const DefaultTiktokenModel = "gpt-4o"

// TiktokenCounter counts tokens with an OpenAI BPE encoding.
type TiktokenCounter struct {
	ttk *tiktoken.Tiktoken
}

// NewTiktokenCounter loads the encoding for model. The encoding files are
// fetched on first use unless TIKTOKEN_CACHE_DIR holds them already.
func NewTiktokenCounter(model string) (*TiktokenCounter, error) {
	if model == "" {
		model = DefaultTiktokenModel
	}
	tke, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, err
	}
	return &TiktokenCounter{ttk: tke}, nil
}

func (c *TiktokenCounter) CountTokens(text string) int {
	if c == nil || c.ttk == nil {
		return 0
	}
	return len(c.ttk.EncodeOrdinary(text))
}

// HeuristicCounter approximates tokens from the character count.
type HeuristicCounter struct {
	CharsPerToken float64
}

func (c HeuristicCounter) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	ratio := c.CharsPerToken
	if ratio <= 0 {
		ratio = 4
	}
	return int(math.Ceil(float64(utf8.RuneCountInString(text)) / ratio))
}

// Families holds one counter per target model family.
type Families struct {
	Claude Counter
	GPT    Counter
}

// Count estimates text for every family.
func (f Families) Count(text string) types.TokenTotals {
	var t types.TokenTotals
	if f.Claude != nil {
		t.Claude = f.Claude.CountTokens(text)
	}
	if f.GPT != nil {
		t.GPT = f.GPT.CountTokens(text)
	}
	return t
}

// DefaultFamilies returns the Claude heuristic and a tiktoken-backed GPT
// counter, degrading to a heuristic when the encoding is unavailable.
func DefaultFamilies() Families {
	f := Families{
		Claude: HeuristicCounter{CharsPerToken: 3.5},
	}
	gpt, err := NewTiktokenCounter(DefaultTiktokenModel)
	if err != nil {
		logrus.WithError(err).Warn("tiktoken encoding unavailable, estimating GPT tokens from characters")
		f.GPT = HeuristicCounter{CharsPerToken: 4}
		return f
	}
	f.GPT = gpt
	return f
}

// HeuristicFamilies returns character-ratio counters for both families.
func HeuristicFamilies() Families {
	return Families{
		Claude: HeuristicCounter{CharsPerToken: 3.5},
		GPT:    HeuristicCounter{CharsPerToken: 4},
	}
}
