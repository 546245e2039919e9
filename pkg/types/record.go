package types

import "unicode/utf8"

// FileRecord is one regular file produced by an enumeration.
type FileRecord struct {
	// Name is the slash-separated path relative to the scanned root.
	Name string `json:"name"`

	// Content is the rendered digest form of the file. Empty when the
	// enumeration was asked to omit content.
	Content string `json:"content,omitempty"`

	// SizeChars is the character count of the rendered content. All page
	// arithmetic uses this unit.
	SizeChars int `json:"size_chars"`

	// SizeBytes is the raw on-disk size.
	SizeBytes int64 `json:"size_bytes"`

	// Tokens holds per-family estimates when token counting was requested.
	Tokens TokenTotals `json:"tokens"`
}

// NewFileRecord builds a record whose SizeChars is derived from content.
func NewFileRecord(name, content string, sizeBytes int64) FileRecord {
	return FileRecord{
		Name:      name,
		Content:   content,
		SizeChars: utf8.RuneCountInString(content),
		SizeBytes: sizeBytes,
	}
}

// TokenTotals holds token estimates for each target model family.
type TokenTotals struct {
	Claude int `json:"claude"`
	GPT    int `json:"gpt"`
}

// Add returns the sum of t and o.
func (t TokenTotals) Add(o TokenTotals) TokenTotals {
	return TokenTotals{Claude: t.Claude + o.Claude, GPT: t.GPT + o.GPT}
}
