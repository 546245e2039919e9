package digest

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/praetorian-inc/scribe/pkg/enum"
)

// Result is one page of the digest as returned to a client.
type Result struct {
	Content      string `json:"content"`
	HasMorePages bool   `json:"has_more_pages"`
	CurrentPage  int    `json:"current_page"`
	NextPage     *int   `json:"next_page,omitempty"`
	TotalPages   int    `json:"total_pages"`
}

// Engine produces digest pages for a root. It keeps no state between calls;
// every request re-enumerates the tree through Source.
type Engine struct {
	Source enum.Source

	// PageSize is used when a request passes a non-positive capacity.
	PageSize int
}

// NewEngine creates an engine reading records from source.
func NewEngine(source enum.Source, pageSize int) *Engine {
	return &Engine{Source: source, PageSize: pageSize}
}

// Generate returns page of the digest of root. Pages are numbered from 1;
// a page outside the produced range yields empty content with the terminal
// directive rather than an error.
func (e *Engine) Generate(ctx context.Context, root string, page, capacity int) (*Result, error) {
	if capacity <= 0 {
		capacity = e.PageSize
	}
	if capacity <= 0 {
		capacity = DefaultPageSize
	}

	res, err := e.Source.Load(ctx, root)
	if err != nil {
		return nil, err
	}

	pages := Paginate(res.Records, capacity)
	logrus.WithFields(logrus.Fields{
		"root":  root,
		"page":  page,
		"pages": len(pages),
		"files": len(res.Records),
	}).Debug("digest paginated")

	return Select(pages, page), nil
}

// Select picks page (1-based) out of pages and appends the continuation
// directive.
func Select(pages []Page, page int) *Result {
	out := &Result{CurrentPage: page, TotalPages: len(pages)}
	if len(pages) == 0 {
		return out
	}
	if page >= 1 && page <= len(pages) {
		out.Content = pages[page-1].Content
	}
	if len(pages) <= 1 && page == 1 {
		return out
	}

	if page >= 1 && page < len(pages) {
		next := page + 1
		out.HasMorePages = true
		out.NextPage = &next
		out.Content += MoreDirective(page)
		return out
	}
	out.Content += LastDirective(page)
	return out
}

// MoreDirective tells the client to request the page after page.
func MoreDirective(page int) string {
	return fmt.Sprintf("\n\n---\nThis is page %d. You MUST call this tool again with page: %d to get the rest of the files.\n", page, page+1)
}

// LastDirective tells the client that page is terminal.
func LastDirective(page int) string {
	return fmt.Sprintf("\n\n---\nThis is the last page (page %d). Do NOT call this tool again - you have received the complete codebase.\n", page)
}
