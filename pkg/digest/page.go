// Package digest splits the rendered codebase into bounded pages and tells
// the caller what to request next.
package digest

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/praetorian-inc/scribe/pkg/types"
)

// DefaultPageSize is the page capacity in characters used when none is given.
const DefaultPageSize = 99000

// Page is a contiguous run of rendered records.
type Page struct {
	// Names of the records on the page, in order.
	Names []string

	// Content is the concatenated rendered form.
	Content string

	// Size is the character count of Content.
	Size int
}

// OmissionMarker is the stand-in emitted for a record larger than a page.
func OmissionMarker(name string, sizeChars int) string {
	return fmt.Sprintf("# %s\nFile omitted due to large size (%s characters)\n", name, humanize.Comma(int64(sizeChars)))
}

// Paginate packs records greedily into pages of at most capacity characters.
// A page is closed when it is non-empty and the next record would overflow
// it; records larger than capacity are replaced by their omission marker.
func Paginate(records []types.FileRecord, capacity int) []Page {
	var pages []Page
	var cur Page
	var b strings.Builder

	closePage := func() {
		cur.Content = b.String()
		pages = append(pages, cur)
		cur = Page{}
		b.Reset()
	}

	for _, r := range records {
		text, size := r.Content, r.SizeChars
		if size > capacity {
			text = OmissionMarker(r.Name, r.SizeChars)
			size = utf8.RuneCountInString(text)
		}

		if len(cur.Names) > 0 && cur.Size+size > capacity {
			closePage()
		}
		cur.Names = append(cur.Names, r.Name)
		cur.Size += size
		b.WriteString(text)
	}
	if len(cur.Names) > 0 {
		closePage()
	}
	return pages
}
