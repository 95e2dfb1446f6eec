// Package testutil builds HTML pages that mimic the external site's
// markup, so extractor and sync tests share one set of fixtures.
package testutil

import (
	"fmt"
	"strings"
)

// Card is a book card on a listing or shelf page.
type Card struct {
	URL    string
	MolyID string
}

// ShelfItem is one entry on a pending shelf; Card is nil for items
// that carry no book (plain notes).
type ShelfItem struct {
	Card *Card
	Note string
}

// AuthorLink is one entry in a book page's author block.
type AuthorLink struct {
	Name string
	URL  string
}

// BookPage describes a book detail page. SeriesMarker is the nested
// title link text, e.g. "(Vaják 1.)"; empty means no series. Setting
// OmitAuthors or OmitTitle produces the malformed pages the extractor
// must reject.
type BookPage struct {
	Title        string
	SeriesMarker string
	Authors      []AuthorLink
	OriginalURL  string
	OmitAuthors  bool
	OmitTitle    bool
}

func cardHTML(c Card) string {
	attr := ""
	if c.MolyID != "" {
		attr = fmt.Sprintf(` data-id=%q`, c.MolyID)
	}
	return fmt.Sprintf(`<a class="book_atom" href=%q%s>cover</a>`, c.URL, attr)
}

func paginationHTML(pageLinks []string) string {
	if len(pageLinks) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(`<div class="pagination">`)
	for i, link := range pageLinks {
		sb.WriteString(fmt.Sprintf(`<a href=%q>%d</a>`, link, i+2))
	}
	// the trailing "next" control that the extractor must drop
	sb.WriteString(fmt.Sprintf(`<a class="next_page" href=%q>Következő</a>`, pageLinks[0]))
	sb.WriteString(`</div>`)
	return sb.String()
}

// ListPage renders a listing page with the given extra page links and
// book cards. The rendered pagination block always ends with a "next"
// control, matching the real site.
func ListPage(pageLinks []string, cards ...Card) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	sb.WriteString(paginationHTML(pageLinks))
	for _, c := range cards {
		sb.WriteString(cardHTML(c))
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

// ShelfPage renders a pending-shelf page.
func ShelfPage(pageLinks []string, items ...ShelfItem) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	sb.WriteString(paginationHTML(pageLinks))
	for _, item := range items {
		sb.WriteString(`<div class="tale_item">`)
		if item.Card != nil {
			sb.WriteString(cardHTML(*item.Card))
		}
		if item.Note != "" {
			sb.WriteString(fmt.Sprintf(`<div class="sticky_note">%s</div>`, item.Note))
		}
		sb.WriteString(`</div>`)
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

// Render renders a book detail page.
func (p BookPage) Render() string {
	var sb strings.Builder
	sb.WriteString("<html><body>")

	if !p.OmitAuthors {
		sb.WriteString(`<div class="authors">`)
		for i, a := range p.Authors {
			if i > 0 {
				sb.WriteString(" · ")
			}
			sb.WriteString(fmt.Sprintf(`<a href=%q>%s</a>`, a.URL, a.Name))
		}
		sb.WriteString(`</div>`)
	}

	if !p.OmitTitle {
		if p.SeriesMarker != "" {
			sb.WriteString(fmt.Sprintf(`<h1><span>%s <a href="/sorozatok/1">%s</a></span></h1>`, p.Title, p.SeriesMarker))
		} else {
			sb.WriteString(fmt.Sprintf(`<h1><span>%s</span></h1>`, p.Title))
		}
	}

	if p.OriginalURL != "" {
		sb.WriteString(`<div class="databox"><h3>Eredeti megjelenés</h3>`)
		sb.WriteString(fmt.Sprintf(`<a class="original_version" href=%q>eredeti</a></div>`, p.OriginalURL))
	}

	sb.WriteString("</body></html>")
	return sb.String()
}
