package moly

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Every site-specific selector lives here; nothing outside this file
// should know what the markup looks like.
const (
	selPagination  = "div.pagination a"
	selBookCard    = "a.book_atom"
	attrMolyID     = "data-id"
	selShelfItem   = "div.tale_item"
	selShelfNote   = "div.sticky_note"
	selAuthors     = "div.authors"
	selTitleSpan   = "h1 span"
	selDatabox     = "div.databox"
	selOriginal    = "a.original_version"
	headingOrigPub = "Eredeti megjelenés"

	authorSeparator = "·"
)

// The site sprinkles invisible control characters into rendered text.
var invisibleRunes = strings.NewReplacer(
	"\u200b", "", // zero-width space
	"\u200c", "", // zero-width non-joiner
	"\u200d", "", // zero-width joiner
	"\ufeff", "", // byte order mark
)

func cleanText(s string) string {
	return strings.TrimSpace(invisibleRunes.Replace(s))
}

// ExtractPaginationLinks returns the hrefs of a listing's pagination
// container in document order. The last link is always the "next"
// control rather than a page, so it is dropped. Listings without a
// pagination container yield nil.
func ExtractPaginationLinks(doc *goquery.Document) []string {
	var links []string
	doc.Find(selPagination).Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok {
			links = append(links, href)
		}
	})
	if len(links) == 0 {
		return nil
	}
	return links[:len(links)-1]
}

// ExtractListRefs returns one BookRef per book card on a listing page.
// Cards without an href are skipped; the moly id may be empty.
func ExtractListRefs(doc *goquery.Document) []BookRef {
	var refs []BookRef
	doc.Find(selBookCard).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}
		refs = append(refs, BookRef{URL: href, MolyID: a.AttrOr(attrMolyID, "")})
	})
	return refs
}

// ExtractShelfRefs returns one ShelfRef per shelf item that contains a
// book card. Items without a card (notes, ads) are not emitted.
func ExtractShelfRefs(doc *goquery.Document) []ShelfRef {
	var refs []ShelfRef
	doc.Find(selShelfItem).Each(func(_ int, item *goquery.Selection) {
		card := item.Find(selBookCard).First()
		if card.Length() == 0 {
			return
		}
		href, ok := card.Attr("href")
		if !ok || href == "" {
			return
		}
		refs = append(refs, ShelfRef{
			BookRef: BookRef{URL: href, MolyID: card.AttrOr(attrMolyID, "")},
			Note:    cleanText(item.Find(selShelfNote).First().Text()),
		})
	})
	return refs
}

// ExtractAuthors parses a book page's author block: the block text is
// split on the middle-dot separator and the names are zipped
// positionally with the block's anchors. Book pages always carry an
// author block, so a missing one is a hard failure.
func ExtractAuthors(doc *goquery.Document) ([]AuthorRef, error) {
	block := doc.Find(selAuthors).First()
	if block.Length() == 0 {
		return nil, &ExtractionError{Op: "authors", Msg: "no author block on page"}
	}

	anchors := block.Find("a")
	names := strings.Split(block.Text(), authorSeparator)
	refs := make([]AuthorRef, 0, len(names))
	for i, raw := range names {
		name := cleanText(raw)
		if name == "" {
			continue
		}
		ref := AuthorRef{Name: name}
		if a := anchors.Eq(i); a.Length() > 0 {
			ref.URL = a.AttrOr("href", "")
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// ExtractTitleAndSeries parses the first heading's first span. A
// nested link holds the series marker, e.g. "(Vaják 1.)": its last
// whitespace-separated token is the series number, the rest is the
// series name, and the title is the span text with the marker and one
// trailing punctuation rune removed.
func ExtractTitleAndSeries(doc *goquery.Document) (TitleInfo, error) {
	span := doc.Find(selTitleSpan).First()
	if span.Length() == 0 {
		return TitleInfo{}, &ExtractionError{Op: "title", Msg: "no title heading on page"}
	}

	outer := cleanText(span.Text())
	link := span.Find("a").First()
	if link.Length() == 0 {
		return TitleInfo{Title: trimTrailingPunct(outer)}, nil
	}

	marker := cleanText(link.Text())
	inner := strings.TrimSuffix(strings.TrimPrefix(marker, "("), ")")
	fields := strings.Fields(inner)

	info := TitleInfo{}
	if len(fields) > 0 {
		info.SeriesNumber = strings.TrimSuffix(fields[len(fields)-1], ".")
		info.Series = strings.Join(fields[:len(fields)-1], " ")
	}
	title := strings.TrimSpace(strings.Replace(outer, marker, "", 1))
	info.Title = trimTrailingPunct(title)
	return info, nil
}

// ExtractOriginalEditionURL finds the data box introduced by the
// original-publication heading and returns the href of its marked
// link. Absence of either is legitimate (Hungarian originals have no
// foreign edition) and yields "".
func ExtractOriginalEditionURL(doc *goquery.Document) string {
	var href string
	doc.Find(selDatabox).EachWithBreak(func(_ int, box *goquery.Selection) bool {
		if cleanText(box.Find("h3").First().Text()) != headingOrigPub {
			return true
		}
		if a := box.Find(selOriginal).First(); a.Length() > 0 {
			href = a.AttrOr("href", "")
		}
		return false
	})
	return href
}

func trimTrailingPunct(s string) string {
	r, size := utf8.DecodeLastRuneInString(s)
	if size > 0 && unicode.IsPunct(r) {
		return strings.TrimSpace(s[:len(s)-size])
	}
	return s
}
