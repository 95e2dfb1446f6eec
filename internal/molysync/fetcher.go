package molysync

import (
	"context"
	"fmt"

	"booklist/internal/platform/moly"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

// fetchAllPages walks a paginated listing: the start page is fetched
// first, its pagination links are discovered, and the remaining pages
// are fetched concurrently under the given limit. The merged result is
// always page-1 items followed by the other pages' items in
// pagination order, regardless of completion order. Any page failing
// after retries fails the whole call; silently dropping books is worse
// than failing the run.
func fetchAllPages[T any](ctx context.Context, client PageClient, startURL string, concurrency int, extract func(*goquery.Document) []T) ([]T, error) {
	first, err := client.GetDocument(ctx, startURL)
	if err != nil {
		return nil, err
	}
	items := extract(first)

	pages := moly.ExtractPaginationLinks(first)
	if len(pages) == 0 {
		return items, nil
	}

	perPage := make([][]T, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, pageURL := range pages {
		g.Go(func() error {
			doc, err := client.GetDocument(gctx, pageURL)
			if err != nil {
				return fmt.Errorf("page %d of %s: %w", i+2, startURL, err)
			}
			perPage[i] = extract(doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, page := range perPage {
		items = append(items, page...)
	}
	return items, nil
}
