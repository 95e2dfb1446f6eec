package molysync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"booklist/internal/entity"
	"booklist/internal/platform/moly"
)

const (
	altNameHungarian = "magyar"
	altNameOriginal  = "eredeti"
)

// resolveBook fetches a book's detail page and assembles the canonical
// scraped representation. Authors not yet known by exact display name
// are created unapproved, with a guessed sort name; the returned count
// says how many were created.
func (s *Service) resolveBook(ctx context.Context, ref moly.BookRef, year int, genre string, isPending bool) (ScrapedBook, int, error) {
	doc, err := s.client.GetDocument(ctx, ref.URL)
	if err != nil {
		return ScrapedBook{}, 0, err
	}

	authorRefs, err := moly.ExtractAuthors(doc)
	if err != nil {
		return ScrapedBook{}, 0, fmt.Errorf("book %s: %w", ref.URL, err)
	}
	titleInfo, err := moly.ExtractTitleAndSeries(doc)
	if err != nil {
		return ScrapedBook{}, 0, fmt.Errorf("book %s: %w", ref.URL, err)
	}
	originalURL := moly.ExtractOriginalEditionURL(doc)

	authorIDs := make([]string, 0, len(authorRefs))
	created := 0
	for _, ar := range authorRefs {
		author, createdOne, err := s.findOrCreateAuthor(ctx, ar)
		if err != nil {
			return ScrapedBook{}, created, fmt.Errorf("author %q: %w", ar.Name, err)
		}
		if createdOne {
			created++
		}
		authorIDs = append(authorIDs, author.ID)
	}

	alternatives := []entity.Alternative{{Name: altNameHungarian, URL: ref.URL}}
	if originalURL != "" {
		alternatives = append(alternatives, entity.Alternative{Name: altNameOriginal, URL: originalURL})
	}

	return ScrapedBook{
		MolyID:       ref.MolyID,
		Title:        titleInfo.Title,
		Year:         year,
		Genre:        genre,
		Series:       titleInfo.Series,
		SeriesNumber: titleInfo.SeriesNumber,
		IsPending:    isPending,
		Alternatives: alternatives,
		AuthorIDs:    authorIDs,
	}, created, nil
}

func (s *Service) findOrCreateAuthor(ctx context.Context, ref moly.AuthorRef) (entity.Author, bool, error) {
	author, err := s.authors.FindByName(ctx, ref.Name)
	if err == nil {
		return author, false, nil
	}
	if !errors.Is(err, entity.ErrNotFound) {
		return entity.Author{}, false, err
	}

	author, err = s.authors.Create(ctx, entity.Author{
		DisplayName: ref.Name,
		SortName:    guessSortName(ref.Name),
		URL:         ref.URL,
		IsApproved:  false,
	})
	if err == nil {
		return author, true, nil
	}
	if !errors.Is(err, entity.ErrConflict) {
		return entity.Author{}, false, err
	}
	// another in-flight resolution created the same author first
	author, err = s.authors.FindByName(ctx, ref.Name)
	return author, false, err
}

// Accented vowels that only occur in Hungarian orthography among the
// languages the site carries. Their presence flips the name to
// Hungarian order (family name first).
const hungarianAccents = "áéíóöőúüűÁÉÍÓÖŐÚÜŰ"

// guessSortName builds a "Family, Given(s)" sort key. This is a
// heuristic: multi-part foreign names can guess wrong, which is
// acceptable because it only seeds an editable, unapproved record.
func guessSortName(displayName string) string {
	fields := strings.Fields(displayName)
	if len(fields) < 2 {
		return displayName
	}
	if strings.ContainsAny(displayName, hungarianAccents) {
		return fields[0] + ", " + strings.Join(fields[1:], " ")
	}
	last := len(fields) - 1
	return fields[last] + ", " + strings.Join(fields[:last], " ")
}
