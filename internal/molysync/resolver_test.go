package molysync

import (
	"context"
	"testing"

	"booklist/internal/entity"
	"booklist/internal/platform/moly"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuessSortName(t *testing.T) {
	tests := []struct {
		display string
		want    string
	}{
		{"Gárdonyi Géza", "Gárdonyi, Géza"},
		{"Szabó Magda", "Szabó, Magda"},
		{"Andrzej Sapkowski", "Sapkowski, Andrzej"},
		{"Ursula K. Le Guin", "Guin, Ursula K. Le"},
		{"Madonna", "Madonna"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.display, func(t *testing.T) {
			assert.Equal(t, tt.want, guessSortName(tt.display))
		})
	}
}

func TestFindOrCreateAuthor(t *testing.T) {
	t.Run("existing author is reused", func(t *testing.T) {
		authors := newFakeAuthors()
		seeded, err := authors.Create(context.Background(), entity.Author{DisplayName: "Szabó Magda"})
		require.NoError(t, err)
		s := NewService(nil, nil, authors, nil, nil, Config{})

		author, created, err := s.findOrCreateAuthor(context.Background(), moly.AuthorRef{Name: "Szabó Magda"})

		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, seeded.ID, author.ID)
	})

	t.Run("unknown author is created unapproved with a sort name", func(t *testing.T) {
		authors := newFakeAuthors()
		s := NewService(nil, nil, authors, nil, nil, Config{})

		author, created, err := s.findOrCreateAuthor(context.Background(), moly.AuthorRef{
			Name: "Andrzej Sapkowski",
			URL:  "/alkotok/2",
		})

		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEmpty(t, author.ID)
		assert.Equal(t, "Sapkowski, Andrzej", author.SortName)
		assert.Equal(t, "/alkotok/2", author.URL)
		assert.False(t, author.IsApproved)
	})

	t.Run("lost create race falls back to the winner's record", func(t *testing.T) {
		authors := &racedAuthors{inner: newFakeAuthors()}
		s := NewService(nil, nil, authors, nil, nil, Config{})

		author, created, err := s.findOrCreateAuthor(context.Background(), moly.AuthorRef{Name: "Szabó Magda"})

		require.NoError(t, err)
		assert.False(t, created)
		assert.NotEmpty(t, author.ID)
	})
}

// racedAuthors simulates a concurrent resolution winning the create
// race: the first lookup misses, the create conflicts, and the retry
// lookup sees the winner's row.
type racedAuthors struct {
	inner *fakeAuthors
	calls int
}

func (r *racedAuthors) FindByName(ctx context.Context, displayName string) (entity.Author, error) {
	r.calls++
	if r.calls == 1 {
		return entity.Author{}, entity.ErrNotFound
	}
	return r.inner.FindByName(ctx, displayName)
}

func (r *racedAuthors) Create(ctx context.Context, author entity.Author) (entity.Author, error) {
	if _, err := r.inner.Create(ctx, author); err != nil {
		return entity.Author{}, err
	}
	return entity.Author{}, entity.ErrConflict
}
