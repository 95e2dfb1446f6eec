package store

import (
	"context"
	"testing"

	"booklist/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func createTestAuthor(t *testing.T, repo *AuthorPG, displayName string) entity.Author {
	t.Helper()
	ctx := context.Background()
	author, err := repo.Create(ctx, entity.Author{
		DisplayName: displayName,
		SortName:    "Teszt, " + displayName,
		URL:         "/alkotok/" + displayName,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = repo.db.Exec(ctx, `DELETE FROM authors WHERE id = $1`, author.ID)
	})
	return author
}

func TestAuthorPG_CreateAndFindByName(t *testing.T) {
	repo := NewAuthorPG(setupTestDB(t))
	ctx := context.Background()

	name := "Teszt Elek " + uuid.NewString()
	created := createTestAuthor(t, repo, name)
	require.NotEmpty(t, created.ID)
	require.False(t, created.IsApproved)

	found, err := repo.FindByName(ctx, name)
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)

	_, err = repo.FindByName(ctx, "Nincs Ilyen "+uuid.NewString())
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestAuthorPG_CreateDuplicateName(t *testing.T) {
	repo := NewAuthorPG(setupTestDB(t))
	ctx := context.Background()

	name := "Teszt Elek " + uuid.NewString()
	createTestAuthor(t, repo, name)

	_, err := repo.Create(ctx, entity.Author{DisplayName: name})
	require.ErrorIs(t, err, entity.ErrConflict)
}

func TestAuthorPG_Update(t *testing.T) {
	repo := NewAuthorPG(setupTestDB(t))
	ctx := context.Background()

	created := createTestAuthor(t, repo, "Teszt Elek "+uuid.NewString())

	sortName := "Elek, Teszt"
	approved := true
	updated, err := repo.Update(ctx, created.ID, AuthorUpdate{SortName: &sortName, IsApproved: &approved})
	require.NoError(t, err)
	require.Equal(t, sortName, updated.SortName)
	require.True(t, updated.IsApproved)
	require.Equal(t, created.DisplayName, updated.DisplayName)
}
