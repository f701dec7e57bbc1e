package repository

import (
	"context"
	"regexp"
	"testing"

	"agora/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "comments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	comment := &models.Comment{Content: "Nice post!", PostID: 1, UserID: 1}
	require.NoError(t, repo.Create(context.Background(), comment))
	assert.Equal(t, uint(1), comment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ListByPostIncludesAuthor(t *testing.T) {
	db := setupSQLiteDB(t)
	f := seedFixture(t, db)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	root := &models.Comment{Content: "First!", PostID: f.post.ID, UserID: f.bob.ID}
	require.NoError(t, repo.Create(ctx, root))
	reply := &models.Comment{Content: "Welcome", PostID: f.post.ID, UserID: f.alice.ID, ParentID: &root.ID}
	require.NoError(t, repo.Create(ctx, reply))

	comments, err := repo.ListByPost(ctx, f.post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	assert.Equal(t, "First!", comments[0].Content)
	require.NotNil(t, comments[0].Author.Name)
	assert.Equal(t, "bob", *comments[0].Author.Name)
	assert.Nil(t, comments[0].Author.Image)

	assert.Equal(t, root.ID, *comments[1].ParentID)
	require.NotNil(t, comments[1].Author.Image)
	assert.Equal(t, "https://img/alice.png", *comments[1].Author.Image)

	empty, err := repo.ListByPost(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCommentRepository_FindByID(t *testing.T) {
	db := setupSQLiteDB(t)
	f := seedFixture(t, db)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	c := &models.Comment{Content: "Hello there", PostID: f.post.ID, UserID: f.alice.ID}
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, f.alice.ID, got.Author.ID)

	missing, err := repo.FindByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
