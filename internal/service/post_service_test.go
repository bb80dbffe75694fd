package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authoredPost(id, authorID uint) *models.BlogPost {
	return &models.BlogPost{ID: id, Title: "T", Subtitle: "S", Body: strPtr("B"), AuthorID: &authorID}
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()

	svc := NewPostService(noopPostRepo())
	ctx := context.Background()
	author := &models.User{ID: 1}

	tests := []struct {
		name  string
		input CreatePostInput
	}{
		{"empty title", CreatePostInput{Author: author, Subtitle: "S"}},
		{"empty subtitle", CreatePostInput{Author: author, Title: "T"}},
		{"title too long", CreatePostInput{Author: author, Title: strings.Repeat("x", 101), Subtitle: "S"}},
		{"subtitle too long", CreatePostInput{Author: author, Title: "T", Subtitle: strings.Repeat("x", 101)}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.CreatePost(ctx, tc.input)
			assertValidationError(t, err)
		})
	}
}

func TestPostService_CreatePost_SetsAuthorAndFlag(t *testing.T) {
	repo := noopPostRepo()
	var stored *models.BlogPost
	repo.createFn = func(_ context.Context, p *models.BlogPost) error {
		p.ID = 9
		stored = p
		return nil
	}
	svc := NewPostService(repo)

	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		Author:   &models.User{ID: 4},
		Title:    "T",
		Subtitle: "S",
		Body:     strPtr("B"),
	})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, uint(9), post.ID)
	require.NotNil(t, post.AuthorID)
	assert.Equal(t, uint(4), *post.AuthorID)
	assert.False(t, post.IsDeleted)
}

func TestPostService_CreatePost_RequiresAuthor(t *testing.T) {
	_, err := NewPostService(noopPostRepo()).CreatePost(context.Background(), CreatePostInput{Title: "T", Subtitle: "S"})
	assertUnauthorizedError(t, err)
}

func TestPostService_UpdatePost(t *testing.T) {
	t.Parallel()

	t.Run("non-author is forbidden and nothing is written", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.BlogPost, error) { return authoredPost(id, 1), nil }
		repo.updateFn = func(_ context.Context, _ *models.BlogPost) error {
			t.Fatal("update must not be called")
			return nil
		}
		svc := NewPostService(repo)

		for _, method := range []string{http.MethodPut, http.MethodPatch} {
			_, err := svc.UpdatePost(context.Background(), UpdatePostInput{
				Requester: &models.User{ID: 2},
				PostID:    5,
				Method:    method,
				Title:     strPtr("hijacked"),
				Subtitle:  strPtr("hijacked"),
			})
			assertForbiddenError(t, err)
		}
	})

	t.Run("patch changes only supplied fields", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.BlogPost, error) { return authoredPost(id, 1), nil }
		var saved *models.BlogPost
		repo.updateFn = func(_ context.Context, p *models.BlogPost) error {
			saved = p
			return nil
		}
		svc := NewPostService(repo)

		post, err := svc.UpdatePost(context.Background(), UpdatePostInput{
			Requester: &models.User{ID: 1},
			PostID:    5,
			Method:    http.MethodPatch,
			Subtitle:  strPtr("New subtitle"),
		})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, "T", post.Title)
		assert.Equal(t, "New subtitle", post.Subtitle)
		assert.Equal(t, "B", *post.Body)
	})

	t.Run("put requires title and subtitle", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.BlogPost, error) { return authoredPost(id, 1), nil }
		svc := NewPostService(repo)

		_, err := svc.UpdatePost(context.Background(), UpdatePostInput{
			Requester: &models.User{ID: 1},
			PostID:    5,
			Method:    http.MethodPut,
			Title:     strPtr("Only title"),
		})
		assertValidationError(t, err)
	})

	t.Run("missing post", func(t *testing.T) {
		t.Parallel()
		_, err := NewPostService(noopPostRepo()).UpdatePost(context.Background(), UpdatePostInput{
			Requester: &models.User{ID: 1},
			PostID:    404,
			Method:    http.MethodPatch,
		})
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}

func TestPostService_DeletePost(t *testing.T) {
	t.Parallel()

	t.Run("author soft-deletes once", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		deleted := false
		repo.getByIDFn = func(_ context.Context, id uint) (*models.BlogPost, error) {
			p := authoredPost(id, 1)
			p.IsDeleted = deleted
			return p, nil
		}
		calls := 0
		repo.markDeletedFn = func(_ context.Context, _ uint) error {
			calls++
			deleted = true
			return nil
		}
		svc := NewPostService(repo)
		author := &models.User{ID: 1}

		require.NoError(t, svc.DeletePost(context.Background(), author, 5))
		require.NoError(t, svc.DeletePost(context.Background(), author, 5))
		assert.Equal(t, 1, calls)
	})

	t.Run("non-author is forbidden", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.BlogPost, error) { return authoredPost(id, 1), nil }
		repo.markDeletedFn = func(_ context.Context, _ uint) error {
			t.Fatal("mark deleted must not be called")
			return nil
		}
		err := NewPostService(repo).DeletePost(context.Background(), &models.User{ID: 3}, 5)
		assertForbiddenError(t, err)
	})
}

func TestPostService_GetPostReturnsDeleted(t *testing.T) {
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.BlogPost, error) {
		p := authoredPost(id, 1)
		p.IsDeleted = true
		return p, nil
	}

	post, err := NewPostService(repo).GetPost(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, post.IsDeleted)
}

func TestPostService_PostForWrite(t *testing.T) {
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.BlogPost, error) {
		if id != 5 {
			return nil, models.NewNotFoundError("BlogPost", id)
		}
		return authoredPost(id, 1), nil
	}
	svc := NewPostService(repo)
	ctx := context.Background()

	for _, method := range []string{http.MethodPut, http.MethodPatch, http.MethodDelete} {
		_, err := svc.PostForWrite(ctx, &models.User{ID: 2}, 5, method)
		assertForbiddenError(t, err)

		_, err = svc.PostForWrite(ctx, &models.User{ID: 2}, 6, method)
		assertAppErrorCode(t, err, models.CodeNotFound)

		post, err := svc.PostForWrite(ctx, &models.User{ID: 1}, 5, method)
		require.NoError(t, err)
		assert.Equal(t, uint(5), post.ID)
	}
}

func TestPostService_UpdatePost_Body(t *testing.T) {
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.BlogPost, error) { return authoredPost(id, 1), nil }
	repo.updateFn = func(_ context.Context, _ *models.BlogPost) error { return nil }
	svc := NewPostService(repo)
	author := &models.User{ID: 1}

	post, err := svc.UpdatePost(context.Background(), UpdatePostInput{
		Requester: author, PostID: 5, Method: http.MethodPatch, Body: strPtr("ignored"),
	})
	require.NoError(t, err)
	require.NotNil(t, post.Body)
	assert.Equal(t, "B", *post.Body)

	post, err = svc.UpdatePost(context.Background(), UpdatePostInput{
		Requester: author, PostID: 5, Method: http.MethodPatch, Body: strPtr("new"), BodySet: true,
	})
	require.NoError(t, err)
	require.NotNil(t, post.Body)
	assert.Equal(t, "new", *post.Body)

	post, err = svc.UpdatePost(context.Background(), UpdatePostInput{
		Requester: author, PostID: 5, Method: http.MethodPatch, BodySet: true,
	})
	require.NoError(t, err)
	assert.Nil(t, post.Body)
}
