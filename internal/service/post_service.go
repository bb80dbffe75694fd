package service

import (
	"context"
	"net/http"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/permissions"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	Author   *models.User
	Title    string
	Subtitle string
	Body     *string
}

// UpdatePostInput carries a PUT or PATCH. Nil headings were not supplied.
// Body is applied only when BodySet is true; a nil Body then clears it.
type UpdatePostInput struct {
	Requester *models.User
	PostID    uint
	Method    string
	Title     *string
	Subtitle  *string
	Body      *string
	BodySet   bool
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// CreatePost stores a new post authored by in.Author.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.BlogPost, error) {
	if in.Author == nil {
		return nil, models.NewUnauthorizedError("Authentication credentials were not provided.")
	}
	if err := validation.ValidatePostHeading("title", in.Title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePostHeading("subtitle", in.Subtitle); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	authorID := in.Author.ID
	post := &models.BlogPost{
		Title:     in.Title,
		Subtitle:  in.Subtitle,
		Body:      in.Body,
		IsDeleted: false,
		AuthorID:  &authorID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.PostsWritten.WithLabelValues("create").Inc()
	return post, nil
}

// ListPosts returns one page of undeleted posts and the total undeleted count.
func (s *PostService) ListPosts(ctx context.Context, limit, offset int) ([]models.BlogPost, int64, error) {
	return s.postRepo.ListActive(ctx, limit, offset)
}

// ListPostsByAuthor returns the undeleted posts written by authorID.
func (s *PostService) ListPostsByAuthor(ctx context.Context, authorID uint) ([]models.BlogPost, error) {
	return s.postRepo.ListByAuthor(ctx, authorID)
}

// GetPost returns the post even when it has been soft-deleted.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.BlogPost, error) {
	return s.postRepo.GetByID(ctx, id)
}

// PostForWrite loads the post and checks that requester may apply method to it.
// A missing post is reported before a permission failure.
func (s *PostService) PostForWrite(ctx context.Context, requester *models.User, id uint, method string) (*models.BlogPost, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !permissions.PostAuthorOrReadOnly(method, requester, post) {
		return nil, models.NewForbiddenError("You do not have permission to perform this action.")
	}
	return post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.BlogPost, error) {
	post, err := s.PostForWrite(ctx, in.Requester, in.PostID, in.Method)
	if err != nil {
		return nil, err
	}

	if in.Method == http.MethodPut && (in.Title == nil || in.Subtitle == nil) {
		return nil, models.NewValidationError("title and subtitle are required")
	}

	updated := *post
	if in.Title != nil {
		if err := validation.ValidatePostHeading("title", *in.Title); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		updated.Title = *in.Title
	}
	if in.Subtitle != nil {
		if err := validation.ValidatePostHeading("subtitle", *in.Subtitle); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		updated.Subtitle = *in.Subtitle
	}
	if in.BodySet {
		updated.Body = nil
		if in.Body != nil {
			body := *in.Body
			updated.Body = &body
		}
	}

	if err := s.postRepo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	observability.PostsWritten.WithLabelValues("update").Inc()
	return &updated, nil
}

// DeletePost soft-deletes the post. Deleting an already deleted post succeeds.
func (s *PostService) DeletePost(ctx context.Context, requester *models.User, id uint) error {
	post, err := s.PostForWrite(ctx, requester, id, http.MethodDelete)
	if err != nil {
		return err
	}
	if post.IsDeleted {
		return nil
	}
	if err := s.postRepo.MarkDeleted(ctx, post.ID); err != nil {
		return err
	}
	observability.PostsWritten.WithLabelValues("delete").Inc()
	return nil
}
