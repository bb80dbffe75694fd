package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

const postsTable = "blog_posts"

// PostRepository defines the interface for blog post data operations.
// GetByID ignores the is_deleted flag; the List methods exclude deleted posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.BlogPost) error
	GetByID(ctx context.Context, id uint) (*models.BlogPost, error)
	ListActive(ctx context.Context, limit, offset int) ([]models.BlogPost, int64, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]models.BlogPost, error)
	Update(ctx context.Context, post *models.BlogPost) error
	MarkDeleted(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.BlogPost) (err error) {
	ctx, end := instrument(ctx, postsTable, "Create")
	defer end(&err)

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (post *models.BlogPost, err error) {
	ctx, end := instrument(ctx, postsTable, "GetByID")
	defer end(&err)

	var p models.BlogPost
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFoundOr(err, "Post", id)
	}
	return &p, nil
}

func (r *postRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.BlogPost{}).Where("is_deleted = ?", false)
}

func (r *postRepository) ListActive(ctx context.Context, limit, offset int) (posts []models.BlogPost, total int64, err error) {
	ctx, end := instrument(ctx, postsTable, "ListActive")
	defer end(&err)

	if err := r.active(ctx).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	if err := r.active(ctx).Order("id ASC").Limit(limit).Offset(offset).Find(&posts).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint) (posts []models.BlogPost, err error) {
	ctx, end := instrument(ctx, postsTable, "ListByAuthor")
	defer end(&err)

	if err := r.active(ctx).Where("author_id = ?", authorID).Order("id ASC").Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Update writes the editable columns only.
func (r *postRepository) Update(ctx context.Context, post *models.BlogPost) (err error) {
	ctx, end := instrument(ctx, postsTable, "Update")
	defer end(&err)

	if err := r.db.WithContext(ctx).Model(post).
		Select("title", "subtitle", "body").
		Updates(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// MarkDeleted flips is_deleted. Calling it for an already deleted post is a no-op.
func (r *postRepository) MarkDeleted(ctx context.Context, id uint) (err error) {
	ctx, end := instrument(ctx, postsTable, "MarkDeleted")
	defer end(&err)

	if err := r.db.WithContext(ctx).Model(&models.BlogPost{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
