package seed

import (
	"context"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/security"
	"inkwell/internal/testutil"
	"inkwell/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactory_BuildUserIsValid(t *testing.T) {
	f := NewFactory(nil, 42)

	for i := 0; i < 50; i++ {
		user, err := f.BuildUser()
		require.NoError(t, err)
		assert.NoError(t, validation.ValidateUsername(user.Username), user.Username)
		assert.NoError(t, validation.ValidateEmail(user.Email), user.Email)
		assert.NoError(t, validation.ValidatePhoneNumber(user.PhoneNumber), user.PhoneNumber)
		assert.True(t, security.CheckPassword(user.Password, DefaultPassword))
	}
}

func TestFactory_BuildPostFitsColumns(t *testing.T) {
	f := NewFactory(nil, 7)
	author := &models.User{ID: 3}

	for i := 0; i < 50; i++ {
		post := f.BuildPost(author)
		assert.NoError(t, validation.ValidatePostHeading("title", post.Title))
		assert.NoError(t, validation.ValidatePostHeading("subtitle", post.Subtitle))
		require.NotNil(t, post.AuthorID)
		assert.Equal(t, uint(3), *post.AuthorID)
	}
}

func TestSeed(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	res, err := Seed(ctx, db, Options{NumUsers: 3, NumPosts: 10, DeletedEvery: 5, Seed: 1})
	require.NoError(t, err)
	assert.Len(t, res.Users, 3)
	assert.Equal(t, 10, res.Posts)
	assert.Equal(t, 2, res.Deleted)

	var deleted int64
	require.NoError(t, db.Model(&models.BlogPost{}).Where("is_deleted = ?", true).Count(&deleted).Error)
	assert.Equal(t, int64(2), deleted)

	_, err = Seed(ctx, db, Options{NumUsers: 1, ShouldClean: true, Seed: 2})
	require.NoError(t, err)

	var users, posts int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.BlogPost{}).Count(&posts).Error)
	assert.Equal(t, int64(1), users)
	assert.Zero(t, posts)
}

func TestSeed_PostsNeedUsers(t *testing.T) {
	db := testutil.NewDB(t)
	_, err := Seed(context.Background(), db, Options{NumPosts: 1})
	assert.Error(t, err)
}
