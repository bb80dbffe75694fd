package server

import (
	"fmt"
	"net/http"
	"testing"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func containsPost(posts []models.BlogPost, id uint) bool {
	for _, p := range posts {
		if p.ID == id {
			return true
		}
	}
	return false
}

func TestBlogLifecycle(t *testing.T) {
	env := newTestEnv(t, true)

	alice := env.signup(t, "alice01", "5550001")
	env.signup(t, "bobby01", "5550002")

	resp := env.do(t, http.MethodPost, "/api/login/", "", map[string]string{
		"username": "alice01",
		"password": "pw123456",
	})
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.Body))
	var login struct {
		Email    string           `json:"email"`
		Username string           `json:"username"`
		Tokens   models.TokenPair `json:"tokens"`
	}
	resp.decode(t, &login)
	assert.Equal(t, "alice01@example.com", login.Email)
	assert.Equal(t, "alice01", login.Username)
	require.NotEmpty(t, login.Tokens.Access)
	require.NotEmpty(t, login.Tokens.Refresh)
	aliceToken := login.Tokens.Access

	resp = env.do(t, http.MethodPost, "/api/blogs/blog/", aliceToken, map[string]string{
		"title": "T", "subtitle": "S", "body": "B",
	})
	require.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Body))
	var post models.BlogPost
	resp.decode(t, &post)
	require.NotNil(t, post.AuthorID)
	assert.Equal(t, alice.ID, *post.AuthorID)
	assert.False(t, post.IsDeleted)
	assert.False(t, post.DateCreated.IsZero())

	var page models.PostPage
	env.do(t, http.MethodGet, "/api/blogs/", aliceToken, nil).decode(t, &page)
	assert.True(t, containsPost(page.Results, post.ID))
	assert.Equal(t, int64(1), page.Count)

	path := fmt.Sprintf("/api/blogs/%d/", post.ID)
	resp = env.do(t, http.MethodDelete, path, aliceToken, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.Status)

	page = models.PostPage{}
	env.do(t, http.MethodGet, "/api/blogs/", aliceToken, nil).decode(t, &page)
	assert.False(t, containsPost(page.Results, post.ID))
	assert.Equal(t, int64(0), page.Count)

	resp = env.do(t, http.MethodGet, path, aliceToken, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	var retrieved models.BlogPost
	resp.decode(t, &retrieved)
	assert.True(t, retrieved.IsDeleted)

	bobToken := env.login(t, "bobby01").Access
	resp = env.do(t, http.MethodPatch, path, bobToken, map[string]string{"title": "hijacked"})
	assert.Equal(t, fiber.StatusForbidden, resp.Status)
	assert.Equal(t, models.CodeForbidden, resp.errorCode(t))

	var stored models.BlogPost
	require.NoError(t, env.db.First(&stored, post.ID).Error)
	assert.Equal(t, "T", stored.Title)
	assert.Equal(t, "S", stored.Subtitle)
	require.NotNil(t, stored.Body)
	assert.Equal(t, "B", *stored.Body)
}

func TestDeleteBlog_Idempotent(t *testing.T) {
	env := newTestEnv(t, false)
	env.signup(t, "writer1", "5551001")
	token := env.login(t, "writer1").Access

	var post models.BlogPost
	env.do(t, http.MethodPost, "/api/blogs/blog/", token, map[string]string{
		"title": "Title", "subtitle": "Sub",
	}).decode(t, &post)

	path := fmt.Sprintf("/api/blogs/%d", post.ID)
	assert.Equal(t, fiber.StatusNoContent, env.do(t, http.MethodDelete, path, token, nil).Status)
	assert.Equal(t, fiber.StatusNoContent, env.do(t, http.MethodDelete, path, token, nil).Status)
}

func TestListBlogs_RequiresAuthentication(t *testing.T) {
	env := newTestEnv(t, false)

	resp := env.do(t, http.MethodGet, "/api/blogs/", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.Status)
	assert.Equal(t, models.CodeUnauthorized, resp.errorCode(t))

	resp = env.do(t, http.MethodGet, "/api/blogs/", "not-a-jwt", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.Status)
}

func TestListBlogs_Pagination(t *testing.T) {
	env := newTestEnv(t, false)
	env.signup(t, "pager01", "5552001")
	token := env.login(t, "pager01").Access

	for i := 0; i < 3; i++ {
		resp := env.do(t, http.MethodPost, "/api/blogs/blog/", token, map[string]string{
			"title": fmt.Sprintf("post %d", i), "subtitle": "s",
		})
		require.Equal(t, fiber.StatusCreated, resp.Status)
	}

	var first models.PostPage
	env.do(t, http.MethodGet, "/api/blogs/?page_size=2", token, nil).decode(t, &first)
	assert.Equal(t, int64(3), first.Count)
	require.Len(t, first.Results, 2)
	assert.Equal(t, "post 0", first.Results[0].Title)
	require.NotNil(t, first.Next)
	assert.Contains(t, *first.Next, "page=2")
	assert.Nil(t, first.Previous)

	var second models.PostPage
	env.do(t, http.MethodGet, "/api/blogs/?page=2&page_size=2", token, nil).decode(t, &second)
	require.Len(t, second.Results, 1)
	assert.Equal(t, "post 2", second.Results[0].Title)
	assert.Nil(t, second.Next)
	require.NotNil(t, second.Previous)
	assert.NotContains(t, *second.Previous, "page=")
}

func TestCreateBlog_Validation(t *testing.T) {
	env := newTestEnv(t, false)
	env.signup(t, "author1", "5553001")
	token := env.login(t, "author1").Access

	resp := env.do(t, http.MethodPost, "/api/blogs/blog/", token, map[string]string{"subtitle": "s"})
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)
	assert.Equal(t, models.CodeValidation, resp.errorCode(t))

	var count int64
	require.NoError(t, env.db.Model(&models.BlogPost{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateBlog_PutRequiresHeadings(t *testing.T) {
	env := newTestEnv(t, false)
	env.signup(t, "editor1", "5554001")
	token := env.login(t, "editor1").Access

	var post models.BlogPost
	env.do(t, http.MethodPost, "/api/blogs/blog/", token, map[string]string{
		"title": "Old", "subtitle": "Sub",
	}).decode(t, &post)
	path := fmt.Sprintf("/api/blogs/%d/", post.ID)

	resp := env.do(t, http.MethodPut, path, token, map[string]string{"title": "New"})
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)

	resp = env.do(t, http.MethodPatch, path, token, map[string]string{"title": "New"})
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.Body))
	var updated models.BlogPost
	resp.decode(t, &updated)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "Sub", updated.Subtitle)
	assert.Equal(t, post.DateCreated.Unix(), updated.DateCreated.Unix())
}

func TestGetBlog_NotFoundAndBadID(t *testing.T) {
	env := newTestEnv(t, false)
	env.signup(t, "reader1", "5555001")
	token := env.login(t, "reader1").Access

	resp := env.do(t, http.MethodGet, "/api/blogs/999/", token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)
	assert.Equal(t, models.CodeNotFound, resp.errorCode(t))

	resp = env.do(t, http.MethodGet, "/api/blogs/abc/", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)
}

func TestListBlogs_PagePastEnd(t *testing.T) {
	env := newTestEnv(t, false)
	env.signup(t, "pager02", "5552101")
	token := env.login(t, "pager02").Access

	var empty models.PostPage
	resp := env.do(t, http.MethodGet, "/api/blogs/", token, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	resp.decode(t, &empty)
	assert.Zero(t, empty.Count)
	assert.Nil(t, empty.Next)

	require.Equal(t, fiber.StatusCreated, env.do(t, http.MethodPost, "/api/blogs/blog/", token,
		map[string]string{"title": "only", "subtitle": "s"}).Status)

	var single models.PostPage
	env.do(t, http.MethodGet, "/api/blogs/?page_size=1", token, nil).decode(t, &single)
	assert.Len(t, single.Results, 1)
	assert.Nil(t, single.Next)
	assert.Nil(t, single.Previous)

	for _, query := range []string{
		"page=2",
		"page=2&page_size=1",
		"page=9223372036854775807",
		"page=922337203685477581&page_size=10",
		"page=92233720368547758&page_size=100",
	} {
		t.Run(query, func(t *testing.T) {
			resp := env.do(t, http.MethodGet, "/api/blogs/?"+query, token, nil)
			assert.Equal(t, fiber.StatusNotFound, resp.Status, string(resp.Body))
			assert.Equal(t, models.CodeNotFound, resp.errorCode(t))
		})
	}
}

func TestBlogWrites_NonAuthorDenied(t *testing.T) {
	env := newTestEnv(t, false)
	env.signup(t, "author2", "5556001")
	env.signup(t, "intrude", "5556002")
	authorToken := env.login(t, "author2").Access
	otherToken := env.login(t, "intrude").Access

	var post models.BlogPost
	env.do(t, http.MethodPost, "/api/blogs/blog/", authorToken, map[string]string{
		"title": "Mine", "subtitle": "Sub", "body": "Text",
	}).decode(t, &post)
	path := fmt.Sprintf("/api/blogs/%d/", post.ID)

	payload := []byte(`{"title":"hijacked","subtitle":"hijacked","body":"hijacked"}`)
	tests := []struct {
		name        string
		method      string
		contentType string
		body        []byte
	}{
		{"put with body", http.MethodPut, fiber.MIMEApplicationJSON, payload},
		{"patch with body", http.MethodPatch, fiber.MIMEApplicationJSON, payload},
		{"delete", http.MethodDelete, "", nil},
		{"put without body", http.MethodPut, "", nil},
		{"patch without body", http.MethodPatch, "", nil},
		{"patch with malformed json", http.MethodPatch, fiber.MIMEApplicationJSON, []byte(`{"title":`)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.doRaw(t, tc.method, path, otherToken, tc.contentType, tc.body)
			assert.Equal(t, fiber.StatusForbidden, resp.Status, string(resp.Body))
			assert.Equal(t, models.CodeForbidden, resp.errorCode(t))

			var stored models.BlogPost
			require.NoError(t, env.db.First(&stored, post.ID).Error)
			assert.Equal(t, "Mine", stored.Title)
			assert.Equal(t, "Sub", stored.Subtitle)
			require.NotNil(t, stored.Body)
			assert.Equal(t, "Text", *stored.Body)
			assert.False(t, stored.IsDeleted)
		})
	}

	resp := env.doRaw(t, http.MethodPatch, "/api/blogs/999/", otherToken, "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)
}

func TestUpdateBlog_ClearBody(t *testing.T) {
	env := newTestEnv(t, false)
	env.signup(t, "editor2", "5554101")
	token := env.login(t, "editor2").Access

	var post models.BlogPost
	env.do(t, http.MethodPost, "/api/blogs/blog/", token, map[string]string{
		"title": "T", "subtitle": "S", "body": "Text",
	}).decode(t, &post)
	path := fmt.Sprintf("/api/blogs/%d/", post.ID)

	resp := env.do(t, http.MethodPatch, path, token, map[string]string{"title": "T2"})
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.Body))
	var stored models.BlogPost
	require.NoError(t, env.db.First(&stored, post.ID).Error)
	require.NotNil(t, stored.Body)
	assert.Equal(t, "Text", *stored.Body)

	resp = env.do(t, http.MethodPatch, path, token, map[string]interface{}{"body": nil})
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.Body))
	stored = models.BlogPost{}
	require.NoError(t, env.db.First(&stored, post.ID).Error)
	assert.Nil(t, stored.Body)
	assert.Equal(t, "T2", stored.Title)
}
