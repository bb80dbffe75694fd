package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListBlogs handles GET /api/blogs/
// @Summary List posts
// @Description Paginated list of posts that have not been deleted
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} models.PostPage
// @Failure 404 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /blogs/ [get]
func (s *Server) ListBlogs(c *fiber.Ctx) error {
	page := parsePagination(c)

	posts, count, err := s.postService.ListPosts(c.UserContext(), page.PageSize, page.Offset())
	if err != nil {
		return mapServiceError(c, err)
	}
	if int64(page.Page) > page.lastPage(count) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			&models.AppError{Code: models.CodeNotFound, Message: "Invalid page."})
	}
	if posts == nil {
		posts = []models.BlogPost{}
	}

	next, previous := pageLinks(c, page, count)
	return c.JSON(models.PostPage{
		Count:    count,
		Next:     next,
		Previous: previous,
		Results:  posts,
	})
}

// CreateBlog handles POST /api/blogs/blog/
// @Summary Create a post
// @Tags blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{title=string,subtitle=string,body=string} true "Post"
// @Success 201 {object} models.BlogPost
// @Failure 400 {object} models.ErrorResponse
// @Router /blogs/blog/ [post]
func (s *Server) CreateBlog(c *fiber.Ctx) error {
	user, ok := requester(c)
	if !ok {
		return nil
	}

	var req struct {
		Title    string  `json:"title"`
		Subtitle string  `json:"subtitle"`
		Body     *string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		Author:   user,
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Body:     req.Body,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetBlog handles GET /api/blogs/:id/
// @Summary Retrieve a post
// @Description Deleted posts are still returned, with is_deleted set.
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.BlogPost
// @Failure 404 {object} models.ErrorResponse
// @Router /blogs/{id}/ [get]
func (s *Server) GetBlog(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(post)
}

// UpdateBlog handles PUT and PATCH /api/blogs/:id/
// @Summary Update a post
// @Description PUT requires title and subtitle; PATCH accepts any subset.
// @Tags blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body object{title=string,subtitle=string,body=string} true "Fields"
// @Success 200 {object} models.BlogPost
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /blogs/{id}/ [put]
// @Router /blogs/{id}/ [patch]
func (s *Server) UpdateBlog(c *fiber.Ctx) error {
	user, ok := requester(c)
	if !ok {
		return nil
	}
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	if _, err := s.postService.PostForWrite(c.UserContext(), user, id, c.Method()); err != nil {
		return mapServiceError(c, err)
	}

	var req struct {
		Title    *string        `json:"title"`
		Subtitle *string        `json:"subtitle"`
		Body     optionalString `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		Requester: user,
		PostID:    id,
		Method:    c.Method(),
		Title:     req.Title,
		Subtitle:  req.Subtitle,
		Body:      req.Body.Value,
		BodySet:   req.Body.Set,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(post)
}

// DeleteBlog handles DELETE /api/blogs/:id/
// @Summary Soft-delete a post
// @Tags blogs
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Router /blogs/{id}/ [delete]
func (s *Server) DeleteBlog(c *fiber.Ctx) error {
	user, ok := requester(c)
	if !ok {
		return nil
	}
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), user, id); err != nil {
		return mapServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
