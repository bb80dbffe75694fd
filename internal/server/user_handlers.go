package server

import (
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListUsers handles GET /api/users/
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum number of users"
// @Param offset query int false "Number of users to skip"
// @Success 200 {array} models.User
// @Failure 401 {object} models.ErrorResponse
// @Router /users/ [get]
func (s *Server) ListUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	users, err := s.userService.ListUsers(c.UserContext(), limit, offset)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(users)
}

// GetUser handles GET /api/users/:id/
// @Summary Retrieve a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/ [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	user, err := s.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateUser handles PUT and PATCH /api/users/:id/
// @Summary Update own account
// @Description PUT requires username, email and phone_number; PATCH accepts any subset.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body object{username=string,email=string,phone_number=string,password=string} true "Fields"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /users/{id}/ [put]
// @Router /users/{id}/ [patch]
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	user, ok := requester(c)
	if !ok {
		return nil
	}
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	if _, err := s.userService.UserForWrite(c.UserContext(), user, id, c.Method()); err != nil {
		return mapServiceError(c, err)
	}

	var req struct {
		Username    *string      `json:"username"`
		Email       *string      `json:"email"`
		PhoneNumber *looseString `json:"phone_number"`
		Password    *string      `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	updated, err := s.userService.UpdateUser(c.UserContext(), service.UpdateUserInput{
		Requester:   user,
		UserID:      id,
		Method:      c.Method(),
		Username:    req.Username,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber.ptr(),
		Password:    req.Password,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(updated)
}

// DeleteUser handles DELETE /api/users/:id/
// @Summary Delete own account
// @Tags users
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Router /users/{id}/ [delete]
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	user, ok := requester(c)
	if !ok {
		return nil
	}
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	if err := s.userService.DeleteUser(c.UserContext(), user, id); err != nil {
		return mapServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetUserBlogs handles GET /api/users/:id/blogs/
// @Summary List a user's posts
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {array} models.BlogPost
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/blogs/ [get]
func (s *Server) GetUserBlogs(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	if _, err := s.userService.GetUserByID(c.UserContext(), id); err != nil {
		return mapServiceError(c, err)
	}

	posts, err := s.postService.ListPostsByAuthor(c.UserContext(), id)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(posts)
}
