package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// Signup handles POST /api/users/user/
// @Summary User signup
// @Description Register a new user account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,email=string,password=string,phone_number=string} true "Signup request"
// @Success 201 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Router /users/user/ [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Username    string      `json:"username"`
		Email       string      `json:"email"`
		Password    string      `json:"password"`
		PhoneNumber looseString `json:"phone_number"`
		FirstName   string      `json:"first_name"`
		LastName    string      `json:"last_name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	user, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: string(req.PhoneNumber),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles POST /api/login/
// @Summary User login
// @Description Authenticate and return the account with a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,password=string} true "Login credentials"
// @Success 200 {object} object{email=string,username=string,tokens=models.TokenPair}
// @Failure 401 {object} models.ErrorResponse
// @Router /login/ [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	result, err := s.authService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"email":    result.User.Email,
		"username": result.User.Username,
		"tokens":   result.Tokens,
	})
}

// ObtainTokenPair handles POST /api/token/
// @Summary Obtain token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,password=string} true "Credentials"
// @Success 200 {object} models.TokenPair
// @Failure 401 {object} models.ErrorResponse
// @Router /token/ [post]
func (s *Server) ObtainTokenPair(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	result, err := s.authService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(result.Tokens)
}

// RefreshToken handles POST /api/token/refresh/
// @Summary Refresh access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{refresh=string} true "Refresh token"
// @Success 200 {object} object{access=string}
// @Failure 401 {object} models.ErrorResponse
// @Router /token/refresh/ [post]
func (s *Server) RefreshToken(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if req.Refresh == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("refresh is required"))
	}

	access, err := s.authService.Refresh(c.UserContext(), req.Refresh)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"access": access})
}

// Logout handles POST /api/logout/
// @Summary Logout
// @Description Blacklist a refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{refresh=string} true "Refresh token"
// @Success 200 {object} object{}
// @Failure 401 {object} models.ErrorResponse
// @Router /logout/ [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if req.Refresh == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("refresh is required"))
	}

	if err := s.authService.Logout(c.UserContext(), req.Refresh); err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{})
}
