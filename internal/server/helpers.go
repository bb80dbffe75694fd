package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"

	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100

	// maxPage keeps Offset within int for every allowed page size.
	maxPage = math.MaxInt / maxPageSize
)

// Pagination holds parsed page/page_size query parameters.
type Pagination struct {
	Page     int
	PageSize int
}

// Offset is the number of rows skipped before this page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// parsePagination extracts page and page_size query parameters.
func parsePagination(c *fiber.Ctx) Pagination {
	size := c.QueryInt("page_size", defaultPageSize)
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}

	return Pagination{Page: page, PageSize: size}
}

// lastPage is the highest page holding rows. An empty result still has page 1.
func (p Pagination) lastPage(count int64) int64 {
	size := int64(p.PageSize)
	last := count / size
	if count%size != 0 {
		last++
	}
	if last < 1 {
		last = 1
	}
	return last
}

// pageLinks builds the absolute next/previous URLs for a page of count rows.
// p must not be past lastPage.
func pageLinks(c *fiber.Ctx, p Pagination, count int64) (next, previous *string) {
	link := func(page int) *string {
		q := url.Values{}
		for k, v := range c.Queries() {
			q.Set(k, v)
		}
		if page == 1 {
			q.Del("page")
		} else {
			q.Set("page", strconv.Itoa(page))
		}
		u := c.BaseURL() + c.Path()
		if encoded := q.Encode(); encoded != "" {
			u += "?" + encoded
		}
		return &u
	}

	if int64(p.Page) < p.lastPage(count) {
		next = link(p.Page + 1)
	}
	if p.Page > 1 {
		previous = link(p.Page - 1)
	}
	return next, previous
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and reports false.
func parseID(c *fiber.Ctx, param string) (uint, bool) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(fmt.Sprintf("Invalid %s", param)))
		return 0, false
	}
	return uint(id), true
}

// statusFor maps an AppError code to its HTTP status.
func statusFor(err error) int {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case models.CodeValidation:
		return fiber.StatusBadRequest
	case models.CodeAuthentication, models.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case models.CodeForbidden:
		return fiber.StatusForbidden
	case models.CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// mapServiceError writes err with the status matching its code.
func mapServiceError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed", "error", err, "path", c.Path())
		var appErr *models.AppError
		if !errors.As(err, &appErr) {
			err = models.NewInternalError(err)
		}
	}
	return models.RespondWithError(c, status, err)
}

// requester returns the authenticated user. Routes using it sit behind
// AuthRequired, so a missing user is a wiring fault; the 401 is written here.
func requester(c *fiber.Ctx) (*models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		_ = models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication credentials were not provided."))
		return nil, false
	}
	return user, true
}

func invalidBody(c *fiber.Ctx) error {
	return models.RespondWithError(c, fiber.StatusBadRequest,
		models.NewValidationError("Invalid request body"))
}

// looseString accepts a JSON string or a bare JSON number. Phone numbers are
// often sent unquoted.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = looseString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*s = looseString(num.String())
	return nil
}

func (s *looseString) ptr() *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

// optionalString tells an absent key apart from an explicit null.
type optionalString struct {
	Set   bool
	Value *string
}

func (o *optionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}
