// Package permissions holds the ownership checks run before any mutating
// repository call.
package permissions

import (
	"net/http"

	"inkwell/internal/models"
)

// IsSafeMethod reports whether method only reads.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// PostAuthorOrReadOnly allows reads to anyone and writes to the post's author.
func PostAuthorOrReadOnly(method string, requester *models.User, post *models.BlogPost) bool {
	if IsSafeMethod(method) {
		return true
	}
	if requester == nil || post == nil {
		return false
	}
	return post.IsAuthoredBy(requester.ID)
}

// UserOwner allows reads to anyone and writes only to the account holder,
// matched by email.
func UserOwner(method string, requester *models.User, target *models.User) bool {
	if IsSafeMethod(method) {
		return true
	}
	if requester == nil || target == nil {
		return false
	}
	return requester.Email == target.Email
}
