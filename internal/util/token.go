package util

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
)

var ErrMissingBearerToken = errors.New("authorization header must be a bearer token")

// ReadBearerToken returns the token of an "Authorization: Bearer <token>" header.
func ReadBearerToken(ctx *gin.Context) (string, error) {
	header := strings.TrimSpace(ctx.GetHeader("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMissingBearerToken
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingBearerToken
	}

	return token, nil
}
