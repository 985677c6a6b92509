package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/bitloot/bitloot/internal/domain/errors"
	"github.com/bitloot/bitloot/internal/server/http/middleware"
	"github.com/bitloot/bitloot/internal/usecase"
)

// CurrentCaller assembles the caller identity from middleware claims and
// the order session token header.
func CurrentCaller(c *gin.Context) usecase.CallerContext {
	return usecase.CallerContext{
		User:         middleware.CurrentClaims(c),
		SessionToken: c.GetHeader(middleware.SessionTokenHeader),
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	}
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domainErrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrInvalidAmount):
		return http.StatusUnprocessableEntity
	default:
		// State errors and anything unexpected surface as a generic 400
		// so internals never leak through the API boundary.
		return http.StatusBadRequest
	}
}
