package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"slot-machine-service/internal/pkg/lock"
	"slot-machine-service/internal/service"
)

// respondError maps a service error to a status code and JSON body.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidWager):
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: service.Reason(err)})
	case errors.Is(err, service.ErrUnknownSession):
		c.JSON(http.StatusNotFound, ErrorResponse{Detail: "unknown session"})
	case errors.Is(err, service.ErrUnknownGame):
		c.JSON(http.StatusNotFound, ErrorResponse{Detail: "unknown game"})
	case errors.Is(err, service.ErrStoreUnavailable),
		errors.Is(err, lock.ErrLockTimeout),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Detail: "service unavailable, try again"})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "internal error"})
	}
}

// respondBindError rejects a request body that does not match the schema.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: err.Error()})
}
