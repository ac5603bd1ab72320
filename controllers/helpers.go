// controllers/helpers.go
package controllers

import (
	"errors"
	"log"
	"net/http"

	"clinicpro-backend/services"
	"clinicpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondServiceError translates typed business errors into the HTTP
// envelope in one place. Anything unrecognized becomes a generic 500 with
// full detail in the server log only.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var stateErr *services.StateError
	var notFoundErr *services.NotFoundError
	var conflictErr *services.ConflictError

	switch {
	case errors.As(err, &validationErr):
		utils.RespondWithError(c, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &stateErr):
		utils.RespondWithError(c, http.StatusBadRequest, stateErr.Message)
	case errors.As(err, &notFoundErr):
		utils.RespondWithError(c, http.StatusNotFound, notFoundErr.Message)
	case errors.As(err, &conflictErr):
		utils.RespondWithError(c, http.StatusConflict, conflictErr.Message)
	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// currentUserID pulls the authenticated user id out of the gin context for
// audit attribution. Nil when unparsable.
func currentUserID(c *gin.Context) *uuid.UUID {
	raw, exists := c.Get("userId")
	if !exists {
		return nil
	}
	str, ok := raw.(string)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(str)
	if err != nil {
		return nil
	}
	return &id
}

// parseIDParam parses the :id path parameter.
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}

// parseUUIDQuery reads an optional uuid query parameter.
func parseUUIDQuery(c *gin.Context, name string) *uuid.UUID {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
