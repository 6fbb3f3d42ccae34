// controllers/common.go
package controllers

import (
	"errors"
	"net/http"

	"clinicops-backend/services"
	"clinicops-backend/utils"

	"github.com/gin-gonic/gin"
)

// respondEngineError maps the engine's error taxonomy onto status codes:
// validation failures re-prompt the clerk, conflicts can be overridden,
// state errors mean the record moved on, anything else is storage trouble.
func respondEngineError(c *gin.Context, err error) {
	var validation *services.ValidationError
	var conflict *services.ConflictError
	var state *services.StateError

	switch {
	case errors.As(err, &validation):
		utils.RespondWithError(c, http.StatusBadRequest, validation.Reason)
	case errors.As(err, &conflict):
		utils.RespondWithError(c, http.StatusConflict, conflict.Error())
	case errors.As(err, &state):
		utils.RespondWithError(c, http.StatusUnprocessableEntity, state.Reason)
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}
