package httpserver

import (
	"errors"
	"net/http"

	"storefront/internal/domain"
	accountsvc "storefront/internal/service/account"
	"storefront/internal/service/anonymous"

	"github.com/gin-gonic/gin"
)

func errorBody(code, message string) gin.H {
	return gin.H{"error": code, "message": message}
}

// fail maps service errors to HTTP responses. Unexpected errors are logged and hidden.
func (h *handlers) fail(c *gin.Context, err error) {
	var verr *domain.ValidationError
	var perr *domain.PlacementError
	switch {
	case errors.As(err, &verr):
		body := errorBody("validation_failed", verr.Message)
		body["field"] = verr.Field
		if verr.Field == "cart" {
			body["redirect"] = "/cart"
		}
		c.JSON(http.StatusUnprocessableEntity, body)
	case errors.As(err, &perr):
		h.logger.Error().Err(perr.Err).Str("stage", string(perr.Stage)).Str("path", c.FullPath()).Msg("order placement failed")
		c.JSON(http.StatusBadGateway, errorBody("placement_failed", perr.Error()))
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorBody("not_found", "resource not found"))
	case errors.Is(err, domain.ErrCheckoutInProgress):
		c.JSON(http.StatusConflict, errorBody("checkout_in_progress", err.Error()))
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, errorBody("invalid_transition", err.Error()))
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, errorBody("already_exists", err.Error()))
	case errors.Is(err, domain.ErrOutOfStock):
		c.JSON(http.StatusConflict, errorBody("out_of_stock", err.Error()))
	case errors.Is(err, accountsvc.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, errorBody("invalid_customer_account_credentials", "invalid email or password"))
	case errors.Is(err, accountsvc.ErrInvalidToken), errors.Is(err, anonymous.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, errorBody("invalid_token", "token is invalid or expired"))
	default:
		h.logger.Error().Err(err).Str("method", c.Request.Method).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, errorBody("internal_error", "internal error"))
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorBody("invalid_input", message))
}
