package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"hirevet/pkg/models"
	"hirevet/pkg/utils"
)

// RequestValidation tags every request with a generated ID and rejects
// uploads whose declared size exceeds maxBodyBytes before any handler
// work happens.
func RequestValidation(maxBodyBytes int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := utils.GenerateRequestID()
			c.Set("request_id", requestID)
			c.Response().Header().Set("X-Request-ID", requestID)

			if c.Request().Method == http.MethodPost && maxBodyBytes > 0 {
				if c.Request().ContentLength > maxBodyBytes {
					return c.JSON(http.StatusRequestEntityTooLarge,
						models.CreateErrorResponse("Request body too large", "", requestID))
				}
			}

			return next(c)
		}
	}
}
