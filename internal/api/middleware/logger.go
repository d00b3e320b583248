package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"hirevet/pkg/utils"
)

// RequestLogger emits one structured log line per request in the shared
// logrus format. Echo's built-in Logger middleware stays off so every line
// the service writes has the same shape.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			id, _ := c.Get("request_id").(string)

			entry := utils.GetLogger().WithFields(logrus.Fields{
				"request_id": id,
				"method":     req.Method,
				"path":       req.URL.Path,
				"status":     res.Status,
				"latency_ms": time.Since(start).Milliseconds(),
				"remote_ip":  c.RealIP(),
			})

			if res.Status >= 500 {
				entry.Error("Request failed")
			} else {
				entry.Info("Request completed")
			}

			return err
		}
	}
}
