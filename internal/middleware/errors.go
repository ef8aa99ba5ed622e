package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"admin-console/internal/api"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ErrorHandler 將 echo 錯誤統一輸出為 {"detail": "..."}
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status := http.StatusInternalServerError
		detail := http.StatusText(status)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			detail = fmt.Sprint(he.Message)
		}
		if status >= http.StatusInternalServerError {
			log.Error("request failed", zap.String("uri", c.Request().RequestURI), zap.Error(err))
		}
		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, api.ErrorResponse{Detail: detail})
		}
		if werr != nil {
			log.Error("write error response", zap.Error(werr))
		}
	}
}
