package middleware

import (
	applogger "github.com/Akash-repo/service-p/pkg/logger"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Recover turns handler panics into 500 responses and logs the stack.
func Recover(l *applogger.Logger) echo.MiddlewareFunc {
	return echomw.RecoverWithConfig(echomw.RecoverConfig{
		StackSize: 4 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			l.Error("http handler panic",
				applogger.String("route", c.Path()),
				applogger.String("method", c.Request().Method),
				applogger.Error(err),
				applogger.String("stack", string(stack)),
			)
			return err
		},
	})
}
