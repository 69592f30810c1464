package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/taskforge/taskforge/internal/auth"
)

// response is the envelope every endpoint returns
type response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func ok(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, response{Success: true, Message: message, Data: data})
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, response{Success: false, Message: message})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, response{Success: false, Message: message})
}

// failErr maps a kind-tagged auth error onto an HTTP status. Raw
// diagnostics ride along on internal errors only when debug is enabled.
func (s *Server) failErr(c echo.Context, err error) error {
	kind := auth.KindOf(err)
	resp := response{Success: false, Message: auth.MessageOf(err)}
	if kind == auth.KindInternal && s.cfg.Debug {
		resp.Error = err.Error()
	}
	return c.JSON(kindStatus(kind), resp)
}

func kindStatus(kind auth.Kind) int {
	switch kind {
	case auth.KindConflict:
		return http.StatusConflict
	case auth.KindUnauthorized, auth.KindExpired:
		return http.StatusUnauthorized
	case auth.KindForbidden:
		return http.StatusForbidden
	case auth.KindNotFound:
		return http.StatusNotFound
	case auth.KindInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
