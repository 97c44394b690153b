package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cantinadev/cantina-backend/internal/service"
)

const internalErrorMessage = "ocorreu um erro interno no servidor"

type errorBody struct {
	Erro string `json:"erro"`
}

// NewHTTPErrorHandler renders every error as {"erro": ...}. Production
// mode never leaks internal detail on 500s; development keeps it for
// debugging.
func NewHTTPErrorHandler(production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := err.Error()

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			}
		}

		if code >= http.StatusInternalServerError && production {
			msg = internalErrorMessage
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorBody{Erro: msg})
	}
}

// httpError maps the service error taxonomy onto HTTP statuses.
func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrMalformedInput),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrProductUnavailable),
		errors.Is(err, service.ErrInvalidTotal),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
