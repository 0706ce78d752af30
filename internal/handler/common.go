// Package handler holds the echo HTTP handlers. Handlers bind and
// validate the request, call one service operation and map its error to
// a status code; no error crosses the request boundary unmapped.
package handler

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/iliyamo/museum-desk/internal/auth"
	"github.com/iliyamo/museum-desk/internal/middleware"
	"github.com/iliyamo/museum-desk/internal/service"
)

// requestTimeout bounds the database work of one request.
const requestTimeout = 5 * time.Second

// dateLayout is the wire format of calendar dates.
const dateLayout = "2006-01-02"

// Validator adapts go-playground/validator to echo.Validator.
type Validator struct {
	v *validator.Validate
}

// NewValidator returns a validator that also understands decimal.Decimal
// fields in numeric tags.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return &Validator{v: v}
}

func (cv *Validator) Validate(i any) error {
	return cv.v.Struct(i)
}

// bind decodes the body (form or JSON) into req and runs its validate tags.
// On failure it has already written the 400 response and returns false.
func bind(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			fields := make(map[string]string, len(ve))
			for _, fe := range ve {
				fields[fe.Field()] = fe.Tag()
			}
			return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fields})
		}
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return true, nil
}

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// identity returns the identity attached by the session gate. Routes using
// it are always mounted behind the gate.
func identity(c echo.Context) auth.Identity {
	id, _ := auth.FromContext(c)
	return id
}

// actor converts the request identity into the service-layer actor.
func actor(c echo.Context) service.Actor {
	id := identity(c)
	return service.Actor{AccountID: id.AccountID, Handle: id.Handle, IP: c.RealIP()}
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// optionalID parses an optional positive id; blank means absent.
func optionalID(raw string) (*uint64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "0" {
		return nil, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// parseDate reads YYYY-MM-DD; blank returns the zero time.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(dateLayout, raw, time.UTC)
}

func badID(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
}

// respondError maps a service error onto the response. Unclassified errors
// are logged and answered with a generic message.
func respondError(c echo.Context, log *zap.Logger, err error) error {
	var (
		verr *service.ValidationError
		cerr *service.CapacityError
		serr *service.StockError
	)
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Error(), "field": verr.Field})
	case errors.As(err, &cerr):
		return c.JSON(http.StatusConflict, echo.Map{"error": cerr.Error(), "remaining": cerr.Remaining})
	case errors.As(err, &serr):
		return c.JSON(http.StatusConflict, echo.Map{"error": serr.Error(), "item_id": serr.ItemID, "available": serr.Available})
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUnknownReport):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrAccountInactive):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNotOwnMembership):
		return middleware.Deny(c)
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrDepartmentExists),
		errors.Is(err, service.ErrAlreadyCheckedIn),
		errors.Is(err, service.ErrNoPendingReorder):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrManagerNotInDepartment),
		errors.Is(err, service.ErrInvalidTierChange):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusGatewayTimeout, echo.Map{"error": "request timed out"})
	}
	log.Error("request failed",
		zap.String("method", c.Request().Method),
		zap.String("route", c.Path()),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
