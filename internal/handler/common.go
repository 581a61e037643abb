package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-management/internal/middleware"
	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/queue"
	"github.com/iliyamo/hotel-management/internal/repository"
	"github.com/iliyamo/hotel-management/internal/service"
)

// requestTimeout bounds the database work of a single request.
const requestTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// bodyError marks a request body that could not be decoded.
type bodyError struct{ detail string }

func (e *bodyError) Error() string { return "invalid body: " + e.detail }

// bindValid decodes the request into req and runs its validate tags.
func bindValid(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return &bodyError{detail: fmt.Sprint(he.Message)}
		}
		return &bodyError{detail: err.Error()}
	}
	return c.Validate(req)
}

// respondError is the single place errors become HTTP responses.
func respondError(c echo.Context, err error) error {
	var (
		ve *model.ValidationError
		se *model.StockError
		be *bodyError
	)
	switch {
	case errors.As(err, &be):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body", "detail": be.detail})
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": ve.Fields})
	case errors.As(err, &se):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"errors":    echo.Map{"quantity_sold": se.Error()},
			"available": se.Available,
		})
	case errors.Is(err, model.ErrInvalidTransition), errors.Is(err, repository.ErrRoomUnavailable):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrDuplicate):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "A record with these values already exists."})
	case errors.Is(err, repository.ErrInvalidReference):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "A referenced record does not exist."})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Not found."})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You do not have permission to perform this action."})
	}
	c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// fieldOn rewrites a storage-level conflict as a message on one field.
func fieldOn(err error, target error, field, msg string) error {
	if errors.Is(err, target) {
		return model.Invalid(field, msg)
	}
	return err
}

// parseID reads a positive integer path parameter.  Anything else is a
// missing resource.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, repository.ErrNotFound
	}
	return id, nil
}

func callerID(c echo.Context) uint64 {
	id, _ := middleware.UserID(c)
	return id
}

// scope restricts user-owned collections to the caller unless the caller
// may see every record.
func scope(c echo.Context) *uint64 {
	if middleware.Role(c).Elevated() {
		return nil
	}
	id := callerID(c)
	return &id
}

// owns reports whether the caller may act on a row belonging to ownerID.
func owns(c echo.Context, ownerID uint64) bool {
	return middleware.Role(c).Elevated() || callerID(c) == ownerID
}

// emit publishes ev after the write it describes has committed.  Failures
// are already logged by the publisher and never reach the client.
func emit(c echo.Context, p service.EventPublisher, ev queue.StayEvent) {
	if p == nil {
		return
	}
	_ = p.Publish(c.Request().Context(), ev)
}

func canFrontDesk(c echo.Context) bool {
	return middleware.Role(c).Can(model.CapFrontDesk)
}
