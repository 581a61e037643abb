package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-management/internal/repository"
)

// ReportHandler computes dashboards from the live tables on every call.
type ReportHandler struct {
	Reports *repository.ReportRepo
}

func NewReportHandler(r *repository.ReportRepo) *ReportHandler {
	return &ReportHandler{Reports: r}
}

func (h *ReportHandler) Reservations(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	rep, err := h.Reports.Reservations(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *ReportHandler) Revenue(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	total, err := h.Reports.Revenue(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total_revenue_cents": total})
}

func (h *ReportHandler) Transactions(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	rep, err := h.Reports.Transactions(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *ReportHandler) ReservationDetails(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Reports.ReservationDetails(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}

// Financial is the admin-only sales breakdown across tills and rooms.
func (h *ReportHandler) Financial(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	rep, err := h.Reports.Financial(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, rep)
}
