package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-management/internal/handler"
	"github.com/iliyamo/hotel-management/internal/middleware"
	"github.com/iliyamo/hotel-management/internal/model"
)

// RegisterStay registers reservations, payments, key cards and room
// service.  Guests reach their own rows through self_service; the
// lifecycle steps belong to the front desk.
func RegisterStay(e *echo.Echo, h *handler.StayHandler, jwtSecret string) {
	self := middleware.RequireCapability(model.CapSelfService)
	desk := middleware.RequireCapability(model.CapFrontDesk)

	res := e.Group("/reservations", middleware.JWTAuth(jwtSecret))
	res.GET("", h.ListReservations, self)
	res.GET("/my_reservations", h.MyReservations, self)
	res.POST("", h.CreateReservation, self)
	res.GET("/:id", h.GetReservation, self)
	res.PATCH("/:id", h.UpdateReservation, self)
	res.PUT("/:id", h.UpdateReservation, self)
	res.DELETE("/:id", h.DeleteReservation, self)
	res.POST("/:id/confirm", h.Confirm(), desk)
	res.POST("/:id/check_in", h.CheckIn(), desk)
	res.POST("/:id/check_out", h.CheckOut(), desk)
	res.POST("/:id/key_card", h.IssueKeyCard, desk)

	pay := e.Group("/payments", middleware.JWTAuth(jwtSecret))
	pay.GET("", h.ListPayments, self)
	pay.GET("/:id", h.GetPayment, self)
	pay.POST("", h.CreatePayment, self)
	pay.POST("/:id/mark_as_paid", h.MarkAsPaid, desk)
	pay.DELETE("/:id", h.DeletePayment, middleware.RequireCapability(model.CapManageAccounts))

	cards := e.Group("/key-cards", guard(jwtSecret, model.CapFrontDesk)...)
	cards.GET("", h.ListKeyCards)
	cards.GET("/:id", h.GetKeyCard)
	cards.DELETE("/:id", h.DeleteKeyCard)

	orders := e.Group("/room-service", middleware.JWTAuth(jwtSecret))
	orders.GET("", h.ListOrders, self)
	orders.POST("", h.CreateOrder, self)
	orders.POST("/:id/complete", h.CompleteOrder, desk)
}

// RegisterFrontDesk registers the CCTV log and offline data endpoints.
func RegisterFrontDesk(e *echo.Echo, h *handler.FrontDeskHandler, jwtSecret string) {
	cctv := e.Group("/cctv-logs", guard(jwtSecret, model.CapFrontDesk)...)
	cctv.GET("", h.ListCCTV)
	cctv.POST("", h.CreateCCTV)

	off := e.Group("/offline-data", guard(jwtSecret, model.CapFrontDesk)...)
	off.GET("", h.ListOffline)
	off.POST("", h.CreateOffline)
	off.POST("/:id/sync", h.SyncOffline)
}

func RegisterNotifications(e *echo.Echo, h *handler.NotificationHandler, jwtSecret string) {
	g := e.Group("/notifications", guard(jwtSecret, model.CapSelfService)...)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.POST("/:id/read", h.MarkRead)
	g.DELETE("/:id", h.Delete)
}

// RegisterReports registers the dashboards.  The financial breakdown is
// admin only; the rest are open to managers.
func RegisterReports(e *echo.Echo, h *handler.ReportHandler, jwtSecret string) {
	g := e.Group("/reports", middleware.JWTAuth(jwtSecret))
	reports := middleware.RequireCapability(model.CapViewReports)
	g.GET("/reservation_report", h.Reservations, reports)
	g.GET("/revenue_report", h.Revenue, reports)
	g.GET("/transaction_report", h.Transactions, reports)
	g.GET("/reservation_details", h.ReservationDetails, reports)
	g.GET("/financial", h.Financial, middleware.RequireCapability(model.CapViewFinancials))
}
