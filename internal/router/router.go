package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-management/internal/config"
	"github.com/iliyamo/hotel-management/internal/handler"
	"github.com/iliyamo/hotel-management/internal/middleware"
	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/repository"
	"github.com/iliyamo/hotel-management/internal/service"
)

// Handlers groups every handler the API mounts.
type Handlers struct {
	Auth          *handler.AuthHandler
	Facilities    *handler.FacilityHandler
	Employees     *handler.EmployeeHandler
	POS           *handler.POSHandler
	Stay          *handler.StayHandler
	FrontDesk     *handler.FrontDeskHandler
	Notifications *handler.NotificationHandler
	Reports       *handler.ReportHandler
}

// NewHandlers wires repositories over db into the handler set.
func NewHandlers(cfg config.Config, db *sql.DB, events service.EventPublisher) Handlers {
	logs := repository.NewLogRepo(db)
	return Handlers{
		Auth:       handler.NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db)),
		Facilities: handler.NewFacilityHandler(repository.NewRoomRepo(db), repository.NewHallRepo(db)),
		Employees:  handler.NewEmployeeHandler(repository.NewEmployeeRepo(db)),
		POS: handler.NewPOSHandler(cfg, repository.NewAccountRepo(db),
			repository.NewInventoryRepo(db), repository.NewTransactionRepo(db)),
		Stay: handler.NewStayHandler(repository.NewReservationRepo(db), repository.NewPaymentRepo(db),
			repository.NewKeyCardRepo(db), logs, events),
		FrontDesk:     handler.NewFrontDeskHandler(logs),
		Notifications: handler.NewNotificationHandler(repository.NewNotificationRepo(db)),
		Reports:       handler.NewReportHandler(repository.NewReportRepo(db)),
	}
}

// Mount registers every route.  authLimit guards the anonymous credential
// endpoints on top of whatever global middleware e already carries.
func Mount(e *echo.Echo, h Handlers, db *sql.DB, jwtSecret string, authLimit echo.MiddlewareFunc) {
	if authLimit == nil {
		authLimit = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	RegisterRoutes(e, db)
	RegisterAuth(e, h.Auth, jwtSecret, authLimit)
	RegisterFacilities(e, h.Facilities, jwtSecret)
	RegisterStaff(e, h.Employees, jwtSecret)
	RegisterPOS(e, h.POS, jwtSecret, authLimit)
	RegisterStay(e, h.Stay, jwtSecret)
	RegisterFrontDesk(e, h.FrontDesk, jwtSecret)
	RegisterNotifications(e, h.Notifications, jwtSecret)
	RegisterReports(e, h.Reports, jwtSecret)
}

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers sign-up, sign-in and token routes under /users.
// The credential endpoints are anonymous and rate limited; logout accepts
// either a refresh token or a bearer token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, authLimit echo.MiddlewareFunc) {
	g := e.Group("/users")
	g.POST("/sign_up", a.SignUp, authLimit)
	g.POST("/sign_in", a.SignIn, authLimit)
	g.POST("/refresh", a.Refresh, authLimit)
	g.POST("/refresh_access", a.RefreshAccess, authLimit)
	g.POST("/logout", a.Logout, middleware.OptionalJWT(jwtSecret))

	g.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))

	admin := guard(jwtSecret, model.CapManageUsers)
	g.GET("", a.ListUsers, admin...)
	g.GET("/:id", a.GetUser, admin...)
	g.PATCH("/:id", a.UpdateUser, admin...)
	g.DELETE("/:id", a.DeleteUser, admin...)
}

// guard authenticates the caller and requires cap.
func guard(jwtSecret string, cap model.Capability) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{middleware.JWTAuth(jwtSecret), middleware.RequireCapability(cap)}
}
