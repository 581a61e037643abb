package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-management/internal/handler"
	"github.com/iliyamo/hotel-management/internal/middleware"
	"github.com/iliyamo/hotel-management/internal/model"
)

// RegisterFacilities registers rooms and halls.  Every signed-in role may
// browse; writes need manage_facilities.
func RegisterFacilities(e *echo.Echo, f *handler.FacilityHandler, jwtSecret string) {
	view := guard(jwtSecret, model.CapViewFacilities)
	manage := guard(jwtSecret, model.CapManageFacilities)

	// ---- Rooms ----
	rooms := e.Group("/rooms")
	rooms.GET("", f.ListRooms, view...)
	rooms.GET("/available", f.AvailableRooms, view...)
	rooms.GET("/:id", f.GetRoom, view...)
	rooms.POST("", f.CreateRoom, manage...)
	rooms.PUT("/:id", f.UpdateRoom, manage...)
	rooms.PATCH("/:id", f.UpdateRoom, manage...)
	rooms.DELETE("/:id", f.DeleteRoom, manage...)

	// ---- Halls ----
	halls := e.Group("/halls")
	halls.GET("", f.ListHalls, view...)
	halls.GET("/:id", f.GetHall, view...)
	halls.POST("", f.CreateHall, manage...)
	halls.PUT("/:id", f.UpdateHall, manage...)
	halls.PATCH("/:id", f.UpdateHall, manage...)
	halls.DELETE("/:id", f.DeleteHall, manage...)
}

// RegisterStaff registers employee profiles, admin only.
func RegisterStaff(e *echo.Echo, h *handler.EmployeeHandler, jwtSecret string) {
	g := e.Group("/employees", guard(jwtSecret, model.CapManageEmployees)...)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// RegisterPOS registers the bar and restaurant tills, inventory and
// sales.  Till login is anonymous and shares the credential rate limit.
func RegisterPOS(e *echo.Echo, p *handler.POSHandler, jwtSecret string, authLimit echo.MiddlewareFunc) {
	e.POST("/pos/login", p.Login, authLimit)

	for prefix, kind := range map[string]model.AccountKind{
		"/bar-accounts":        model.AccountBar,
		"/restaurant-accounts": model.AccountRestaurant,
	} {
		g := e.Group(prefix, guard(jwtSecret, model.CapManageAccounts)...)
		g.GET("", p.ListAccounts(kind))
		g.GET("/sales", p.Sales(kind))
		g.GET("/:id", p.GetAccount(kind))
		g.POST("", p.CreateAccount(kind))
		g.PUT("/:id", p.UpdateAccount(kind))
		g.PATCH("/:id", p.UpdateAccount(kind))
		g.DELETE("/:id", p.DeleteAccount(kind))
	}

	sell := guard(jwtSecret, model.CapRecordSales)
	stock := guard(jwtSecret, model.CapManageInventory)

	items := e.Group("/inventory")
	items.GET("", p.ListItems, sell...)
	items.GET("/:id", p.GetItem, sell...)
	items.POST("", p.CreateItem, stock...)
	items.PUT("/:id", p.UpdateItem, stock...)
	items.PATCH("/:id", p.UpdateItem, stock...)
	items.DELETE("/:id", p.DeleteItem, stock...)

	tx := e.Group("/transactions", middleware.JWTAuth(jwtSecret))
	tx.GET("", p.ListSales, middleware.RequireCapability(model.CapSelfService))
	tx.GET("/:id", p.GetSale, middleware.RequireCapability(model.CapSelfService))
	tx.POST("", p.RecordSale, middleware.RequireCapability(model.CapRecordSales))
	tx.DELETE("/:id", p.DeleteSale, middleware.RequireCapability(model.CapManageInventory))
}
