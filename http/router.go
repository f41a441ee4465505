package http

import (
	"net/http"

	commonHTTP "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/labstack/echo/v4"
)

var ErrServerClosed = http.ErrServerClosed

type RouterDeps struct {
	TrainTypes TrainTypeRepo
	Trains     TrainRepo
	Crews      CrewRepo
	Stations   StationRepo
	Routes     RouteRepo
	Journeys   JourneyRepo
	Orders     OrderRepo
	Tickets    TicketRepo
	Users      UserRepo

	Auth    *Auth
	Media   *MediaStore
	Metrics BookingObserver

	MetricsHandler http.Handler
	MetricsPath    string
}

// NewRouter registers every resource. Reads require authentication, catalog
// writes require staff, and delete is not registered anywhere so echo
// answers it with method-not-allowed. Auth middleware is attached per route,
// not per group: group middleware makes echo register a catch-all route that
// turns unregistered methods into 404 instead of 405.
func NewRouter(deps RouterDeps) *echo.Echo {
	server := commonHTTP.NewEcho()
	server.HTTPErrorHandler = handleError

	h := handler{
		trainTypes: deps.TrainTypes,
		trains:     deps.Trains,
		crews:      deps.Crews,
		stations:   deps.Stations,
		routes:     deps.Routes,
		journeys:   deps.Journeys,
		orders:     deps.Orders,
		tickets:    deps.Tickets,
		users:      deps.Users,
		auth:       deps.Auth,
		media:      deps.Media,
		metrics:    deps.Metrics,
	}

	server.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if deps.MetricsHandler != nil {
		server.GET(deps.MetricsPath, echo.WrapHandler(deps.MetricsHandler))
	}

	server.POST("/user", h.CreateUser)
	server.POST("/token", h.CreateToken)

	requireAuth := deps.Auth.RequireAuth

	me := server.Group("/user/me")
	me.GET("", h.GetMe, requireAuth)
	me.PUT("", h.UpdateMe, requireAuth)
	me.PATCH("", h.UpdateMe, requireAuth)

	trainTypes := server.Group("/train-type")
	trainTypes.GET("", h.ListTrainTypes, requireAuth)
	trainTypes.GET("/:id", h.GetTrainType, requireAuth)
	trainTypes.POST("", h.CreateTrainType, requireAuth, RequireStaff)
	trainTypes.PUT("/:id", h.UpdateTrainType, requireAuth, RequireStaff)
	trainTypes.PATCH("/:id", h.UpdateTrainType, requireAuth, RequireStaff)

	trains := server.Group("/train")
	trains.GET("", h.ListTrains, requireAuth)
	trains.GET("/:id", h.GetTrain, requireAuth)
	trains.POST("", h.CreateTrain, requireAuth, RequireStaff)
	trains.PUT("/:id", h.UpdateTrain, requireAuth, RequireStaff)
	trains.PATCH("/:id", h.UpdateTrain, requireAuth, RequireStaff)
	trains.POST("/:id/train-image", h.UploadTrainImage, requireAuth, RequireStaff)

	crews := server.Group("/crew")
	crews.GET("", h.ListCrews, requireAuth)
	crews.GET("/:id", h.GetCrew, requireAuth)
	crews.POST("", h.CreateCrew, requireAuth, RequireStaff)
	crews.PUT("/:id", h.UpdateCrew, requireAuth, RequireStaff)
	crews.PATCH("/:id", h.UpdateCrew, requireAuth, RequireStaff)

	stations := server.Group("/station")
	stations.GET("", h.ListStations, requireAuth)
	stations.GET("/:id", h.GetStation, requireAuth)
	stations.POST("", h.CreateStation, requireAuth, RequireStaff)
	stations.PUT("/:id", h.UpdateStation, requireAuth, RequireStaff)
	stations.PATCH("/:id", h.UpdateStation, requireAuth, RequireStaff)
	stations.POST("/:id/station-image", h.UploadStationImage, requireAuth, RequireStaff)

	routes := server.Group("/route")
	routes.GET("", h.ListRoutes, requireAuth)
	routes.GET("/:id", h.GetRoute, requireAuth)
	routes.POST("", h.CreateRoute, requireAuth, RequireStaff)
	routes.PUT("/:id", h.UpdateRoute, requireAuth, RequireStaff)
	routes.PATCH("/:id", h.UpdateRoute, requireAuth, RequireStaff)

	journeys := server.Group("/journey")
	journeys.GET("", h.ListJourneys, requireAuth)
	journeys.GET("/:id", h.GetJourney, requireAuth)
	journeys.POST("", h.CreateJourney, requireAuth, RequireStaff)
	journeys.PUT("/:id", h.UpdateJourney, requireAuth, RequireStaff)
	journeys.PATCH("/:id", h.UpdateJourney, requireAuth, RequireStaff)

	orders := server.Group("/order")
	orders.GET("", h.ListOrders, requireAuth)
	orders.GET("/:id", h.GetOrder, requireAuth)
	orders.POST("", h.CreateOrder, requireAuth)

	tickets := server.Group("/ticket")
	tickets.GET("", h.ListTickets, requireAuth)
	tickets.GET("/:id", h.GetTicket, requireAuth)

	return server
}
