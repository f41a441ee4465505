package http

import (
	"context"

	"station/db"
	"station/entity"
)

type TrainTypeRepo interface {
	List(ctx context.Context, page db.Page) ([]entity.TrainType, int, error)
	Get(ctx context.Context, id int64) (entity.TrainType, error)
	Create(ctx context.Context, t entity.TrainType) (entity.TrainType, error)
	Update(ctx context.Context, t entity.TrainType) error
}

type TrainRepo interface {
	List(ctx context.Context, page db.Page) ([]entity.TrainDetail, int, error)
	Get(ctx context.Context, id int64) (entity.TrainDetail, error)
	Create(ctx context.Context, t entity.Train) (entity.Train, error)
	Update(ctx context.Context, t entity.Train) error
	SetImagePath(ctx context.Context, id int64, path string) error
}

type CrewRepo interface {
	List(ctx context.Context, page db.Page) ([]entity.Crew, int, error)
	Get(ctx context.Context, id int64) (entity.Crew, error)
	Create(ctx context.Context, c entity.Crew) (entity.Crew, error)
	Update(ctx context.Context, c entity.Crew) error
}

type StationRepo interface {
	List(ctx context.Context, page db.Page) ([]entity.Station, int, error)
	Get(ctx context.Context, id int64) (entity.Station, error)
	Create(ctx context.Context, s entity.Station) (entity.Station, error)
	Update(ctx context.Context, s entity.Station) error
	SetImagePath(ctx context.Context, id int64, path string) error
}

type RouteRepo interface {
	List(ctx context.Context, filter db.RouteFilter, page db.Page) ([]entity.RouteDetail, int, error)
	Get(ctx context.Context, id int64) (entity.RouteDetail, error)
	Create(ctx context.Context, r entity.Route) (entity.Route, error)
	Update(ctx context.Context, r entity.Route) error
}

type JourneyRepo interface {
	List(ctx context.Context, filter db.JourneyFilter, page db.Page) ([]entity.JourneyRow, int, error)
	Get(ctx context.Context, id int64) (entity.JourneyDetail, error)
	Train(ctx context.Context, journeyID int64) (entity.Train, error)
	Create(ctx context.Context, j entity.Journey) (entity.Journey, error)
	Update(ctx context.Context, j entity.Journey) error
}

type OrderRepo interface {
	Create(ctx context.Context, userID int64, requests []entity.TicketRequest) (entity.OrderWithTickets, error)
	List(ctx context.Context, userID int64, page db.Page) ([]entity.OrderWithTickets, int, error)
	Get(ctx context.Context, userID, orderID int64) (entity.OrderWithTickets, error)
}

type TicketRepo interface {
	List(ctx context.Context, userID int64, page db.Page) ([]entity.Ticket, int, error)
	Get(ctx context.Context, userID, ticketID int64) (entity.Ticket, error)
	CountForJourney(ctx context.Context, journeyID int64) (int, error)
}

type UserRepo interface {
	Create(ctx context.Context, u entity.User) (entity.User, error)
	Get(ctx context.Context, id int64) (entity.User, error)
	GetByEmail(ctx context.Context, email string) (entity.User, error)
	Update(ctx context.Context, u entity.User) error
}

// BookingObserver counts rejected bookings for monitoring.
type BookingObserver interface {
	ObserveBookingError(reason string)
}

type handler struct {
	trainTypes TrainTypeRepo
	trains     TrainRepo
	crews      CrewRepo
	stations   StationRepo
	routes     RouteRepo
	journeys   JourneyRepo
	orders     OrderRepo
	tickets    TicketRepo
	users      UserRepo
	auth       *Auth
	media      *MediaStore
	metrics    BookingObserver
}
