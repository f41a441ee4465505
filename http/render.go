package http

import (
	"time"

	"station/entity"
)

// Each resource gets an explicit table mapping the viewset action (list,
// detail, write) to the function that shapes its response. The table is
// bound once at route registration, so the action-specific shapes are
// visible in one place per resource rather than picked by branching inside
// the handlers.

type trainViews struct {
	list   func(entity.TrainDetail) any
	detail func(entity.TrainDetail) any
	write  func(entity.Train) any
}

var trainRender = trainViews{
	list:   renderTrainRow,
	detail: renderTrainDetail,
	write:  renderTrainWrite,
}

type trainRowResponse struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	CargoNum      int     `json:"cargo_num"`
	PlacesInCargo int     `json:"places_in_cargo"`
	TrainType     string  `json:"train_type"`
	Image         *string `json:"image"`
}

func renderTrainRow(t entity.TrainDetail) any {
	return trainRowResponse{
		ID:            t.ID,
		Name:          t.Name,
		CargoNum:      t.CargoNum,
		PlacesInCargo: t.PlacesInCargo,
		TrainType:     t.TrainType.Name,
		Image:         t.ImagePath,
	}
}

type trainDetailResponse struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	CargoNum      int              `json:"cargo_num"`
	PlacesInCargo int              `json:"places_in_cargo"`
	TrainType     entity.TrainType `json:"train_type"`
	Image         *string          `json:"image"`
}

func renderTrainDetail(t entity.TrainDetail) any {
	return trainDetailResponse{
		ID:            t.ID,
		Name:          t.Name,
		CargoNum:      t.CargoNum,
		PlacesInCargo: t.PlacesInCargo,
		TrainType:     t.TrainType,
		Image:         t.ImagePath,
	}
}

func renderTrainWrite(t entity.Train) any {
	return t
}

type crewViews struct {
	list   func(entity.Crew) any
	detail func(entity.Crew) any
}

var crewRender = crewViews{
	list:   renderCrew,
	detail: renderCrew,
}

type crewResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

func renderCrew(c entity.Crew) any {
	return crewResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		FullName:  c.FullName(),
	}
}

type routeViews struct {
	list   func(entity.RouteDetail) any
	detail func(entity.RouteDetail) any
	write  func(entity.Route) any
}

var routeRender = routeViews{
	list:   renderRouteRow,
	detail: renderRouteDetail,
	write:  renderRouteWrite,
}

type routeRowResponse struct {
	ID          int64  `json:"id"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Distance    int    `json:"distance"`
}

func renderRouteRow(r entity.RouteDetail) any {
	return routeRowResponse{
		ID:          r.ID,
		Source:      r.Source.Name,
		Destination: r.Destination.Name,
		Distance:    r.Distance,
	}
}

type routeDetailResponse struct {
	ID          int64          `json:"id"`
	Source      entity.Station `json:"source"`
	Destination entity.Station `json:"destination"`
	Distance    int            `json:"distance"`
}

func renderRouteDetail(r entity.RouteDetail) any {
	return routeDetailResponse{
		ID:          r.ID,
		Source:      r.Source,
		Destination: r.Destination,
		Distance:    r.Distance,
	}
}

func renderRouteWrite(r entity.Route) any {
	return r
}

type journeyViews struct {
	list   func(entity.JourneyRow) any
	detail func(entity.JourneyDetail) any
	write  func(entity.Journey) any
}

var journeyRender = journeyViews{
	list:   renderJourneyRow,
	detail: renderJourneyDetail,
	write:  renderJourneyWrite,
}

type journeyRowResponse struct {
	ID               int64     `json:"id"`
	TrainName        string    `json:"train_name"`
	RouteFrom        string    `json:"route_from"`
	RouteTo          string    `json:"route_to"`
	DepartureTime    time.Time `json:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time"`
	TicketsAvailable int       `json:"tickets_available"`
	Crews            []string  `json:"crews"`
}

func renderJourneyRow(j entity.JourneyRow) any {
	crews := j.CrewNames
	if crews == nil {
		crews = []string{}
	}
	return journeyRowResponse{
		ID:               j.ID,
		TrainName:        j.TrainName,
		RouteFrom:        j.RouteFrom,
		RouteTo:          j.RouteTo,
		DepartureTime:    j.DepartureTime,
		ArrivalTime:      j.ArrivalTime,
		TicketsAvailable: j.TicketsAvailable,
		Crews:            crews,
	}
}

type journeyDetailResponse struct {
	ID               int64     `json:"id"`
	Route            any       `json:"route"`
	Train            any       `json:"train"`
	DepartureTime    time.Time `json:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time"`
	TicketsAvailable int       `json:"tickets_available"`
	Crews            []any     `json:"crews"`
}

func renderJourneyDetail(j entity.JourneyDetail) any {
	crews := make([]any, 0, len(j.Crews))
	for _, c := range j.Crews {
		crews = append(crews, renderCrew(c))
	}
	return journeyDetailResponse{
		ID:               j.ID,
		Route:            renderRouteDetail(j.Route),
		Train:            renderTrainDetail(j.Train),
		DepartureTime:    j.DepartureTime,
		ArrivalTime:      j.ArrivalTime,
		TicketsAvailable: j.TicketsAvailable,
		Crews:            crews,
	}
}

func renderJourneyWrite(j entity.Journey) any {
	if j.CrewIDs == nil {
		j.CrewIDs = []int64{}
	}
	return j
}

func renderOrder(o entity.OrderWithTickets) any {
	if o.Tickets == nil {
		o.Tickets = []entity.Ticket{}
	}
	return o
}
