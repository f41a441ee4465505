package entity

import "time"

type TrainType struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type Train struct {
	ID            int64   `db:"id" json:"id"`
	Name          string  `db:"name" json:"name"`
	CargoNum      int     `db:"cargo_num" json:"cargo_num"`
	PlacesInCargo int     `db:"places_in_cargo" json:"places_in_cargo"`
	TrainTypeID   int64   `db:"train_type_id" json:"train_type"`
	ImagePath     *string `db:"image_path" json:"image"`
}

// Capacity is the total number of seats on the train.
func (t Train) Capacity() int {
	return t.CargoNum * t.PlacesInCargo
}

type TrainDetail struct {
	Train
	TrainType TrainType `json:"train_type"`
}

type Crew struct {
	ID        int64  `db:"id" json:"id"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}

func (c Crew) FullName() string {
	return c.FirstName + " " + c.LastName
}

type Station struct {
	ID        int64   `db:"id" json:"id"`
	Name      string  `db:"name" json:"name"`
	Latitude  float64 `db:"latitude" json:"latitude"`
	Longitude float64 `db:"longitude" json:"longitude"`
	ImagePath *string `db:"image_path" json:"image"`
}

type Route struct {
	ID            int64 `db:"id" json:"id"`
	SourceID      int64 `db:"source_id" json:"source"`
	DestinationID int64 `db:"destination_id" json:"destination"`
	Distance      int   `db:"distance" json:"distance"`
}

type RouteDetail struct {
	Route
	Source      Station `json:"source"`
	Destination Station `json:"destination"`
}

type Journey struct {
	ID            int64     `db:"id" json:"id"`
	RouteID       int64     `db:"route_id" json:"route"`
	TrainID       int64     `db:"train_id" json:"train"`
	DepartureTime time.Time `db:"departure_time" json:"departure_time"`
	ArrivalTime   time.Time `db:"arrival_time" json:"arrival_time"`
	CrewIDs       []int64   `db:"-" json:"crews"`
}

type JourneyDetail struct {
	Journey
	Route RouteDetail `json:"route"`
	Train TrainDetail `json:"train"`
	Crews []Crew      `json:"crews"`

	// Capacity minus issued tickets, filled in at read time.
	TicketsAvailable int `json:"tickets_available"`
}

// JourneyRow is the listing shape: route endpoints and crew resolved to
// names, plus the seat availability computed at query time.
type JourneyRow struct {
	ID               int64     `db:"id"`
	TrainName        string    `db:"train_name"`
	RouteFrom        string    `db:"route_from"`
	RouteTo          string    `db:"route_to"`
	DepartureTime    time.Time `db:"departure_time"`
	ArrivalTime      time.Time `db:"arrival_time"`
	TicketsAvailable int       `db:"tickets_available"`
	CrewNames        []string  `db:"-"`
}

type User struct {
	ID           int64  `db:"id" json:"id"`
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
	IsStaff      bool   `db:"is_staff" json:"is_staff"`
}
