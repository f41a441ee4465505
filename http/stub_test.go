package http_test

import (
	"context"

	"station/db"
	"station/entity"
)

// fakeStore backs the router with in-memory data so handler behaviour can
// be exercised without Postgres.
type fakeStore struct {
	trainTypes  map[int64]entity.TrainType
	trains      map[int64]entity.TrainDetail
	crews       map[int64]entity.Crew
	stations    map[int64]entity.Station
	routes      map[int64]entity.RouteDetail
	journeys    map[int64]entity.JourneyDetail
	journeyRows []entity.JourneyRow
	orders      map[int64]entity.OrderWithTickets
	users       map[int64]entity.User

	nextID int64

	lastRouteFilter   db.RouteFilter
	lastJourneyFilter db.JourneyFilter
	lastPage          db.Page
	createdOrders     []createdOrder
}

type createdOrder struct {
	userID   int64
	requests []entity.TicketRequest
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		trainTypes: map[int64]entity.TrainType{},
		trains:     map[int64]entity.TrainDetail{},
		crews:      map[int64]entity.Crew{},
		stations:   map[int64]entity.Station{},
		routes:     map[int64]entity.RouteDetail{},
		journeys:   map[int64]entity.JourneyDetail{},
		orders:     map[int64]entity.OrderWithTickets{},
		users:      map[int64]entity.User{},
		nextID:     1,
	}
}

func (f *fakeStore) id() int64 {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeStore) List(ctx context.Context, page db.Page) ([]entity.TrainType, int, error) {
	f.lastPage = page
	var types []entity.TrainType
	for _, t := range f.trainTypes {
		types = append(types, t)
	}
	return types, len(types), nil
}

func (f *fakeStore) Get(ctx context.Context, id int64) (entity.TrainType, error) {
	t, ok := f.trainTypes[id]
	if !ok {
		return entity.TrainType{}, entity.ErrNotFound
	}
	return t, nil
}

func (f *fakeStore) Create(ctx context.Context, t entity.TrainType) (entity.TrainType, error) {
	t.ID = f.id()
	f.trainTypes[t.ID] = t
	return t, nil
}

func (f *fakeStore) Update(ctx context.Context, t entity.TrainType) error {
	if _, ok := f.trainTypes[t.ID]; !ok {
		return entity.ErrNotFound
	}
	f.trainTypes[t.ID] = t
	return nil
}

type fakeTrains struct{ s *fakeStore }

func (f fakeTrains) List(ctx context.Context, page db.Page) ([]entity.TrainDetail, int, error) {
	f.s.lastPage = page
	var trains []entity.TrainDetail
	for _, t := range f.s.trains {
		trains = append(trains, t)
	}
	return trains, len(trains), nil
}

func (f fakeTrains) Get(ctx context.Context, id int64) (entity.TrainDetail, error) {
	t, ok := f.s.trains[id]
	if !ok {
		return entity.TrainDetail{}, entity.ErrNotFound
	}
	return t, nil
}

func (f fakeTrains) Create(ctx context.Context, t entity.Train) (entity.Train, error) {
	t.ID = f.s.id()
	f.s.trains[t.ID] = entity.TrainDetail{
		Train:     t,
		TrainType: f.s.trainTypes[t.TrainTypeID],
	}
	return t, nil
}

func (f fakeTrains) Update(ctx context.Context, t entity.Train) error {
	if _, ok := f.s.trains[t.ID]; !ok {
		return entity.ErrNotFound
	}
	f.s.trains[t.ID] = entity.TrainDetail{
		Train:     t,
		TrainType: f.s.trainTypes[t.TrainTypeID],
	}
	return nil
}

func (f fakeTrains) SetImagePath(ctx context.Context, id int64, path string) error {
	t, ok := f.s.trains[id]
	if !ok {
		return entity.ErrNotFound
	}
	t.ImagePath = &path
	f.s.trains[id] = t
	return nil
}

type fakeCrews struct{ s *fakeStore }

func (f fakeCrews) List(ctx context.Context, page db.Page) ([]entity.Crew, int, error) {
	var crews []entity.Crew
	for _, c := range f.s.crews {
		crews = append(crews, c)
	}
	return crews, len(crews), nil
}

func (f fakeCrews) Get(ctx context.Context, id int64) (entity.Crew, error) {
	c, ok := f.s.crews[id]
	if !ok {
		return entity.Crew{}, entity.ErrNotFound
	}
	return c, nil
}

func (f fakeCrews) Create(ctx context.Context, c entity.Crew) (entity.Crew, error) {
	c.ID = f.s.id()
	f.s.crews[c.ID] = c
	return c, nil
}

func (f fakeCrews) Update(ctx context.Context, c entity.Crew) error {
	if _, ok := f.s.crews[c.ID]; !ok {
		return entity.ErrNotFound
	}
	f.s.crews[c.ID] = c
	return nil
}

type fakeStations struct{ s *fakeStore }

func (f fakeStations) List(ctx context.Context, page db.Page) ([]entity.Station, int, error) {
	f.s.lastPage = page
	var stations []entity.Station
	for _, st := range f.s.stations {
		stations = append(stations, st)
	}
	return stations, len(stations), nil
}

func (f fakeStations) Get(ctx context.Context, id int64) (entity.Station, error) {
	st, ok := f.s.stations[id]
	if !ok {
		return entity.Station{}, entity.ErrNotFound
	}
	return st, nil
}

func (f fakeStations) Create(ctx context.Context, st entity.Station) (entity.Station, error) {
	st.ID = f.s.id()
	f.s.stations[st.ID] = st
	return st, nil
}

func (f fakeStations) Update(ctx context.Context, st entity.Station) error {
	if _, ok := f.s.stations[st.ID]; !ok {
		return entity.ErrNotFound
	}
	f.s.stations[st.ID] = st
	return nil
}

func (f fakeStations) SetImagePath(ctx context.Context, id int64, path string) error {
	st, ok := f.s.stations[id]
	if !ok {
		return entity.ErrNotFound
	}
	st.ImagePath = &path
	f.s.stations[id] = st
	return nil
}

type fakeRoutes struct{ s *fakeStore }

func (f fakeRoutes) List(ctx context.Context, filter db.RouteFilter, page db.Page) ([]entity.RouteDetail, int, error) {
	f.s.lastRouteFilter = filter
	f.s.lastPage = page
	var routes []entity.RouteDetail
	for _, r := range f.s.routes {
		routes = append(routes, r)
	}
	return routes, len(routes), nil
}

func (f fakeRoutes) Get(ctx context.Context, id int64) (entity.RouteDetail, error) {
	r, ok := f.s.routes[id]
	if !ok {
		return entity.RouteDetail{}, entity.ErrNotFound
	}
	return r, nil
}

func (f fakeRoutes) Create(ctx context.Context, r entity.Route) (entity.Route, error) {
	r.ID = f.s.id()
	f.s.routes[r.ID] = entity.RouteDetail{
		Route:       r,
		Source:      f.s.stations[r.SourceID],
		Destination: f.s.stations[r.DestinationID],
	}
	return r, nil
}

func (f fakeRoutes) Update(ctx context.Context, r entity.Route) error {
	if _, ok := f.s.routes[r.ID]; !ok {
		return entity.ErrNotFound
	}
	f.s.routes[r.ID] = entity.RouteDetail{
		Route:       r,
		Source:      f.s.stations[r.SourceID],
		Destination: f.s.stations[r.DestinationID],
	}
	return nil
}

type fakeJourneys struct{ s *fakeStore }

func (f fakeJourneys) List(ctx context.Context, filter db.JourneyFilter, page db.Page) ([]entity.JourneyRow, int, error) {
	f.s.lastJourneyFilter = filter
	f.s.lastPage = page
	return f.s.journeyRows, len(f.s.journeyRows), nil
}

func (f fakeJourneys) Get(ctx context.Context, id int64) (entity.JourneyDetail, error) {
	j, ok := f.s.journeys[id]
	if !ok {
		return entity.JourneyDetail{}, entity.ErrNotFound
	}
	return j, nil
}

func (f fakeJourneys) Train(ctx context.Context, journeyID int64) (entity.Train, error) {
	j, ok := f.s.journeys[journeyID]
	if !ok {
		return entity.Train{}, entity.ErrNotFound
	}
	return j.Train.Train, nil
}

func (f fakeJourneys) Create(ctx context.Context, j entity.Journey) (entity.Journey, error) {
	j.ID = f.s.id()
	f.s.journeys[j.ID] = entity.JourneyDetail{Journey: j}
	return j, nil
}

func (f fakeJourneys) Update(ctx context.Context, j entity.Journey) error {
	if _, ok := f.s.journeys[j.ID]; !ok {
		return entity.ErrNotFound
	}
	detail := f.s.journeys[j.ID]
	detail.Journey = j
	f.s.journeys[j.ID] = detail
	return nil
}

type fakeOrders struct{ s *fakeStore }

func (f fakeOrders) Create(ctx context.Context, userID int64, requests []entity.TicketRequest) (entity.OrderWithTickets, error) {
	f.s.createdOrders = append(f.s.createdOrders, createdOrder{userID: userID, requests: requests})

	order := entity.OrderWithTickets{}
	order.ID = f.s.id()
	order.UserID = userID
	for _, req := range requests {
		order.Tickets = append(order.Tickets, entity.Ticket{
			ID:        f.s.id(),
			Cargo:     req.Cargo,
			Seat:      req.Seat,
			JourneyID: req.JourneyID,
			OrderID:   order.ID,
		})
	}
	f.s.orders[order.ID] = order
	return order, nil
}

func (f fakeOrders) List(ctx context.Context, userID int64, page db.Page) ([]entity.OrderWithTickets, int, error) {
	f.s.lastPage = page
	var orders []entity.OrderWithTickets
	for _, o := range f.s.orders {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	return orders, len(orders), nil
}

func (f fakeOrders) Get(ctx context.Context, userID, orderID int64) (entity.OrderWithTickets, error) {
	o, ok := f.s.orders[orderID]
	if !ok || o.UserID != userID {
		return entity.OrderWithTickets{}, entity.ErrNotFound
	}
	return o, nil
}

type fakeTickets struct{ s *fakeStore }

func (f fakeTickets) List(ctx context.Context, userID int64, page db.Page) ([]entity.Ticket, int, error) {
	var tickets []entity.Ticket
	for _, o := range f.s.orders {
		if o.UserID == userID {
			tickets = append(tickets, o.Tickets...)
		}
	}
	return tickets, len(tickets), nil
}

func (f fakeTickets) Get(ctx context.Context, userID, ticketID int64) (entity.Ticket, error) {
	for _, o := range f.s.orders {
		if o.UserID != userID {
			continue
		}
		for _, t := range o.Tickets {
			if t.ID == ticketID {
				return t, nil
			}
		}
	}
	return entity.Ticket{}, entity.ErrNotFound
}

func (f fakeTickets) CountForJourney(ctx context.Context, journeyID int64) (int, error) {
	count := 0
	for _, o := range f.s.orders {
		for _, t := range o.Tickets {
			if t.JourneyID == journeyID {
				count++
			}
		}
	}
	return count, nil
}

type fakeUsers struct{ s *fakeStore }

func (f fakeUsers) Create(ctx context.Context, u entity.User) (entity.User, error) {
	u.ID = f.s.id()
	f.s.users[u.ID] = u
	return u, nil
}

func (f fakeUsers) Get(ctx context.Context, id int64) (entity.User, error) {
	u, ok := f.s.users[id]
	if !ok {
		return entity.User{}, entity.ErrNotFound
	}
	return u, nil
}

func (f fakeUsers) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	for _, u := range f.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return entity.User{}, entity.ErrNotFound
}

func (f fakeUsers) Update(ctx context.Context, u entity.User) error {
	if _, ok := f.s.users[u.ID]; !ok {
		return entity.ErrNotFound
	}
	f.s.users[u.ID] = u
	return nil
}

type recordingMetrics struct {
	errors []string
}

func (m *recordingMetrics) ObserveBookingError(reason string) {
	m.errors = append(m.errors, reason)
}
