package http

import (
	"net/http"
	"time"

	"station/db"
	"station/entity"

	"github.com/labstack/echo/v4"
)

type journeyRequest struct {
	Route         int64      `json:"route"`
	Train         int64      `json:"train"`
	DepartureTime *time.Time `json:"departure_time"`
	ArrivalTime   *time.Time `json:"arrival_time"`
	Crews         []int64    `json:"crews"`
}

func (r journeyRequest) validate() error {
	fe := entity.FieldErrors{}
	if r.Route < 1 {
		fe.Add("route", "This field is required.")
	}
	if r.Train < 1 {
		fe.Add("train", "This field is required.")
	}
	if r.DepartureTime == nil {
		fe.Add("departure_time", "This field is required.")
	}
	if r.ArrivalTime == nil {
		fe.Add("arrival_time", "This field is required.")
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

// ListJourneys supports ?date= (calendar date of departure), ?from= and
// ?to= (case-insensitive substring on route station names). Every row
// carries tickets_available computed over the ticket count at query time.
func (h handler) ListJourneys(c echo.Context) error {
	filter := db.JourneyFilter{
		Date: c.QueryParam("date"),
		From: c.QueryParam("from"),
		To:   c.QueryParam("to"),
	}
	if filter.Date != "" {
		if _, err := time.Parse("2006-01-02", filter.Date); err != nil {
			return badRequest("date must be formatted as YYYY-MM-DD")
		}
	}

	journeys, total, err := h.journeys.List(c.Request().Context(), filter, pageFrom(c, defaultPageSize))
	if err != nil {
		return domainError(err)
	}

	results := make([]any, 0, len(journeys))
	for _, j := range journeys {
		results = append(results, journeyRender.list(j))
	}
	return c.JSON(http.StatusOK, paginated(total, results))
}

func (h handler) GetJourney(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	j, err := h.journeys.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}

	sold, err := h.tickets.CountForJourney(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	j.TicketsAvailable = j.Train.Capacity() - sold

	return c.JSON(http.StatusOK, journeyRender.detail(j))
}

func (h handler) CreateJourney(c echo.Context) error {
	var request journeyRequest
	if err := c.Bind(&request); err != nil {
		return bindError(err)
	}
	if err := request.validate(); err != nil {
		return domainError(err)
	}
	if err := h.checkJourneyRefs(c, request); err != nil {
		return err
	}

	j, err := h.journeys.Create(c.Request().Context(), entity.Journey{
		RouteID:       request.Route,
		TrainID:       request.Train,
		DepartureTime: *request.DepartureTime,
		ArrivalTime:   *request.ArrivalTime,
		CrewIDs:       request.Crews,
	})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, journeyRender.write(j))
}

func (h handler) UpdateJourney(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	existing, err := h.journeys.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}

	var request journeyRequest
	if err := c.Bind(&request); err != nil {
		return bindError(err)
	}

	j := existing.Journey
	if request.Route > 0 {
		j.RouteID = request.Route
	}
	if request.Train > 0 {
		j.TrainID = request.Train
	}
	if request.DepartureTime != nil {
		j.DepartureTime = *request.DepartureTime
	}
	if request.ArrivalTime != nil {
		j.ArrivalTime = *request.ArrivalTime
	}
	if request.Crews != nil {
		j.CrewIDs = request.Crews
	}
	if err := h.checkJourneyRefs(c, journeyRequest{
		Route: j.RouteID,
		Train: j.TrainID,
		Crews: j.CrewIDs,
	}); err != nil {
		return err
	}

	if err := h.journeys.Update(c.Request().Context(), j); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, journeyRender.write(j))
}

func (h handler) checkJourneyRefs(c echo.Context, request journeyRequest) error {
	ctx := c.Request().Context()
	if _, err := h.routes.Get(ctx, request.Route); err != nil {
		return domainError(invalidRef("route", request.Route, err))
	}
	if _, err := h.trains.Get(ctx, request.Train); err != nil {
		return domainError(invalidRef("train", request.Train, err))
	}
	for _, crewID := range request.Crews {
		if _, err := h.crews.Get(ctx, crewID); err != nil {
			return domainError(invalidRef("crews", crewID, err))
		}
	}
	return nil
}
