package http

import (
	"net/http"

	"station/db"
	"station/entity"

	"github.com/labstack/echo/v4"
)

type routeRequest struct {
	Source      int64 `json:"source"`
	Destination int64 `json:"destination"`
	Distance    int   `json:"distance"`
}

func (r routeRequest) validate() error {
	fe := entity.FieldErrors{}
	if r.Source < 1 {
		fe.Add("source", "This field is required.")
	}
	if r.Destination < 1 {
		fe.Add("destination", "This field is required.")
	}
	if r.Distance < 1 {
		fe.Add("distance", "Ensure this value is greater than or equal to 1.")
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

// ListRoutes supports ?source= and ?destination= case-insensitive substring
// filters on station names.
func (h handler) ListRoutes(c echo.Context) error {
	filter := db.RouteFilter{
		Source:      c.QueryParam("source"),
		Destination: c.QueryParam("destination"),
	}

	routes, total, err := h.routes.List(c.Request().Context(), filter, pageFrom(c, defaultPageSize))
	if err != nil {
		return domainError(err)
	}

	results := make([]any, 0, len(routes))
	for _, r := range routes {
		results = append(results, routeRender.list(r))
	}
	return c.JSON(http.StatusOK, paginated(total, results))
}

func (h handler) GetRoute(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	r, err := h.routes.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, routeRender.detail(r))
}

func (h handler) CreateRoute(c echo.Context) error {
	var request routeRequest
	if err := c.Bind(&request); err != nil {
		return bindError(err)
	}
	if err := request.validate(); err != nil {
		return domainError(err)
	}

	if _, err := h.stations.Get(c.Request().Context(), request.Source); err != nil {
		return domainError(invalidRef("source", request.Source, err))
	}
	if _, err := h.stations.Get(c.Request().Context(), request.Destination); err != nil {
		return domainError(invalidRef("destination", request.Destination, err))
	}

	r, err := h.routes.Create(c.Request().Context(), entity.Route{
		SourceID:      request.Source,
		DestinationID: request.Destination,
		Distance:      request.Distance,
	})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, routeRender.write(r))
}

func (h handler) UpdateRoute(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	existing, err := h.routes.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}

	var request routeRequest
	if err := c.Bind(&request); err != nil {
		return bindError(err)
	}

	r := existing.Route
	if request.Source > 0 {
		if _, err := h.stations.Get(c.Request().Context(), request.Source); err != nil {
			return domainError(invalidRef("source", request.Source, err))
		}
		r.SourceID = request.Source
	}
	if request.Destination > 0 {
		if _, err := h.stations.Get(c.Request().Context(), request.Destination); err != nil {
			return domainError(invalidRef("destination", request.Destination, err))
		}
		r.DestinationID = request.Destination
	}
	if request.Distance > 0 {
		r.Distance = request.Distance
	}

	if err := h.routes.Update(c.Request().Context(), r); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, routeRender.write(r))
}
