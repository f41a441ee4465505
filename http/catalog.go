package http

import (
	"net/http"
	"strconv"

	"station/entity"

	"github.com/labstack/echo/v4"
)

const defaultPageSize = 30

func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, domainError(entity.ErrNotFound)
	}
	return id, nil
}

type trainTypeRequest struct {
	Name string `json:"name"`
}

func (r trainTypeRequest) validate() error {
	fe := entity.FieldErrors{}
	if r.Name == "" {
		fe.Add("name", "This field is required.")
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

func (h handler) ListTrainTypes(c echo.Context) error {
	types, total, err := h.trainTypes.List(c.Request().Context(), pageFrom(c, defaultPageSize))
	if err != nil {
		return domainError(err)
	}
	if types == nil {
		types = []entity.TrainType{}
	}
	return c.JSON(http.StatusOK, paginated(total, types))
}

func (h handler) GetTrainType(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	t, err := h.trainTypes.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h handler) CreateTrainType(c echo.Context) error {
	var request trainTypeRequest
	if err := c.Bind(&request); err != nil {
		return bindError(err)
	}
	if err := request.validate(); err != nil {
		return domainError(err)
	}

	t, err := h.trainTypes.Create(c.Request().Context(), entity.TrainType{Name: request.Name})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h handler) UpdateTrainType(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	t, err := h.trainTypes.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}

	var request trainTypeRequest
	if err := c.Bind(&request); err != nil {
		return bindError(err)
	}
	if request.Name != "" {
		t.Name = request.Name
	}

	if err := h.trainTypes.Update(c.Request().Context(), t); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, t)
}

type crewRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (r crewRequest) validate() error {
	fe := entity.FieldErrors{}
	if r.FirstName == "" {
		fe.Add("first_name", "This field is required.")
	}
	if r.LastName == "" {
		fe.Add("last_name", "This field is required.")
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

func (h handler) ListCrews(c echo.Context) error {
	crews, total, err := h.crews.List(c.Request().Context(), pageFrom(c, defaultPageSize))
	if err != nil {
		return domainError(err)
	}

	results := make([]any, 0, len(crews))
	for _, crew := range crews {
		results = append(results, crewRender.list(crew))
	}
	return c.JSON(http.StatusOK, paginated(total, results))
}

func (h handler) GetCrew(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	crew, err := h.crews.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, crewRender.detail(crew))
}

func (h handler) CreateCrew(c echo.Context) error {
	var request crewRequest
	if err := c.Bind(&request); err != nil {
		return bindError(err)
	}
	if err := request.validate(); err != nil {
		return domainError(err)
	}

	crew, err := h.crews.Create(c.Request().Context(), entity.Crew{
		FirstName: request.FirstName,
		LastName:  request.LastName,
	})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, crewRender.detail(crew))
}

func (h handler) UpdateCrew(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	crew, err := h.crews.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}

	var request crewRequest
	if err := c.Bind(&request); err != nil {
		return bindError(err)
	}
	if request.FirstName != "" {
		crew.FirstName = request.FirstName
	}
	if request.LastName != "" {
		crew.LastName = request.LastName
	}

	if err := h.crews.Update(c.Request().Context(), crew); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, crewRender.detail(crew))
}

type stationRequest struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r stationRequest) validate() error {
	fe := entity.FieldErrors{}
	if r.Name == "" {
		fe.Add("name", "This field is required.")
	}
	if r.Latitude == nil {
		fe.Add("latitude", "This field is required.")
	}
	if r.Longitude == nil {
		fe.Add("longitude", "This field is required.")
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

func (h handler) ListStations(c echo.Context) error {
	stations, total, err := h.stations.List(c.Request().Context(), pageFrom(c, defaultPageSize))
	if err != nil {
		return domainError(err)
	}
	if stations == nil {
		stations = []entity.Station{}
	}
	return c.JSON(http.StatusOK, paginated(total, stations))
}

func (h handler) GetStation(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	s, err := h.stations.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h handler) CreateStation(c echo.Context) error {
	var request stationRequest
	if err := c.Bind(&request); err != nil {
		return bindError(err)
	}
	if err := request.validate(); err != nil {
		return domainError(err)
	}

	s, err := h.stations.Create(c.Request().Context(), entity.Station{
		Name:      request.Name,
		Latitude:  *request.Latitude,
		Longitude: *request.Longitude,
	})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, s)
}

func (h handler) UpdateStation(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	s, err := h.stations.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}

	var request stationRequest
	if err := c.Bind(&request); err != nil {
		return bindError(err)
	}
	if request.Name != "" {
		s.Name = request.Name
	}
	if request.Latitude != nil {
		s.Latitude = *request.Latitude
	}
	if request.Longitude != nil {
		s.Longitude = *request.Longitude
	}

	if err := h.stations.Update(c.Request().Context(), s); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h handler) UploadStationImage(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if _, err := h.stations.Get(c.Request().Context(), id); err != nil {
		return domainError(err)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return badRequest("image file is required")
	}

	path, err := h.media.Save("station", id, fileHeader)
	if err != nil {
		return domainError(err)
	}
	if err := h.stations.SetImagePath(c.Request().Context(), id, path); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{"id": id, "image": path})
}
