package http

import (
	"net/http"

	"station/entity"

	"github.com/labstack/echo/v4"
)

type trainRequest struct {
	Name          string `json:"name"`
	CargoNum      int    `json:"cargo_num"`
	PlacesInCargo int    `json:"places_in_cargo"`
	TrainType     int64  `json:"train_type"`
}

func (r trainRequest) validate() error {
	fe := entity.FieldErrors{}
	if r.Name == "" {
		fe.Add("name", "This field is required.")
	}
	if r.CargoNum < 1 {
		fe.Add("cargo_num", "Ensure this value is greater than or equal to 1.")
	}
	if r.PlacesInCargo < 1 {
		fe.Add("places_in_cargo", "Ensure this value is greater than or equal to 1.")
	}
	if r.TrainType < 1 {
		fe.Add("train_type", "This field is required.")
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

func (h handler) ListTrains(c echo.Context) error {
	trains, total, err := h.trains.List(c.Request().Context(), pageFrom(c, defaultPageSize))
	if err != nil {
		return domainError(err)
	}

	results := make([]any, 0, len(trains))
	for _, t := range trains {
		results = append(results, trainRender.list(t))
	}
	return c.JSON(http.StatusOK, paginated(total, results))
}

func (h handler) GetTrain(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	t, err := h.trains.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, trainRender.detail(t))
}

func (h handler) CreateTrain(c echo.Context) error {
	var request trainRequest
	if err := c.Bind(&request); err != nil {
		return bindError(err)
	}
	if err := request.validate(); err != nil {
		return domainError(err)
	}

	if _, err := h.trainTypes.Get(c.Request().Context(), request.TrainType); err != nil {
		return domainError(invalidRef("train_type", request.TrainType, err))
	}

	t, err := h.trains.Create(c.Request().Context(), entity.Train{
		Name:          request.Name,
		CargoNum:      request.CargoNum,
		PlacesInCargo: request.PlacesInCargo,
		TrainTypeID:   request.TrainType,
	})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, trainRender.write(t))
}

func (h handler) UpdateTrain(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	existing, err := h.trains.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}

	var request trainRequest
	if err := c.Bind(&request); err != nil {
		return bindError(err)
	}

	t := existing.Train
	if request.Name != "" {
		t.Name = request.Name
	}
	if request.CargoNum > 0 {
		t.CargoNum = request.CargoNum
	}
	if request.PlacesInCargo > 0 {
		t.PlacesInCargo = request.PlacesInCargo
	}
	if request.TrainType > 0 {
		if _, err := h.trainTypes.Get(c.Request().Context(), request.TrainType); err != nil {
			return domainError(invalidRef("train_type", request.TrainType, err))
		}
		t.TrainTypeID = request.TrainType
	}

	if err := h.trains.Update(c.Request().Context(), t); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, trainRender.write(t))
}

func (h handler) UploadTrainImage(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if _, err := h.trains.Get(c.Request().Context(), id); err != nil {
		return domainError(err)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return badRequest("image file is required")
	}

	path, err := h.media.Save("train", id, fileHeader)
	if err != nil {
		return domainError(err)
	}
	if err := h.trains.SetImagePath(c.Request().Context(), id, path); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{"id": id, "image": path})
}
