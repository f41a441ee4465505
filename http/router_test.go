package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"station/db"
	"station/entity"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "station/http"
)

type testServer struct {
	echo    *echo.Echo
	store   *fakeStore
	auth    *httpapi.Auth
	metrics *recordingMetrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := newFakeStore()
	auth := httpapi.NewAuth([]byte("test-secret"), time.Hour)
	metrics := &recordingMetrics{}

	media, err := httpapi.NewMediaStore(t.TempDir())
	require.NoError(t, err)

	server := httpapi.NewRouter(httpapi.RouterDeps{
		TrainTypes: store,
		Trains:     fakeTrains{store},
		Crews:      fakeCrews{store},
		Stations:   fakeStations{store},
		Routes:     fakeRoutes{store},
		Journeys:   fakeJourneys{store},
		Orders:     fakeOrders{store},
		Tickets:    fakeTickets{store},
		Users:      fakeUsers{store},
		Auth:       auth,
		Media:      media,
		Metrics:    metrics,
	})

	return &testServer{echo: server, store: store, auth: auth, metrics: metrics}
}

func (s *testServer) tokenFor(t *testing.T, userID int64, isStaff bool) string {
	t.Helper()
	token, err := s.auth.IssueToken(httpapi.Identity{UserID: userID, IsStaff: isStaff})
	require.NoError(t, err)
	return token
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decodeFieldErrors(t *testing.T, body []byte) map[string][]string {
	t.Helper()
	var payload map[string][]string
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/train-type", "/train", "/crew", "/station", "/route", "/journey", "/order", "/ticket"} {
		rec := s.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := s.do(http.MethodGet, "/train", "", "")
	var payload struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "Authentication credentials were not provided.", payload.Detail)
}

func TestAuthRejectsBadToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/train", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	otherAuth := httpapi.NewAuth([]byte("different-secret"), time.Hour)
	forged, err := otherAuth.IssueToken(httpapi.Identity{UserID: 1, IsStaff: true})
	require.NoError(t, err)

	rec = s.do(http.MethodGet, "/train", forged, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCatalogWritesRequireStaff(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, 1, false)

	writes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/train-type"},
		{http.MethodPost, "/train"},
		{http.MethodPut, "/train/1"},
		{http.MethodPost, "/crew"},
		{http.MethodPost, "/station"},
		{http.MethodPost, "/route"},
		{http.MethodPost, "/journey"},
		{http.MethodPatch, "/journey/1"},
	}
	for _, w := range writes {
		rec := s.do(w.method, w.path, token, `{}`)
		assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s", w.method, w.path)
	}
}

func TestNonStaffCanRead(t *testing.T) {
	s := newTestServer(t)
	s.store.trainTypes[1] = entity.TrainType{ID: 1, Name: "Intercity"}
	token := s.tokenFor(t, 1, false)

	rec := s.do(http.MethodGet, "/train-type", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Count   int                `json:"count"`
		Results []entity.TrainType `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Count)
	require.Len(t, envelope.Results, 1)
	assert.Equal(t, "Intercity", envelope.Results[0].Name)
}

func TestStaffCreatesTrain(t *testing.T) {
	s := newTestServer(t)
	s.store.trainTypes[1] = entity.TrainType{ID: 1, Name: "Intercity"}
	token := s.tokenFor(t, 1, true)

	rec := s.do(http.MethodPost, "/train", token, `{
		"name": "Kyiv Express",
		"cargo_num": 10,
		"places_in_cargo": 50,
		"train_type": 1
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID            int64  `json:"id"`
		Name          string `json:"name"`
		CargoNum      int    `json:"cargo_num"`
		PlacesInCargo int    `json:"places_in_cargo"`
		TrainType     int64  `json:"train_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Kyiv Express", created.Name)
	assert.Equal(t, 10, created.CargoNum)
	assert.Equal(t, 50, created.PlacesInCargo)
	assert.Equal(t, int64(1), created.TrainType)

	stored, ok := s.store.trains[created.ID]
	require.True(t, ok)
	assert.Equal(t, "Kyiv Express", stored.Name)
}

func TestCreateTrainValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, 1, true)

	rec := s.do(http.MethodPost, "/train", token, `{"cargo_num": 0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	fieldErrors := decodeFieldErrors(t, rec.Body.Bytes())
	assert.Contains(t, fieldErrors, "name")
	assert.Contains(t, fieldErrors, "cargo_num")
	assert.Contains(t, fieldErrors, "train_type")
}

func TestCreateTrainUnknownType(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, 1, true)

	rec := s.do(http.MethodPost, "/train", token, `{
		"name": "Ghost",
		"cargo_num": 1,
		"places_in_cargo": 1,
		"train_type": 99
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	fieldErrors := decodeFieldErrors(t, rec.Body.Bytes())
	assert.Equal(t, []string{`Invalid pk "99" - object does not exist.`}, fieldErrors["train_type"])
}

func TestCreateJourneyUnknownRefs(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, 1, true)

	rec := s.do(http.MethodPost, "/journey", token, `{
		"route": 5,
		"train": 6,
		"departure_time": "2024-07-10T09:15:00Z",
		"arrival_time": "2024-07-10T17:15:00Z"
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	fieldErrors := decodeFieldErrors(t, rec.Body.Bytes())
	assert.Equal(t, []string{`Invalid pk "5" - object does not exist.`}, fieldErrors["route"])
}

func TestDeleteNotAllowed(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, 1, true)

	for _, path := range []string{"/train-type/1", "/train/1", "/station/1", "/journey/1", "/order/1"} {
		rec := s.do(http.MethodDelete, path, token, "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, path)

		var payload struct {
			Detail string `json:"detail"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload), path)
		assert.Equal(t, "Method Not Allowed", payload.Detail, path)
	}
}

func TestGetMissingResource(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, 1, false)

	rec := s.do(http.MethodGet, "/train/42", token, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	// A single well-formed JSON document with the not-found detail.
	var payload struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "Not found.", payload.Detail)

	rec = s.do(http.MethodGet, "/train/not-a-number", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func seedJourney(s *testServer, cargoNum, placesInCargo int) int64 {
	train := entity.Train{ID: 100, Name: "Night Express", CargoNum: cargoNum, PlacesInCargo: placesInCargo, TrainTypeID: 1}
	s.store.journeys[7] = entity.JourneyDetail{
		Journey: entity.Journey{ID: 7, RouteID: 1, TrainID: train.ID},
		Train:   entity.TrainDetail{Train: train},
	}
	return 7
}

func TestCreateOrder(t *testing.T) {
	s := newTestServer(t)
	journeyID := seedJourney(s, 10, 50)
	token := s.tokenFor(t, 42, false)

	rec := s.do(http.MethodPost, "/order", token, `{
		"tickets": [
			{"cargo": 1, "seat": 1, "journey": 7},
			{"cargo": 2, "seat": 10, "journey": 7}
		]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID      int64 `json:"id"`
		Tickets []struct {
			Cargo   int   `json:"cargo"`
			Seat    int   `json:"seat"`
			Journey int64 `json:"journey"`
		} `json:"tickets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Len(t, created.Tickets, 2)
	assert.Equal(t, journeyID, created.Tickets[0].Journey)

	require.Len(t, s.store.createdOrders, 1)
	assert.Equal(t, int64(42), s.store.createdOrders[0].userID)
	assert.Len(t, s.store.createdOrders[0].requests, 2)
	assert.Empty(t, s.metrics.errors)
}

func TestCreateOrderEmptyTickets(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, 42, false)

	rec := s.do(http.MethodPost, "/order", token, `{"tickets": []}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	fieldErrors := decodeFieldErrors(t, rec.Body.Bytes())
	assert.Equal(t, []string{"This list may not be empty."}, fieldErrors["tickets"])
	assert.Empty(t, s.store.createdOrders)
	assert.Equal(t, []string{"validation"}, s.metrics.errors)
}

func TestCreateOrderPlacementOutOfRange(t *testing.T) {
	s := newTestServer(t)
	seedJourney(s, 2, 4)
	token := s.tokenFor(t, 42, false)

	rec := s.do(http.MethodPost, "/order", token, `{
		"tickets": [
			{"cargo": 1, "seat": 1, "journey": 7},
			{"cargo": 3, "seat": 9, "journey": 7}
		]
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	fieldErrors := decodeFieldErrors(t, rec.Body.Bytes())
	assert.Equal(t, []string{"Cargo must be between [1, 2]. Not 3"}, fieldErrors["tickets[1].cargo"])
	assert.Equal(t, []string{"Seat must be between [1, 4]. Not 9"}, fieldErrors["tickets[1].seat"])
	assert.Empty(t, s.store.createdOrders)
	assert.Equal(t, []string{"validation"}, s.metrics.errors)
}

func TestCreateOrderUnknownJourney(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, 42, false)

	rec := s.do(http.MethodPost, "/order", token, `{
		"tickets": [{"cargo": 1, "seat": 1, "journey": 999}]
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	fieldErrors := decodeFieldErrors(t, rec.Body.Bytes())
	assert.Equal(t, []string{"Journey does not exist."}, fieldErrors["tickets[0].journey"])
	assert.Empty(t, s.store.createdOrders)
}

func TestOrdersScopedToCaller(t *testing.T) {
	s := newTestServer(t)
	seedJourney(s, 10, 50)

	aliceToken := s.tokenFor(t, 1, false)
	bobToken := s.tokenFor(t, 2, false)

	rec := s.do(http.MethodPost, "/order", aliceToken, `{
		"tickets": [{"cargo": 1, "seat": 1, "journey": 7}]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = s.do(http.MethodGet, "/order", bobToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 0, envelope.Count)

	orderPath := "/order/" + strconv.FormatInt(created.ID, 10)
	rec = s.do(http.MethodGet, orderPath, bobToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, orderPath, aliceToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPaginationParams(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, 1, false)

	rec := s.do(http.MethodGet, "/station?page=3&page_size=5", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, db.Page{Limit: 5, Offset: 10}, s.store.lastPage)
}

func TestRouteFilters(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, 1, false)

	rec := s.do(http.MethodGet, "/route?source=lisich&destination=kyiv", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "lisich", s.store.lastRouteFilter.Source)
	assert.Equal(t, "kyiv", s.store.lastRouteFilter.Destination)
}

func TestJourneyFilters(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, 1, false)

	rec := s.do(http.MethodGet, "/journey?date=2022-04-14&from=lis&to=kyiv", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2022-04-14", s.store.lastJourneyFilter.Date)
	assert.Equal(t, "lis", s.store.lastJourneyFilter.From)
	assert.Equal(t, "kyiv", s.store.lastJourneyFilter.To)

	rec = s.do(http.MethodGet, "/journey?date=14-04-2022", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJourneyListRendering(t *testing.T) {
	s := newTestServer(t)
	departure := time.Date(2022, 4, 14, 23, 30, 0, 0, time.UTC)
	s.store.journeyRows = []entity.JourneyRow{{
		ID:               7,
		TrainName:        "Night Express",
		RouteFrom:        "Lisichansk",
		RouteTo:          "Kyiv",
		DepartureTime:    departure,
		ArrivalTime:      departure.Add(8 * time.Hour),
		TicketsAvailable: 598,
		CrewNames:        []string{"Olena Shevchenko"},
	}}
	token := s.tokenFor(t, 1, false)

	rec := s.do(http.MethodGet, "/journey", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Count   int `json:"count"`
		Results []struct {
			ID               int64    `json:"id"`
			TrainName        string   `json:"train_name"`
			RouteFrom        string   `json:"route_from"`
			RouteTo          string   `json:"route_to"`
			TicketsAvailable int      `json:"tickets_available"`
			Crews            []string `json:"crews"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Results, 1)
	assert.Equal(t, "Lisichansk", envelope.Results[0].RouteFrom)
	assert.Equal(t, "Kyiv", envelope.Results[0].RouteTo)
	assert.Equal(t, "Night Express", envelope.Results[0].TrainName)
	assert.Equal(t, 598, envelope.Results[0].TicketsAvailable)
	assert.Equal(t, []string{"Olena Shevchenko"}, envelope.Results[0].Crews)
}

func TestJourneyDetailAvailability(t *testing.T) {
	s := newTestServer(t)
	seedJourney(s, 10, 50)
	token := s.tokenFor(t, 1, false)

	rec := s.do(http.MethodPost, "/order", token, `{
		"tickets": [
			{"cargo": 1, "seat": 1, "journey": 7},
			{"cargo": 1, "seat": 2, "journey": 7}
		]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodGet, "/journey/7", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var detail struct {
		TicketsAvailable int `json:"tickets_available"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, 498, detail.TicketsAvailable) // 10*50 - 2
}

func TestUserLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/user", "", `{"email": "alice@example.com", "password": "sekret"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created entity.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "alice@example.com", created.Email)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = s.do(http.MethodPost, "/token", "", `{"email": "alice@example.com", "password": "sekret"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var tokenResponse struct {
		Access string `json:"access"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokenResponse))
	require.NotEmpty(t, tokenResponse.Access)

	rec = s.do(http.MethodGet, "/user/me", tokenResponse.Access, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var me entity.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, created.ID, me.ID)
}

func TestCreateTokenBadCredentials(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/user", "", `{"email": "alice@example.com", "password": "sekret"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodPost, "/token", "", `{"email": "alice@example.com", "password": "wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/token", "", `{"email": "nobody@example.com", "password": "sekret"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateUserValidation(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/user", "", `{"email": "", "password": "abc"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	fieldErrors := decodeFieldErrors(t, rec.Body.Bytes())
	assert.Contains(t, fieldErrors, "email")
	assert.Contains(t, fieldErrors, "password")
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
