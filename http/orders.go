package http

import (
	"errors"
	"net/http"

	"station/entity"

	"github.com/labstack/echo/v4"
)

const orderPageSize = 3

type orderRequest struct {
	Tickets []entity.TicketRequest `json:"tickets"`
}

// CreateOrder books a batch of tickets for the caller, all-or-nothing.
// Placements are checked here first so malformed requests fail as a 400
// before the transaction; the booking transaction re-runs the same shared
// check against the rows it reads.
func (h handler) CreateOrder(c echo.Context) error {
	identity := identityFrom(c)

	var request orderRequest
	if err := c.Bind(&request); err != nil {
		return bindError(err)
	}

	if len(request.Tickets) == 0 {
		fe := entity.FieldErrors{}
		fe.Add("tickets", "This list may not be empty.")
		h.metrics.ObserveBookingError("validation")
		return domainError(fe)
	}

	ctx := c.Request().Context()
	for i, req := range request.Tickets {
		train, err := h.journeys.Train(ctx, req.JourneyID)
		if errors.Is(err, entity.ErrNotFound) {
			fe := entity.FieldErrors{}
			fe.Add("journey", "Journey does not exist.")
			h.metrics.ObserveBookingError("validation")
			return domainError(entity.PrefixTicketErrors(i, fe))
		}
		if err != nil {
			return domainError(err)
		}

		if err := entity.ValidatePlacement(req.Cargo, req.Seat, train); err != nil {
			h.metrics.ObserveBookingError("validation")
			return domainError(entity.PrefixTicketErrors(i, err))
		}
	}

	order, err := h.orders.Create(ctx, identity.UserID, request.Tickets)
	if err != nil {
		if _, ok := entity.AsFieldErrors(err); ok {
			h.metrics.ObserveBookingError("conflict")
		} else {
			h.metrics.ObserveBookingError("storage")
		}
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, renderOrder(order))
}

func (h handler) ListOrders(c echo.Context) error {
	identity := identityFrom(c)

	orders, total, err := h.orders.List(c.Request().Context(), identity.UserID, pageFrom(c, orderPageSize))
	if err != nil {
		return domainError(err)
	}

	results := make([]any, 0, len(orders))
	for _, o := range orders {
		results = append(results, renderOrder(o))
	}
	return c.JSON(http.StatusOK, paginated(total, results))
}

func (h handler) GetOrder(c echo.Context) error {
	identity := identityFrom(c)

	id, err := idParam(c)
	if err != nil {
		return err
	}
	order, err := h.orders.Get(c.Request().Context(), identity.UserID, id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, renderOrder(order))
}

func (h handler) ListTickets(c echo.Context) error {
	identity := identityFrom(c)

	tickets, total, err := h.tickets.List(c.Request().Context(), identity.UserID, pageFrom(c, defaultPageSize))
	if err != nil {
		return domainError(err)
	}
	if tickets == nil {
		tickets = []entity.Ticket{}
	}
	return c.JSON(http.StatusOK, paginated(total, tickets))
}

func (h handler) GetTicket(c echo.Context) error {
	identity := identityFrom(c)

	id, err := idParam(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.Get(c.Request().Context(), identity.UserID, id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, ticket)
}
