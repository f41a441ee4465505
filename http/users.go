package http

import (
	"net/http"

	"station/entity"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

type userRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r userRequest) validate() error {
	fe := entity.FieldErrors{}
	if r.Email == "" {
		fe.Add("email", "This field is required.")
	}
	if len(r.Password) < 5 {
		fe.Add("password", "Ensure this field has at least 5 characters.")
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

func (h handler) CreateUser(c echo.Context) error {
	var request userRequest
	if err := c.Bind(&request); err != nil {
		return bindError(err)
	}
	if err := request.validate(); err != nil {
		return domainError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return domainError(err)
	}

	user, err := h.users.Create(c.Request().Context(), entity.User{
		Email:        request.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, user)
}

func (h handler) CreateToken(c echo.Context) error {
	var request userRequest
	if err := c.Bind(&request); err != nil {
		return bindError(err)
	}

	user, err := h.users.GetByEmail(c.Request().Context(), request.Email)
	if err != nil {
		return unauthorized("No active account found with the given credentials.")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)) != nil {
		return unauthorized("No active account found with the given credentials.")
	}

	token, err := h.auth.IssueToken(Identity{UserID: user.ID, IsStaff: user.IsStaff})
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"access": token})
}

func (h handler) GetMe(c echo.Context) error {
	identity := identityFrom(c)

	user, err := h.users.Get(c.Request().Context(), identity.UserID)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, user)
}

func (h handler) UpdateMe(c echo.Context) error {
	identity := identityFrom(c)

	user, err := h.users.Get(c.Request().Context(), identity.UserID)
	if err != nil {
		return domainError(err)
	}

	var request userRequest
	if err := c.Bind(&request); err != nil {
		return bindError(err)
	}

	if request.Email != "" {
		user.Email = request.Email
	}
	if request.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
		if err != nil {
			return domainError(err)
		}
		user.PasswordHash = string(hash)
	}

	if err := h.users.Update(c.Request().Context(), user); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, user)
}
