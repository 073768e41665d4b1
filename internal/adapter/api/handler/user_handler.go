package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"carbazaar/internal/domain/entity"
	"carbazaar/internal/usecase"
	"carbazaar/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type signupRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required,min=6,max=20"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
}

type updateUserRequest struct {
	ID      string `json:"id" validate:"required"`
	Name    string `json:"name"`
	Phone   string `json:"phone" validate:"omitempty,min=6,max=20"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
}

type isExistsResponse struct {
	Success  bool         `json:"success"`
	IsExists bool         `json:"isExists"`
	Data     *entity.User `json:"data,omitempty"`
}

// IsExists handles GET /users/isExists?phone=.
func (h *UserHandler) IsExists(c echo.Context) error {
	exists, user, err := h.userUseCase.IsExists(c.Request().Context(), c.QueryParam("phone"))
	if err != nil {
		return response.Error(c, err)
	}
	return c.JSON(http.StatusOK, isExistsResponse{Success: true, IsExists: exists, Data: user})
}

func (h *UserHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.Signup(c.Request().Context(), usecase.ProfileInput(req))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, user)
}

func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.Update(c.Request().Context(), usecase.ProfileInput(req))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userUseCase.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *UserHandler) LikeCar(c echo.Context) error {
	user, err := h.userUseCase.LikeCar(c.Request().Context(), c.Param("id"), c.Param("carId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *UserHandler) UnlikeCar(c echo.Context) error {
	user, err := h.userUseCase.UnlikeCar(c.Request().Context(), c.Param("id"), c.Param("carId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}
