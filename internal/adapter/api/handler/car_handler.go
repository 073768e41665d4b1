package handler

import (
	"github.com/labstack/echo/v4"

	"carbazaar/internal/domain/entity"
	"carbazaar/internal/usecase"
	"carbazaar/pkg/errors"
	"carbazaar/pkg/response"
)

type CarHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewCarHandler(listingUseCase *usecase.ListingUseCase) *CarHandler {
	return &CarHandler{
		listingUseCase: listingUseCase,
	}
}

type searchCarsRequest struct {
	Filters []entity.Predicate `json:"filters"`
	Toggles map[string]bool    `json:"toggles"`
}

type myCarsRequest struct {
	CarsIDs []string `json:"carsIds"`
	UserID  string   `json:"userId"`
	List    string   `json:"list" validate:"omitempty,oneof=onSale sold bought liked"`
}

type postCarRequest struct {
	Brand         string   `json:"brand" validate:"required"`
	Model         string   `json:"model" validate:"required"`
	ModelYear     int64    `json:"modelYear" validate:"required"`
	ExceptedPrice int64    `json:"exceptedPrice" validate:"gt=0"`
	FuelType      string   `json:"fuelType" validate:"required,oneof=Petrol Diesel CNG EV Hybrid"`
	Transmission  string   `json:"transmission" validate:"required,oneof=Manual Automatic"`
	Km            int64    `json:"km" validate:"gte=0"`
	Location      string   `json:"location"`
	Images        []string `json:"images" validate:"required,min=1,max=7,dive,required"`
	Description   string   `json:"description"`
	PostedBy      string   `json:"postedBy" validate:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected sold"`
}

type postCarResponse struct {
	CarID string `json:"carId"`
}

// GetAllCars handles GET /cars.
func (h *CarHandler) GetAllCars(c echo.Context) error {
	page, err := h.listingUseCase.GetAllCars(c.Request().Context(), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, page.Data, page.Pagination)
}

// SearchCars handles POST /cars with structured filters and an optional search term.
func (h *CarHandler) SearchCars(c echo.Context) error {
	var req searchCarsRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	page, err := h.listingUseCase.SearchCars(c.Request().Context(), usecase.ListingQuery{
		Filters:    req.Filters,
		Toggles:    req.Toggles,
		SearchTerm: c.QueryParam("searchTerm"),
		Page:       queryInt(c, "page"),
		Limit:      queryInt(c, "limit"),
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, page.Data, page.Pagination)
}

func (h *CarHandler) GetCar(c echo.Context) error {
	car, err := h.listingUseCase.GetCar(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, car)
}

// GetMyCars resolves explicit ids, or one of a user's reference lists when
// userId and list are given.
func (h *CarHandler) GetMyCars(c echo.Context) error {
	var req myCarsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	var (
		cars []*entity.Listing
		err  error
	)
	if req.UserID != "" && req.List != "" {
		cars, err = h.listingUseCase.GetUserCars(c.Request().Context(), req.UserID, req.List)
	} else {
		cars, err = h.listingUseCase.GetCarsByIDs(c.Request().Context(), req.CarsIDs)
	}
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, cars)
}

func (h *CarHandler) PostCar(c echo.Context) error {
	var req postCarRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	id, err := h.listingUseCase.PostCar(c.Request().Context(), usecase.CreateListingInput{
		Brand:         req.Brand,
		Model:         req.Model,
		ModelYear:     req.ModelYear,
		ExceptedPrice: req.ExceptedPrice,
		FuelType:      entity.FuelType(req.FuelType),
		Transmission:  entity.Transmission(req.Transmission),
		Km:            req.Km,
		Location:      req.Location,
		Images:        req.Images,
		Description:   req.Description,
		PostedBy:      req.PostedBy,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, postCarResponse{CarID: id})
}

func (h *CarHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	car, err := h.listingUseCase.UpdateStatus(c.Request().Context(), c.Param("id"), entity.ListingStatus(req.Status))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, car)
}

// ModerationQueue handles GET /cars/admin?status=.
func (h *CarHandler) ModerationQueue(c echo.Context) error {
	status := c.QueryParam("status")
	if status == "" {
		status = string(entity.StatusPending)
	}

	page, err := h.listingUseCase.ModerationQueue(c.Request().Context(), entity.ListingStatus(status), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, page.Data, page.Pagination)
}

// UploadImages handles multipart uploads under the "images" field.
func (h *CarHandler) UploadImages(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return response.Error(c, errors.BadRequest("Expected a multipart form", err))
	}

	headers := form.File["images"]
	if len(headers) > usecase.MaxListingImages {
		return response.Error(c, errors.BadRequest("Upload between 1 and 7 images", nil))
	}

	files := make([]usecase.ImageUpload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return response.Error(c, errors.BadRequest("Failed to read upload", err))
		}
		defer f.Close()

		files = append(files, usecase.ImageUpload{
			Reader:      f,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
		})
	}

	urls, err := h.listingUseCase.UploadImages(c.Request().Context(), files)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, map[string][]string{"urls": urls})
}
