package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// queryInt reads an integer query parameter, returning 0 when it is absent
// or malformed. Pagination defaults are applied by the usecases.
func queryInt(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return v
}

// bindAndValidate binds the request into req and runs its validate tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}
