package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// strictJSONSerializer is echo's default serializer with unknown request
// fields rejected.
type strictJSONSerializer struct {
	echo.DefaultJSONSerializer
}

// NewJSONSerializer returns the serializer assigned to echo.Echo.JSONSerializer.
func NewJSONSerializer() echo.JSONSerializer {
	return strictJSONSerializer{}
}

func (strictJSONSerializer) Deserialize(c echo.Context, i any) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(i)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr):
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type)).SetInternal(err)
	case errors.As(err, &syntaxErr):
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)).SetInternal(err)
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
}
