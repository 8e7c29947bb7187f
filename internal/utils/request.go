package utils

import (
	"net/http"

	appErrors "cosmetics-store-backend/internal/errors"
	"cosmetics-store-backend/internal/utils/response"

	"github.com/go-playground/validator/v10"
)

// ParseAndValidate decodes the JSON body into dest and runs struct
// validation, writing the error response itself. Returns false when the
// handler should bail out.
func ParseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate) bool {

	if err := DecodeJSONBody(r, dest); err != nil {
		response.Error(w, appErrors.BadRequestError("Invalid request body").WithError(err))

		return false
	}

	if err := ValidateStruct(validate, dest); err != nil {
		response.Error(w, appErrors.ValidationError("Invalid input data").WithDetail(err.Error()))

		return false
	}

	return true
}
