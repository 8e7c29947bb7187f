package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	appErrors "cosmetics-store-backend/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

func DecodeJSONBody(r *http.Request, dest any) error {

	body, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Error("Failed to read request body",
			slog.String("error", err.Error()),
			slog.String("endpoint", r.URL.Path),
		)

		return fmt.Errorf("failed to read request body: %w", err)
	}

	defer r.Body.Close()

	if len(body) == 0 {
		return errors.New("request body cannot be empty")
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("invalid JSON format: %w", err)
	}

	return nil
}

func ValidateStruct(validate *validator.Validate, data any) error {
	if err := validate.Struct(data); err != nil {

		var validationErrs validator.ValidationErrors

		if errors.As(err, &validationErrs) {
			return fmt.Errorf("validation error: %w", validationErrs)
		}

		return fmt.Errorf("unexpected validation error: %w", err)
	}

	return nil
}

// ParseID reads a UUID path value from the request.
func ParseID(r *http.Request, name string) (uuid.UUID, error) {

	raw := r.PathValue(name)
	if raw == "" {
		return uuid.Nil, appErrors.BadRequestError(fmt.Sprintf("Missing '%s' path parameter", name))
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, appErrors.BadRequestError(fmt.Sprintf("Invalid '%s': must be a valid UUID", name)).WithError(err)
	}

	return id, nil
}
