package domain

import (
	"errors"
	"net/http"
)

// HTTPStatus maps an error returned by the generator to an HTTP status code.
// Unrecognized errors map to 500.
func HTTPStatus(err error) int {
	var notFound *NotFoundError
	var validation *ValidationError
	var contract *ContractViolationError
	var missing *MandatoryFieldMissingError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &missing):
		return http.StatusUnprocessableEntity
	case errors.As(err, &validation), errors.As(err, &contract):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
