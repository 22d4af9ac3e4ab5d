package server

import (
	"errors"
	"net/http"

	"github.com/rezonia/invoice-generator/internal/layout"
	"github.com/rezonia/invoice-generator/internal/model"
)

// fieldErrors flattens every ValidationError found in err, joined or wrapped
func fieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []FieldError
		for _, e := range joined.Unwrap() {
			out = append(out, fieldErrors(e)...)
		}
		return out
	}
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return []FieldError{{Field: verr.Field, Rule: verr.Rule, Message: verr.Message}}
	}
	return nil
}

// errorResponse maps a pipeline error to a status and body
func errorResponse(err error) (int, ErrorResponse) {
	var incomplete *model.IncompleteInvoiceError
	if errors.As(err, &incomplete) {
		return http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "incomplete invoice",
			Details: err.Error(),
			Missing: incomplete.Missing,
		}
	}

	if fields := fieldErrors(err); len(fields) > 0 {
		return http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "invalid invoice",
			Details: err.Error(),
			Fields:  fields,
		}
	}

	if errors.Is(err, layout.ErrTooTall) {
		return http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "content does not fit on a page",
			Details: err.Error(),
		}
	}

	var missing *model.MissingTranslationError
	if errors.As(err, &missing) {
		return http.StatusInternalServerError, ErrorResponse{
			Error:   "translation missing",
			Details: err.Error(),
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Error:   "invoice generation failed",
		Details: err.Error(),
	}
}
