// Package domain defines domain-level errors for the scorecard feature.
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential indicates that no API key was found in the secrets file or the environment.
	// This is a configuration error and stops the process before any model call.
	ErrMissingCredential = errors.New("api key is not configured")

	// ErrModelListing indicates that the external model listing call failed.
	// The session is halted and the listing is not retried.
	ErrModelListing = errors.New("model listing failed")

	// ErrNoModels indicates that the listing returned no model supporting content generation.
	ErrNoModels = errors.New("no model supports content generation")

	// ErrSessionHalted is returned for uploads on a session whose model listing failed.
	ErrSessionHalted = errors.New("session halted")

	// ErrUnknownModel is returned when a model override is not part of the session catalog.
	ErrUnknownModel = errors.New("model is not in the catalog")

	// ErrInvocation indicates that the analysis call to the external model failed.
	ErrInvocation = errors.New("model invocation failed")

	// ErrNormalization indicates that the model reply could not be parsed as a JSON object.
	ErrNormalization = errors.New("model reply is not valid JSON")

	// ErrEmptyDocument is returned when the uploaded document has no content.
	ErrEmptyDocument = errors.New("document is empty")

	// ErrDocumentTooLarge is returned when the uploaded document exceeds the size limit.
	ErrDocumentTooLarge = errors.New("document exceeds maximum size")

	// ErrNotPDF is returned when the uploaded document does not carry a PDF header.
	ErrNotPDF = errors.New("document is not a PDF")

	// ErrSessionBusy is returned when the session already has an upload in progress.
	ErrSessionBusy = errors.New("an analysis is already in progress for this session")
)

// NormalizationError carries the raw reply of a model response that failed to parse,
// so that it can be shown to the user for manual inspection.
type NormalizationError struct {
	Raw   string
	Cause error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("%v: %v", ErrNormalization, e.Cause)
}

// Unwrap lets errors.Is match both ErrNormalization and the underlying cause.
func (e *NormalizationError) Unwrap() []error {
	return []error{ErrNormalization, e.Cause}
}
