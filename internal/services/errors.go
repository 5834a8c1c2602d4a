// Package services defines the business logic for projects, chat sessions,
// the design assistant, the style quiz, and the material catalog. This file
// centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

var (
	// ErrProjectNotFound indicates that the referenced project does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrSessionNotFound indicates that the referenced chat session does not
	// exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrMaterialNotFound indicates that the referenced catalog entry does
	// not exist.
	ErrMaterialNotFound = errors.New("material not found")

	// ErrEmptyPrompt is returned when a message request contains an empty
	// prompt.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrEmptyName is returned when a project is created without a name.
	ErrEmptyName = errors.New("name is empty")

	// ErrInvalidBudget is returned when a budget query carries a non-positive
	// total budget or floor area.
	ErrInvalidBudget = errors.New("invalid budget parameters")

	// ErrTooLong is returned when a prompt exceeds the configured maximum
	// length limit.
	ErrTooLong = errors.New("prompt too long")

	// ErrInvalidQuizStep is returned when a quiz answer carries a step value
	// outside the scripted range [1,4].
	ErrInvalidQuizStep = errors.New("invalid quiz step")

	// ErrWrongSessionKind is returned when an operation is attempted on a
	// session of the other kind (e.g. a quiz answer sent to an assistant
	// session).
	ErrWrongSessionKind = errors.New("wrong session kind")
)
