package session

import "errors"

var (
	// ErrInvalidInput is returned by LoadImage when the declared media type is not an image.
	ErrInvalidInput = errors.New("invalid input: file is not an image")
	// ErrEmptySubmission is returned by Submit when there is no source image or
	// the instruction is blank. The session is left untouched.
	ErrEmptySubmission = errors.New("nothing to submit: load an image and enter an instruction")
	// ErrSubmissionInFlight is returned by Submit while a previous submission is pending.
	ErrSubmissionInFlight = errors.New("an edit is already in progress")
)
