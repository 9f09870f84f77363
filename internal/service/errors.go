package service

import "errors"

var (
	// ErrStudyNotFound is returned when the study does not exist or does
	// not belong to the user.
	ErrStudyNotFound = errors.New("study not found")
	// ErrTargetStudyNotFound is returned when an internal reference points
	// at a study that does not exist.
	ErrTargetStudyNotFound = errors.New("target study does not exist")
	// ErrReferenceNotFound is returned when the reference does not exist
	// or belongs to another user's study.
	ErrReferenceNotFound = errors.New("reference not found")
	// ErrInvalidExternalURL is returned when an external reference URL is
	// not a valid http/https URL.
	ErrInvalidExternalURL = errors.New("external url must be a valid http/https url")
	// ErrInvalidReference is returned when a create request names neither
	// a target study nor an external url, or both.
	ErrInvalidReference = errors.New("reference needs exactly one of target study id or external url")
	// ErrInvalidDirection is returned for a reorder direction other than
	// up or down.
	ErrInvalidDirection = errors.New("direction must be up or down")
	// ErrVersionMismatch is returned when an update's version clock does
	// not match the stored study.
	ErrVersionMismatch = errors.New("study version mismatch")
	// ErrMissingTitle is returned when a study is created without a title.
	ErrMissingTitle = errors.New("study title is required")
)
