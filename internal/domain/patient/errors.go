package patient

import "errors"

var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrPatientAlreadyExists = errors.New("patient with this name and birth date already exists")
	ErrInvalidGender        = errors.New("invalid gender value")
	ErrInvalidBirthDate     = errors.New("birth date is not a valid calendar date")
	ErrBirthDateInFuture    = errors.New("birth date cannot be in the future")
	ErrNoPatients           = errors.New("no patient records available")
)
