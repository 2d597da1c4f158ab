package doctor

import "errors"

var (
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrNoDoctorAvailable = errors.New("no available doctor found")
	ErrDoctorExists      = errors.New("doctor profile already exists for this user")
)
