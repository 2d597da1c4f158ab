package assignment

import "errors"

var ErrMappingNotFound = errors.New("patient-doctor mapping not found")
