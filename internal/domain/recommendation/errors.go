package recommendation

import "errors"

var (
	ErrRecommendationNotFound = errors.New("recommendation not found")
	ErrAlreadyReviewed        = errors.New("recommendation has already been reviewed")
	ErrNotesRequired          = errors.New("doctor notes are required when rejecting a recommendation")
	ErrMissingApprovedFields  = errors.New("both approved treatment and approved lifestyle are required for modification")
	ErrDuplicateForReport     = errors.New("a recommendation already exists for this report")
)
