package common

import "errors"

// Tagged outcomes surfaced to the routing layer. Callers branch with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrExpired           = errors.New("post has expired")
	ErrSelfReaction      = errors.New("cannot react to your own post")
	ErrDuplicateReaction = errors.New("reaction already recorded")
	ErrValidation        = errors.New("validation failed")
	ErrStoreUnavailable  = errors.New("store unavailable")
)
