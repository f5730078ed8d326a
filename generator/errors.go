package generator

import "errors"

var (
	ErrNoFragments     = errors.New("no fragments supplied")
	ErrInvalidMaxWords = errors.New("max words must be positive")
	ErrEmptyNarrative  = errors.New("model returned empty narrative")
	ErrMalformedSplit  = errors.New("model returned malformed interview split")
	ErrNoDraft         = errors.New("session has no draft to revise")
)
