package service

import (
	"errors"

	"github.com/nurpe/haulbot/internal/model"
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
)

// Domain errors, re-exported so callers match against a single package.
var (
	ErrInvalidQuantity   = model.ErrInvalidQuantity
	ErrSameLocation      = model.ErrSameLocation
	ErrUnknownCommodity  = model.ErrUnknownCommodity
	ErrUnknownLocation   = model.ErrUnknownLocation
	ErrContractNotFound  = model.ErrContractNotFound
	ErrContractExpired   = model.ErrContractExpired
	ErrInvalidTransition = model.ErrInvalidTransition
)
