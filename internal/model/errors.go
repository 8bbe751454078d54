package model

import "errors"

var (
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrSameLocation      = errors.New("origin and destination are the same location")
	ErrUnknownCommodity  = errors.New("unknown commodity")
	ErrUnknownLocation   = errors.New("unknown location")
	ErrContractNotFound  = errors.New("contract not found")
	ErrContractExpired   = errors.New("contract expired")
	ErrInvalidTransition = errors.New("invalid contract transition")
)
