package model

import "time"

type ContractStatus string

const (
	ContractStatusPending   ContractStatus = "PENDING"
	ContractStatusAccepted  ContractStatus = "ACCEPTED"
	ContractStatusCompleted ContractStatus = "COMPLETED"
	ContractStatusExpired   ContractStatus = "EXPIRED"
)

func (s ContractStatus) String() string {
	return string(s)
}

// Active reports whether the status can still expire.
func (s ContractStatus) Active() bool {
	return s == ContractStatusPending || s == ContractStatusAccepted
}

func (s ContractStatus) Terminal() bool {
	return s == ContractStatusCompleted || s == ContractStatusExpired
}

// CanTransition reports whether from -> to is an edge of the contract state machine.
func CanTransition(from, to ContractStatus) bool {
	switch to {
	case ContractStatusAccepted:
		return from == ContractStatusPending
	case ContractStatusCompleted:
		return from == ContractStatusAccepted
	case ContractStatusExpired:
		return from.Active()
	default:
		return false
	}
}

type Contract struct {
	ID          string         `json:"id"`
	OwnerID     string         `json:"owner_id,omitempty"`
	Quote       Quote          `json:"quote"`
	Status      ContractStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	ExpiresAt   time.Time      `json:"expires_at"`
	AcceptedAt  *time.Time     `json:"accepted_at,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	ExpiredAt   *time.Time     `json:"expired_at,omitempty"`
}

// IsExpired is the single expiry predicate used by reads, transitions and sweeps.
func IsExpired(c Contract, now time.Time) bool {
	return c.Status.Active() && !now.Before(c.ExpiresAt)
}

// View returns the contract as observed at now: a logically expired contract
// reads as EXPIRED even if no sweep has run yet.
func (c Contract) View(now time.Time) Contract {
	if IsExpired(c, now) {
		c.Status = ContractStatusExpired
		expiredAt := c.ExpiresAt
		c.ExpiredAt = &expiredAt
	}
	return c
}

func (c Contract) OwnedBy(userID string) bool {
	return c.OwnerID == "" || c.OwnerID == userID
}
