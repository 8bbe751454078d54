package repository

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/haulbot/internal/model"
)

const contractIDLength = 8

// Guard inspects the stored contract before a transition is applied. Returning
// an error aborts the transition without changing the store.
type Guard func(c model.Contract) error

// ContractStore owns every live contract. Expired contracts move to a history
// map that is only reachable through GetHistory. All mutations happen under a
// single write lock on a copy that is committed in one assignment.
type ContractStore struct {
	mu      sync.RWMutex
	live    map[string]model.Contract
	history map[string]model.Contract
	issued  map[string]struct{}
	newID   func() string
}

func NewContractStore() *ContractStore {
	return &ContractStore{
		live:    make(map[string]model.Contract),
		history: make(map[string]model.Contract),
		issued:  make(map[string]struct{}),
		newID:   randomID,
	}
}

func randomID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:contractIDLength])
}

// Create allocates an ID that was never issued before in this process and
// stores a PENDING contract for quote.
func (s *ContractStore) Create(ownerID string, quote model.Quote, now time.Time, ttl time.Duration) model.Contract {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for {
		if _, taken := s.issued[id]; !taken {
			break
		}
		id = s.newID()
	}
	s.issued[id] = struct{}{}

	contract := model.Contract{
		ID:        id,
		OwnerID:   ownerID,
		Quote:     quote,
		Status:    model.ContractStatusPending,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	s.live[id] = contract
	return contract
}

// Get returns the live contract as observed at now.
func (s *ContractStore) Get(id string, now time.Time) (model.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contract, ok := s.live[normalizeID(id)]
	if !ok {
		return model.Contract{}, fmt.Errorf("%w: %s", model.ErrContractNotFound, id)
	}
	return contract.View(now), nil
}

// GetHistory looks up live contracts and swept expired ones.
func (s *ContractStore) GetHistory(id string, now time.Time) (model.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id = normalizeID(id)
	if contract, ok := s.live[id]; ok {
		return contract.View(now), nil
	}
	if contract, ok := s.history[id]; ok {
		return contract, nil
	}
	return model.Contract{}, fmt.Errorf("%w: %s", model.ErrContractNotFound, id)
}

// Transition moves a contract to the target status. A contract found logically
// expired is closed as EXPIRED instead; closed reports that this call moved it
// out of the live map, and the error is ErrContractExpired. Failed calls return
// the stored contract unchanged.
func (s *ContractStore) Transition(id string, to model.ContractStatus, now time.Time, guard Guard) (model.Contract, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id = normalizeID(id)
	contract, ok := s.live[id]
	if !ok {
		if old, swept := s.history[id]; swept {
			return old, false, fmt.Errorf("%w: %s", model.ErrContractExpired, id)
		}
		return model.Contract{}, false, fmt.Errorf("%w: %s", model.ErrContractNotFound, id)
	}

	if guard != nil {
		if err := guard(contract); err != nil {
			return contract, false, err
		}
	}

	if model.IsExpired(contract, now) {
		expired := s.expireLocked(contract, now)
		return expired, true, fmt.Errorf("%w: %s expired at %s", model.ErrContractExpired, id, contract.ExpiresAt.Format(time.RFC3339))
	}

	if !model.CanTransition(contract.Status, to) {
		return contract, false, fmt.Errorf("%w: %s is %s", model.ErrInvalidTransition, id, contract.Status)
	}

	at := now
	switch to {
	case model.ContractStatusAccepted:
		contract.AcceptedAt = &at
	case model.ContractStatusCompleted:
		contract.CompletedAt = &at
	case model.ContractStatusExpired:
		return s.expireLocked(contract, now), true, nil
	}
	contract.Status = to
	s.live[id] = contract
	return contract, false, nil
}

func (s *ContractStore) expireLocked(contract model.Contract, now time.Time) model.Contract {
	at := now
	contract.Status = model.ContractStatusExpired
	contract.ExpiredAt = &at
	delete(s.live, contract.ID)
	s.history[contract.ID] = contract
	return contract
}

// SweepExpired closes every live contract that is expired at now and returns
// the closed contracts.
func (s *ContractStore) SweepExpired(now time.Time) []model.Contract {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []model.Contract
	for _, contract := range s.live {
		if model.IsExpired(contract, now) {
			expired = append(expired, s.expireLocked(contract, now))
		}
	}
	sortByCreated(expired)
	return expired
}

// SweepRetention drops completed contracts finished before completedBefore and
// expired history closed before expiredBefore.
func (s *ContractStore) SweepRetention(completedBefore, expiredBefore time.Time) []model.Contract {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []model.Contract
	for id, contract := range s.live {
		if contract.Status == model.ContractStatusCompleted && contract.CompletedAt != nil && contract.CompletedAt.Before(completedBefore) {
			delete(s.live, id)
			removed = append(removed, contract)
		}
	}
	for id, contract := range s.history {
		if contract.ExpiredAt == nil || contract.ExpiredAt.Before(expiredBefore) {
			delete(s.history, id)
			removed = append(removed, contract)
		}
	}
	sortByCreated(removed)
	return removed
}

// List returns live contracts owned by ownerID (all when empty), newest first.
func (s *ContractStore) List(ownerID string, now time.Time) []model.Contract {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Contract, 0, len(s.live))
	for _, contract := range s.live {
		if ownerID != "" && contract.OwnerID != ownerID {
			continue
		}
		result = append(result, contract.View(now))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (s *ContractStore) Stats(now time.Time) model.ContractStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats model.ContractStats
	for _, contract := range s.live {
		stats.Add(contract.View(now).Status)
	}
	for _, contract := range s.history {
		stats.Add(contract.Status)
	}
	return stats
}

func sortByCreated(contracts []model.Contract) {
	sort.Slice(contracts, func(i, j int) bool {
		return contracts[i].CreatedAt.Before(contracts[j].CreatedAt)
	})
}

func normalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
