package model

import "time"

type ContractStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Accepted  int `json:"accepted"`
	Completed int `json:"completed"`
	Expired   int `json:"expired"`
}

func (s *ContractStats) Add(status ContractStatus) {
	s.Total++
	switch status {
	case ContractStatusPending:
		s.Pending++
	case ContractStatusAccepted:
		s.Accepted++
	case ContractStatusCompleted:
		s.Completed++
	case ContractStatusExpired:
		s.Expired++
	}
}

// ContractReport is a caller's contract list rendered into a spreadsheet.
type ContractReport struct {
	OwnerID     string
	GeneratedAt time.Time
	Contracts   []Contract
	Stats       ContractStats
}

// ContractDocument is a single contract rendered into a PDF.
type ContractDocument struct {
	Contract    Contract
	Commodity   Commodity
	GeneratedAt time.Time
}
