package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/nurpe/haulbot/internal/model"
)

// ArchiveRepository keeps an append-only audit copy of contracts that left the
// live store. The live store never reads from it.
type ArchiveRepository struct {
	db *gorm.DB
}

func NewArchiveRepository(db *gorm.DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

type archivedContract struct {
	ID               string
	OwnerID          string
	Commodity        string
	Quantity         int
	Origin           string
	Destination      string
	DistanceLy       float64
	BasePricePerUnit string
	BaseCost         string
	RiskPremium      string
	FuelCost         string
	TimeSurcharge    string
	Total            string
	Status           string
	CreatedAt        time.Time
	ExpiresAt        time.Time
	AcceptedAt       *time.Time
	CompletedAt      *time.Time
	ExpiredAt        *time.Time
	ArchivedAt       time.Time
}

func (archivedContract) TableName() string {
	return "contract_archive"
}

func toArchiveRow(c model.Contract, archivedAt time.Time) archivedContract {
	q := c.Quote
	return archivedContract{
		ID:               c.ID,
		OwnerID:          c.OwnerID,
		Commodity:        q.Commodity,
		Quantity:         q.Quantity,
		Origin:           q.Origin,
		Destination:      q.Destination,
		DistanceLy:       q.DistanceLy,
		BasePricePerUnit: q.BasePricePerUnit.String(),
		BaseCost:         q.BaseCost.String(),
		RiskPremium:      q.RiskPremium.String(),
		FuelCost:         q.FuelCost.String(),
		TimeSurcharge:    q.TimeSurcharge.String(),
		Total:            q.Total.String(),
		Status:           string(c.Status),
		CreatedAt:        c.CreatedAt,
		ExpiresAt:        c.ExpiresAt,
		AcceptedAt:       c.AcceptedAt,
		CompletedAt:      c.CompletedAt,
		ExpiredAt:        c.ExpiredAt,
		ArchivedAt:       archivedAt,
	}
}

// Archive upserts the final state of each contract.
func (r *ArchiveRepository) Archive(ctx context.Context, contracts []model.Contract) error {
	if len(contracts) == 0 {
		return nil
	}
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range contracts {
			row := toArchiveRow(c, now)
			err := tx.Exec(`
				INSERT INTO contract_archive (
					id, owner_id, commodity, quantity, origin, destination, distance_ly,
					base_price_per_unit, base_cost, risk_premium, fuel_cost, time_surcharge, total,
					status, created_at, expires_at, accepted_at, completed_at, expired_at, archived_at
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT (id) DO UPDATE SET
					status = EXCLUDED.status,
					accepted_at = EXCLUDED.accepted_at,
					completed_at = EXCLUDED.completed_at,
					expired_at = EXCLUDED.expired_at,
					archived_at = EXCLUDED.archived_at
			`,
				row.ID, row.OwnerID, row.Commodity, row.Quantity, row.Origin, row.Destination, row.DistanceLy,
				row.BasePricePerUnit, row.BaseCost, row.RiskPremium, row.FuelCost, row.TimeSurcharge, row.Total,
				row.Status, row.CreatedAt, row.ExpiresAt, row.AcceptedAt, row.CompletedAt, row.ExpiredAt, row.ArchivedAt,
			).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ArchiveRepository) CountByStatus(ctx context.Context, status model.ContractStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&archivedContract{}).Where("status = ?", string(status)).Count(&count).Error
	return count, err
}
