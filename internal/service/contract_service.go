package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nurpe/haulbot/internal/config"
	"github.com/nurpe/haulbot/internal/model"
	"github.com/nurpe/haulbot/internal/pricing"
	"github.com/nurpe/haulbot/internal/repository"
)

type CommodityCatalog interface {
	LookupCommodity(name string) (model.Commodity, error)
}

type LocationCatalog interface {
	LookupLocation(name string) (model.Location, error)
	NearestHub(destination model.Location) (model.Location, error)
}

// Archiver receives contracts that leave the live store.
type Archiver interface {
	Archive(ctx context.Context, contracts []model.Contract) error
}

type ExcelGenerator interface {
	Generate(report model.ContractReport) ([]byte, error)
}

type PDFGenerator interface {
	Generate(doc model.ContractDocument) ([]byte, error)
}

type ContractService struct {
	store       *repository.ContractStore
	engine      *pricing.Engine
	commodities CommodityCatalog
	locations   LocationCatalog
	archive     Archiver
	excel       ExcelGenerator
	pdf         PDFGenerator
	cfg         config.ContractsConfig
	now         func() time.Time
	log         zerolog.Logger
}

type QuoteRequest struct {
	Commodity   string
	Quantity    int
	Origin      string
	Destination string
}

type DocumentResult struct {
	FileName string
	Content  []byte
}

func NewContractService(
	store *repository.ContractStore,
	engine *pricing.Engine,
	commodities CommodityCatalog,
	locations LocationCatalog,
	cfg config.ContractsConfig,
	log zerolog.Logger,
) *ContractService {
	return &ContractService{
		store:       store,
		engine:      engine,
		commodities: commodities,
		locations:   locations,
		cfg:         cfg,
		now:         func() time.Time { return time.Now().UTC() },
		log:         log,
	}
}

func (s *ContractService) WithArchive(archive Archiver) *ContractService {
	s.archive = archive
	return s
}

func (s *ContractService) WithDocuments(excel ExcelGenerator, pdf PDFGenerator) *ContractService {
	s.excel = excel
	s.pdf = pdf
	return s
}

func (s *ContractService) WithClock(now func() time.Time) *ContractService {
	s.now = now
	return s
}

// RequestQuote resolves the catalog entries and prices the delivery. An empty
// origin is replaced by the supply hub nearest to the destination.
func (s *ContractService) RequestQuote(ctx context.Context, req QuoteRequest) (model.Quote, error) {
	commodityName := strings.TrimSpace(req.Commodity)
	destinationName := strings.TrimSpace(req.Destination)
	originName := strings.TrimSpace(req.Origin)

	if commodityName == "" {
		return model.Quote{}, fmt.Errorf("%w: commodity is required", ErrInvalidInput)
	}
	if destinationName == "" {
		return model.Quote{}, fmt.Errorf("%w: destination is required", ErrInvalidInput)
	}
	if req.Quantity < 1 {
		return model.Quote{}, fmt.Errorf("%w: quantity must be at least 1, got %d", ErrInvalidQuantity, req.Quantity)
	}

	commodity, err := s.commodities.LookupCommodity(commodityName)
	if err != nil {
		return model.Quote{}, err
	}
	destination, err := s.locations.LookupLocation(destinationName)
	if err != nil {
		return model.Quote{}, err
	}

	var origin model.Location
	if originName == "" {
		origin, err = s.locations.NearestHub(destination)
	} else {
		origin, err = s.locations.LookupLocation(originName)
	}
	if err != nil {
		return model.Quote{}, err
	}

	return s.engine.ComputeQuote(pricing.QuoteInput{
		Commodity:        commodity.Name,
		Quantity:         req.Quantity,
		Origin:           origin,
		Destination:      destination,
		BasePricePerUnit: commodity.BasePrice,
	})
}

func (s *ContractService) CreateContract(ctx context.Context, ownerID string, quote model.Quote) (model.Contract, error) {
	if quote.Quantity < 1 {
		return model.Contract{}, fmt.Errorf("%w: quote quantity %d", ErrInvalidQuantity, quote.Quantity)
	}
	if quote.Commodity == "" || quote.Total.IsNegative() {
		return model.Contract{}, fmt.Errorf("%w: malformed quote", ErrInvalidInput)
	}

	contract := s.store.Create(strings.TrimSpace(ownerID), quote, s.now(), s.cfg.TTL)
	s.log.Info().
		Str("contract_id", contract.ID).
		Str("owner_id", contract.OwnerID).
		Str("commodity", quote.Commodity).
		Int("quantity", quote.Quantity).
		Str("total", quote.Total.String()).
		Msg("contract created")
	return contract, nil
}

// AcceptContract is legal only from PENDING and only for the contract owner.
func (s *ContractService) AcceptContract(ctx context.Context, actor model.Principal, id string) (model.Contract, error) {
	guard := func(c model.Contract) error {
		if !c.OwnedBy(actor.UserID) {
			return fmt.Errorf("%w: only the requester can accept contract %s", ErrPermissionDenied, c.ID)
		}
		return nil
	}
	return s.transition(ctx, id, model.ContractStatusAccepted, guard)
}

// CompleteContract is legal only from ACCEPTED, for the owner or an operator.
func (s *ContractService) CompleteContract(ctx context.Context, actor model.Principal, id string) (model.Contract, error) {
	guard := func(c model.Contract) error {
		if !actor.IsOperator() && !c.OwnedBy(actor.UserID) {
			return fmt.Errorf("%w: contract %s belongs to another user", ErrPermissionDenied, c.ID)
		}
		return nil
	}
	return s.transition(ctx, id, model.ContractStatusCompleted, guard)
}

func (s *ContractService) transition(ctx context.Context, id string, to model.ContractStatus, guard repository.Guard) (model.Contract, error) {
	contract, closed, err := s.store.Transition(id, to, s.now(), guard)
	if closed {
		s.log.Info().Str("contract_id", contract.ID).Msg("contract expired on access")
		s.archiveAll(ctx, []model.Contract{contract})
	}
	if err != nil {
		return contract, err
	}
	s.log.Info().Str("contract_id", contract.ID).Str("status", contract.Status.String()).Msg("contract transitioned")
	return contract, nil
}

// GetContract returns a live contract. Contracts past their expiry read as
// EXPIRED; once swept they are only reachable through GetContractHistory.
func (s *ContractService) GetContract(ctx context.Context, id string) (model.Contract, error) {
	return s.store.Get(id, s.now())
}

func (s *ContractService) GetContractHistory(ctx context.Context, id string) (model.Contract, error) {
	return s.store.GetHistory(id, s.now())
}

// ContractFor returns a contract to its owner or an operator. With history set,
// swept expired contracts are found too.
func (s *ContractService) ContractFor(ctx context.Context, actor model.Principal, id string, history bool) (model.Contract, error) {
	var (
		contract model.Contract
		err      error
	)
	if history {
		contract, err = s.GetContractHistory(ctx, id)
	} else {
		contract, err = s.GetContract(ctx, id)
	}
	if err != nil {
		return model.Contract{}, err
	}
	if err := checkReadAccess(actor, contract); err != nil {
		return model.Contract{}, err
	}
	return contract, nil
}

func checkReadAccess(actor model.Principal, c model.Contract) error {
	if actor.IsOperator() || c.OwnedBy(actor.UserID) {
		return nil
	}
	return fmt.Errorf("%w: contract %s belongs to another user", ErrPermissionDenied, c.ID)
}

// ListContracts returns up to limit of the owner's contracts, newest first,
// and the total number available.
func (s *ContractService) ListContracts(ctx context.Context, ownerID string, limit int) ([]model.Contract, int) {
	contracts := s.store.List(ownerID, s.now())
	total := len(contracts)
	if limit <= 0 {
		limit = s.cfg.ListLimit
	}
	if limit > 0 && len(contracts) > limit {
		contracts = contracts[:limit]
	}
	return contracts, total
}

func (s *ContractService) Statistics(ctx context.Context) model.ContractStats {
	return s.store.Stats(s.now())
}

// ExpireSweep closes every PENDING or ACCEPTED contract whose expiry is at or
// before now.
func (s *ContractService) ExpireSweep(ctx context.Context, now time.Time) []model.Contract {
	expired := s.store.SweepExpired(now)
	for _, c := range expired {
		s.log.Info().Str("contract_id", c.ID).Time("expires_at", c.ExpiresAt).Msg("removed expired contract")
	}
	s.archiveAll(ctx, expired)
	return expired
}

// RetentionSweep drops completed contracts past the completed retention window
// and expired history past the expired retention window.
func (s *ContractService) RetentionSweep(ctx context.Context, now time.Time) []model.Contract {
	removed := s.store.SweepRetention(now.Add(-s.cfg.CompletedRetention), now.Add(-s.cfg.ExpiredRetention))
	if len(removed) > 0 {
		s.log.Info().Int("count", len(removed)).Msg("retention sweep removed contracts")
	}
	s.archiveAll(ctx, removed)
	return removed
}

func (s *ContractService) archiveAll(ctx context.Context, contracts []model.Contract) {
	if s.archive == nil || len(contracts) == 0 {
		return
	}
	if err := s.archive.Archive(ctx, contracts); err != nil {
		s.log.Error().Err(err).Int("count", len(contracts)).Msg("archive contracts failed")
	}
}

func (s *ContractService) ExportContracts(ctx context.Context, actor model.Principal) (*DocumentResult, error) {
	if s.excel == nil {
		return nil, fmt.Errorf("excel generator is not configured")
	}
	now := s.now()
	contracts := s.store.List(actor.UserID, now)
	report := model.ContractReport{
		OwnerID:     actor.UserID,
		GeneratedAt: now,
		Contracts:   contracts,
	}
	for _, c := range contracts {
		report.Stats.Add(c.Status)
	}

	content, err := s.excel.Generate(report)
	if err != nil {
		return nil, err
	}
	return &DocumentResult{
		FileName: fmt.Sprintf("contracts-%s-%s.xlsx", sanitizeFileName(actor.UserID), now.Format("20060102")),
		Content:  content,
	}, nil
}

func (s *ContractService) ContractPDF(ctx context.Context, actor model.Principal, id string) (*DocumentResult, error) {
	if s.pdf == nil {
		return nil, fmt.Errorf("pdf generator is not configured")
	}
	now := s.now()
	contract, err := s.store.GetHistory(id, now)
	if err != nil {
		return nil, err
	}
	if err := checkReadAccess(actor, contract); err != nil {
		return nil, err
	}

	doc := model.ContractDocument{Contract: contract, GeneratedAt: now}
	if commodity, err := s.commodities.LookupCommodity(contract.Quote.Commodity); err == nil {
		doc.Commodity = commodity
	}
	content, err := s.pdf.Generate(doc)
	if err != nil {
		return nil, err
	}
	return &DocumentResult{
		FileName: fmt.Sprintf("contract-%s.pdf", contract.ID),
		Content:  content,
	}, nil
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	name := strings.Trim(string(result), "-")
	if name == "" {
		return "all"
	}
	return name
}
