package excel

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/haulbot/internal/model"
)

func contract(id, commodity string, total int64, status model.ContractStatus) model.Contract {
	created := time.Date(3310, time.March, 1, 12, 0, 0, 0, time.UTC)
	return model.Contract{
		ID:     id,
		Status: status,
		Quote: model.Quote{
			CommodityQuantity: model.CommodityQuantity{Commodity: commodity, Quantity: 10},
			Origin:            "Sol",
			Destination:       "Eravate",
			DistanceLy:        100.5,
			Total:             decimal.NewFromInt(total),
		},
		CreatedAt: created,
		ExpiresAt: created.Add(24 * time.Hour),
	}
}

func TestGenerate(t *testing.T) {
	report := model.ContractReport{
		OwnerID:     "alice",
		GeneratedAt: time.Date(3310, time.March, 2, 0, 0, 0, 0, time.UTC),
		Contracts: []model.Contract{
			contract("AAAA0001", "Gold", 1000, model.ContractStatusPending),
			contract("AAAA0002", "Gold", 2000, model.ContractStatusCompleted),
			contract("AAAA0003", "Bertrandite", 500, model.ContractStatusAccepted),
		},
		Stats: model.ContractStats{Total: 3, Pending: 1, Accepted: 1, Completed: 1},
	}

	content, err := NewGenerator().Generate(report)
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, []string{"Summary", "Contracts", "Bertrandite", "Gold"}, file.GetSheetList())

	owner, err := file.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "alice", owner)

	rows, err := file.GetRows("Contracts")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Contract", rows[0][0])
	assert.Equal(t, "AAAA0001", rows[1][0])
	assert.Equal(t, "PENDING", rows[1][1])
	assert.Equal(t, "1000", rows[1][11])

	gold, err := file.GetRows("Gold")
	require.NoError(t, err)
	assert.Len(t, gold, 3)
}

func TestGenerate_Empty(t *testing.T) {
	content, err := NewGenerator().Generate(model.ContractReport{})
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, []string{"Summary", "Contracts"}, file.GetSheetList())

	owner, err := file.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "all users", owner)
}

func TestBuildSheetName(t *testing.T) {
	used := map[string]struct{}{"summary": {}, "contracts": {}}

	assert.Equal(t, "Summary-2", buildSheetName("Summary", used))
	assert.Equal(t, "summary-2", buildSheetName("summary", used))
	assert.Equal(t, "CONTRACTS-2", buildSheetName("CONTRACTS", used))
	assert.Equal(t, "Ore-Metal", buildSheetName("Ore/Metal", used))
	assert.Equal(t, "Commodity", buildSheetName("  ", used))

	long := buildSheetName("Hydrogen Fuel With A Very Long Trade Name", used)
	assert.Len(t, long, 31)
}

func TestBuildSheetName_MultibyteNames(t *testing.T) {
	used := map[string]struct{}{}
	name := strings.Repeat("Ж", 40)

	got := buildSheetName(name, used)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 31, utf8.RuneCountInString(got))

	used[strings.ToLower(got)] = struct{}{}
	next := buildSheetName(name, used)
	assert.True(t, utf8.ValidString(next))
	assert.Equal(t, 31, utf8.RuneCountInString(next))
	assert.True(t, strings.HasSuffix(next, "-2"))
}

func TestGenerate_CommodityNamedLikeFixedSheet(t *testing.T) {
	report := model.ContractReport{
		Contracts: []model.Contract{
			contract("AAAA0001", "summary", 100, model.ContractStatusPending),
			contract("AAAA0002", "Gold", 200, model.ContractStatusPending),
		},
		Stats: model.ContractStats{Total: 2, Pending: 2},
	}

	content, err := NewGenerator().Generate(report)
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, []string{"Summary", "Contracts", "Gold", "summary-2"}, file.GetSheetList())
	requested, err := file.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Requested by", requested)
}
