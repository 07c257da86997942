package taxyear

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claritytax/docintel/internal/model"
)

func TestYear2025_Validates(t *testing.T) {
	require.NoError(t, Year2025().Validate())
}

func TestTaxFor_Progressive(t *testing.T) {
	tc := Year2025()

	tests := []struct {
		name    string
		status  model.FilingStatus
		taxable float64
		want    float64
	}{
		{"zero", model.StatusSingle, 0, 0},
		{"negative", model.StatusSingle, -100, 0},
		{"first bracket only", model.StatusSingle, 10000, 1000},
		{"bracket boundary", model.StatusSingle, 11925, 1192.50},
		{"spans two brackets", model.StatusSingle, 35000, 3961.50},
		{"unknown status falls back to single", model.FilingStatus("qualifying_widow"), 10000, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tc.TaxFor(tt.status, tt.taxable), 0.01)
		})
	}
}

func TestTaxFor_MonotonicInIncome(t *testing.T) {
	tc := Year2025()
	prev := 0.0
	for taxable := 0.0; taxable <= 800_000; taxable += 5_000 {
		tax := tc.TaxFor(model.StatusSingle, taxable)
		assert.GreaterOrEqual(t, tax, prev, "tax decreased at taxable %.0f", taxable)
		prev = tax
	}
}

func TestStandardDeductionFor(t *testing.T) {
	tc := Year2025()
	assert.Equal(t, 15000.0, tc.StandardDeductionFor(model.StatusSingle))
	assert.Equal(t, 30000.0, tc.StandardDeductionFor(model.StatusMarriedJoint))
	assert.Equal(t, 22500.0, tc.StandardDeductionFor(model.StatusHeadOfHousehold))
	assert.Equal(t, 15000.0, tc.StandardDeductionFor(model.FilingStatus("unknown")))
}

func TestEITCFor_ClampsDependentCount(t *testing.T) {
	tc := Year2025()

	assert.Equal(t, tc.EITC[0], tc.EITCFor(0))
	assert.Equal(t, tc.EITC[3], tc.EITCFor(3))
	// Counts past the table reuse the last row.
	assert.Equal(t, tc.EITC[3], tc.EITCFor(7))
	assert.Equal(t, tc.EITC[0], tc.EITCFor(-1))
}

func TestValidate_Rejections(t *testing.T) {
	t.Run("implausible year", func(t *testing.T) {
		c := Year2025()
		c.Year = 1850
		assert.Error(t, c.Validate())
	})

	t.Run("no brackets", func(t *testing.T) {
		c := Year2025()
		c.Brackets = nil
		assert.Error(t, c.Validate())
	})

	t.Run("unsorted brackets", func(t *testing.T) {
		c := Year2025()
		c.Brackets[model.StatusSingle] = []Bracket{
			{Threshold: 0, Rate: 0.10},
			{Threshold: 50000, Rate: 0.22},
			{Threshold: 20000, Rate: 0.12},
		}
		assert.Error(t, c.Validate())
	})

	t.Run("first bracket not zero", func(t *testing.T) {
		c := Year2025()
		c.Brackets[model.StatusSingle] = []Bracket{{Threshold: 100, Rate: 0.10}}
		assert.Error(t, c.Validate())
	})

	t.Run("missing payroll rates", func(t *testing.T) {
		c := Year2025()
		c.SSRate = 0
		assert.Error(t, c.Validate())
	})
}

func TestRegistry(t *testing.T) {
	tc2025 := Year2025()
	tc2024 := Year2025()
	tc2024.Year = 2024

	reg, err := NewRegistry(tc2025, tc2024)
	require.NoError(t, err)

	got, err := reg.Year(2025)
	require.NoError(t, err)
	assert.Equal(t, 2025, got.Year)

	_, err = reg.Year(2019)
	assert.Error(t, err)

	assert.Equal(t, []int{2024, 2025}, reg.Years())
}

func TestNewRegistry_RejectsInvalidSet(t *testing.T) {
	bad := Year2025()
	bad.Brackets = nil
	_, err := NewRegistry(bad)
	assert.Error(t, err)
}
