// Package taxyear holds versioned tax-year constants. Constants are plain
// data passed explicitly to pipeline components, so multiple tax years can
// be processed concurrently in one process (amended prior-year returns
// alongside current-year ones).
package taxyear

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/claritytax/docintel/internal/model"
)

// Bracket is one (threshold, rate) pair of a progressive bracket table.
// Threshold is the lower bound of taxable income the Rate applies to.
type Bracket struct {
	Threshold float64 `yaml:"threshold" json:"threshold"`
	Rate      float64 `yaml:"rate" json:"rate"`
}

// EITCRow is the simplified earned-income credit figure for a dependent
// count. The figures are deliberately approximate; every estimate derived
// from them is labeled as such.
type EITCRow struct {
	MaxCredit     float64 `yaml:"max_credit" json:"max_credit"`
	IncomeCeiling float64 `yaml:"income_ceiling" json:"income_ceiling"`
}

// Constants is the full constant set for one tax year.
type Constants struct {
	Year int `yaml:"year" json:"year"`

	StandardDeduction map[model.FilingStatus]float64   `yaml:"standard_deduction" json:"standard_deduction"`
	Brackets          map[model.FilingStatus][]Bracket `yaml:"brackets" json:"brackets"`

	// Payroll taxes.
	SSWageBase   float64 `yaml:"ss_wage_base" json:"ss_wage_base"`
	SSRate       float64 `yaml:"ss_rate" json:"ss_rate"`
	MedicareRate float64 `yaml:"medicare_rate" json:"medicare_rate"`

	// Self-employment tax.
	SETaxRate      float64 `yaml:"se_tax_rate" json:"se_tax_rate"`
	SENetFactor    float64 `yaml:"se_net_factor" json:"se_net_factor"`
	SEMinimumNet   float64 `yaml:"se_minimum_net" json:"se_minimum_net"`

	// Child tax credit.
	CTCPerChild          float64                        `yaml:"ctc_per_child" json:"ctc_per_child"`
	CTCRefundableCap     float64                        `yaml:"ctc_refundable_cap" json:"ctc_refundable_cap"`
	CTCPhaseOutThreshold map[model.FilingStatus]float64 `yaml:"ctc_phase_out_threshold" json:"ctc_phase_out_threshold"`
	CTCPhaseOutPer1000   float64                        `yaml:"ctc_phase_out_per_1000" json:"ctc_phase_out_per_1000"`

	// Simplified EITC, indexed by dependent count (last row applies to
	// higher counts).
	EITC                 []EITCRow `yaml:"eitc" json:"eitc"`
	EITCInvestmentLimit  float64   `yaml:"eitc_investment_limit" json:"eitc_investment_limit"`

	// Deduction figures.
	SALTCap         float64 `yaml:"salt_cap" json:"salt_cap"`
	MedicalFloorPct float64 `yaml:"medical_floor_pct" json:"medical_floor_pct"`

	// Dividend inference.
	QualifiedDividendRatio float64 `yaml:"qualified_dividend_ratio" json:"qualified_dividend_ratio"`
}

// TaxFor evaluates the progressive bracket table for a filing status over
// taxable income. Unknown statuses fall back to single.
func (c *Constants) TaxFor(status model.FilingStatus, taxable float64) float64 {
	if taxable <= 0 {
		return 0
	}
	brackets, ok := c.Brackets[status]
	if !ok {
		brackets = c.Brackets[model.StatusSingle]
	}
	var tax float64
	for i, b := range brackets {
		upper := taxable
		if i+1 < len(brackets) && brackets[i+1].Threshold < taxable {
			upper = brackets[i+1].Threshold
		}
		if upper <= b.Threshold {
			break
		}
		tax += (upper - b.Threshold) * b.Rate
	}
	return tax
}

// StandardDeductionFor returns the standard deduction for a filing status,
// falling back to single for unknown statuses.
func (c *Constants) StandardDeductionFor(status model.FilingStatus) float64 {
	if d, ok := c.StandardDeduction[status]; ok {
		return d
	}
	return c.StandardDeduction[model.StatusSingle]
}

// EITCFor returns the simplified EITC row for a dependent count.
func (c *Constants) EITCFor(dependents int) EITCRow {
	if len(c.EITC) == 0 {
		return EITCRow{}
	}
	if dependents >= len(c.EITC) {
		dependents = len(c.EITC) - 1
	}
	if dependents < 0 {
		dependents = 0
	}
	return c.EITC[dependents]
}

// Validate checks internal consistency of a constant set.
func (c *Constants) Validate() error {
	if c.Year < 2000 {
		return eris.Errorf("taxyear: implausible year %d", c.Year)
	}
	if len(c.Brackets) == 0 {
		return eris.New("taxyear: no bracket tables")
	}
	for status, brackets := range c.Brackets {
		if len(brackets) == 0 {
			return eris.Errorf("taxyear: empty bracket table for %s", status)
		}
		if !sort.SliceIsSorted(brackets, func(i, j int) bool {
			return brackets[i].Threshold < brackets[j].Threshold
		}) {
			return eris.Errorf("taxyear: bracket thresholds for %s not ascending", status)
		}
		if brackets[0].Threshold != 0 {
			return eris.Errorf("taxyear: first bracket for %s must start at 0", status)
		}
	}
	if c.SSWageBase <= 0 || c.SSRate <= 0 || c.MedicareRate <= 0 {
		return eris.New("taxyear: payroll tax constants must be positive")
	}
	return nil
}

// Registry holds constant sets keyed by year.
type Registry struct {
	years map[int]*Constants
}

// NewRegistry builds a registry from one or more constant sets.
func NewRegistry(sets ...*Constants) (*Registry, error) {
	r := &Registry{years: make(map[int]*Constants, len(sets))}
	for _, c := range sets {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		r.years[c.Year] = c
	}
	return r, nil
}

// Year returns the constants for a year, or an error when the year is not
// registered.
func (r *Registry) Year(year int) (*Constants, error) {
	c, ok := r.years[year]
	if !ok {
		return nil, eris.Errorf("taxyear: no constants registered for %d", year)
	}
	return c, nil
}

// Years lists the registered years in ascending order.
func (r *Registry) Years() []int {
	out := make([]int, 0, len(r.years))
	for y := range r.years {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}
