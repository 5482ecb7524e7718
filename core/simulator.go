package core

import (
	"errors"
	"math"
)

// ErrOverBudget rejects a month whose allocations exceed income.
var ErrOverBudget = errors.New("allocation exceeds monthly income")

// DefaultMonthlyIncome is the fixed simulated income per month.
const DefaultMonthlyIncome = 10000

// monthlyReturnRate is the growth applied to existing investments each month.
const monthlyReturnRate = 0.01

// Allocation splits one month of income across the three buckets.
type Allocation struct {
	Spending  int `json:"spending"`
	Saving    int `json:"saving"`
	Investing int `json:"investing"`
}

// Simulation tracks the running budget-simulator state across months.
type Simulation struct {
	Month            int `json:"month"`
	Balance          int `json:"balance"`
	TotalSavings     int `json:"total_savings"`
	TotalInvestments int `json:"total_investments"`
	MonthlyIncome    int `json:"monthly_income"`
}

// NewSimulation starts at month 1 with nothing accumulated.
func NewSimulation() Simulation {
	return Simulation{Month: 1, MonthlyIncome: DefaultMonthlyIncome}
}

// Remaining is income minus the three allocations; negative means over budget.
func (s Simulation) Remaining(a Allocation) int {
	return s.MonthlyIncome - a.Spending - a.Saving - a.Investing
}

// TotalWealth sums balance, savings, and investments.
func (s Simulation) TotalWealth() int {
	return s.Balance + s.TotalSavings + s.TotalInvestments
}

// MonthResult reports what one completed month produced.
type MonthResult struct {
	Month            int `json:"month"`
	XPEarned         int `json:"xp_earned"`
	InvestmentReturn int `json:"investment_return"`
}

// EndMonth applies the allocation and advances to the next month.
// An over-budget allocation is rejected with no state change and no XP.
// Existing investments earn the monthly return before the new contribution
// lands; XP scales with how much was saved and invested.
func (s Simulation) EndMonth(a Allocation) (Simulation, MonthResult, error) {
	remaining := s.Remaining(a)
	if remaining < 0 {
		return s, MonthResult{}, ErrOverBudget
	}

	ret := int(math.Round(float64(s.TotalInvestments) * monthlyReturnRate))
	res := MonthResult{
		Month:            s.Month,
		InvestmentReturn: ret,
		XPEarned:         50 + int(math.Round(float64(a.Saving)/100)) + int(math.Round(float64(a.Investing)/50)),
	}

	s.Balance += remaining
	s.TotalSavings += a.Saving
	s.TotalInvestments += a.Investing + ret
	s.Month++
	return s, res, nil
}
