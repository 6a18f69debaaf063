// Package summary computes the monthly dashboard summary of a user.
package summary

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/walleta/backend/internal/models"
	"github.com/walleta/backend/internal/types"
	"golang.org/x/exp/slices"
)

// RecentExpenses is the number of expenses listed as recent.
const RecentExpenses = 5

var hundred = decimal.NewFromInt(100)

// incomeSourceLabels maps income sources to their display label.
// Sources not in the table are displayed with their raw value.
var incomeSourceLabels = map[models.IncomeSource]string{
	models.IncomeSourceSalary:     "Salary",
	models.IncomeSourceFreelance:  "Freelance",
	models.IncomeSourceInvestment: "Investments",
	models.IncomeSourceOther:      "Other income",
}

// IncomeSourceLabel returns the display label for an income source.
func IncomeSourceLabel(source models.IncomeSource) string {
	if label, ok := incomeSourceLabels[source]; ok {
		return label
	}
	return string(source)
}

// Summary is the dashboard overview of one user for one month.
type Summary struct {
	Month    types.Month    `json:"month" swaggertype:"string" example:"2025-06"`
	Budget   BudgetSummary  `json:"budget"`
	Income   IncomeSummary  `json:"income"`
	Expenses ExpenseSummary `json:"expenses"`
	Loans    LoanSummary    `json:"loans"`
	Savings  SavingsSummary `json:"savings"`
	Balance  BalanceSummary `json:"balance"`
}

// BudgetSummary compares the budget of the month to its expenses.
type BudgetSummary struct {
	Amount     decimal.Decimal `json:"amount" example:"1500"`     // Budget for the month, 0 if none is set
	Spent      decimal.Decimal `json:"spent" example:"1210.4"`    // Sum of all expenses in the month
	Percentage decimal.Decimal `json:"percentage" example:"80.7"` // Share of the budget that has been spent
	Remaining  decimal.Decimal `json:"remaining" example:"289.6"` // Budget minus expenses, negative when overspent
}

// IncomeSummary totals the incomes of the month by source.
type IncomeSummary struct {
	Total   decimal.Decimal `json:"total" example:"3200"`
	Count   int             `json:"count" example:"2"`
	Sources []Share         `json:"sources"`
}

// ExpenseSummary totals the expenses of the month by category.
type ExpenseSummary struct {
	Total      decimal.Decimal  `json:"total" example:"1210.4"`
	Count      int              `json:"count" example:"17"`
	Recent     []models.Expense `json:"recent"`
	Categories []Share          `json:"categories"`
}

// LoanSummary totals all loans of the user.
type LoanSummary struct {
	TotalRemaining  decimal.Decimal `json:"totalRemaining" example:"142000"`
	MonthlyPayments decimal.Decimal `json:"monthlyPayments" example:"820"`
	Count           int             `json:"count" example:"1"`
}

// SavingsSummary totals all savings goals of the user.
type SavingsSummary struct {
	TotalSaved  decimal.Decimal `json:"totalSaved" example:"400"`
	TotalTarget decimal.Decimal `json:"totalTarget" example:"2500"`
	Count       int             `json:"count" example:"1"`
}

// BalanceSummary is what is left of the income of the month.
type BalanceSummary struct {
	Remaining           decimal.Decimal `json:"remaining" example:"1169.6"`       // Income minus expenses minus monthly loan payments
	RemainingPercentage decimal.Decimal `json:"remainingPercentage" example:"37"` // Remaining as a share of income
	NetWorth            decimal.Decimal `json:"netWorth" example:"-141600"`       // Total saved minus total remaining loans
}

// Share is the amount of one category or income source.
type Share struct {
	Name       string           `json:"name" example:"Food"`
	Amount     decimal.Decimal  `json:"amount" example:"320.5"`
	Percentage *decimal.Decimal `json:"percentage,omitempty" example:"26.5"` // Share of the total, only set for expense categories
}

// Compute builds the summary for a month.
//
// Expenses and incomes are filtered to the month by their date key, loans
// and savings goals are all taken into account. Expenses and incomes must
// be passed in creation order, it decides the order of categories with equal amounts.
func Compute(month types.Month, budget *models.Budget, expenses []models.Expense, incomes []models.Income, loans []models.Loan, goals []models.SavingsGoal) Summary {
	s := Summary{Month: month}

	monthExpenses := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		if month.Includes(e.Date) {
			monthExpenses = append(monthExpenses, e)
		}
	}

	monthIncomes := make([]models.Income, 0, len(incomes))
	for _, i := range incomes {
		if month.Includes(i.Date) {
			monthIncomes = append(monthIncomes, i)
		}
	}

	s.Expenses = expenseSummary(monthExpenses)
	s.Income = incomeSummary(monthIncomes)

	for _, l := range loans {
		s.Loans.TotalRemaining = s.Loans.TotalRemaining.Add(l.RemainingAmount)
		s.Loans.MonthlyPayments = s.Loans.MonthlyPayments.Add(l.MonthlyPayment)
	}
	s.Loans.Count = len(loans)

	for _, g := range goals {
		s.Savings.TotalSaved = s.Savings.TotalSaved.Add(g.CurrentAmount)
		s.Savings.TotalTarget = s.Savings.TotalTarget.Add(g.TargetAmount)
	}
	s.Savings.Count = len(goals)

	if budget != nil {
		s.Budget.Amount = budget.Amount
	}
	s.Budget.Spent = s.Expenses.Total
	s.Budget.Percentage = percentage(s.Expenses.Total, s.Budget.Amount, 1)
	s.Budget.Remaining = s.Budget.Amount.Sub(s.Expenses.Total)

	s.Balance.Remaining = s.Income.Total.Sub(s.Expenses.Total).Sub(s.Loans.MonthlyPayments)
	s.Balance.RemainingPercentage = percentage(s.Balance.Remaining, s.Income.Total, 0)
	s.Balance.NetWorth = s.Savings.TotalSaved.Sub(s.Loans.TotalRemaining)

	return s
}

func expenseSummary(expenses []models.Expense) ExpenseSummary {
	var summary ExpenseSummary

	names := []string{}
	totals := map[string]decimal.Decimal{}
	for _, e := range expenses {
		summary.Total = summary.Total.Add(e.Amount)

		if _, ok := totals[e.Category]; !ok {
			names = append(names, e.Category)
		}
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}

	summary.Count = len(expenses)
	summary.Categories = make([]Share, 0, len(names))
	for _, name := range names {
		p := percentage(totals[name], summary.Total, 1)
		summary.Categories = append(summary.Categories, Share{Name: name, Amount: totals[name], Percentage: &p})
	}
	sortByAmount(summary.Categories)

	recent := slices.Clone(expenses)
	slices.SortStableFunc(recent, func(a, b models.Expense) int {
		return strings.Compare(b.Date, a.Date)
	})
	if len(recent) > RecentExpenses {
		recent = recent[:RecentExpenses]
	}
	summary.Recent = recent

	return summary
}

func incomeSummary(incomes []models.Income) IncomeSummary {
	var summary IncomeSummary

	labels := []string{}
	totals := map[string]decimal.Decimal{}
	for _, i := range incomes {
		summary.Total = summary.Total.Add(i.Amount)

		label := IncomeSourceLabel(i.Source)
		if _, ok := totals[label]; !ok {
			labels = append(labels, label)
		}
		totals[label] = totals[label].Add(i.Amount)
	}

	summary.Count = len(incomes)
	summary.Sources = make([]Share, 0, len(labels))
	for _, label := range labels {
		summary.Sources = append(summary.Sources, Share{Name: label, Amount: totals[label]})
	}
	sortByAmount(summary.Sources)

	return summary
}

// sortByAmount sorts shares by amount, largest first. Shares with equal
// amounts keep their order.
func sortByAmount(shares []Share) {
	slices.SortStableFunc(shares, func(a, b Share) int {
		return b.Amount.Cmp(a.Amount)
	})
}

// percentage returns part as a percentage of total, rounded half to even
// to the given number of decimal places. It is 0 when total is not positive.
func percentage(part, total decimal.Decimal, places int32) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}

	return part.Div(total).Mul(hundred).RoundBank(places)
}
