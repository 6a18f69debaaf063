package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LoanType string

const (
	LoanTypeMortgage LoanType = "mortgage"
	LoanTypeAuto     LoanType = "auto"
	LoanTypeConsumer LoanType = "consumer"
	LoanTypeStudent  LoanType = "student"
)

func (t LoanType) Valid() bool {
	switch t {
	case LoanTypeMortgage, LoanTypeAuto, LoanTypeConsumer, LoanTypeStudent:
		return true
	}
	return false
}

// Loan is a debt the user pays back in monthly installments.
type Loan struct {
	OwnedModel
	LoanEditable
}

// LoanEditable holds all fields that are replaced on update.
type LoanEditable struct {
	Name            string          `json:"name" example:"Home loan"`
	LoanType        LoanType        `json:"loanType" example:"mortgage"` // One of mortgage, auto, consumer, student
	OriginalAmount  decimal.Decimal `json:"originalAmount" gorm:"type:DECIMAL(20,8)" example:"180000"`
	RemainingAmount decimal.Decimal `json:"remainingAmount" gorm:"type:DECIMAL(20,8)" example:"142000"`
	InterestRate    decimal.Decimal `json:"interestRate" gorm:"type:DECIMAL(20,8)" example:"3.85"` // Yearly interest rate in percent
	MonthlyPayment  decimal.Decimal `json:"monthlyPayment" gorm:"type:DECIMAL(20,8)" example:"820"`
	StartDate       string          `json:"startDate" example:"2019-03-01"`
	EndDate         *string         `json:"endDate" example:"2044-03-01"`
}

func (l *Loan) BeforeSave(_ *gorm.DB) error {
	l.Name = strings.TrimSpace(l.Name)

	if !l.LoanType.Valid() {
		return ErrLoanTypeInvalid
	}

	for _, amount := range []decimal.Decimal{l.OriginalAmount, l.RemainingAmount, l.InterestRate, l.MonthlyPayment} {
		if amount.IsNegative() {
			return ErrAmountNegative
		}
	}

	return nil
}
