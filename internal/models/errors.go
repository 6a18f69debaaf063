package models

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by the backend wraps exactly one
// of them, the HTTP layer maps them to status codes.
var (
	ErrGeneral              = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound     = errors.New("there is no")
	ErrValidation           = errors.New("the request is invalid")
	ErrUnauthenticated      = errors.New("authentication failed")
	ErrSubscriptionRequired = errors.New("an active subscription is required")
	ErrConfiguration        = errors.New("this feature is not configured on the server")
	ErrIntegration          = errors.New("an external service could not complete the request")
)

var (
	ErrEmailInUse              = fmt.Errorf("%w: the email address is already registered", ErrValidation)
	ErrEmailMissing            = fmt.Errorf("%w: the email address must not be empty", ErrValidation)
	ErrPasswordMissing         = fmt.Errorf("%w: the password must not be empty", ErrValidation)
	ErrAmountNegative          = fmt.Errorf("%w: amounts must not be negative", ErrValidation)
	ErrDateMissing             = fmt.Errorf("%w: a date in the YYYY-MM-DD format is required", ErrValidation)
	ErrMonthMissing            = fmt.Errorf("%w: a month in the YYYY-MM format is required", ErrValidation)
	ErrIncomeSourceInvalid     = fmt.Errorf("%w: the income source must be one of salary, freelance, investment, other", ErrValidation)
	ErrLoanTypeInvalid         = fmt.Errorf("%w: the loan type must be one of mortgage, auto, consumer, student", ErrValidation)
	ErrPaymentSessionNotUnique = fmt.Errorf("%w: a payment transaction for this checkout session already exists", ErrValidation)
	ErrConnectionNotUnique     = fmt.Errorf("%w: a bank connection with this reference already exists", ErrValidation)
	ErrAlreadyImported         = fmt.Errorf("%w: the bank transaction has already been imported", ErrValidation)
)
