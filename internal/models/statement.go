package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Field names, in the order they are reported.
const (
	FieldCardHolderName   = "card_holder_name"
	FieldCardNumberLast4  = "card_number_last_4"
	FieldStatementDate    = "statement_date"
	FieldPaymentDueDate   = "payment_due_date"
	FieldTotalAmountDue   = "total_amount_due"
	FieldMinimumAmountDue = "minimum_amount_due"
	FieldCreditLimit      = "credit_limit"
	FieldAvailableCredit  = "available_credit"
	FieldBillingPeriod    = "billing_period"
	FieldAccountNumber    = "account_number"
)

// FieldNames lists every extracted field in report order.
var FieldNames = []string{
	FieldCardHolderName,
	FieldCardNumberLast4,
	FieldStatementDate,
	FieldPaymentDueDate,
	FieldTotalAmountDue,
	FieldMinimumAmountDue,
	FieldCreditLimit,
	FieldAvailableCredit,
	FieldBillingPeriod,
	FieldAccountNumber,
}

// ExtractedFields holds the values found in one credit card statement.
// A nil pointer means the field was not found; it marshals to JSON null.
type ExtractedFields struct {
	CardHolderName   *string `json:"card_holder_name"`
	CardNumberLast4  *string `json:"card_number_last_4"`
	StatementDate    *string `json:"statement_date"`
	PaymentDueDate   *string `json:"payment_due_date"`
	TotalAmountDue   *string `json:"total_amount_due"`
	MinimumAmountDue *string `json:"minimum_amount_due"`
	CreditLimit      *string `json:"credit_limit"`
	AvailableCredit  *string `json:"available_credit"`
	BillingPeriod    *string `json:"billing_period"`
	AccountNumber    *string `json:"account_number"`
}

// Field is a single named value. Value is nil when the field is absent.
type Field struct {
	Name  string
	Value *string
}

// Fields returns the name/value pairs in report order.
func (f *ExtractedFields) Fields() []Field {
	return []Field{
		{FieldCardHolderName, f.CardHolderName},
		{FieldCardNumberLast4, f.CardNumberLast4},
		{FieldStatementDate, f.StatementDate},
		{FieldPaymentDueDate, f.PaymentDueDate},
		{FieldTotalAmountDue, f.TotalAmountDue},
		{FieldMinimumAmountDue, f.MinimumAmountDue},
		{FieldCreditLimit, f.CreditLimit},
		{FieldAvailableCredit, f.AvailableCredit},
		{FieldBillingPeriod, f.BillingPeriod},
		{FieldAccountNumber, f.AccountNumber},
	}
}

// Get returns the value of the named field and whether it was found.
func (f *ExtractedFields) Get(name string) (string, bool) {
	for _, field := range f.Fields() {
		if field.Name == name {
			if field.Value == nil {
				return "", false
			}
			return *field.Value, true
		}
	}
	return "", false
}

// Set assigns the named field. Unknown names are ignored.
func (f *ExtractedFields) Set(name string, value *string) {
	switch name {
	case FieldCardHolderName:
		f.CardHolderName = value
	case FieldCardNumberLast4:
		f.CardNumberLast4 = value
	case FieldStatementDate:
		f.StatementDate = value
	case FieldPaymentDueDate:
		f.PaymentDueDate = value
	case FieldTotalAmountDue:
		f.TotalAmountDue = value
	case FieldMinimumAmountDue:
		f.MinimumAmountDue = value
	case FieldCreditLimit:
		f.CreditLimit = value
	case FieldAvailableCredit:
		f.AvailableCredit = value
	case FieldBillingPeriod:
		f.BillingPeriod = value
	case FieldAccountNumber:
		f.AccountNumber = value
	}
}

// Found returns how many fields have a value.
func (f *ExtractedFields) Found() int {
	n := 0
	for _, field := range f.Fields() {
		if field.Value != nil {
			n++
		}
	}
	return n
}

// ParseAmount converts a normalized amount string like "1234.56" to a decimal.
// It reports false for absent or non-numeric values.
func ParseAmount(v *string) (decimal.Decimal, bool) {
	if v == nil {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*v))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// CreditUsed returns credit_limit minus available_credit when both are present.
func (f *ExtractedFields) CreditUsed() (decimal.Decimal, bool) {
	limit, ok := ParseAmount(f.CreditLimit)
	if !ok {
		return decimal.Zero, false
	}
	available, ok := ParseAmount(f.AvailableCredit)
	if !ok {
		return decimal.Zero, false
	}
	return limit.Sub(available), true
}
