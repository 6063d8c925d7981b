package parser

import (
	"regexp"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
)

// Field patterns. Each has exactly one capture group holding the value,
// except creditLimitPattern which also captures an "Available" qualifier
// and the label itself.
//
// Statement text typically looks like this after PDF extraction:
//
//	TRANSACTIONS FOR JOHN SMITH
//	XXXX XXXX XXXX XX12
//	STMT No.
//	: AB123456
//	*Total Amount Due
//	1,234.56
//	Credit Limit ( ` ) 50,000.00
var (
	cardHolderPattern      = compileRule(`TRANSACTIONS FOR\s+(?-i:([A-Z][A-Z \t]{3,}[A-Z]))`)
	cardLast4Pattern       = compileRule(`XXXX\s+XXXX\s+XXXX\s+XX(\d{2})`)
	accountNumberPattern   = compileRule(`STMT No\..*?:\s*([A-Z0-9]+)`)
	billingPeriodPattern   = compileRule(`for Statement Period:\s*(.*?)(?:\r?\n|$)`)
	totalDuePattern        = compileRule(`\*Total Amount Due.*?\n` + amountPattern)
	minimumDuePattern      = compileRule(`\*\*Minimum Amount Due.*?` + amountPattern)
	creditLimitPattern     = compileRule(`(Available\s+)?(Credit\s+Limit).*?` + currencyMarker + `.*?` + amountPattern)
	availableCreditPattern = compileRule(`Available\s+Credit\s+Limit.*?` + currencyMarker + `.*?` + amountPattern)
)

// document is one statement's text plus the date tokens found in it.
type document struct {
	text  string
	dates []string
}

// fieldRule resolves one named field from a document.
type fieldRule struct {
	name    string
	resolve func(d *document) *string
}

var fieldRules = []fieldRule{
	{models.FieldCardHolderName, match(cardHolderPattern)},
	{models.FieldCardNumberLast4, match(cardLast4Pattern)},
	{models.FieldStatementDate, dateAt(0)},
	{models.FieldPaymentDueDate, dateAt(1)},
	{models.FieldTotalAmountDue, match(totalDuePattern)},
	{models.FieldMinimumAmountDue, match(minimumDuePattern)},
	{models.FieldCreditLimit, creditLimit},
	{models.FieldAvailableCredit, match(availableCreditPattern)},
	{models.FieldBillingPeriod, match(billingPeriodPattern)},
	{models.FieldAccountNumber, match(accountNumberPattern)},
}

func match(re *regexp.Regexp) func(d *document) *string {
	return func(d *document) *string {
		return search(re, d.text)
	}
}

// dateAt returns the i-th date token, counting from zero.
func dateAt(i int) func(d *document) *string {
	return func(d *document) *string {
		if i >= len(d.dates) {
			return nil
		}
		v := d.dates[i]
		return &v
	}
}

// creditLimit skips matches anchored on "Available Credit Limit", which
// belong to the available_credit field. Scanning resumes right after the
// skipped label so a plain "Credit Limit" later in the text is still found.
func creditLimit(d *document) *string {
	for off := 0; off < len(d.text); {
		loc := creditLimitPattern.FindStringSubmatchIndex(d.text[off:])
		if loc == nil {
			return nil
		}
		if loc[2] < 0 {
			return normalize(d.text[off+loc[6] : off+loc[7]])
		}
		off += loc[5]
	}
	return nil
}

// FieldExtractor pulls the summary fields out of one statement's text.
// Build a new one for every text; it is not meant to be reused.
type FieldExtractor struct {
	doc *document
}

// NewFieldExtractor scans text once for date tokens and returns an
// extractor for it.
func NewFieldExtractor(text string) *FieldExtractor {
	return &FieldExtractor{
		doc: &document{
			text:  text,
			dates: findDates(text),
		},
	}
}

// Dates returns the date tokens found in the text, in document order.
func (e *FieldExtractor) Dates() []string {
	out := make([]string, len(e.doc.dates))
	copy(out, e.doc.dates)
	return out
}

// ExtractAll resolves every field. Fields whose anchor is missing are left nil.
func (e *FieldExtractor) ExtractAll() *models.ExtractedFields {
	fields := &models.ExtractedFields{}
	for _, rule := range fieldRules {
		fields.Set(rule.name, rule.resolve(e.doc))
	}
	return fields
}

// Extract is shorthand for NewFieldExtractor(text).ExtractAll().
func Extract(text string) *models.ExtractedFields {
	return NewFieldExtractor(text).ExtractAll()
}
