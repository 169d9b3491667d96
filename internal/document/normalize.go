package document

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// maxAmountDigits bounds cheque amounts; longer digit runs are misreads
const maxAmountDigits = 15

var billAmountNoise = regexp.MustCompile(`(?i)rs\.?|inr|usd|eur|gbp|jpy|[₹$€£¥,\s]`)

// Normalize turns the raw object a model returned into a fully populated
// record of the given kind. Missing or unparseable values become unknown.
func Normalize(kind Kind, model string, raw map[string]any) (*Record, error) {
	switch kind {
	case KindCheque:
		return NewChequeRecord(model, normalizeCheque(raw)), nil
	case KindBill:
		return NewBillRecord(model, normalizeBill(raw)), nil
	default:
		return nil, fmt.Errorf("cannot normalize document of kind %q", kind)
	}
}

func normalizeCheque(raw map[string]any) Cheque {
	return Cheque{
		Bank:          textField(raw[FieldBank]),
		AccountHolder: textField(raw[FieldAccountHolder]),
		AccountNumber: textField(raw[FieldAccountNumber]),
		Amount:        ChequeAmount(raw[FieldAmount]),
		IFSCCode:      textField(raw[FieldIFSCCode]),
		Date:          textField(raw[FieldDate]),
		HasSignature:  boolField(raw[FieldHasSignature]),
	}
}

func normalizeBill(raw map[string]any) Bill {
	bill := Bill{
		VendorName:    textField(raw[FieldVendorName]),
		BillNumber:    textField(raw[FieldBillNumber]),
		Date:          textField(raw[FieldDate]),
		TotalAmount:   BillAmount(raw[FieldTotalAmount]),
		TaxAmount:     BillAmount(raw[FieldTaxAmount]),
		GSTNumber:     textField(raw[FieldGSTNumber]),
		VendorPhone:   textField(raw[FieldVendorPhone]),
		VendorEmail:   textField(raw[FieldVendorEmail]),
		CustomerName:  textField(raw[FieldCustomerName]),
		PaymentMethod: textField(raw[FieldPaymentMethod]),
	}
	bill.Currency = ResolveCurrency(textField(raw[FieldCurrency]), &bill)
	return bill
}

// ChequeAmount keeps only the digits of v. One to fifteen digits make a
// known whole-rupee amount; anything else is unknown.
func ChequeAmount(v any) Rupees {
	s, ok := rawString(v)
	if !ok {
		return Rupees{}
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" || len(digits) > maxAmountDigits {
		return Rupees{}
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return Rupees{}
	}
	return Rupees{Value: n, Known: true}
}

// BillAmount strips currency markers, grouping commas and whitespace from v.
// What remains must contain a decimal point or be all digits, and parse as a
// decimal, to be known.
func BillAmount(v any) Money {
	s, ok := rawString(v)
	if !ok {
		return Money{}
	}
	cleaned := billAmountNoise.ReplaceAllString(s, "")
	if cleaned == "" {
		return Money{}
	}
	if !strings.Contains(cleaned, ".") && !isDigits(cleaned) {
		return Money{}
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return Money{}
	}
	return Money{Value: d.Round(2), Known: true}
}

func textField(v any) Text {
	s, ok := rawString(v)
	if !ok {
		return Text{}
	}
	return KnownText(s)
}

func boolField(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return err == nil && parsed
	}
	return false
}

// rawString renders a decoded JSON scalar as trimmed text. Null, empty and
// the NA sentinel report false.
func rawString(v any) (string, bool) {
	var s string
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		s = val
	case json.Number:
		s = val.String()
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(val)
	default:
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, NA) {
		return "", false
	}
	return s, true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
