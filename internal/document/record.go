package document

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

// Kind is the closed set of document types the system recognises
type Kind string

const (
	KindCheque  Kind = "cheque"
	KindBill    Kind = "bill"
	KindUnknown Kind = "unknown"
)

// NA is the rendered form of any field whose value is unknown
const NA = "N/A"

// Cheque field names, in schema order
const (
	FieldBank          = "bank"
	FieldAccountHolder = "account_holder"
	FieldAccountNumber = "account_number"
	FieldAmount        = "amount"
	FieldIFSCCode      = "ifsc_code"
	FieldDate          = "date"
	FieldHasSignature  = "has_signature"
)

// Bill field names, in schema order. FieldDate is shared.
const (
	FieldVendorName    = "vendor_name"
	FieldBillNumber    = "bill_number"
	FieldTotalAmount   = "total_amount"
	FieldTaxAmount     = "tax_amount"
	FieldGSTNumber     = "gst_number"
	FieldVendorPhone   = "vendor_phone"
	FieldVendorEmail   = "vendor_email"
	FieldCustomerName  = "customer_name"
	FieldPaymentMethod = "payment_method"
	FieldCurrency      = "currency"
)

// ChequeFields lists every cheque field in schema order
var ChequeFields = []string{
	FieldBank, FieldAccountHolder, FieldAccountNumber, FieldAmount,
	FieldIFSCCode, FieldDate, FieldHasSignature,
}

// BillFields lists every bill field in schema order
var BillFields = []string{
	FieldVendorName, FieldBillNumber, FieldDate, FieldTotalAmount, FieldTaxAmount,
	FieldGSTNumber, FieldVendorPhone, FieldVendorEmail, FieldCustomerName,
	FieldPaymentMethod, FieldCurrency,
}

// Text is a string field that may be unknown
type Text struct {
	Value string
	Known bool
}

// KnownText wraps s as a known value
func KnownText(s string) Text {
	return Text{Value: s, Known: true}
}

func (t Text) String() string {
	if !t.Known {
		return NA
	}
	return t.Value
}

// Rupees is a whole-rupee cheque amount that may be unknown
type Rupees struct {
	Value int64
	Known bool
}

func (r Rupees) String() string {
	if !r.Known {
		return NA
	}
	return strconv.FormatInt(r.Value, 10)
}

// Money is a decimal bill amount that may be unknown. It always renders with
// two decimal places.
type Money struct {
	Value decimal.Decimal
	Known bool
}

func (m Money) String() string {
	if !m.Known {
		return NA
	}
	return m.Value.StringFixed(2)
}

// Cheque holds the fields read from a bank cheque
type Cheque struct {
	Bank          Text
	AccountHolder Text
	AccountNumber Text
	Amount        Rupees
	IFSCCode      Text
	Date          Text
	HasSignature  bool
}

// Bill holds the fields read from a vendor bill or invoice
type Bill struct {
	VendorName    Text
	BillNumber    Text
	Date          Text
	TotalAmount   Money
	TaxAmount     Money
	GSTNumber     Text
	VendorPhone   Text
	VendorEmail   Text
	CustomerName  Text
	PaymentMethod Text
	// Currency is always a resolved symbol such as "₹" or "$"
	Currency string
}

// Field is one named value of a record in its comparable string form
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Record is one model's reading of one document. Exactly one of Cheque or
// Bill is set, matching Kind. Records are not modified after construction.
type Record struct {
	Kind   Kind
	Model  string
	Cheque *Cheque
	Bill   *Bill
}

// NewChequeRecord builds a cheque record attributed to model
func NewChequeRecord(model string, c Cheque) *Record {
	return &Record{Kind: KindCheque, Model: model, Cheque: &c}
}

// NewBillRecord builds a bill record attributed to model
func NewBillRecord(model string, b Bill) *Record {
	return &Record{Kind: KindBill, Model: model, Bill: &b}
}

// Fields returns every schema field in order, unknown values rendered as NA
func (r *Record) Fields() []Field {
	switch {
	case r.Cheque != nil:
		c := r.Cheque
		return []Field{
			{FieldBank, c.Bank.String()},
			{FieldAccountHolder, c.AccountHolder.String()},
			{FieldAccountNumber, c.AccountNumber.String()},
			{FieldAmount, c.Amount.String()},
			{FieldIFSCCode, c.IFSCCode.String()},
			{FieldDate, c.Date.String()},
			{FieldHasSignature, strconv.FormatBool(c.HasSignature)},
		}
	case r.Bill != nil:
		b := r.Bill
		return []Field{
			{FieldVendorName, b.VendorName.String()},
			{FieldBillNumber, b.BillNumber.String()},
			{FieldDate, b.Date.String()},
			{FieldTotalAmount, b.TotalAmount.String()},
			{FieldTaxAmount, b.TaxAmount.String()},
			{FieldGSTNumber, b.GSTNumber.String()},
			{FieldVendorPhone, b.VendorPhone.String()},
			{FieldVendorEmail, b.VendorEmail.String()},
			{FieldCustomerName, b.CustomerName.String()},
			{FieldPaymentMethod, b.PaymentMethod.String()},
			{FieldCurrency, b.Currency},
		}
	}
	return nil
}

// Value returns the string form of the named field
func (r *Record) Value(name string) (string, bool) {
	for _, f := range r.Fields() {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// MarshalJSON renders the record as its kind, model and ordered field list
func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind   Kind    `json:"kind"`
		Model  string  `json:"model"`
		Fields []Field `json:"fields"`
	}{r.Kind, r.Model, r.Fields()})
}
