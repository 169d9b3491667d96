package document

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	accountNumberPattern = regexp.MustCompile(`^\d{9,18}$`)
	ifscCodePattern      = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	datePattern          = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)
	billNumberPattern    = regexp.MustCompile(`^[A-Z0-9\-/]{5,20}$`)
	phonePattern         = regexp.MustCompile(`^[\+]?[0-9\s\-\(\)]{10,15}$`)
	emailPattern         = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneSeparators      = regexp.MustCompile(`[\s\-\(\)]`)
)

// bankPatterns are searched for anywhere in the uppercased bank name
var bankPatterns = []*regexp.Regexp{
	regexp.MustCompile(`STATE BANK OF INDIA|SBI`),
	regexp.MustCompile(`HDFC BANK`),
	regexp.MustCompile(`ICICI BANK`),
	regexp.MustCompile(`AXIS BANK`),
	regexp.MustCompile(`PUNJAB NATIONAL BANK|PNB`),
	regexp.MustCompile(`CANARA BANK`),
	regexp.MustCompile(`BANK OF BARODA|BOB`),
	regexp.MustCompile(`UNION BANK OF INDIA`),
}

// Verdict is the rule-based outcome for one field. Checked is false when the
// value was unknown; such a verdict is never valid and carries no message.
type Verdict struct {
	Field   string `json:"field"`
	Valid   bool   `json:"valid"`
	Checked bool   `json:"checked"`
	Message string `json:"message,omitempty"`
}

// Verdicts is the ordered set of verdicts for one record
type Verdicts []Verdict

// Get returns the verdict for field
func (vs Verdicts) Get(field string) (Verdict, bool) {
	for _, v := range vs {
		if v.Field == field {
			return v, true
		}
	}
	return Verdict{}, false
}

// ValidCount returns how many fields passed
func (vs Verdicts) ValidCount() int {
	n := 0
	for _, v := range vs {
		if v.Valid {
			n++
		}
	}
	return n
}

// CheckedCount returns how many fields had a known value to check
func (vs Verdicts) CheckedCount() int {
	n := 0
	for _, v := range vs {
		if v.Checked {
			n++
		}
	}
	return n
}

// check returns an empty string when value is acceptable, else the reason
type check func(value string) string

type rule struct {
	field string
	check check
}

var chequeRules = []rule{
	{FieldBank, checkBank},
	{FieldAccountNumber, checkPattern(accountNumberPattern, "Account number format invalid (should be 9-18 digits)")},
	{FieldIFSCCode, checkPattern(ifscCodePattern, "IFSC code format invalid (should be 11 alphanumeric characters)")},
	{FieldDate, checkDate},
	{FieldAmount, checkAmount},
}

var billRules = []rule{
	{FieldVendorName, checkVendorName},
	{FieldBillNumber, checkPattern(billNumberPattern, "Bill number format invalid (should be 5-20 alphanumeric characters)")},
	{FieldGSTNumber, checkPattern(gstPattern, "GST number format invalid")},
	{FieldVendorPhone, checkPhone},
	{FieldVendorEmail, checkPattern(emailPattern, "Email format invalid")},
	{FieldDate, checkDate},
	{FieldTotalAmount, checkAmount},
}

// ValidatedFields returns the fields Validate checks for kind, in order
func ValidatedFields(kind Kind) []string {
	var fields []string
	for _, r := range rulesFor(kind) {
		fields = append(fields, r.field)
	}
	return fields
}

func rulesFor(kind Kind) []rule {
	switch kind {
	case KindCheque:
		return chequeRules
	case KindBill:
		return billRules
	}
	return nil
}

// Validate applies the per-kind field grammars to r. Every field is checked
// independently.
func Validate(r *Record) Verdicts {
	if r == nil {
		return nil
	}
	rules := rulesFor(r.Kind)
	verdicts := make(Verdicts, 0, len(rules))
	for _, rl := range rules {
		value, _ := r.Value(rl.field)
		verdict := Verdict{Field: rl.field}
		if value != NA && value != "" {
			verdict.Checked = true
			verdict.Message = rl.check(value)
			verdict.Valid = verdict.Message == ""
		}
		verdicts = append(verdicts, verdict)
	}
	return verdicts
}

func checkPattern(p *regexp.Regexp, message string) check {
	return func(value string) string {
		if p.MatchString(value) {
			return ""
		}
		return message
	}
}

func checkBank(value string) string {
	upper := strings.ToUpper(value)
	for _, p := range bankPatterns {
		if p.MatchString(upper) {
			return ""
		}
	}
	return "Bank name doesn't match known patterns"
}

func checkVendorName(value string) string {
	if len([]rune(strings.TrimSpace(value))) < 2 {
		return "Vendor name too short"
	}
	return ""
}

func checkPhone(value string) string {
	cleaned := phoneSeparators.ReplaceAllString(value, "")
	if !phonePattern.MatchString(value) || len(cleaned) < 10 {
		return "Phone number format invalid"
	}
	return ""
}

func checkAmount(value string) string {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return "Amount should be a valid number"
	}
	if !d.IsPositive() {
		return "Amount should be positive"
	}
	return ""
}

func checkDate(value string) string {
	if !datePattern.MatchString(value) {
		return "Date format invalid (should be MM/DD/YYYY or DD/MM/YYYY)"
	}
	if _, ok := ParseDate(value); !ok {
		return "Invalid date (should be MM/DD/YYYY or DD/MM/YYYY and a valid date)"
	}
	return ""
}

// ParseDate reads a slash-separated date, trying month-first when the first
// two components allow it and falling back to day-first
func ParseDate(value string) (time.Time, bool) {
	parts := strings.Split(value, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}
	first, second, year := nums[0], nums[1], nums[2]

	if first <= 12 && second <= 31 {
		if t, ok := calendarDate(year, first, second); ok {
			return t, true
		}
	}
	return calendarDate(year, second, first)
}

// calendarDate rejects components time.Date would silently normalise
func calendarDate(year, month, day int) (time.Time, bool) {
	if year < 1 || month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
