package document

import (
	"regexp"
	"strings"
)

// Currency symbols produced by the heuristic
const (
	LocalCurrency   = "₹"
	ForeignCurrency = "$"
)

var knownSymbols = map[string]bool{"₹": true, "$": true, "€": true, "£": true, "¥": true}

var currencyWords = map[string]string{
	"rupee": "₹", "rupees": "₹", "inr": "₹", "rs": "₹", "rs.": "₹",
	"dollar": "$", "dollars": "$", "usd": "$",
	"euro": "€", "euros": "€", "eur": "€",
	"pound": "£", "pounds": "£", "gbp": "£",
	"yen": "¥", "jpy": "¥",
}

var gstPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[1-9A-Z]{1}Z[0-9A-Z]{1}$`)

var localPhonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^0\d{2,4}-\d{6,8}$`),
	regexp.MustCompile(`^\+91[\s\-]?\d{10}$`),
	regexp.MustCompile(`^91\d{10}$`),
	regexp.MustCompile(`^[6-9]\d{9}$`),
}

var foreignPhonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\+1[\s\-]?\d{10}$`),
	regexp.MustCompile(`^1[\s\-]?\d{10}$`),
	regexp.MustCompile(`^\(\d{3}\)\s?\d{3}-\d{4}$`),
	regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`),
}

var (
	localVendorMarkers   = map[string]bool{"pvt": true, "ltd": true, "private": true, "limited": true, "government": true, "govt": true, "gem": true}
	foreignVendorMarkers = map[string]bool{"inc": true, "corp": true, "corporation": true, "llc": true}
	foreignEmailTLDs     = map[string]bool{"com": true, "org": true, "net": true}
)

// ResolveCurrency returns the model's currency when it is a known symbol or a
// recognised currency word, and otherwise infers one from the bill
func ResolveCurrency(reported Text, bill *Bill) string {
	if !reported.Known {
		return InferCurrency(bill)
	}
	if knownSymbols[reported.Value] {
		return reported.Value
	}
	if symbol, ok := currencyWords[strings.ToLower(reported.Value)]; ok {
		return symbol
	}
	return InferCurrency(bill)
}

// InferCurrency picks the foreign symbol only when foreign signals strictly
// outweigh local ones
func InferCurrency(bill *Bill) string {
	local, foreign := CurrencyVotes(bill)
	if foreign > local {
		return ForeignCurrency
	}
	return LocalCurrency
}

// CurrencyVotes tallies the weighted local and foreign signals on a bill
func CurrencyVotes(bill *Bill) (local, foreign float64) {
	if bill.GSTNumber.Known && gstPattern.MatchString(bill.GSTNumber.Value) {
		local += 3
	}

	if bill.VendorPhone.Known {
		switch phone := bill.VendorPhone.Value; {
		case matchesAny(localPhonePatterns, phone):
			local += 2
		case matchesAny(foreignPhonePatterns, phone):
			foreign += 2
		}
	}

	if bill.VendorEmail.Known {
		labels := emailDomainLabels(bill.VendorEmail.Value)
		switch {
		case containsLabel(labels, "in"):
			local++
		case len(labels) > 0 && foreignEmailTLDs[labels[len(labels)-1]]:
			foreign += 0.5
		}
	}

	if bill.VendorName.Known {
		tokens := wordTokens(bill.VendorName.Value)
		switch {
		case anyToken(tokens, localVendorMarkers):
			local++
		case anyToken(tokens, foreignVendorMarkers):
			foreign++
		}
	}
	return local, foreign
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func emailDomainLabels(email string) []string {
	domain := strings.ToLower(email)
	if at := strings.LastIndex(domain, "@"); at >= 0 {
		domain = domain[at+1:]
	}
	var labels []string
	for _, label := range strings.Split(domain, ".") {
		if label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

func containsLabel(labels []string, want string) bool {
	for _, l := range labels {
		if l == want {
			return true
		}
	}
	return false
}

func wordTokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
}

func anyToken(tokens []string, markers map[string]bool) bool {
	for _, t := range tokens {
		if markers[t] {
			return true
		}
	}
	return false
}
