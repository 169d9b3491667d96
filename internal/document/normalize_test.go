package document

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Normalize", func() {
	var (
		kind   Kind
		raw    map[string]any
		record *Record
		err    error
	)

	JustBeforeEach(func() {
		record, err = Normalize(kind, "primary-model", raw)
	})

	When("normalizing a cheque", func() {
		BeforeEach(func() {
			kind = KindCheque
			raw = map[string]any{
				"bank":           " State Bank of India ",
				"account_holder": "Ravi Kumar",
				"account_number": json.Number("30012345678"),
				"amount":         "₹3,30,000",
				"ifsc_code":      "SBIN0001234",
				"date":           "N/A",
				"has_signature":  true,
			}
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(record.Kind).To(Equal(KindCheque))
			Expect(record.Model).To(Equal("primary-model"))
		})

		It("should parse the amount to whole rupees", func() {
			Expect(record.Cheque.Amount).To(Equal(Rupees{Value: 330000, Known: true}))
		})

		It("should trim text and keep numeric literals", func() {
			Expect(record.Cheque.Bank.String()).To(Equal("State Bank of India"))
			Expect(record.Cheque.AccountNumber.String()).To(Equal("30012345678"))
		})

		It("should treat the sentinel as unknown", func() {
			Expect(record.Cheque.Date.Known).To(BeFalse())
			Expect(record.Cheque.Date.String()).To(Equal(NA))
		})

		It("should keep the signature flag", func() {
			Expect(record.Cheque.HasSignature).To(BeTrue())
		})

		It("should populate every schema field", func() {
			names := []string{}
			for _, f := range record.Fields() {
				names = append(names, f.Name)
			}
			Expect(names).To(Equal(ChequeFields))
		})
	})

	When("a cheque response is missing fields", func() {
		BeforeEach(func() {
			kind = KindCheque
			raw = map[string]any{"bank": "HDFC BANK"}
		})

		It("should fill them with the sentinel", func() {
			Expect(err).NotTo(HaveOccurred())
			for _, f := range record.Fields() {
				switch f.Name {
				case FieldBank:
					Expect(f.Value).To(Equal("HDFC BANK"))
				case FieldHasSignature:
					Expect(f.Value).To(Equal("false"))
				default:
					Expect(f.Value).To(Equal(NA), f.Name)
				}
			}
		})
	})

	When("normalizing a bill", func() {
		BeforeEach(func() {
			kind = KindBill
			raw = map[string]any{
				"vendor_name":  "Sharma Traders Pvt Ltd",
				"bill_number":  "INV-2024/001",
				"total_amount": "Rs 182.40",
				"tax_amount":   "abc",
				"currency":     "INR",
			}
		})

		It("should render amounts with two decimals", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(record.Bill.TotalAmount.String()).To(Equal("182.40"))
		})

		It("should mark unparseable amounts unknown", func() {
			Expect(record.Bill.TaxAmount.String()).To(Equal(NA))
		})

		It("should map currency codes to symbols", func() {
			Expect(record.Bill.Currency).To(Equal("₹"))
		})

		It("should populate every schema field", func() {
			Expect(record.Fields()).To(HaveLen(len(BillFields)))
		})
	})

	When("the bill currency is missing", func() {
		BeforeEach(func() {
			kind = KindBill
			raw = map[string]any{
				"vendor_name":  "Acme Corp",
				"vendor_phone": "(415) 555-0100",
			}
		})

		It("should infer it from the bill", func() {
			Expect(record.Bill.Currency).To(Equal("$"))
		})
	})

	When("the bill currency is a description", func() {
		BeforeEach(func() {
			kind = KindBill
			raw = map[string]any{"currency": "probably local money"}
		})

		It("should fall back to the heuristic default", func() {
			Expect(record.Bill.Currency).To(Equal(LocalCurrency))
		})
	})

	When("the kind is unknown", func() {
		BeforeEach(func() {
			kind = KindUnknown
			raw = map[string]any{}
		})

		It("should return an error", func() {
			Expect(err).To(HaveOccurred())
			Expect(record).To(BeNil())
		})
	})
})

var _ = DescribeTable("ChequeAmount",
	func(input any, expected string) {
		Expect(ChequeAmount(input).String()).To(Equal(expected))
	},
	Entry("grouped rupees", "₹3,30,000", "330000"),
	Entry("plain digits", "3300000", "3300000"),
	Entry("json number", json.Number("45000"), "45000"),
	Entry("letters only", "abc", NA),
	Entry("sentinel", "N/A", NA),
	Entry("null", nil, NA),
	Entry("sixteen digits", "1234567890123456", NA),
	Entry("fifteen digits", "123456789012345", "123456789012345"),
)

var _ = DescribeTable("BillAmount",
	func(input any, expected string) {
		Expect(BillAmount(input).String()).To(Equal(expected))
	},
	Entry("rupee prefix word", "Rs 182.40", "182.40"),
	Entry("rupee prefix with dot", "Rs.500", "500.00"),
	Entry("rupee symbol with grouping", "₹1,24,500.5", "124500.50"),
	Entry("dollar symbol", "$ 19.99", "19.99"),
	Entry("currency code", "USD 1,000", "1000.00"),
	Entry("json number", json.Number("12.5"), "12.50"),
	Entry("letters", "abc", NA),
	Entry("two decimal points", "1.2.3", NA),
	Entry("empty after cleaning", "₹", NA),
)

var _ = DescribeTable("has_signature",
	func(input any, expected bool) {
		record, err := Normalize(KindCheque, "m", map[string]any{"has_signature": input})
		Expect(err).NotTo(HaveOccurred())
		Expect(record.Cheque.HasSignature).To(Equal(expected))
	},
	Entry("true", true, true),
	Entry("false", false, false),
	Entry("string true", "true", true),
	Entry("string garbage", "maybe", false),
	Entry("absent", nil, false),
)
