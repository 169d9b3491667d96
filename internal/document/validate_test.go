package document

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Validate", func() {
	var (
		record   *Record
		verdicts Verdicts
	)

	JustBeforeEach(func() {
		verdicts = Validate(record)
	})

	When("validating a well-formed cheque", func() {
		BeforeEach(func() {
			record = NewChequeRecord("m", sampleCheque())
		})

		It("should check the five cheque fields in order", func() {
			fields := []string{}
			for _, v := range verdicts {
				fields = append(fields, v.Field)
			}
			Expect(fields).To(Equal([]string{FieldBank, FieldAccountNumber, FieldIFSCCode, FieldDate, FieldAmount}))
		})

		It("should pass every field", func() {
			Expect(verdicts.ValidCount()).To(Equal(5))
			for _, v := range verdicts {
				Expect(v.Message).To(BeEmpty())
			}
		})
	})

	When("cheque fields are malformed", func() {
		BeforeEach(func() {
			c := sampleCheque()
			c.Bank = KnownText("Bank of Nowhere")
			c.AccountNumber = KnownText("12345")
			c.IFSCCode = KnownText("HDFC1234567")
			c.Date = KnownText("2024-02-25")
			c.Amount = Rupees{Value: 0, Known: true}
			record = NewChequeRecord("m", c)
		})

		It("should reject each one with its own message", func() {
			expected := map[string]string{
				FieldBank:          "Bank name doesn't match known patterns",
				FieldAccountNumber: "Account number format invalid (should be 9-18 digits)",
				FieldIFSCCode:      "IFSC code format invalid (should be 11 alphanumeric characters)",
				FieldDate:          "Date format invalid (should be MM/DD/YYYY or DD/MM/YYYY)",
				FieldAmount:        "Amount should be positive",
			}
			for field, message := range expected {
				v, ok := verdicts.Get(field)
				Expect(ok).To(BeTrue())
				Expect(v.Checked).To(BeTrue())
				Expect(v.Valid).To(BeFalse())
				Expect(v.Message).To(Equal(message))
			}
		})
	})

	When("cheque fields are unknown", func() {
		BeforeEach(func() {
			record = NewChequeRecord("m", Cheque{})
		})

		It("should leave them invalid and silent", func() {
			for _, v := range verdicts {
				Expect(v.Valid).To(BeFalse())
				Expect(v.Checked).To(BeFalse())
				Expect(v.Message).To(BeEmpty())
			}
		})
	})

	When("a bank name only contains a known pattern", func() {
		BeforeEach(func() {
			c := sampleCheque()
			c.Bank = KnownText("icici bank limited, mumbai branch")
			record = NewChequeRecord("m", c)
		})

		It("should accept it", func() {
			v, _ := verdicts.Get(FieldBank)
			Expect(v.Valid).To(BeTrue())
		})
	})

	When("validating a bill", func() {
		BeforeEach(func() {
			record = NewBillRecord("m", Bill{
				VendorName:  KnownText("S"),
				BillNumber:  KnownText("INV-2024/001"),
				GSTNumber:   KnownText("27AAPFU0939F1ZV"),
				VendorPhone: KnownText("+91 98765 43210"),
				VendorEmail: KnownText("accounts@sharma"),
				Date:        KnownText("02/25/2024"),
				Currency:    LocalCurrency,
			})
		})

		It("should check the seven bill fields", func() {
			Expect(verdicts).To(HaveLen(7))
			Expect(ValidatedFields(KindBill)).To(HaveLen(7))
		})

		It("should apply each grammar", func() {
			get := func(field string) Verdict {
				v, ok := verdicts.Get(field)
				Expect(ok).To(BeTrue())
				return v
			}
			Expect(get(FieldVendorName).Message).To(Equal("Vendor name too short"))
			Expect(get(FieldBillNumber).Valid).To(BeTrue())
			Expect(get(FieldGSTNumber).Valid).To(BeTrue())
			Expect(get(FieldVendorPhone).Valid).To(BeTrue())
			Expect(get(FieldVendorEmail).Message).To(Equal("Email format invalid"))
			Expect(get(FieldDate).Valid).To(BeTrue())
			Expect(get(FieldTotalAmount).Checked).To(BeFalse())
		})
	})

	When("the record is nil", func() {
		BeforeEach(func() {
			record = nil
		})

		It("should return no verdicts", func() {
			Expect(verdicts).To(BeEmpty())
		})
	})
})

var _ = DescribeTable("date validation",
	func(date string, valid bool, message string) {
		c := sampleCheque()
		c.Date = KnownText(date)
		v, ok := Validate(NewChequeRecord("m", c)).Get(FieldDate)
		Expect(ok).To(BeTrue())
		Expect(v.Valid).To(Equal(valid))
		Expect(v.Message).To(Equal(message))
	},
	Entry("month first", "02/25/2024", true, ""),
	Entry("day first fallback", "25/02/2024", true, ""),
	Entry("ambiguous reads month first", "03/04/2024", true, ""),
	Entry("leap day", "02/29/2024", true, ""),
	Entry("impossible in both orders", "32/13/2024", false, "Invalid date (should be MM/DD/YYYY or DD/MM/YYYY and a valid date)"),
	Entry("non leap day", "02/29/2023", false, "Invalid date (should be MM/DD/YYYY or DD/MM/YYYY and a valid date)"),
	Entry("wrong shape", "25-02-2024", false, "Date format invalid (should be MM/DD/YYYY or DD/MM/YYYY)"),
)

var _ = Describe("ParseDate", func() {
	It("should prefer month-first", func() {
		t, ok := ParseDate("03/04/2024")
		Expect(ok).To(BeTrue())
		Expect(t.Month()).To(Equal(time.March))
		Expect(t.Day()).To(Equal(4))
	})

	It("should fall back to day-first when month-first is impossible", func() {
		t, ok := ParseDate("12/31/2024")
		Expect(ok).To(BeTrue())
		Expect(t.Month()).To(Equal(time.December))

		t, ok = ParseDate("31/12/2024")
		Expect(ok).To(BeTrue())
		Expect(t.Day()).To(Equal(31))
	})

	It("should fail when neither order is a real date", func() {
		t, ok := ParseDate("04/31/2024")
		Expect(ok).To(BeFalse())
		Expect(t.IsZero()).To(BeTrue())
	})

	It("should reject year zero", func() {
		_, ok := ParseDate("01/01/0000")
		Expect(ok).To(BeFalse())
		Expect(checkDate("01/01/0000")).To(Equal("Invalid date (should be MM/DD/YYYY or DD/MM/YYYY and a valid date)"))
	})
})

var _ = DescribeTable("phone validation",
	func(phone string, valid bool) {
		v, _ := Validate(NewBillRecord("m", Bill{VendorPhone: KnownText(phone)})).Get(FieldVendorPhone)
		Expect(v.Valid).To(Equal(valid))
	},
	Entry("indian mobile", "9876543210", true),
	Entry("north american", "(415) 555-0100", true),
	Entry("too short", "555-0100", false),
	Entry("letters", "call 9876543210", false),
	Entry("padding without digits", "+91 (98) 765", false),
)

var _ = DescribeTable("amount validation",
	func(amount Money, valid bool, message string) {
		v, _ := Validate(NewBillRecord("m", Bill{TotalAmount: amount})).Get(FieldTotalAmount)
		Expect(v.Valid).To(Equal(valid))
		Expect(v.Message).To(Equal(message))
	},
	Entry("positive", BillAmount("182.40"), true, ""),
	Entry("zero", BillAmount("0.00"), false, "Amount should be positive"),
	Entry("negative", BillAmount("-5.00"), false, "Amount should be positive"),
	Entry("unknown", Money{}, false, ""),
)
