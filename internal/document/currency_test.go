package document

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("InferCurrency", func() {
	var bill Bill

	BeforeEach(func() {
		bill = Bill{}
	})

	When("the bill carries a local tax ID and a local phone", func() {
		BeforeEach(func() {
			bill.GSTNumber = KnownText("27AAPFU0939F1ZV")
			bill.VendorPhone = KnownText("+91 9876543210")
		})

		It("should tally local votes only", func() {
			local, foreign := CurrencyVotes(&bill)
			Expect(local).To(Equal(5.0))
			Expect(foreign).To(Equal(0.0))
		})

		It("should resolve to the local symbol", func() {
			Expect(InferCurrency(&bill)).To(Equal(LocalCurrency))
		})
	})

	When("the bill has a foreign phone and a foreign vendor name", func() {
		BeforeEach(func() {
			bill.VendorPhone = KnownText("415-555-0100")
			bill.VendorName = KnownText("Globex Inc.")
		})

		It("should resolve to the foreign symbol", func() {
			local, foreign := CurrencyVotes(&bill)
			Expect(local).To(Equal(0.0))
			Expect(foreign).To(Equal(3.0))
			Expect(InferCurrency(&bill)).To(Equal(ForeignCurrency))
		})
	})

	When("the bill carries no signals", func() {
		It("should default to the local symbol", func() {
			Expect(InferCurrency(&bill)).To(Equal(LocalCurrency))
		})
	})

	When("signals tie", func() {
		BeforeEach(func() {
			bill.VendorName = KnownText("Acme LLC")
			bill.VendorEmail = KnownText("billing@acme.co.in")
		})

		It("should resolve to the local symbol", func() {
			local, foreign := CurrencyVotes(&bill)
			Expect(local).To(Equal(foreign))
			Expect(InferCurrency(&bill)).To(Equal(LocalCurrency))
		})
	})

	When("only a commercial email domain is present", func() {
		BeforeEach(func() {
			bill.VendorEmail = KnownText("sales@example.com")
		})

		It("should count a weak foreign vote", func() {
			_, foreign := CurrencyVotes(&bill)
			Expect(foreign).To(Equal(0.5))
			Expect(InferCurrency(&bill)).To(Equal(ForeignCurrency))
		})
	})

	When("marker text appears inside a longer word", func() {
		BeforeEach(func() {
			bill.VendorName = KnownText("Gemstone Incorporated")
		})

		It("should not count it", func() {
			local, foreign := CurrencyVotes(&bill)
			Expect(local).To(BeZero())
			Expect(foreign).To(BeZero())
		})
	})
})

var _ = Describe("ResolveCurrency", func() {
	It("should keep a recognised symbol", func() {
		Expect(ResolveCurrency(KnownText("€"), &Bill{})).To(Equal("€"))
	})

	It("should map words case-insensitively", func() {
		Expect(ResolveCurrency(KnownText("Dollars"), &Bill{})).To(Equal("$"))
		Expect(ResolveCurrency(KnownText("JPY"), &Bill{})).To(Equal("¥"))
	})

	It("should infer when the value is unknown", func() {
		bill := &Bill{VendorPhone: KnownText("+1 4155550100")}
		Expect(ResolveCurrency(Text{}, bill)).To(Equal(ForeignCurrency))
	})
})
