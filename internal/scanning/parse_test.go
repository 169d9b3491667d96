package scanning

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ExtractJSON", func() {
	var (
		text string
		data map[string]any
		err  error
	)

	JustBeforeEach(func() {
		data, err = ExtractJSON(text)
	})

	When("the response is a bare object", func() {
		BeforeEach(func() {
			text = `{"bank_name": "HDFC BANK", "amount": "330000"}`
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return the fields", func() {
			Expect(data).To(HaveKeyWithValue("bank_name", "HDFC BANK"))
			Expect(data).To(HaveKeyWithValue("amount", "330000"))
		})
	})

	When("the object is wrapped in prose and a code fence", func() {
		BeforeEach(func() {
			text = "Here is the data you asked for:\n```json\n{\"vendor_name\": \"Acme Pvt Ltd\"}\n```\nLet me know if you need more."
		})

		It("should recover the object", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(HaveKeyWithValue("vendor_name", "Acme Pvt Ltd"))
		})
	})

	When("the object contains nested braces", func() {
		BeforeEach(func() {
			text = `result: {"a": {"b": 1}, "c": "x"} done`
		})

		It("should keep the outermost object", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(HaveKey("a"))
			Expect(data).To(HaveKeyWithValue("c", "x"))
		})
	})

	When("a number is long", func() {
		BeforeEach(func() {
			text = `{"account_number": 123456789012345678}`
		})

		It("should keep the literal digits", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(data["account_number"]).To(Equal(json.Number("123456789012345678")))
		})
	})

	When("there is no opening brace", func() {
		BeforeEach(func() {
			text = "I could not read this document."
		})

		It("should return a malformed response error", func() {
			Expect(err).To(MatchError(ErrMalformedResponse))
			Expect(err.Error()).To(ContainSubstring("no JSON object found"))
		})
	})

	When("the closing brace comes before the opening brace", func() {
		BeforeEach(func() {
			text = "} oops {"
		})

		It("should return a malformed response error", func() {
			Expect(err).To(MatchError(ErrMalformedResponse))
		})
	})

	When("the content between braces is not valid JSON", func() {
		BeforeEach(func() {
			text = `{"bank_name": HDFC}`
		})

		It("should return a malformed response error", func() {
			Expect(err).To(MatchError(ErrMalformedResponse))
		})
	})

	When("two objects are present", func() {
		BeforeEach(func() {
			text = `{"a": "1"} and {"b": "2"}`
		})

		It("should reject the span as malformed", func() {
			Expect(err).To(MatchError(ErrMalformedResponse))
		})
	})

	When("a stray closing brace follows the object", func() {
		BeforeEach(func() {
			text = `Here: {"bank": "SBI"}} done`
		})

		It("should return a malformed response error", func() {
			Expect(err).To(MatchError(ErrMalformedResponse))
		})
	})
})
