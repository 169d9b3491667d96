package extraction

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/zombor/docverify/internal/document"
	"github.com/zombor/docverify/internal/scanning"
)

func readingOf(kind document.Kind, model, text string) *document.Record {
	raw, err := scanning.ExtractJSON(text)
	Expect(err).NotTo(HaveOccurred())
	record, err := document.Normalize(kind, model, raw)
	Expect(err).NotTo(HaveOccurred())
	return record
}

func resultOf(id string, kind document.Kind, text string, crossChecked bool) *Result {
	r := &Result{ID: id, Name: id + ".png", Kind: kind, Primary: readingOf(kind, "primary", text)}
	if crossChecked {
		r.Secondary = readingOf(kind, "secondary", text)
	}
	r.Verdicts = document.Validate(r.Primary)
	return r
}

func columnIndex(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	Fail("missing column " + name)
	return -1
}

var _ = Describe("Rows", func() {
	var results []*Result

	BeforeEach(func() {
		results = []*Result{
			resultOf("c1", document.KindCheque, chequeJSON, true),
			resultOf("b1", document.KindBill, billJSON, false),
			resultOf("c2", document.KindCheque, chequeJSON, false),
		}
	})

	Context("for cheques", func() {
		var (
			headers []string
			rows    [][]string
		)

		BeforeEach(func() {
			headers, rows = Rows(document.KindCheque, results)
		})

		It("should lead with the counter column", func() {
			Expect(headers[0]).To(Equal("Cheque No."))
			Expect(headers).To(ContainElements("Bank Name", "Rule-Based Accuracy", "IFSC Valid", "amount Matches"))
		})

		It("should include only cheques, numbered in order", func() {
			Expect(rows).To(HaveLen(2))
			Expect(rows[0][0]).To(Equal("1"))
			Expect(rows[1][0]).To(Equal("2"))
		})

		It("should render field values and verdicts", func() {
			Expect(rows[0][columnIndex(headers, "Bank Name")]).To(Equal("HDFC BANK"))
			Expect(rows[0][columnIndex(headers, "Amount")]).To(Equal("330000"))
			Expect(rows[0][columnIndex(headers, "Signature Present")]).To(Equal("Yes"))
			Expect(rows[0][columnIndex(headers, "IFSC Valid")]).To(Equal("Yes"))
			Expect(rows[0][columnIndex(headers, "Rule-Based Accuracy")]).To(Equal("100.0%"))
		})

		It("should render matches only when cross-checked", func() {
			Expect(rows[0][columnIndex(headers, "bank Matches")]).To(Equal("Yes"))
			Expect(rows[1][columnIndex(headers, "bank Matches")]).To(Equal(document.NA))
		})
	})

	Context("for bills", func() {
		It("should prefix money with the resolved currency", func() {
			headers, rows := Rows(document.KindBill, results)
			Expect(headers[0]).To(Equal("Bill No."))
			Expect(rows).To(HaveLen(1))
			Expect(rows[0][columnIndex(headers, "Total Amount")]).To(Equal("₹182.40"))
			Expect(rows[0][columnIndex(headers, "Tax Amount")]).To(Equal("₹12.50"))
			Expect(rows[0][columnIndex(headers, "Currency")]).To(Equal("₹"))
		})
	})

	It("should return nothing for unknown kinds", func() {
		headers, rows := Rows(document.KindUnknown, results)
		Expect(headers).To(BeNil())
		Expect(rows).To(BeNil())
	})
})

var _ = Describe("WriteWorkbook", func() {
	var (
		results []*Result
		f       *excelize.File
	)

	JustBeforeEach(func() {
		data, err := WriteWorkbook(results, nil)
		Expect(err).NotTo(HaveOccurred())
		f, err = excelize.OpenReader(bytes.NewReader(data))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(f.Close)
	})

	When("both kinds are present", func() {
		BeforeEach(func() {
			results = []*Result{
				resultOf("c1", document.KindCheque, chequeJSON, true),
				resultOf("b1", document.KindBill, billJSON, true),
			}
		})

		It("should write one sheet per kind", func() {
			Expect(f.GetSheetList()).To(Equal([]string{ChequeSheet, BillSheet}))
		})

		It("should write the header and data rows", func() {
			rows, err := f.GetRows(ChequeSheet)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			Expect(rows[0][0]).To(Equal("Cheque No."))
			Expect(rows[1][1]).To(Equal("HDFC BANK"))
		})
	})

	When("only bills are present", func() {
		BeforeEach(func() {
			results = []*Result{resultOf("b1", document.KindBill, billJSON, false)}
		})

		It("should skip the cheque sheet", func() {
			Expect(f.GetSheetList()).To(Equal([]string{BillSheet}))
		})
	})

	When("there are no results", func() {
		BeforeEach(func() {
			results = nil
		})

		It("should write an empty cheque sheet with headers", func() {
			Expect(f.GetSheetList()).To(Equal([]string{ChequeSheet}))
			rows, err := f.GetRows(ChequeSheet)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0][0]).To(Equal("Cheque No."))
		})
	})
})
