package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("IsReceipt", func() {
	var (
		body    string
		snippet string
		hasPDF  bool
		result  bool
	)

	BeforeEach(func() {
		body = ""
		snippet = ""
		hasPDF = false
	})

	JustBeforeEach(func() {
		result = IsReceipt(body, snippet, hasPDF)
	})

	When("the body contains a keyword", func() {
		BeforeEach(func() {
			body = "Your order Total: $5.00"
		})

		It("should classify as a receipt", func() {
			Expect(result).To(BeTrue())
		})
	})

	When("the body contains a keyword in a different case", func() {
		BeforeEach(func() {
			body = "TRANSACTION ID: abc-123"
		})

		It("should classify as a receipt", func() {
			Expect(result).To(BeTrue())
		})
	})

	When("only the snippet mentions a receipt", func() {
		BeforeEach(func() {
			body = "thanks for your purchase"
			snippet = "Your Receipt from Acme"
		})

		It("should classify as a receipt", func() {
			Expect(result).To(BeTrue())
		})
	})

	When("only a PDF attachment is present", func() {
		BeforeEach(func() {
			hasPDF = true
		})

		It("should classify as a receipt", func() {
			Expect(result).To(BeTrue())
		})
	})

	When("nothing matches", func() {
		BeforeEach(func() {
			body = "see you at the meeting tomorrow"
			snippet = "see you at the meeting"
		})

		It("should not classify as a receipt", func() {
			Expect(result).To(BeFalse())
		})
	})
})
