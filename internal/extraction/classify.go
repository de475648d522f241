package extraction

import "strings"

// receiptKeywords are body substrings that mark a message as a likely
// receipt.
var receiptKeywords = []string{
	"total",
	"amount paid",
	"transaction id",
	"order id",
}

// IsReceipt reports whether a message looks like a purchase receipt: a
// keyword in the body, "receipt" in the snippet, or a PDF attachment.
// The check deliberately over-accepts; the pipeline drops records that
// never resolve a total.
func IsReceipt(body, snippet string, hasPDF bool) bool {
	if hasPDF {
		return true
	}

	lowerBody := strings.ToLower(body)
	for _, keyword := range receiptKeywords {
		if strings.Contains(lowerBody, keyword) {
			return true
		}
	}

	return strings.Contains(strings.ToLower(snippet), "receipt")
}
