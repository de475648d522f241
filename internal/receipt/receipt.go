package receipt

// Record is the normalized summary of one qualifying mail message. A
// record is constructed once per message and never mutated after
// emission; the pipeline only ever returns records whose total
// resolved.
type Record struct {
	MessageID   string  `json:"-"` // archive key, not part of the API shape
	Date        string  `json:"date"`
	SenderName  *string `json:"sender_name"`
	SenderEmail *string `json:"sender_email"`
	ReceiptLink string  `json:"receipt_link"`
	Snippet     string  `json:"snippet"`
	Total       string  `json:"total"`
	HasPDF      bool    `json:"has_pdf"`
}
