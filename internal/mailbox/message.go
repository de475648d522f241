package mailbox

// Header is a single name/value pair from a message's raw header list.
type Header struct {
	Name  string
	Value string
}

// Part is one MIME part of a message payload. Small parts arrive with
// inline Data; large attachments carry an AttachmentID to be fetched
// separately.
type Part struct {
	MimeType     string
	Filename     string
	Data         string // url-safe base64, inline
	AttachmentID string
}

// Message is the subset of a mail message the pipeline reads. It is
// read-only input for a single run.
type Message struct {
	ID       string
	Snippet  string
	Headers  []Header
	BodyData string // top-level inline body, url-safe base64
	Parts    []Part
}
