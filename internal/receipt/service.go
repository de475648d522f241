package receipt

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/zombor/receipt-mail/internal/extraction"
	"github.com/zombor/receipt-mail/internal/mailbox"
)

const (
	// noTotal is the internal sentinel for "no total resolved". Records
	// carrying it are dropped before a run's output is returned; it is
	// never surfaced.
	noTotal = "N/A"

	// noContent substitutes for a body that was missing or undecodable.
	noContent = "No readable content found."

	messageLinkFormat = "https://mail.google.com/mail/u/0/#inbox/%s"

	dateHeaderLayout  = "Mon, 2 Jan 2006 15:04:05 -0700"
	dateDisplayLayout = "02 Jan 2006"
)

// Mailbox lists and fetches mail messages. Every call is remote,
// blocking, and attempted exactly once; a failure is fatal for the
// whole run.
type Mailbox interface {
	// ListMessages returns the IDs of messages matching a search query.
	ListMessages(query string) ([]string, error)

	// GetMessage fetches a full message payload.
	GetMessage(id string) (*mailbox.Message, error)

	// GetAttachment fetches attachment data, url-safe base64 encoded.
	GetAttachment(messageID, attachmentID string) (string, error)
}

// TextExtractor recovers text from a PDF document. Best effort: an
// empty result for image-only pages is not an error.
type TextExtractor interface {
	ExtractText(pdfData []byte) (string, error)
}

// Renderer converts an HTML document to PDF bytes.
type Renderer interface {
	Render(html string) ([]byte, error)
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service runs the receipt pipeline over a mailbox: fetch, decode,
// classify, extract a total, and assemble records.
type Service struct {
	mail       Mailbox
	extractor  TextExtractor
	renderer   Renderer
	storage    Storage
	db         DB
	query      string
	timeSource TimeSource
}

// NewService creates a Service with the default time source.
func NewService(mail Mailbox, extractor TextExtractor, renderer Renderer, storage Storage, db DB, query string) *Service {
	return NewServiceWithDeps(mail, extractor, renderer, storage, db, query, &defaultTimeSource{})
}

// NewServiceWithDeps creates a Service with a custom time source for testing.
func NewServiceWithDeps(mail Mailbox, extractor TextExtractor, renderer Renderer, storage Storage, db DB, query string, timeSource TimeSource) *Service {
	return &Service{
		mail:       mail,
		extractor:  extractor,
		renderer:   renderer,
		storage:    storage,
		db:         db,
		query:      query,
		timeSource: timeSource,
	}
}

// CollectReceipts processes every message matching the configured query
// and returns the records whose total resolved, archiving them along
// the way. Messages are handled sequentially, one remote call at a
// time; the first fatal error aborts the run.
func (s *Service) CollectReceipts() ([]*Record, error) {
	ids, err := s.mail.ListMessages(s.query)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	collected := make([]*Record, 0, len(ids))
	var doomed []string
	for _, id := range ids {
		record, artifacts, err := s.processMessage(id)
		if err != nil {
			return nil, err
		}
		doomed = append(doomed, artifacts...)
		if record != nil {
			collected = append(collected, record)
		}
	}

	records := make([]*Record, 0, len(collected))
	for _, record := range collected {
		if record.Total == noTotal {
			continue
		}
		if err := s.db.SaveRecord(record); err != nil {
			// Archiving is bookkeeping; the run still succeeds.
			slog.Warn("Failed to archive record", "message_id", record.MessageID, "error", err)
		}
		records = append(records, record)
	}

	for _, name := range doomed {
		if err := s.storage.Delete(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Failed to delete artifact", "artifact", name, "error", err)
		}
	}

	return records, nil
}

// ArchivedRecords returns the records archived by previous runs.
func (s *Service) ArchivedRecords() ([]*Record, error) {
	records, err := s.db.ListRecords()
	if err != nil {
		return nil, fmt.Errorf("listing archived records: %w", err)
	}
	return records, nil
}

// processMessage runs one message through the pipeline. A nil record
// means the message did not classify as a receipt. The returned names
// are rendered artifacts to delete at end of run, populated only when
// no total resolved for the message.
func (s *Service) processMessage(id string) (*Record, []string, error) {
	msg, err := s.mail.GetMessage(id)
	if err != nil {
		return nil, nil, err
	}

	// A missing Date header is the one malformed field that fails the
	// run outright.
	dateHeader, ok := headerValue(msg.Headers, "Date")
	if !ok {
		return nil, nil, fmt.Errorf("message %s has no Date header", msg.ID)
	}

	senderName, senderEmail := extraction.ParseSender(msg.Headers, msg.Snippet)

	bodyData := msg.BodyData
	hasPDF := false
	total := ""
	haveTotal := false
	if bodyData == "" {
		for _, part := range msg.Parts {
			if part.MimeType == "text/plain" {
				bodyData = part.Data
			}
			// First PDF wins; later parts are still scanned for the
			// text/plain body fallback.
			if !hasPDF && part.Filename != "" && part.MimeType == "application/pdf" && part.AttachmentID != "" {
				text, err := s.resolveAttachment(msg.ID, part.AttachmentID)
				if err != nil {
					return nil, nil, err
				}
				hasPDF = true
				total, haveTotal = extraction.ExtractTotal(text)
			}
		}
	}

	body := noContent
	if bodyData != "" {
		decoded, err := extraction.DecodeBody(bodyData)
		if err != nil {
			slog.Warn("Undecodable message body", "message_id", msg.ID, "error", err)
		} else {
			body = decoded
			// A PDF-derived total takes priority over the body.
			if !haveTotal {
				total, haveTotal = extraction.ExtractTotal(body)
			}
		}
	}

	if !extraction.IsReceipt(body, msg.Snippet, hasPDF) {
		return nil, nil, nil
	}

	var artifacts []string
	if body != noContent && strings.Contains(strings.ToLower(body), "<html") {
		if name := s.renderBody(msg.ID, body); name != "" {
			artifacts = append(artifacts, name)
		}
	}

	record := &Record{
		MessageID:   msg.ID,
		Date:        formatDate(dateHeader),
		SenderName:  optional(senderName),
		SenderEmail: optional(senderEmail),
		ReceiptLink: fmt.Sprintf(messageLinkFormat, msg.ID),
		Snippet:     msg.Snippet,
		Total:       noTotal,
		HasPDF:      hasPDF,
	}
	if haveTotal {
		record.Total = total
		// A resolved total keeps its rendered artifacts.
		artifacts = nil
	}

	return record, artifacts, nil
}

// resolveAttachment fetches a PDF attachment, persists it long enough
// to run text extraction, and removes it again whether or not
// extraction succeeded. Extraction failure degrades to "no text"; the
// pipeline falls back to the body.
func (s *Service) resolveAttachment(messageID, attachmentID string) (string, error) {
	data, err := s.mail.GetAttachment(messageID, attachmentID)
	if err != nil {
		return "", err
	}

	pdfData, err := extraction.DecodeBytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding attachment for message %s: %w", messageID, err)
	}

	name := s.artifactName(messageID, "_ATT")
	if _, err := s.storage.Save(name, pdfData); err != nil {
		slog.Warn("Failed to persist attachment artifact", "artifact", name, "error", err)
	} else {
		defer func() {
			if err := s.storage.Delete(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
				slog.Warn("Failed to delete attachment artifact", "artifact", name, "error", err)
			}
		}()
	}

	text, err := s.extractor.ExtractText(pdfData)
	if err != nil {
		slog.Warn("PDF text extraction failed", "message_id", messageID, "error", err)
		return "", nil
	}

	return text, nil
}

// renderBody renders an HTML body to a record-keeping PDF artifact and
// returns its name, or "" when rendering or saving failed. Both
// failures are degraded, not fatal.
func (s *Service) renderBody(messageID, body string) string {
	pdfData, err := s.renderer.Render(body)
	if err != nil {
		slog.Warn("Failed to render message body", "message_id", messageID, "error", err)
		return ""
	}

	name := s.artifactName(messageID, "")
	saved, err := s.storage.Save(name, pdfData)
	if err != nil {
		slog.Warn("Failed to save rendered artifact", "artifact", name, "error", err)
		return ""
	}
	return saved
}

// artifactName derives a deterministic artifact filename from the
// message ID, falling back to a timestamp when there is none. Runs
// never overlap, so no further collision discipline is needed.
func (s *Service) artifactName(messageID, suffix string) string {
	if messageID == "" {
		return s.timeSource.Now().Format("20060102-150405") + suffix + ".pdf"
	}
	return messageID + suffix + ".pdf"
}

// headerValue scans a header list case-insensitively.
func headerValue(headers []mailbox.Header, name string) (string, bool) {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// formatDate parses the RFC-style Date header into a short display
// date. An unparseable value passes through unchanged; one odd date is
// never worth failing the run.
func formatDate(raw string) string {
	t, err := time.Parse(dateHeaderLayout, raw)
	if err != nil {
		return raw
	}
	return t.Format(dateDisplayLayout)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
