package mailbox

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Gmail is a thin client over the Gmail API for a single authenticated
// user. The oauth2 token source is owned by the caller; Gmail only
// consumes it.
type Gmail struct {
	svc  *gmail.Service
	user string
}

// NewGmail creates a Gmail client from a caller-owned token source.
func NewGmail(ctx context.Context, tokenSource oauth2.TokenSource) (*Gmail, error) {
	svc, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("creating gmail service: %w", err)
	}

	return &Gmail{svc: svc, user: "me"}, nil
}

// ListMessages returns the IDs of messages matching the search query.
func (g *Gmail) ListMessages(query string) ([]string, error) {
	resp, err := g.svc.Users.Messages.List(g.user).Q(query).Do()
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.Id)
	}
	return ids, nil
}

// GetMessage fetches the full payload of a single message.
func (g *Gmail) GetMessage(id string) (*Message, error) {
	m, err := g.svc.Users.Messages.Get(g.user, id).Format("full").Do()
	if err != nil {
		return nil, fmt.Errorf("fetching message %s: %w", id, err)
	}

	msg := &Message{
		ID:      m.Id,
		Snippet: m.Snippet,
	}
	if m.Payload == nil {
		return msg, nil
	}

	for _, h := range m.Payload.Headers {
		msg.Headers = append(msg.Headers, Header{Name: h.Name, Value: h.Value})
	}
	if m.Payload.Body != nil {
		msg.BodyData = m.Payload.Body.Data
	}
	for _, p := range m.Payload.Parts {
		part := Part{
			MimeType: p.MimeType,
			Filename: p.Filename,
		}
		if p.Body != nil {
			part.Data = p.Body.Data
			part.AttachmentID = p.Body.AttachmentId
		}
		msg.Parts = append(msg.Parts, part)
	}

	return msg, nil
}

// GetAttachment fetches attachment bytes, still url-safe base64 encoded
// as the API delivers them.
func (g *Gmail) GetAttachment(messageID, attachmentID string) (string, error) {
	a, err := g.svc.Users.Messages.Attachments.Get(g.user, messageID, attachmentID).Do()
	if err != nil {
		return "", fmt.Errorf("fetching attachment for message %s: %w", messageID, err)
	}
	return a.Data, nil
}
