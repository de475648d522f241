package extraction

import (
	"regexp"
	"strings"

	"github.com/zombor/receipt-mail/internal/mailbox"
)

// atCompanyPattern picks up phrases like "at Acme Corp": "at" followed
// by one or more words that each start with an uppercase letter. It is a
// heuristic and produces false positives; no further validation happens.
var atCompanyPattern = regexp.MustCompile(`at\s+([A-Z][a-zA-Z]*(?:\s+[A-Z][a-zA-Z]*)*)`)

// ParseSender extracts a display name and email address from the From
// header. A value with angle brackets splits into name and address;
// anything else is treated as a bare address. When no name is recovered
// the snippet is scanned for an "at <Company>" phrase as a fallback.
// Empty strings mean unset.
func ParseSender(headers []mailbox.Header, snippet string) (name, email string) {
	for _, h := range headers {
		if !strings.EqualFold(h.Name, "From") {
			continue
		}

		value := h.Value
		if strings.Contains(value, "<") && strings.Contains(value, ">") {
			parts := strings.SplitN(value, "<", 3)
			name = strings.Trim(strings.TrimSpace(parts[0]), `"`)
			email = strings.TrimSpace(strings.ReplaceAll(parts[1], ">", ""))
		} else {
			email = strings.TrimSpace(value)
		}
	}

	if name == "" {
		if m := atCompanyPattern.FindStringSubmatch(snippet); m != nil {
			name = strings.TrimSpace(m[1])
		}
	}

	return name, email
}
