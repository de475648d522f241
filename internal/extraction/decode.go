package extraction

import (
	"encoding/base64"
	"fmt"
)

// DecodeBytes decodes the url-safe base64 transport encoding used for
// message bodies and attachment data. Both padded and raw variants are
// accepted; the mail API is not consistent about padding.
func DecodeBytes(data string) ([]byte, error) {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err == nil {
		return decoded, nil
	}

	decoded, rawErr := base64.RawURLEncoding.DecodeString(data)
	if rawErr != nil {
		return nil, fmt.Errorf("decoding transport data: %w", err)
	}
	return decoded, nil
}

// DecodeBody decodes an encoded message body into UTF-8 text. A decode
// failure means the message has no readable content; callers substitute
// a placeholder.
func DecodeBody(data string) (string, error) {
	decoded, err := DecodeBytes(data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
