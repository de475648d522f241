package mailbox

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
)

// NewTokenSource builds an oauth2 token source from an installed-app
// client secret file and a previously stored user token. Obtaining the
// initial token (the interactive consent flow) is outside this service;
// the token source refreshes it as needed.
func NewTokenSource(ctx context.Context, credentialsPath, tokenPath string) (oauth2.TokenSource, error) {
	secret, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("reading client secret: %w", err)
	}

	config, err := google.ConfigFromJSON(secret, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parsing client secret: %w", err)
	}

	raw, err := os.ReadFile(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(raw, &token); err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	return config.TokenSource(ctx, &token), nil
}
