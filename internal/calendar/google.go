package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	credentialsFile = "credentials.json"
	tokenFile       = "token.json"
)

// NewService builds an authenticated Calendar service from the credentials
// and token files in configDir. The token must have been obtained beforehand
// with Authorize; without one this returns an error rather than blocking on
// an interactive flow.
func NewService(ctx context.Context, configDir string) (*gcal.Service, error) {
	cfg, err := oauthConfig(configDir)
	if err != nil {
		return nil, err
	}
	tok, err := tokenFromFile(filepath.Join(configDir, tokenFile))
	if err != nil {
		return nil, fmt.Errorf("no calendar token, run authorization first: %w", err)
	}
	return gcal.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx, tok)))
}

// Authorize exchanges an authorization code for a token and stores it next to
// the credentials. AuthURL supplies the page the user gets the code from.
func Authorize(ctx context.Context, configDir, code string) error {
	cfg, err := oauthConfig(configDir)
	if err != nil {
		return err
	}
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("token exchange failed: %w", err)
	}
	return saveToken(filepath.Join(configDir, tokenFile), tok)
}

func AuthURL(configDir string) (string, error) {
	cfg, err := oauthConfig(configDir)
	if err != nil {
		return "", err
	}
	return cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline), nil
}

func oauthConfig(configDir string) (*oauth2.Config, error) {
	b, err := os.ReadFile(filepath.Join(configDir, credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}
	cfg, err := google.ConfigFromJSON(b, gcal.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file: %w", err)
	}
	return cfg, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	return tok, json.NewDecoder(f).Decode(tok)
}

func saveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}
