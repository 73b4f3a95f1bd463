// Package auth bootstraps the optional Gmail client used to deliver the
// finished chronicle to the newsroom. Direct sending is a convenience: when
// credential.json is absent the service runs fine with mailto handoff only.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
)

const (
	credentialFile = "credential.json"
	tokenFile      = "token.json"
)

// GetGmailClient returns an authenticated HTTP client with send scope, or nil
// when no credentials are configured.
func GetGmailClient() *http.Client {
	b, err := os.ReadFile(credentialFile)
	if err != nil {
		log.Printf("⚠️ No %s found — direct email delivery disabled.", credentialFile)
		return nil
	}

	config, err := google.ConfigFromJSON(b, gmail.GmailSendScope)
	if err != nil {
		log.Printf("⚠️ Unable to parse %s: %v — direct email delivery disabled.", credentialFile, err)
		return nil
	}

	return getClient(config)
}

// getClient retrieves a token from the local cache or prompts the user to
// authorize, then builds the HTTP client.
func getClient(config *oauth2.Config) *http.Client {
	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		tok = getTokenFromWeb(config)
		if tok == nil {
			return nil
		}
		saveToken(tokenFile, tok)
	}
	return config.Client(context.Background(), tok)
}

// getTokenFromWeb runs the manual authorization flow on the terminal.
func getTokenFromWeb(config *oauth2.Config) *oauth2.Token {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("\n---------------------------------------------------------\n")
	fmt.Printf("OPEN THIS LINK TO AUTHORIZE GMAIL SENDING:\n%v\n", authURL)
	fmt.Printf("---------------------------------------------------------\n")
	fmt.Printf("Paste the authorization code here: ")

	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		log.Printf("⚠️ Unable to read authorization code: %v", err)
		return nil
	}

	tok, err := config.Exchange(context.Background(), authCode)
	if err != nil {
		log.Printf("⚠️ Unable to exchange authorization code: %v", err)
		return nil
	}
	return tok
}

// tokenFromFile loads a cached token.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// saveToken caches a token for future runs.
func saveToken(path string, token *oauth2.Token) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		log.Printf("⚠️ Unable to cache oauth token: %v", err)
		return
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(token); err != nil {
		log.Printf("⚠️ Unable to write oauth token: %v", err)
	}
}
