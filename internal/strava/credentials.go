package strava

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// LoadCredentials reads a "client_id,client_secret" pair from path.
func LoadCredentials(path string) (string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read credentials file: %w", err)
	}
	return ParseCredentials(string(data))
}

// ParseCredentials parses the single-line "client_id,client_secret" format.
func ParseCredentials(s string) (string, string, error) {
	id, secret, ok := strings.Cut(strings.TrimSpace(s), ",")
	id, secret = strings.TrimSpace(id), strings.TrimSpace(secret)
	if !ok || id == "" || secret == "" {
		return "", "", errors.New("credentials must have the form client_id,client_secret")
	}
	if strings.Contains(secret, ",") {
		return "", "", errors.New("credentials must contain exactly one comma")
	}
	return id, secret, nil
}

// ResolveCredentials prefers explicitly configured values and falls back to the
// credentials file for whatever is missing.
func ResolveCredentials(clientID, clientSecret, path string) (string, string, error) {
	if clientID != "" && clientSecret != "" {
		return clientID, clientSecret, nil
	}
	fileID, fileSecret, err := LoadCredentials(path)
	if err != nil {
		return "", "", err
	}
	if clientID == "" {
		clientID = fileID
	}
	if clientSecret == "" {
		clientSecret = fileSecret
	}
	return clientID, clientSecret, nil
}
