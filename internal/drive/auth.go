package drive

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	scopeDriveReadonly = "https://www.googleapis.com/auth/drive.readonly"
	defaultTokenURI    = "https://oauth2.googleapis.com/token"
	jwtBearerGrant     = "urn:ietf:params:oauth:grant-type:jwt-bearer"
)

// serviceAccountKey is the subset of a Google service account JSON key
// that the token exchange needs.
type serviceAccountKey struct {
	Type         string `json:"type"`
	ClientEmail  string `json:"client_email"`
	PrivateKey   string `json:"private_key"`
	PrivateKeyID string `json:"private_key_id"`
	TokenURI     string `json:"token_uri"`
}

// tokenSource exchanges a signed service-account assertion for short-lived
// access tokens and caches the current one until it is close to expiry.
type tokenSource struct {
	key        *serviceAccountKey
	privateKey *rsa.PrivateKey
	client     *http.Client

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// newTokenSource loads and validates a service account key file.
func newTokenSource(credentialsFile string) (*tokenSource, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("could not read credentials file %q: %w", credentialsFile, err)
	}

	var key serviceAccountKey
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, fmt.Errorf("could not parse credentials file: %w", err)
	}
	if key.Type != "service_account" {
		return nil, fmt.Errorf("credentials file is not a service account key (type %q)", key.Type)
	}
	if key.ClientEmail == "" || key.PrivateKey == "" {
		return nil, fmt.Errorf("credentials file is missing client_email or private_key")
	}
	if key.TokenURI == "" {
		key.TokenURI = defaultTokenURI
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(key.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("could not parse service account private key: %w", err)
	}

	return &tokenSource{
		key:        &key,
		privateKey: privateKey,
		client:     &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Token returns a valid access token, refreshing it when the cached one is
// within a minute of expiry.
func (ts *tokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != "" && time.Until(ts.expiry) > time.Minute {
		return ts.token, nil
	}

	assertion, err := ts.signAssertion()
	if err != nil {
		return "", err
	}

	token, expiresIn, err := ts.exchange(ctx, assertion)
	if err != nil {
		return "", err
	}

	ts.token = token
	ts.expiry = time.Now().Add(time.Duration(expiresIn) * time.Second)
	return ts.token, nil
}

// signAssertion builds and signs the RS256 JWT assertion for the token exchange.
func (ts *tokenSource) signAssertion() (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   ts.key.ClientEmail,
		"scope": scopeDriveReadonly,
		"aud":   ts.key.TokenURI,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if ts.key.PrivateKeyID != "" {
		token.Header["kid"] = ts.key.PrivateKeyID
	}

	assertion, err := token.SignedString(ts.privateKey)
	if err != nil {
		return "", fmt.Errorf("could not sign token assertion: %w", err)
	}
	return assertion, nil
}

// exchange posts the assertion to the token endpoint and returns the access
// token and its lifetime in seconds.
func (ts *tokenSource) exchange(ctx context.Context, assertion string) (string, int, error) {
	form := url.Values{}
	form.Set("grant_type", jwtBearerGrant)
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.key.TokenURI, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("could not create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("could not send token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("could not read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", 0, fmt.Errorf("could not unmarshal token response: %w", err)
	}
	if result.AccessToken == "" {
		return "", 0, fmt.Errorf("token response contained no access token")
	}
	if result.ExpiresIn <= 0 {
		result.ExpiresIn = 3600
	}

	return result.AccessToken, result.ExpiresIn, nil
}
