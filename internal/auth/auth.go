// Package auth signs Kalshi API requests with RSA-PSS.
package auth

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Header names sent on every authenticated request.
const (
	HeaderAccessKey       = "KALSHI-ACCESS-KEY"
	HeaderAccessSignature = "KALSHI-ACCESS-SIGNATURE"
	HeaderAccessTimestamp = "KALSHI-ACCESS-TIMESTAMP"
	HeaderContentType     = "Content-Type"
)

var (
	// ErrInvalidCredentials is returned when the key ID or key material is
	// missing or unreadable. Callers treat it as a configuration error.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSign is returned when a request signature cannot be produced.
	ErrSign = errors.New("sign request")
)

// Credentials holds the API key and private key for signing requests.
// A Credentials value is immutable once loaded.
type Credentials struct {
	KeyID      string          // API key ID from Kalshi dashboard
	PrivateKey *rsa.PrivateKey // RSA private key for signing

	now func() time.Time
}

// NewCredentials wraps an already parsed key.
func NewCredentials(keyID string, key *rsa.PrivateKey) (*Credentials, error) {
	if keyID == "" {
		return nil, fmt.Errorf("%w: API key ID is required", ErrInvalidCredentials)
	}
	if key == nil {
		return nil, fmt.Errorf("%w: private key is required", ErrInvalidCredentials)
	}
	return &Credentials{KeyID: keyID, PrivateKey: key}, nil
}

// LoadCredentials loads credentials from key ID and private key file path.
func LoadCredentials(keyID, privateKeyPath string) (*Credentials, error) {
	if keyID == "" {
		return nil, fmt.Errorf("%w: API key ID is required", ErrInvalidCredentials)
	}
	if privateKeyPath == "" {
		return nil, fmt.Errorf("%w: private key path is required", ErrInvalidCredentials)
	}

	privateKey, err := LoadPrivateKey(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("%w: load private key: %w", ErrInvalidCredentials, err)
	}

	return NewCredentials(keyID, privateKey)
}

// LoadPrivateKey loads an RSA private key from a PEM file.
func LoadPrivateKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	return ParsePrivateKey(data)
}

// ParsePrivateKey decodes a PEM block holding a PKCS#8 or PKCS#1 RSA key.
func ParsePrivateKey(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("failed to decode PEM block")
	}

	// Try PKCS#8 first (newer format)
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.New("key is not an RSA private key")
		}
		return rsaKey, nil
	}

	// Fall back to PKCS#1 (older format)
	rsaKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	return rsaKey, nil
}

// SignRequest generates authentication headers for a Kalshi API request.
// path is the full request path including the /trade-api/v2 prefix and
// without the query string.
func (c *Credentials) SignRequest(method, path string) (map[string]string, error) {
	timestampMs := c.clock().UnixMilli()

	signature, err := c.generateSignature(timestampMs, method, path)
	if err != nil {
		return nil, err
	}

	return map[string]string{
		HeaderAccessKey:       c.KeyID,
		HeaderAccessTimestamp: strconv.FormatInt(timestampMs, 10),
		HeaderAccessSignature: signature,
		HeaderContentType:     "application/json",
	}, nil
}

// SigningMessage returns the exact bytes that are signed for a request.
func SigningMessage(timestampMs int64, method, path string) []byte {
	return []byte(strconv.FormatInt(timestampMs, 10) + method + path)
}

// generateSignature creates an RSA-PSS signature for the given request.
func (c *Credentials) generateSignature(timestampMs int64, method, path string) (string, error) {
	if c.PrivateKey == nil {
		return "", fmt.Errorf("%w: no private key loaded", ErrSign)
	}

	hashed := sha256.Sum256(SigningMessage(timestampMs, method, path))

	signature, err := rsa.SignPSS(
		rand.Reader,
		c.PrivateKey,
		crypto.SHA256,
		hashed[:],
		&rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash},
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSign, err)
	}

	return base64.StdEncoding.EncodeToString(signature), nil
}

func (c *Credentials) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}
