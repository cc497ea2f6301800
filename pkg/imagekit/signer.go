// Package imagekit issues short-lived upload authentication parameters
// for browser-direct uploads to the media CDN. The private key never
// leaves the server; the browser only receives a token, an expiry and
// an HMAC signature over the two.
package imagekit

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Config holds the media CDN credentials loaded from the environment.
type Config struct {
	PublicKey   string        `env:"IMAGEKIT_PUBLIC_KEY,required"`
	PrivateKey  string        `env:"IMAGEKIT_PRIVATE_KEY,required"`
	URLEndpoint string        `env:"IMAGEKIT_URL_ENDPOINT,required"`
	TokenTTL    time.Duration `env:"IMAGEKIT_TOKEN_TTL" envDefault:"30m"`
}

var ErrMissingPrivateKey = errors.New("imagekit: private key must not be empty")

// UploadAuth is the parameter set the ImageKit upload API expects
// alongside the file.
type UploadAuth struct {
	Token     string `json:"token"`
	Expire    int64  `json:"expire"`
	Signature string `json:"signature"`
}

// Signer produces upload authentication parameters.
type Signer struct {
	privateKey []byte
	ttl        time.Duration
	clock      func() time.Time
	newToken   func() string
}

// SignerOption configures optional Signer behavior.
type SignerOption func(*Signer)

// WithClock substitutes the time source. Intended for tests.
func WithClock(clock func() time.Time) SignerOption {
	return func(s *Signer) {
		s.clock = clock
	}
}

// WithTokenFunc substitutes the token generator. Intended for tests.
func WithTokenFunc(newToken func() string) SignerOption {
	return func(s *Signer) {
		s.newToken = newToken
	}
}

// NewSigner creates a signer for the given private key and token TTL.
// Panics if the private key is empty.
func NewSigner(privateKey string, ttl time.Duration, opts ...SignerOption) *Signer {
	if privateKey == "" {
		panic(ErrMissingPrivateKey)
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	s := &Signer{
		privateKey: []byte(privateKey),
		ttl:        ttl,
		clock:      time.Now,
		newToken:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UploadAuth issues a fresh single-use parameter set. The signature is
// the hex HMAC-SHA1 of token concatenated with the expiry, which is
// what the upload API verifies.
func (s *Signer) UploadAuth() UploadAuth {
	token := s.newToken()
	expire := s.clock().Add(s.ttl).Unix()

	mac := hmac.New(sha1.New, s.privateKey)
	mac.Write([]byte(token + strconv.FormatInt(expire, 10)))

	return UploadAuth{
		Token:     token,
		Expire:    expire,
		Signature: hex.EncodeToString(mac.Sum(nil)),
	}
}
