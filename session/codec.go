package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"

	apperrors "github.com/taskjarvis/web-gateway/internal/errors"
)

const (
	// minSecretLength mirrors the config-level check; the codec enforces it
	// again so it can never be constructed around a weak key.
	minSecretLength = 32
	// keyInfo namespaces the derived key so the same secret can be reused
	// for other purposes without key collisions.
	keyInfo = "taskjarvis-session-cookie-v1"
)

// Codec seals session payloads into opaque tokens and opens them again.
// Tokens are AES-256-GCM sealed JSON with the key derived from the configured
// secret via HKDF-SHA256, so the ciphertext is both confidential and
// tamper-evident: the browser holds the cookie but can read nothing from it.
type Codec struct {
	aead    cipher.AEAD
	nowTime func() time.Time
}

// CodecOption configures a Codec.
type CodecOption func(*Codec)

// WithNowTime sets the clock used for expiry checks (primarily for testing).
func WithNowTime(nowFunc func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowTime = nowFunc
	}
}

// NewCodec creates a codec from the configured secret. It fails when the
// secret is missing or too short - encoding with a default or empty key is
// never an option.
func NewCodec(secret string, options ...CodecOption) (*Codec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, apperrors.ErrNoSessionSecret
	}
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("%w: %d chars, need at least %d",
			apperrors.ErrSessionSecretShort, len(secret), minSecretLength)
	}

	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("[NewCodec] derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("[NewCodec] aes cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("[NewCodec] gcm mode: %w", err)
	}

	codec := &Codec{
		aead:    aead,
		nowTime: time.Now,
	}

	for _, opt := range options {
		opt(codec)
	}

	return codec, nil
}

// Encode seals a payload into an opaque base64url token.
func (c *Codec) Encode(payload Payload) (string, error) {
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("[Codec.Encode] marshal payload: %w", err)
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("[Codec.Encode] nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decode opens a token and classifies the outcome. It never returns an error:
// absent, malformed, tampered, and expired tokens all degrade to non-valid
// results, which callers treat as "no session". The expiry check uses the
// codec clock at decode time, so a token expires correctly no matter when it
// was encoded. A token is expired at the exact expiry instant, not after it.
func (c *Codec) Decode(token string) Result {
	if token == "" {
		return Result{State: StateAbsent}
	}

	sealed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Result{State: StateInvalid}
	}

	if len(sealed) < c.aead.NonceSize() {
		return Result{State: StateInvalid}
	}

	nonce, ciphertext := sealed[:c.aead.NonceSize()], sealed[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return Result{State: StateInvalid}
	}

	var payload Payload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return Result{State: StateInvalid}
	}

	if !c.nowTime().Before(payload.ExpiresAt) {
		return Result{State: StateExpired}
	}

	return Result{State: StateValid, payload: payload}
}
