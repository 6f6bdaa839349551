// Package fieldcodec encrypts individual text fields for storage at rest.
//
// Encoded values have the form hex(nonce) ":" hex(ciphertext||tag) and are
// sealed with AES-256-GCM under a single process-wide key. A value that does
// not have that shape is treated as plaintext written before encryption
// existed, even when it happens to contain the separator.
package fieldcodec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// KeySize is the required key length in bytes (AES-256).
const KeySize = 32

const separator = ":"

// ErrInvalidKey is returned for keys that are not exactly KeySize bytes.
var ErrInvalidKey = fmt.Errorf("encryption key must be exactly %d bytes or %d hex characters", KeySize, KeySize*2)

// Status reports how a stored value was turned back into text.
type Status int

const (
	// StatusEmpty means the stored value was empty.
	StatusEmpty Status = iota
	// StatusDecoded means the value decrypted and authenticated.
	StatusDecoded
	// StatusPlain means the value had no encoded structure and was passed through.
	StatusPlain
	// StatusFailed means the value was shaped like an encoded value but did
	// not authenticate under the current key.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusDecoded:
		return "decoded"
	case StatusPlain:
		return "plain"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is the outcome of decoding one field.
type Result struct {
	Value  string
	Status Status
}

// OK reports whether Value is trustworthy clear text.
func (r Result) OK() bool {
	return r.Status != StatusFailed
}

// Codec is safe for concurrent use; it holds only immutable state.
type Codec struct {
	aead cipher.AEAD
	rand io.Reader
}

// KeyFromString accepts a 64 character hex string or a raw 32 byte string.
func KeyFromString(s string) ([]byte, error) {
	if len(s) == KeySize*2 {
		if key, err := hex.DecodeString(s); err == nil {
			return key, nil
		}
	}
	if len(s) == KeySize {
		return []byte(s), nil
	}
	return nil, ErrInvalidKey
}

// New builds a Codec for the given 32 byte key.
func New(key []byte) (*Codec, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return &Codec{aead: aead, rand: rand.Reader}, nil
}

// Encode seals plaintext under a fresh random nonce. Empty input is returned as is.
func (c *Codec) Encode(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(c.rand, nonce); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}
	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(nonce) + separator + hex.EncodeToString(sealed), nil
}

// Decode returns the clear text for token, or token itself when it cannot
// be opened. Use DecodeField to tell those cases apart.
func (c *Codec) Decode(token string) string {
	return c.DecodeField(token).Value
}

// DecodeField decodes token and reports how it was handled.
func (c *Codec) DecodeField(token string) Result {
	if token == "" {
		return Result{Status: StatusEmpty}
	}
	nonce, sealed, ok := c.split(token)
	if !ok {
		return Result{Value: token, Status: StatusPlain}
	}
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return Result{Value: token, Status: StatusFailed}
	}
	return Result{Value: string(plaintext), Status: StatusDecoded}
}

// Valid reports whether token is empty or opens under the current key.
func (c *Codec) Valid(token string) bool {
	if token == "" {
		return true
	}
	nonce, sealed, ok := c.split(token)
	if !ok {
		return false
	}
	_, err := c.aead.Open(nil, nonce, sealed, nil)
	return err == nil
}

// split parses the hex(nonce) ":" hex(sealed) shape without opening it.
func (c *Codec) split(token string) (nonce, sealed []byte, ok bool) {
	nonceHex, sealedHex, found := strings.Cut(token, separator)
	if !found || strings.Contains(sealedHex, separator) {
		return nil, nil, false
	}
	if len(nonceHex) != c.aead.NonceSize()*2 || len(sealedHex) < c.aead.Overhead()*2 {
		return nil, nil, false
	}
	nonce, err := hex.DecodeString(nonceHex)
	if err != nil {
		return nil, nil, false
	}
	sealed, err = hex.DecodeString(sealedHex)
	if err != nil {
		return nil, nil, false
	}
	return nonce, sealed, true
}
