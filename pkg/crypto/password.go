package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strconv"
	"unicode/utf16"
)

// PasswordHandler turns a plaintext password into a stored digest and
// checks a candidate password against one.
type PasswordHandler interface {
	Hash(password string) (string, error)
	Verify(password, digest string) (bool, error)
}

var (
	_ PasswordHandler = (*SHA256)(nil)
	_ PasswordHandler = (*DJB2)(nil)
	_ PasswordHandler = (*Fallback)(nil)
)

var ErrDigestUnavailable = errors.New("digest primitive unavailable")

// SHA256 digests passwords as lowercase hex SHA-256 of their UTF-8 bytes.
type SHA256 struct{}

func NewSHA256() *SHA256 {
	return &SHA256{}
}

func (s *SHA256) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

func (s *SHA256) Verify(password, digest string) (bool, error) {
	return verifyExact(s, password, digest)
}

// DJB2 is the non-cryptographic fallback digest. It walks UTF-16 code units
// with 32-bit wraparound so digests match the ones written by browsers
// lacking SubtleCrypto.
//
// WARN: offers no meaningful protection, it only avoids storing plaintext.
type DJB2 struct{}

func NewDJB2() *DJB2 {
	return &DJB2{}
}

func (d *DJB2) Hash(password string) (string, error) {
	h := int32(5381)
	for _, c := range utf16.Encode([]rune(password)) {
		h = int32(uint32(h)*33) ^ int32(c)
	}
	return strconv.FormatUint(uint64(uint32(h)), 16), nil
}

func (d *DJB2) Verify(password, digest string) (bool, error) {
	return verifyExact(d, password, digest)
}

// Fallback digests with Primary and switches to Secondary only when the
// primary reports an error.
type Fallback struct {
	Primary   PasswordHandler
	Secondary PasswordHandler
}

// NewFallback pairs the SHA-256 path with the DJB2 fallback.
func NewFallback() *Fallback {
	return &Fallback{
		Primary:   NewSHA256(),
		Secondary: NewDJB2(),
	}
}

func (f *Fallback) Hash(password string) (string, error) {
	digest, err := f.Primary.Hash(password)
	if err == nil {
		return digest, nil
	}
	return f.Secondary.Hash(password)
}

func (f *Fallback) Verify(password, digest string) (bool, error) {
	ok, err := f.Primary.Verify(password, digest)
	if err == nil {
		return ok, nil
	}
	return f.Secondary.Verify(password, digest)
}

func verifyExact(h PasswordHandler, password, digest string) (bool, error) {
	computed, err := h.Hash(password)
	if err != nil {
		return false, err
	}
	if len(computed) != len(digest) {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1, nil
}
