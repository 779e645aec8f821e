package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
)

const (
	DefaultTokenLength = 32 // 256 bits
)

var ErrEmptyToken = errors.New("token and hash cannot be empty")

// TokenPair is a freshly generated bearer token and its storage form.
// Only the hash ever touches the database.
type TokenPair struct {
	Token string // value returned to client
	Hash  string // value in storage
}

// GenerateHashedToken returns a random URL-safe token of byteLength
// random bytes alongside its SHA-256 hash. A non-positive length falls
// back to DefaultTokenLength.
func GenerateHashedToken(byteLength int) (*TokenPair, error) {
	if byteLength <= 0 {
		byteLength = DefaultTokenLength
	}

	bytes := make([]byte, byteLength)
	if _, err := rand.Read(bytes); err != nil {
		return nil, err
	}

	token := base64.RawURLEncoding.EncodeToString(bytes)

	return &TokenPair{
		Token: token,
		Hash:  HashToken(token),
	}, nil
}

// VerifyToken reports whether token hashes to storedHash.
func VerifyToken(token, storedHash string) (bool, error) {
	if token == "" || storedHash == "" {
		return false, ErrEmptyToken
	}

	tokenHash := HashToken(token)

	// Constant-time comparison to prevent timing attacks
	return subtle.ConstantTimeCompare([]byte(tokenHash), []byte(storedHash)) == 1, nil
}

func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
