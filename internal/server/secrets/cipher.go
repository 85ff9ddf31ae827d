// Package secrets protects OIDC client secrets at rest. Values are
// encrypted with AES-256-GCM under a key derived per value with argon2id
// and serialized as four colon-delimited hex segments:
// salt:iv:tag:ciphertext. Anything not matching that shape is treated
// as plaintext.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/dmitrijs2005/linkmark/internal/common"
	"github.com/dmitrijs2005/linkmark/internal/server/config"
)

const (
	saltSize     = 16
	ivSize       = 12
	tagSize      = 16
	segmentCount = 4
)

// Classification is the result of inspecting a stored secret value.
type Classification int

const (
	// Plaintext: the value does not have the 4-segment encrypted shape.
	Plaintext Classification = iota
	// EncryptedWellFormed: encrypted shape and the tag verifies under
	// the current key.
	EncryptedWellFormed
	// EncryptedUndecryptable: encrypted shape but decryption fails,
	// wrong/old key or corruption. Never re-encrypt such a value.
	EncryptedUndecryptable
)

// Cipher encrypts and decrypts small secret strings with the
// process-wide encryption key. The key is distinct from the token
// signing key and validated at startup.
type Cipher struct {
	key []byte
}

func NewCipher(cfg *config.Config) *Cipher {
	return &Cipher{key: []byte(cfg.EncryptionKey)}
}

// deriveKey stretches the process key and a per-value salt into a
// 32-byte AES key.
func (c *Cipher) deriveKey(salt []byte) []byte {
	return argon2.IDKey(c.key, salt, 1, 64*1024, 4, 32)
}

// Encrypt seals plaintext with a fresh random salt and IV, so two calls
// on the same input produce different output.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	salt := common.GenerateRandByteArray(saltSize)
	iv := common.GenerateRandByteArray(ivSize)

	key := c.deriveKey(salt)
	defer common.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	sealed := aesgcm.Seal(nil, iv, []byte(plaintext), nil)

	// GCM appends the tag to the ciphertext; the wire format keeps them
	// as separate segments.
	ct := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]

	parts := []string{
		hex.EncodeToString(salt),
		hex.EncodeToString(iv),
		hex.EncodeToString(tag),
		hex.EncodeToString(ct),
	}
	return strings.Join(parts, ":"), nil
}

// Decrypt opens a value in the 4-segment format. A value without that
// shape returns common.ErrNotEncrypted; a well-shaped value whose tag
// does not verify returns common.ErrDecryptionFailed. The two cases are
// deliberately distinguishable.
func (c *Cipher) Decrypt(value string) (string, error) {
	salt, iv, tag, ct, err := splitSegments(value)
	if err != nil {
		return "", err
	}

	// A 4-segment value with wrong segment sizes was never produced by
	// Encrypt: corruption, not plaintext.
	if len(salt) != saltSize || len(iv) != ivSize || len(tag) != tagSize {
		return "", fmt.Errorf("%w: %s", common.ErrDecryptionFailed, "invalid segment lengths")
	}

	key := c.deriveKey(salt)
	defer common.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	plaintext, err := aesgcm.Open(nil, iv, append(ct, tag...), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %s", common.ErrDecryptionFailed, "authentication tag mismatch")
	}

	return string(plaintext), nil
}

// LooksEncrypted is the pure shape predicate: four colon-delimited,
// non-empty hex segments. A plaintext value that happens to contain
// three colons still fails the hex checks; callers that need certainty
// must attempt decryption (see Classify).
func LooksEncrypted(value string) bool {
	_, _, _, _, err := splitSegments(value)
	return err == nil
}

// Classify runs the shape check and then a decryption attempt, mapping
// a stored value to exactly one of the three states.
func (c *Cipher) Classify(value string) Classification {
	if !LooksEncrypted(value) {
		return Plaintext
	}
	if _, err := c.Decrypt(value); err != nil {
		return EncryptedUndecryptable
	}
	return EncryptedWellFormed
}

func splitSegments(value string) (salt, iv, tag, ct []byte, err error) {
	segments := strings.Split(value, ":")
	if len(segments) != segmentCount {
		return nil, nil, nil, nil, common.ErrNotEncrypted
	}

	decoded := make([][]byte, segmentCount)
	for i, segment := range segments {
		if segment == "" {
			return nil, nil, nil, nil, common.ErrNotEncrypted
		}
		b, decodeErr := hex.DecodeString(segment)
		if decodeErr != nil {
			return nil, nil, nil, nil, common.ErrNotEncrypted
		}
		decoded[i] = b
	}

	return decoded[0], decoded[1], decoded[2], decoded[3], nil
}
