// Package auth implements the two-phase AUTH handshake: client identity
// exchange, server verifier selection, and the PBKDF2/AES-256-CBC session
// key derivation that follows.
package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha1" //nolint:gosec // required by the legacy 11g verifier profile
	"crypto/sha512"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// VerifierProfile identifies which password-hashing scheme the server
// advertised in AUTH_VFR_DATA's flags field. Any profile outside this pair
// must be refused.
type VerifierProfile int

const (
	VerifierProfile11gSHA1 VerifierProfile = iota
	VerifierProfile12cPBKDF2
)

// speedyKeySuffix is appended to the verifier salt when deriving the 12c
// password key, per the server's fixed protocol string.
const speedyKeySuffix = "AUTH_PBKDF2_SPEEDY_KEY"

// keyLength11g and keyLength12c are the session-key lengths (bytes) used
// when combining sessionKeyPartA/B, per verifier profile.
const (
	keyLength11g = 24
	keyLength12c = 32
)

// derivePasswordHash computes the password hash used as the AES key to
// decrypt the server's session-key material. For the 12c profile it also
// returns the 64-byte PBKDF2 password key that the speedy-key derivation
// needs, separately from the hash derived from it; the 11g profile has no
// such intermediate value and returns a nil passwordKey.
func derivePasswordHash(profile VerifierProfile, password string, verifierSalt []byte, vgenCount, sderCount int) (passwordHash, passwordKey []byte, err error) {
	switch profile {
	case VerifierProfile11gSHA1:
		h := sha1.New() //nolint:gosec // 11g verifier profile mandates SHA-1
		h.Write([]byte(password))
		h.Write(verifierSalt)
		sum := h.Sum(nil)
		return append(sum, 0, 0, 0, 0), nil, nil
	case VerifierProfile12cPBKDF2:
		if vgenCount <= 0 {
			return nil, nil, fmt.Errorf("auth: invalid pbkdf2 vgen count %d", vgenCount)
		}
		passwordKey = pbkdf2.Key([]byte(password), append(append([]byte{}, verifierSalt...), speedyKeySuffix...), vgenCount, 64, sha512.New)
		sum := sha512.Sum512(append(passwordKey, verifierSalt...))
		return sum[:32], passwordKey, nil
	default:
		return nil, nil, fmt.Errorf("auth: unsupported verifier profile %d", profile)
	}
}

// aesCBCZeroIV decrypts or encrypts data with AES-256-CBC using a zero IV,
// as the AUTH key-exchange messages require, returning the result in a new
// slice. data's length must be a multiple of the AES block size.
func aesCBCZeroIV(key, data []byte, encrypt bool) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("auth: new cipher: %w", err)
	}
	if len(data)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("auth: data length %d is not a multiple of the AES block size", len(data))
	}
	iv := make([]byte, aes.BlockSize)
	out := make([]byte, len(data))
	if encrypt {
		cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, data)
	} else {
		cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, data)
	}
	return out, nil
}

// aesCBC encrypts data with AES-CBC using the given key and IV (no zero-IV
// restriction), used for the password and speedy-key payloads which carry
// their own random prefix.
func aesCBC(key, iv, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("auth: new cipher: %w", err)
	}
	if len(data)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("auth: data length %d is not a multiple of the AES block size", len(data))
	}
	out := make([]byte, len(data))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, data)
	return out, nil
}

// sessionKeyLength returns the comboKey/sessionKey length for profile.
func sessionKeyLength(profile VerifierProfile) int {
	if profile == VerifierProfile12cPBKDF2 {
		return keyLength12c
	}
	return keyLength11g
}

// SessionMaterial is the result of deriving the session key from the
// server's challenge.
type SessionMaterial struct {
	SessionKey         []byte
	SessionKeyExchange string // hex-uppercased sessionKeyPartB, sent to the server
	SpeedyKey          []byte // 12c only
	RandomPrefix       []byte // the 16-byte IV prefix used for password/new-password encryption
}

// DeriveSessionKey recovers the server's session-key material, generates
// the client half, and derives the shared session key.
func DeriveSessionKey(profile VerifierProfile, password string, verifierSaltHex, encryptedServerKeyHex, cskSaltHex string, vgenCount, sderCount int) (SessionMaterial, error) {
	verifierSalt, err := hex.DecodeString(verifierSaltHex)
	if err != nil {
		return SessionMaterial{}, fmt.Errorf("auth: decode verifier salt: %w", err)
	}
	encryptedServerKey, err := hex.DecodeString(encryptedServerKeyHex)
	if err != nil {
		return SessionMaterial{}, fmt.Errorf("auth: decode server key material: %w", err)
	}
	cskSalt, err := hex.DecodeString(cskSaltHex)
	if err != nil {
		return SessionMaterial{}, fmt.Errorf("auth: decode csk salt: %w", err)
	}

	passwordHash, passwordKey, err := derivePasswordHash(profile, password, verifierSalt, vgenCount, sderCount)
	if err != nil {
		return SessionMaterial{}, err
	}

	sessionKeyPartA, err := aesCBCZeroIV(passwordHash, encryptedServerKey, false)
	if err != nil {
		return SessionMaterial{}, fmt.Errorf("auth: decrypt server session key: %w", err)
	}

	sessionKeyPartB := make([]byte, 32)
	if _, err := rand.Read(sessionKeyPartB); err != nil {
		return SessionMaterial{}, fmt.Errorf("auth: generate session key part B: %w", err)
	}
	encryptedPartB, err := aesCBCZeroIV(passwordHash, sessionKeyPartB, true)
	if err != nil {
		return SessionMaterial{}, fmt.Errorf("auth: encrypt session key part B: %w", err)
	}

	keyLen := sessionKeyLength(profile)
	combo := append(append([]byte{}, sessionKeyPartB[:keyLen]...), sessionKeyPartA[:keyLen]...)
	comboHex := []byte(hexUpper(combo))
	sessionKey := pbkdf2.Key(comboHex, cskSalt, sderCount, keyLen, sha512.New)

	material := SessionMaterial{
		SessionKey:         sessionKey,
		SessionKeyExchange: hexUpper(encryptedPartB),
	}

	randomPrefix := make([]byte, 16)
	if _, err := rand.Read(randomPrefix); err != nil {
		return SessionMaterial{}, fmt.Errorf("auth: generate random prefix: %w", err)
	}
	material.RandomPrefix = randomPrefix

	if profile == VerifierProfile12cPBKDF2 {
		speedyInput := append(append([]byte{}, randomPrefix...), passwordKey...)
		speedy, err := aesCBC(sessionKey, randomPrefix, padTo(speedyInput, aes.BlockSize))
		if err != nil {
			return SessionMaterial{}, fmt.Errorf("auth: derive speedy key: %w", err)
		}
		if len(speedy) > 80 {
			speedy = speedy[:80]
		}
		material.SpeedyKey = speedy
	}

	return material, nil
}

// EncryptPassword encrypts password (or a new password) for transmission,
// prefixed with the session's random IV prefix.
func EncryptPassword(sessionKey, randomPrefix []byte, password string) (string, error) {
	payload := append(append([]byte{}, randomPrefix...), password...)
	enc, err := aesCBC(sessionKey, randomPrefix, padTo(payload, aes.BlockSize))
	if err != nil {
		return "", fmt.Errorf("auth: encrypt password: %w", err)
	}
	return hexUpper(enc), nil
}

func hexUpper(b []byte) string {
	return fmt.Sprintf("%X", b)
}

// padTo zero-pads data to a multiple of blockSize; Oracle's AUTH payloads
// are pre-sized to avoid needing real PKCS#7 unpadding on decrypt.
func padTo(data []byte, blockSize int) []byte {
	if rem := len(data) % blockSize; rem != 0 {
		data = append(data, make([]byte, blockSize-rem)...)
	}
	return data
}
