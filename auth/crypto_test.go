package auth

import (
	"encoding/hex"
	"testing"
)

func TestDerivePasswordHash11gLength(t *testing.T) {
	t.Parallel()
	salt := []byte{1, 2, 3, 4}
	hash, key, err := derivePasswordHash(VerifierProfile11gSHA1, "secret", salt, 0, 0)
	if err != nil {
		t.Fatalf("derivePasswordHash: %v", err)
	}
	if len(hash) != 24 { // sha1 sum (20) + 4 zero pad bytes
		t.Fatalf("got %d bytes, want 24", len(hash))
	}
	if key != nil {
		t.Fatalf("got non-nil passwordKey for 11g profile")
	}
}

func TestDerivePasswordHash12cLength(t *testing.T) {
	t.Parallel()
	salt := []byte{1, 2, 3, 4}
	hash, key, err := derivePasswordHash(VerifierProfile12cPBKDF2, "secret", salt, 1000, 1000)
	if err != nil {
		t.Fatalf("derivePasswordHash: %v", err)
	}
	if len(hash) != 32 {
		t.Fatalf("got %d bytes, want 32", len(hash))
	}
	if len(key) != 64 {
		t.Fatalf("got passwordKey length %d, want 64", len(key))
	}
}

func TestDerivePasswordHash12cRejectsZeroIterations(t *testing.T) {
	t.Parallel()
	if _, _, err := derivePasswordHash(VerifierProfile12cPBKDF2, "secret", []byte{1}, 0, 0); err == nil {
		t.Fatal("expected error for zero vgen count")
	}
}

func TestAESCBCZeroIVRoundTrip(t *testing.T) {
	t.Parallel()
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	plaintext := []byte("0123456789ABCDEF") // exactly one AES block
	enc, err := aesCBCZeroIV(key, plaintext, true)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	dec, err := aesCBCZeroIV(key, enc, false)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if string(dec) != string(plaintext) {
		t.Fatalf("got %q, want %q", dec, plaintext)
	}
}

func TestDeriveSessionKey12cProducesKeyAndSpeedyKey(t *testing.T) {
	t.Parallel()
	// Build a self-consistent server key material: encrypt a known
	// sessionKeyPartA with a password hash derived the same way the server
	// would, so decryption in DeriveSessionKey recovers it.
	verifierSalt := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	passwordHash, _, err := derivePasswordHash(VerifierProfile12cPBKDF2, "hunter2", verifierSalt, 4096, 4096)
	if err != nil {
		t.Fatalf("derivePasswordHash: %v", err)
	}
	sessionKeyPartA := make([]byte, 32)
	for i := range sessionKeyPartA {
		sessionKeyPartA[i] = byte(i * 3)
	}
	encryptedServerKey, err := aesCBCZeroIV(passwordHash, sessionKeyPartA, true)
	if err != nil {
		t.Fatalf("encrypt server key: %v", err)
	}

	material, err := DeriveSessionKey(VerifierProfile12cPBKDF2, "hunter2",
		hex.EncodeToString(verifierSalt), hex.EncodeToString(encryptedServerKey),
		hex.EncodeToString([]byte{1, 2, 3, 4}), 4096, 4096)
	if err != nil {
		t.Fatalf("DeriveSessionKey: %v", err)
	}
	if len(material.SessionKey) != keyLength12c {
		t.Fatalf("got session key length %d, want %d", len(material.SessionKey), keyLength12c)
	}
	if len(material.SpeedyKey) == 0 {
		t.Fatal("expected non-empty speedy key for 12c profile")
	}
	if material.SessionKeyExchange == "" {
		t.Fatal("expected non-empty session key exchange hex")
	}
}

func TestEncryptPasswordProducesHex(t *testing.T) {
	t.Parallel()
	key := make([]byte, 32)
	iv := make([]byte, 16)
	enc, err := EncryptPassword(key, iv, "hunter2")
	if err != nil {
		t.Fatalf("EncryptPassword: %v", err)
	}
	if _, err := hex.DecodeString(enc); err != nil {
		t.Fatalf("result not valid hex: %v", err)
	}
}
