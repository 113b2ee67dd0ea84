// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"24 bytes", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			for _, c := range id {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("GenerateID() contains invalid hex char: %c", c)
				}
			}
		})
	}

	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestGenerateReference(t *testing.T) {
	ref := GenerateReference()
	if len(ref) != 12 {
		t.Errorf("GenerateReference() length = %d, want 12", len(ref))
	}
	if ref != strings.ToUpper(ref) {
		t.Errorf("GenerateReference() should be upper case, got %s", ref)
	}
	if GenerateReference() == ref {
		t.Error("GenerateReference() produced duplicate references")
	}
}

func TestGenerateAccessCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateAccessCode()
		if err != nil {
			t.Fatalf("GenerateAccessCode() error = %v", err)
		}
		if code == "" || len(code) > 11 {
			t.Errorf("GenerateAccessCode() unexpected length: %q", code)
		}
		for _, c := range code {
			if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z')) {
				t.Errorf("GenerateAccessCode() contains invalid char: %c", c)
			}
		}
		seen[code] = true
	}
	if len(seen) < 45 {
		t.Errorf("GenerateAccessCode() produced too many duplicates: %d unique", len(seen))
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("HashPassword() returned plaintext")
	}

	if err := CheckPassword(hash, "correct horse"); err != nil {
		t.Errorf("CheckPassword() with right password error = %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err != ErrInvalidPassword {
		t.Errorf("CheckPassword() with wrong password = %v, want %v", err, ErrInvalidPassword)
	}
}

func TestSessionToken(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	token := IssueSessionToken("profile-1", "secret", now)

	tests := []struct {
		name    string
		token   string
		secret  string
		at      time.Time
		wantID  string
		wantErr error
	}{
		{"valid", token, "secret", now.Add(time.Hour), "profile-1", nil},
		{"wrong secret", token, "other", now, "", ErrInvalidToken},
		{"expired", token, "secret", now.Add(SessionTTL), "", ErrTokenExpired},
		{"garbage", "not-a-token", "secret", now, "", ErrInvalidToken},
		{"empty", "", "secret", now, "", ErrInvalidToken},
		{"tampered", "x" + token, "secret", now, "", ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseSessionToken(tt.token, tt.secret, tt.at)
			if err != tt.wantErr {
				t.Fatalf("ParseSessionToken() error = %v, want %v", err, tt.wantErr)
			}
			if id != tt.wantID {
				t.Errorf("ParseSessionToken() id = %q, want %q", id, tt.wantID)
			}
		})
	}
}

func TestSignatures(t *testing.T) {
	body := []byte(`{"reference":"ABC","status":"paid"}`)
	sig := Sign(body, "checkout-secret")

	if !VerifySignature(body, sig, "checkout-secret") {
		t.Error("VerifySignature() rejected a valid signature")
	}
	if !VerifySignature(body, strings.ToUpper(sig), "checkout-secret") {
		t.Error("VerifySignature() should accept upper-case hex")
	}
	if VerifySignature(body, sig, "other-secret") {
		t.Error("VerifySignature() accepted a signature with the wrong secret")
	}
	if VerifySignature([]byte(`{"reference":"ABC","status":"failed"}`), sig, "checkout-secret") {
		t.Error("VerifySignature() accepted a signature for a different body")
	}
}

func TestHashIP(t *testing.T) {
	tests := []struct {
		name string
		ip   string
		salt string
	}{
		{"ipv4", "192.168.1.1", "salt1"},
		{"ipv6", "2001:0db8:85a3:0000:0000:8a2e:0370:7334", "salt1"},
		{"localhost", "127.0.0.1", "salt2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash := HashIP(tt.ip, tt.salt)

			if len(hash) != 16 {
				t.Errorf("HashIP() length = %d, want 16", len(hash))
			}

			if hash != HashIP(tt.ip, tt.salt) {
				t.Error("HashIP() is not deterministic")
			}

			if hash == tt.ip {
				t.Error("HashIP() returned original IP")
			}
		})
	}

	if HashIP("1.1.1.1", "salt1") == HashIP("1.1.1.1", "salt2") {
		t.Error("HashIP() produced same hash with different salts")
	}
}
