package security

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateVerifyRoundtrip(t *testing.T) {
	opts := DefaultOptions([]byte("secret"))
	token, hash, exp, err := Generate(opts, "alice", []string{"chat"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(hash, "sha256:") {
		t.Fatalf("hash = %q, want a sha256 prefix", hash)
	}
	if !exp.After(time.Now()) {
		t.Fatal("expiry not in the future")
	}

	sub, err := Verify(opts, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub != "alice" {
		t.Fatalf("subject = %q, want alice", sub)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, _, _, err := Generate(DefaultOptions([]byte("secret")), "alice", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Verify(DefaultOptions([]byte("other")), token); err == nil {
		t.Fatal("token signed with a different secret must not verify")
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	opts := DefaultOptions([]byte("secret"))
	opts.TTL = -time.Hour
	token, _, _, err := Generate(opts, "alice", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Verify(opts, token); err == nil {
		t.Fatal("expired token must not verify")
	}
}

func TestVerifyGarbage(t *testing.T) {
	if _, err := Verify(DefaultOptions([]byte("secret")), "not-a-token"); err == nil {
		t.Fatal("garbage must not verify")
	}
}

func TestHashTokenStable(t *testing.T) {
	if HashToken("abc") != HashToken("abc") {
		t.Fatal("hash must be deterministic")
	}
	if HashToken("abc") == HashToken("abd") {
		t.Fatal("different tokens must not collide trivially")
	}
}
