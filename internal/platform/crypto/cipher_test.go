package crypto

import (
	"bytes"
	"strings"
	"testing"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestSealOpenRoundTrip(t *testing.T) {
	c, err := New(testKey)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	sealed, err := c.SealString("DE89370400440532013000")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if bytes.Contains(sealed, []byte("DE8937")) {
		t.Fatal("expected ciphertext not to contain plaintext")
	}
	plain, err := c.OpenString(sealed)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if plain != "DE89370400440532013000" {
		t.Fatalf("unexpected plaintext %q", plain)
	}
}

func TestUnconfiguredCipherPassesThrough(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if c.Configured() {
		t.Fatal("expected unconfigured cipher")
	}
	sealed, _ := c.SealString("plain")
	if string(sealed) != "plain" {
		t.Fatalf("expected passthrough, got %q", sealed)
	}
}

func TestNewRejectsShortKey(t *testing.T) {
	if _, err := New("too-short"); err == nil {
		t.Fatal("expected key length error")
	}
	if _, err := New(strings.Repeat("k", 32)); err != nil {
		t.Fatalf("expected raw 32-byte key to be accepted: %v", err)
	}
}

func TestOpenDetectsTampering(t *testing.T) {
	c, _ := New(testKey)
	sealed, _ := c.SealString("secret")
	sealed[len(sealed)-1] ^= 0xff
	if _, err := c.Open(sealed); err == nil {
		t.Fatal("expected authentication failure")
	}
}
