package security

import "testing"

func TestMessageCipherRoundTrip(t *testing.T) {
	c, err := NewMessageCipher("0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("NewMessageCipher: %v", err)
	}

	plain := "I am so happy today!"
	ct, err := c.Encrypt(plain)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if ct == plain {
		t.Fatal("ciphertext equals plaintext")
	}
	got, err := c.Decrypt(ct)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if got != plain {
		t.Fatalf("round trip mismatch: %q", got)
	}
}

func TestMessageCipherRejectsBadKey(t *testing.T) {
	if _, err := NewMessageCipher("short"); err == nil {
		t.Fatal("expected error for invalid key length")
	}
}

func TestMessageCipherRejectsGarbage(t *testing.T) {
	c, _ := NewMessageCipher("0123456789abcdef")
	if _, err := c.Decrypt("not base64!!"); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := c.Decrypt("YWJj"); err == nil {
		t.Fatal("expected short-ciphertext error")
	}
}
