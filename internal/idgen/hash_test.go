package idgen

import (
	"strings"
	"testing"
	"time"
)

func TestEncodeBase36(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		length int
	}{
		{"two bytes", []byte{0xab, 0xcd}, 3},
		{"four bytes", []byte{0x01, 0x02, 0x03, 0x04}, 6},
		{"zero bytes value", []byte{0x00, 0x00}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeBase36(tt.data, tt.length)
			if len(got) != tt.length {
				t.Errorf("EncodeBase36 length = %d, want %d", len(got), tt.length)
			}
			for _, c := range got {
				if !strings.ContainsRune(base36Alphabet, c) {
					t.Errorf("EncodeBase36 produced non-base36 char %q", c)
				}
			}
		})
	}
}

func TestGenerateKey(t *testing.T) {
	now := time.Now()

	key := GenerateKey("bug", "Login button unresponsive", "alice", now, 6, 0)
	if !strings.HasPrefix(key, "bug-") {
		t.Errorf("key %q missing prefix", key)
	}
	if len(key) != len("bug-")+6 {
		t.Errorf("key %q has wrong hash length", key)
	}

	// Deterministic for identical inputs
	key2 := GenerateKey("bug", "Login button unresponsive", "alice", now, 6, 0)
	if key != key2 {
		t.Errorf("identical inputs produced different keys: %q vs %q", key, key2)
	}

	// Nonce changes the key (collision handling)
	key3 := GenerateKey("bug", "Login button unresponsive", "alice", now, 6, 1)
	if key == key3 {
		t.Error("nonce did not change the key")
	}

	// Empty prefix falls back to the default
	key4 := GenerateKey("", "Some bug", "bob", now, 6, 0)
	if !strings.HasPrefix(key4, DefaultPrefix+"-") {
		t.Errorf("key %q missing default prefix", key4)
	}
}
