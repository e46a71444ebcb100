package core

import (
	"testing"
)

// TestConfigFingerprint_OrderIndependent verifies identical configurations
// fingerprint identically regardless of construction order.
func TestConfigFingerprint_OrderIndependent(t *testing.T) {
	a := map[string]interface{}{"seed": int64(42), "epochs": 50, "strategy": "late"}
	b := map[string]interface{}{"strategy": "late", "epochs": 50, "seed": int64(42)}

	if fp := ConfigFingerprint(a); !fp.Equals(ConfigFingerprint(b)) {
		t.Error("Identical configurations produced different fingerprints")
	}
}

// TestConfigFingerprint_SensitiveToValues verifies any parameter change
// changes the fingerprint.
func TestConfigFingerprint_SensitiveToValues(t *testing.T) {
	a := map[string]interface{}{"seed": int64(42)}
	b := map[string]interface{}{"seed": int64(43)}

	if ConfigFingerprint(a).Equals(ConfigFingerprint(b)) {
		t.Error("Different configurations produced the same fingerprint")
	}
}

// TestNewHash tests deterministic hashing
func TestNewHash(t *testing.T) {
	h1 := NewHash([]byte("payload"))
	h2 := NewHash([]byte("payload"))
	if !h1.Equals(h2) {
		t.Error("Same payload hashed differently")
	}
	if h1.IsEmpty() {
		t.Error("Hash of non-empty payload is empty")
	}
	if len(h1.String()) != 64 {
		t.Errorf("Hash length = %d, expected 64 hex chars", len(h1.String()))
	}
}
