package utils

import (
	"strings"
	"testing"
)

func TestPasswordHashRoundtrip(t *testing.T) {
	h := HashPassword("motdepasse123")
	if h == "motdepasse123" || !strings.HasPrefix(h, "$2") {
		t.Fatalf("unexpected hash: %q", h)
	}
	if !CheckPassword("motdepasse123", h) {
		t.Fatalf("correct password rejected")
	}
	if CheckPassword("autremotdepasse", h) {
		t.Fatalf("wrong password accepted")
	}
	if CheckPassword("motdepasse123", "not-a-hash") {
		t.Fatalf("garbage hash accepted")
	}
}
