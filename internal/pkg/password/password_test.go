package password

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndMatches(t *testing.T) {
	h, err := Hash("s3cret", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if h == "s3cret" {
		t.Fatalf("expected password to be hashed")
	}
	if !Matches(h, "s3cret") {
		t.Fatalf("expected hash to match its password")
	}
	if Matches(h, "wrong") {
		t.Fatalf("expected mismatch for wrong password")
	}
}

func TestMatches_EmptyHash(t *testing.T) {
	if Matches("", "") {
		t.Fatalf("empty hash must never match")
	}
}

func TestHash_InvalidCostFallsBack(t *testing.T) {
	h, err := Hash("pw", 99)
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(h))
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost %d, got %d", bcrypt.DefaultCost, cost)
	}
}

func TestMatchesAbsent(t *testing.T) {
	for _, plain := range []string{"", "adminPass", "invalidPass"} {
		if MatchesAbsent(plain) {
			t.Fatalf("MatchesAbsent(%q) must be false", plain)
		}
	}

	cost, err := bcrypt.Cost(absentAccountHash())
	if err != nil {
		t.Fatalf("absent hash is not a bcrypt hash: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Fatalf("absent hash must cost like a stored hash, got %d", cost)
	}
}
