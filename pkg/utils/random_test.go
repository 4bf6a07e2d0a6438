package utils

import (
	"math/rand"
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if len(a) != 16 {
		t.Errorf("Expected 16 hex chars, got %q", a)
	}
	if a == b {
		t.Errorf("Expected distinct IDs, got %q twice", a)
	}
}

func TestGenerateDeterministicID(t *testing.T) {
	r1 := rand.New(rand.NewSource(7))
	r2 := rand.New(rand.NewSource(7))

	for i := 0; i < 5; i++ {
		a := GenerateDeterministicID(r1, "e_")
		b := GenerateDeterministicID(r2, "e_")
		if a != b {
			t.Fatalf("Same seed produced %q and %q", a, b)
		}
		if !strings.HasPrefix(a, "e_") || len(a) != 10 {
			t.Errorf("Unexpected ID format %q", a)
		}
	}
}

func TestStringToSeed(t *testing.T) {
	if StringToSeed("alpha") != StringToSeed("alpha") {
		t.Error("Seed must be stable for the same input")
	}
	if StringToSeed("alpha") == StringToSeed("bravo") {
		t.Error("Different inputs should give different seeds")
	}
}
