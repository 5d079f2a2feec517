package classic

import (
	"testing"

	"github.com/phanxgames/cardtable"
)

func TestDecks(t *testing.T) {
	tests := []struct {
		name string
		new  func(*cardtable.IDAllocator) *cardtable.CardSet
		want int
	}{
		{"52", NewDeck52, 52},
		{"36", NewDeck36, 36},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := tt.new(cardtable.NewIDAllocator())
			if set.Len() != tt.want {
				t.Fatalf("Len = %d, want %d", set.Len(), tt.want)
			}
			seen := map[Face]bool{}
			for _, c := range set.Cards() {
				f, ok := FaceOf(c)
				if !ok {
					t.Fatalf("card %v has no face", c)
				}
				if seen[f] {
					t.Errorf("duplicate %v", f)
				}
				seen[f] = true
				if c.Name != f.String() {
					t.Errorf("name = %q, want %q", c.Name, f.String())
				}
			}
		})
	}
}

func TestFaceHelpers(t *testing.T) {
	five := Face{Hearts, 5}
	six := Face{Spades, 6}
	if !IsOneBelow(five, six) || IsOneBelow(six, five) {
		t.Error("IsOneBelow mismatch")
	}
	if !OppositeColor(five, six) || OppositeColor(five, Face{Diamonds, 6}) {
		t.Error("OppositeColor mismatch")
	}
	if got := (Face{Clubs, Queen}).String(); got != "Q of ♣" {
		t.Errorf("String = %q", got)
	}
	if got := (Face{Spades, 10}).String(); got != "10 of ♠" {
		t.Errorf("String = %q", got)
	}
	if _, ok := FaceOf(nil); ok {
		t.Error("FaceOf(nil) should fail")
	}
}
