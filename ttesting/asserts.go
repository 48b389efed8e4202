// Package ttesting holds small helpers shared by the package tests.
package ttesting

import (
	"image"
	"testing"
)

func AssertEqualInt(t *testing.T, name string, got, want int) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %d; want %d", got, want)
		}
	})
}

func AssertEqualString(t *testing.T, name string, got, want string) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %q; want %q", got, want)
		}
	})
}

func AssertEqualPoint(t *testing.T, name string, got, want image.Point) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %v; want %v", got, want)
		}
	})
}

// AssertDisjoint checks that no two of the passed rectangles overlap.
func AssertDisjoint(t *testing.T, name string, rects []image.Rectangle) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		for i := range rects {
			for j := i + 1; j < len(rects); j++ {
				if rects[i].Overlaps(rects[j]) {
					t.Errorf("rect %d %v overlaps rect %d %v", i, rects[i], j, rects[j])
				}
			}
		}
	})
}
