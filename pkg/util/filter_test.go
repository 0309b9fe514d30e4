package util

import (
	"testing"
	"time"
)

func TestInPlaceFilter(t *testing.T) {
	values := []int{1, 2, 3, 4, 5, 6}

	InPlaceFilter(&values, func(v int) bool {
		return v%2 == 0
	})

	if len(values) != 3 || values[0] != 2 || values[1] != 4 || values[2] != 6 {
		t.Errorf("unexpected filtered slice: %v", values)
	}
}

func TestInPlaceFilterEmpty(t *testing.T) {
	var values []string

	InPlaceFilter(&values, func(string) bool { return true })

	if len(values) != 0 {
		t.Errorf("expected empty slice, got %v", values)
	}
}

func TestAddTimeToDate(t *testing.T) {
	date := time.Date(2026, 5, 1, 14, 30, 45, 0, time.UTC)
	clock := time.Date(2000, 1, 1, 8, 15, 0, 0, time.UTC)

	combined := AddTimeToDate(date, clock)

	expected := time.Date(2026, 5, 1, 8, 15, 0, 0, time.UTC)
	if !combined.Equal(expected) {
		t.Errorf("expected %s, got %s", expected, combined)
	}
}
