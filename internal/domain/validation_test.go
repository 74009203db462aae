package domain

import (
	"strings"
	"testing"
)

func TestValidateItemName(t *testing.T) {
	if err := ValidateItemName("Ração para gado"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateItemName("   "); err == nil {
		t.Error("expected error for blank name")
	}

	if err := ValidateItemName(strings.Repeat("a", MaxNameLength+1)); err == nil {
		t.Error("expected error for oversized name")
	}
}

func TestValidateUnit(t *testing.T) {
	if err := ValidateUnit("kg"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateUnit(""); err == nil {
		t.Error("expected error for empty unit")
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"user@example.com", "first.last+tag@sub.domain.org"}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("expected %q to be valid: %v", email, err)
		}
	}

	invalid := []string{"", "not-an-email", "user@", "@example.com", "user@host"}
	for _, email := range invalid {
		if err := ValidateEmail(email); err == nil {
			t.Errorf("expected %q to be invalid", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name        string
		password    string
		expectError bool
	}{
		{"valid password", "Sup3rSecret", false},
		{"too short", "Ab1", true},
		{"missing uppercase", "alllower123", true},
		{"missing number", "NoNumbersHere", true},
		{"too long", strings.Repeat("Aa1", 50), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidatePagination(t *testing.T) {
	tests := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{"defaults applied", 0, 0, 50, 0},
		{"limit capped", 5000, 10, 1000, 10},
		{"negative offset reset", 20, -5, 20, 0},
		{"values kept", 100, 200, 100, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := ValidatePagination(tt.limit, tt.offset)
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("got (%d, %d), want (%d, %d)", limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}
