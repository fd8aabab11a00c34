package models

import (
	"testing"
)

func TestConditionMultiplier(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"Mint", 1.0},
		{"Near Mint", 0.85}, // must not match the bare "mint" rule
		{"near mint", 0.85},
		{"Excellent", 0.7},
		{"Lightly Played", 0.7},
		{"Good", 0.5},
		{"Moderately Played", 0.5},
		{"Fair", 0.3},
		{"Heavily Played", 0.3},
		{"Poor", 0.15},
		{"Damaged", 0.15},
		{"Unknown", 0.7}, // degenerate condition strings default, not error
		{"", 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ConditionMultiplier(tt.input)
			if result != tt.expected {
				t.Errorf("ConditionMultiplier(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestConditionMultiplierOrdering(t *testing.T) {
	// Monotonic over the wear scale
	conditions := []string{"Mint", "Near Mint", "Excellent", "Good", "Fair", "Poor"}
	for i := 1; i < len(conditions); i++ {
		prev := ConditionMultiplier(conditions[i-1])
		cur := ConditionMultiplier(conditions[i])
		if cur > prev {
			t.Errorf("expected %s (%v) <= %s (%v)", conditions[i], cur, conditions[i-1], prev)
		}
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{1.005, 1.01},
		{102.0, 102.0},
		{86.699999, 86.7},
		{0, 0},
		{15.994, 15.99},
	}

	for _, tt := range tests {
		result := Round2(tt.input)
		if result != tt.expected {
			t.Errorf("Round2(%v) = %v, want %v", tt.input, result, tt.expected)
		}
	}
}
