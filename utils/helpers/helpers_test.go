package helpers

import (
	"testing"
)

func TestParseMonetary_StringWithCommas(t *testing.T) {
	input := "1,234.56"
	expected := 1234.56
	result, err := ParseMonetary(input)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result != expected {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestParseMonetary_ParenthesizedNegative(t *testing.T) {
	input := "$(2,500)"
	expected := -2500.0
	result, err := ParseMonetary(input)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result != expected {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestParseMonetary_NonNumericString(t *testing.T) {
	_, err := ParseMonetary("abc")
	if err == nil {
		t.Errorf("Expected error, got nil")
	}
}

func TestParseMonetary_Empty(t *testing.T) {
	_, err := ParseMonetary("   ")
	if err == nil {
		t.Errorf("Expected error, got nil")
	}
}

func TestScaleForMarker(t *testing.T) {
	if got := ScaleForMarker("in millions"); got != 1_000_000 {
		t.Errorf("Expected 1000000, got %v", got)
	}
	if got := ScaleForMarker("amounts in thousands"); got != 1_000 {
		t.Errorf("Expected 1000, got %v", got)
	}
	if got := ScaleForMarker("$ in Billions"); got != 1_000_000_000 {
		t.Errorf("Expected 1000000000, got %v", got)
	}
	if got := ScaleForMarker("no marker here"); got != 1 {
		t.Errorf("Expected 1, got %v", got)
	}
}

func TestRoundTo(t *testing.T) {
	if got := RoundTo(1.23456789, 4); got != 1.2346 {
		t.Errorf("Expected 1.2346, got %v", got)
	}
	if got := RoundTo(0.1234565, 6); got != 0.123457 {
		t.Errorf("Expected 0.123457, got %v", got)
	}
}

func TestNormalizeString(t *testing.T) {
	input := "  HeLLo WoRLd  "
	expected := "hello world"
	result := NormalizeString(input)
	if result != expected {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	input := "Total  current   assets"
	expected := "Total current assets"
	result := NormalizeWhitespace(input)
	if result != expected {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestPadCIK(t *testing.T) {
	if got := PadCIK("320193"); got != "0000320193" {
		t.Errorf("Expected 0000320193, got %v", got)
	}
	if got := PadCIK("0000320193"); got != "0000320193" {
		t.Errorf("Expected 0000320193, got %v", got)
	}
}
