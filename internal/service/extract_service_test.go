package service

import (
	"testing"

	"sliplens/internal/models"

	"go.uber.org/zap"
)

func TestExtractFullSlip(t *testing.T) {
	s := NewExtractService(zap.NewNop())

	text := "KBank 4 mar 24 6:23 pm amount: 1,ooo.50 baht fee: 5 baht memo: coffee shop"
	got := s.Extract(text)

	want := models.SlipFields{
		Bank:   "ธนาคารกสิกรไทย",
		Amount: 1000.50,
		Fee:    5,
		Date:   "2024-03-04",
		Time:   "18:23:00.000000",
		Memo:   "coffee shop",
	}
	if got != want {
		t.Errorf("Extract() = %+v, want %+v", got, want)
	}
}

func TestExtractFieldDefaults(t *testing.T) {
	s := NewExtractService(zap.NewNop())

	tests := []struct {
		name string
		text string
		want models.SlipFields
	}{
		{
			name: "empty text",
			text: "",
			want: models.SlipFields{},
		},
		{
			name: "baht alone yields zero amount and fee",
			text: "baht",
			want: models.SlipFields{},
		},
		{
			name: "unknown bank token ignored",
			text: "citibank amount: 50 baht",
			want: models.SlipFields{Amount: 50},
		},
		{
			name: "amount without label not matched",
			text: "1,ooo.50 baht",
			want: models.SlipFields{},
		},
		{
			name: "fee introduced by trailing baht marker",
			text: "amount: 100 baht 2o baht",
			want: models.SlipFields{Amount: 100, Fee: 20},
		},
		{
			name: "malformed month yields empty date",
			text: "4 mxyz 24",
			want: models.SlipFields{},
		},
		{
			name: "four digit year rejected by layout",
			text: "4 mar 2024",
			want: models.SlipFields{},
		},
		{
			name: "bare clock time rejected by twelve hour layout",
			text: "paid at 6:23",
			want: models.SlipFields{},
		},
		{
			name: "memo runs to end of text",
			text: "memo: lunch with    friends",
			want: models.SlipFields{Memo: "lunch with friends"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Extract(tt.text); got != tt.want {
				t.Errorf("Extract(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractIdempotent(t *testing.T) {
	s := NewExtractService(zap.NewNop())

	text := "scb 12 jan 25 9:05 am amount: 2,5oo baht memo: groceries"
	first := s.Extract(text)
	second := s.Extract(text)
	if first != second {
		t.Errorf("Extract is not idempotent: %+v vs %+v", first, second)
	}
	if first.Bank != "ธนาคารไทยพาณิชย์" {
		t.Errorf("Bank = %q, want scb display name", first.Bank)
	}
	if first.Amount != 2500 {
		t.Errorf("Amount = %v, want 2500", first.Amount)
	}
	if first.Date != "2025-01-12" {
		t.Errorf("Date = %q, want 2025-01-12", first.Date)
	}
	if first.Time != "09:05:00.000000" {
		t.Errorf("Time = %q, want 09:05:00.000000", first.Time)
	}
}

func TestCorrectNumeric(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"1,ooo.50", 1000.50},
		{"2,500", 2500},
		{"l00", 100},
		{"1l.5o", 11.50},
		{"42", 42},
		{"", 0},
		{"abc", 0},
		{"1,OOO", 0}, // uppercase confusions are not corrected
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := CorrectNumeric(tt.input); got != tt.expected {
				t.Errorf("CorrectNumeric(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  a \t\n b  ", "a b"},
		{"a​b", "ab"},
		{"amount:\n100", "amount: 100"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanText(tt.input); got != tt.expected {
			t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
