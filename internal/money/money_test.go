package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseNormalizesToCents(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"100", "100.00"},
		{"12.3", "12.30"},
		{"12.345", "12.35"},
		{"12.344", "12.34"},
		{"-12.345", "-12.35"},
		{"0.005", "0.01"},
	}
	for _, c := range cases {
		a, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.in, err)
		}
		if got := a.String(); got != c.want {
			t.Fatalf("Parse(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse("ten"); err == nil {
		t.Fatal("expected error for non-decimal input")
	}
}

func TestConstructorsAgree(t *testing.T) {
	if !FromInt(100).Equal(MustParse("100.00")) {
		t.Fatal("FromInt(100) != Parse(100.00)")
	}
	if !FromDecimal(decimal.RequireFromString("0.5")).Equal(MustParse("0.50")) {
		t.Fatal("FromDecimal(0.5) != Parse(0.50)")
	}
}

func TestArithmeticRenormalizes(t *testing.T) {
	a := MustParse("0.10")
	sum := Zero()
	for i := 0; i < 10; i++ {
		sum = sum.Add(a)
	}
	if !sum.Equal(FromInt(1)) {
		t.Fatalf("10 * 0.10 = %s, want 1.00", sum)
	}

	if got := FromInt(100).Sub(MustParse("10.50")); got.String() != "89.50" {
		t.Fatalf("100 - 10.50 = %s, want 89.50", got)
	}
}

func TestMulRateRoundsHalfUp(t *testing.T) {
	rate := decimal.RequireFromString("0.015")
	if got := FromInt(5).MulRate(rate); got.String() != "0.08" {
		t.Fatalf("5 * 0.015 = %s, want 0.08", got)
	}
	if got := FromInt(400).MulRate(decimal.RequireFromString("0.01")); got.String() != "4.00" {
		t.Fatalf("400 * 0.01 = %s, want 4.00", got)
	}
}

func TestCmpAndSigns(t *testing.T) {
	if FromInt(1).Cmp(FromInt(2)) != -1 {
		t.Fatal("1 should compare below 2")
	}
	if !MustParse("-0.01").IsNegative() {
		t.Fatal("-0.01 should be negative")
	}
	if !Zero().IsZero() || Zero().IsPositive() {
		t.Fatal("zero should be zero and not positive")
	}
	if !FromInt(3).Neg().Equal(FromInt(-3)) {
		t.Fatal("Neg(3) != -3")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(MustParse("89.5"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"89.50"` {
		t.Fatalf("marshal = %s, want \"89.50\"", data)
	}

	var fromString, fromNumber Amount
	if err := json.Unmarshal([]byte(`"10.505"`), &fromString); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if err := json.Unmarshal([]byte(`10.505`), &fromNumber); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if fromString.String() != "10.51" || !fromString.Equal(fromNumber) {
		t.Fatalf("unmarshal = %s / %s, want 10.51", fromString, fromNumber)
	}
}
