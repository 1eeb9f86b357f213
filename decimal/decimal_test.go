package decimal

import (
	"encoding/json"
	"testing"
)

func TestNewFromString(t *testing.T) {
	d, err := NewFromString("-34.52")
	if err != nil {
		t.Fatal(err)
	}
	if !d.Known() || d.String() != "-34.52" {
		t.Errorf("got %s known=%v", d, d.Known())
	}

	if _, err := NewFromString("bogus"); err == nil {
		t.Error("expected an error for non-numeric input")
	}
}

func TestUnknownPropagation(t *testing.T) {
	one := NewFromInt(1)
	tests := []struct {
		name string
		got  Decimal
	}{
		{"zero value", Decimal{}},
		{"Unknown()", Unknown()},
		{"add left", Unknown().Add(one)},
		{"add right", one.Add(Unknown())},
		{"mul left", Unknown().Mul(one)},
		{"mul right", one.Mul(Unknown())},
		{"neg", Unknown().Neg()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.Known() {
				t.Errorf("got known value %s, want unknown", tt.got)
			}
		})
	}
}

func TestArithmetic(t *testing.T) {
	a := RequireFromString("1.23")
	b := RequireFromString("2.34")

	if got := a.Add(b); !got.Equal(RequireFromString("3.57")) {
		t.Errorf("Add = %s, want 3.57", got)
	}
	if got := a.Mul(b); !got.Equal(RequireFromString("2.8782")) {
		t.Errorf("Mul = %s, want 2.8782", got)
	}
	if got := a.Neg(); !got.Equal(RequireFromString("-1.23")) {
		t.Errorf("Neg = %s, want -1.23", got)
	}
}

func TestIsZero(t *testing.T) {
	if !Zero.IsZero() {
		t.Error("Zero.IsZero() = false")
	}
	if !NewFromFloat(0).IsZero() {
		t.Error("NewFromFloat(0).IsZero() = false")
	}
	if Unknown().IsZero() {
		t.Error("Unknown().IsZero() = true")
	}
	if NewFromInt(7).IsZero() {
		t.Error("NewFromInt(7).IsZero() = true")
	}
}

func TestSign(t *testing.T) {
	tests := []struct {
		d    Decimal
		want int
	}{
		{RequireFromString("-0.01"), -1},
		{Zero, 0},
		{RequireFromString("99"), 1},
		{Unknown(), 0},
	}
	for _, tt := range tests {
		if got := tt.d.Sign(); got != tt.want {
			t.Errorf("Sign(%s) = %d, want %d", tt.d, got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Decimal
		want bool
	}{
		{"equal values", RequireFromString("1.230"), RequireFromString("1.23"), true},
		{"different values", NewFromInt(1), NewFromInt(2), false},
		{"both unknown", Unknown(), Unknown(), true},
		{"known vs unknown", Zero, Unknown(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	if got := RequireFromString("12.50").StringFixedBank(2); got != "12.50" {
		t.Errorf("StringFixedBank = %q", got)
	}
	if got := Unknown().String(); got != "?" {
		t.Errorf("Unknown().String() = %q, want ?", got)
	}
	if got := Unknown().StringFixedBank(2); got != "?" {
		t.Errorf("Unknown().StringFixedBank(2) = %q, want ?", got)
	}
}

func TestMarshalJSON(t *testing.T) {
	got, err := json.Marshal(map[string]Decimal{
		"a": RequireFromString("-34.52"),
		"b": Unknown(),
	})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"a":-34.52,"b":null}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
