package core

import (
	"math"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		value Value
		want  string
	}{
		{String("a"), "string"},
		{Number(1), "number"},
		{Bool(true), "boolean"},
		{Null(), "null"},
	}

	for _, tt := range tests {
		if got := TypeOf(tt.value).String(); got != tt.want {
			t.Errorf("TypeOf(%v) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		value Value
		want  string
	}{
		{Number(30), "30"},
		{Number(2.5), "2.5"},
		{Number(-1), "-1"},
		{Number(math.Copysign(0, -1)), "0"},
		{Number(1e21), "1e+21"},
		{Number(1.5e-7), "1.5e-7"},
		{Number(-2e-9), "-2e-9"},
		{Number(1e100), "1e+100"},
		{Number(1.5e-10), "1.5e-10"},
		{Number(math.NaN()), "NaN"},
		{Bool(false), "false"},
		{String("A"), "A"},
		{Null(), "null"},
	}

	for _, tt := range tests {
		if got := tt.value.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestEqualIsStrict(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same number", Number(1), Number(1), true},
		{"number vs string", Number(1), String("1"), false},
		{"bool vs number", Bool(true), Number(1), false},
		{"null vs null", Null(), Null(), true},
		{"nan", Number(math.NaN()), Number(math.NaN()), false},
		{"strings", String("a"), String("a"), true},
		{"different strings", String("a"), String("b"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"numbers", Number(1), Number(2), -1},
		{"numbers reversed", Number(3), Number(2), 1},
		{"strings", String("Bob"), String("Alice"), 1},
		{"bools", Bool(false), Bool(true), -1},
		{"null before number", Null(), Number(0), -1},
		{"number before string", Number(100), String("1"), -1},
		{"equal", String("x"), String("x"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFromAny(t *testing.T) {
	v, err := FromAny(int64(7))
	if err != nil || v.Kind() != NumberKind {
		t.Fatalf("Expected number, got %v (%v)", v, err)
	}
	if n, _ := v.Float(); n != 7 {
		t.Errorf("Expected 7, got %v", n)
	}

	if _, err := FromAny(struct{}{}); err == nil {
		t.Error("Expected error for struct value")
	}
}

func TestEncodeIsUnambiguous(t *testing.T) {
	a := String("a-b").Encode(String("c").Encode(nil))
	b := String("a").Encode(String("b-c").Encode(nil))
	if string(a) == string(b) {
		t.Error("Distinct tuples must not share an encoding")
	}

	n := Number(1).Encode(nil)
	s := String("1").Encode(nil)
	if string(n) == string(s) {
		t.Error("Number and string must not share an encoding")
	}

	if string(Number(0).Encode(nil)) != string(Number(math.Copysign(0, -1)).Encode(nil)) {
		t.Error("-0 and 0 should encode identically")
	}
}

func TestHashKey(t *testing.T) {
	m := map[HashKey]int{}
	m[Number(1).HashKey()]++
	m[Number(1).HashKey()]++
	m[String("1").HashKey()]++
	m[Number(math.NaN()).HashKey()]++
	m[Number(math.NaN()).HashKey()]++

	if len(m) != 3 {
		t.Errorf("Expected 3 distinct keys, got %d", len(m))
	}
}
