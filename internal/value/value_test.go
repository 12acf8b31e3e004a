package value

import "testing"

func TestArithmeticPromotion(t *testing.T) {
	cases := []struct {
		name string
		l, r Value
		op   func(l, r Value) (Value, error)
		want Value
	}{
		{"int+int", Int(1), Int(2), Value.Add, Int(3)},
		{"int+float promotes", Int(1), Float(2.5), Value.Add, Float(3.5)},
		{"float*int promotes", Float(2.0), Int(3), Value.Mul, Float(6.0)},
		{"int/int always float", Int(6), Int(2), Value.Div, Float(3.0)},
		{"string+string concatenates", String("a"), String("b"), Value.Add, String("ab")},
		{"string+int stringifies rhs", String("a"), Int(1), Value.Add, String("a1")},
		{"list+list concatenates", List{Int(1)}, List{Int(2)}, Value.Add, List{Int(1), Int(2)}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := c.op(c.l, c.r)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			eq, err := got.Eq(c.want)
			if err != nil {
				t.Fatalf("eq error: %v", err)
			}
			if !eq {
				t.Errorf("got %#v, want %#v", got, c.want)
			}
			if got.Kind() != c.want.Kind() {
				t.Errorf("got kind %v, want %v", got.Kind(), c.want.Kind())
			}
		})
	}
}

func TestDivisionPromotionFormatsWithDecimalPoint(t *testing.T) {
	got, err := Int(6).Div(Int(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := got.ToStr(), "3.0"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestUnsupportedArithmeticFails(t *testing.T) {
	if _, err := String("a").Sub(Int(1)); err == nil {
		t.Error("expected FunctionNotImplemented for string - int")
	}
	if _, err := Bool(true).Add(Int(1)); err == nil {
		t.Error("expected FunctionNotImplemented for bool + int")
	}
}

func TestEqualityCrossKindDefaultsFalse(t *testing.T) {
	eq, err := String("1").Eq(Int(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eq {
		t.Error("expected String(\"1\") != Int(1)")
	}
}

func TestNotEq(t *testing.T) {
	neq, err := NotEq(Int(1), Int(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !neq {
		t.Error("expected 1 != 2")
	}
}

func TestToBool(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Int(0), false},
		{Int(1), true},
		{Float(0.0), false},
		{Float(0.1), true},
		{None{}, false},
		{Bool(false), false},
		{Bool(true), true},
		{String(""), true},
		{List{}, true},
	}
	for _, c := range cases {
		if got := c.v.ToBool(); got != c.want {
			t.Errorf("%#v.ToBool() = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestToStrFormatting(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Int(10), "10"},
		{Float(10.5), "10.5"},
		{Float(1.0), "1.0"},
		{String("hi"), "hi"},
		{None{}, "None"},
		{List{Int(1), String("a")}, `[1, "a"]`},
	}
	for _, c := range cases {
		if got := c.v.ToStr(); got != c.want {
			t.Errorf("%#v.ToStr() = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestConcatenationChain(t *testing.T) {
	// "a" + 1 + 2.5 == "a12.5"
	v1, err := String("a").Add(Int(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v2, err := v1.Add(Float(2.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := v2.ToStr(), "a12.5"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
