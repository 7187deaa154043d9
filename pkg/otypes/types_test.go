package otypes

import "testing"

func TestTypeConstructors(t *testing.T) {
	tests := []struct {
		name    string
		typ     Type
		wantStr string
	}{
		{"void", Void(), "void"},
		{"i1", Int(1), "i1"},
		{"i8", Int(8), "i8"},
		{"i16", Int(16), "i16"},
		{"i32", Int(32), "i32"},
		{"i64", Int(64), "i64"},
		{"f16", Float(16), "f16"},
		{"f32", Float(32), "f32"},
		{"f64", Float(64), "f64"},
		{"pointer to i32", Pointer(Int(32)), "*i32"},
		{"pointer to pointer", Pointer(Pointer(Int(8))), "**i8"},
		{"array of i32", Array(Int(32), 4), "[4]i32"},
		{"array of struct", Array(Struct("Vec"), 3), "[3]Vec"},
		{"struct", Struct("Vec"), "Vec"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.wantStr {
				t.Errorf("String() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestTypeEquality(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Type
		equal bool
	}{
		{"i32 == i32", Int(32), Int(32), true},
		{"i32 != i64", Int(32), Int(64), false},
		{"i32 != f32", Int(32), Float(32), false},
		{"void == void", Void(), Void(), true},
		{"i32 != void", Int(32), Void(), false},
		{"*i32 == *i32", Pointer(Int(32)), Pointer(Int(32)), true},
		{"*i32 != *i8", Pointer(Int(32)), Pointer(Int(8)), false},
		{"[4]i32 == [4]i32", Array(Int(32), 4), Array(Int(32), 4), true},
		{"[4]i32 != [8]i32", Array(Int(32), 4), Array(Int(32), 8), false},
		{"[4]i32 != [4]i64", Array(Int(32), 4), Array(Int(64), 4), false},
		{"struct A == struct A", Struct("A"), Struct("A"), true},
		{"struct A != struct B", Struct("A"), Struct("B"), false},
		{"nil == nil", nil, nil, true},
		{"nil != i32", nil, Int(32), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.equal {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.equal)
			}
		})
	}
}

func TestIsAggregate(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want bool
	}{
		{"struct", Struct("Vec"), true},
		{"array", Array(Int(32), 4), true},
		{"int", Int(32), false},
		{"float", Float(64), false},
		{"pointer to struct", Pointer(Struct("Vec")), false},
		{"void", Void(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAggregate(tt.typ); got != tt.want {
				t.Errorf("IsAggregate(%v) = %v, want %v", tt.typ, got, tt.want)
			}
		})
	}
}
