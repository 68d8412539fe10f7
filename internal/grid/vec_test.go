package grid

import (
	"math"
	"testing"
)

func TestLinspaceEndpoints(t *testing.T) {
	cases := []struct {
		a, b float64
		n    int
	}{
		{0, 1, 2},
		{-5, 5, 11},
		{2, 2, 5},
		{100, -100, 200},
	}
	for _, c := range cases {
		v := Linspace(c.a, c.b, c.n)
		if len(v) != c.n {
			t.Fatalf("Linspace(%v,%v,%d): len = %d", c.a, c.b, c.n, len(v))
		}
		if v[0] != c.a {
			t.Errorf("Linspace(%v,%v,%d): v[0] = %v, want %v", c.a, c.b, c.n, v[0], c.a)
		}
		if v[c.n-1] != c.b {
			t.Errorf("Linspace(%v,%v,%d): v[n-1] = %v, want %v", c.a, c.b, c.n, v[c.n-1], c.b)
		}
		for i := 1; i < len(v); i++ {
			if c.a <= c.b && v[i] < v[i-1] {
				t.Errorf("Linspace not monotone at %d", i)
			}
			if c.a > c.b && v[i] > v[i-1] {
				t.Errorf("Linspace not monotone at %d", i)
			}
		}
	}
}

func TestMinMaxEmpty(t *testing.T) {
	min, max := MinMax(nil)
	if !math.IsInf(min, 1) || !math.IsInf(max, -1) {
		t.Fatalf("MinMax(nil) = (%v, %v), want (+Inf, -Inf)", min, max)
	}
}

func TestMinMax(t *testing.T) {
	v := Vec{3, -1, 4, 1, 5, -9, 2, 6}
	min, max := MinMax(v)
	if min != -9 || max != 6 {
		t.Fatalf("MinMax = (%v, %v), want (-9, 6)", min, max)
	}
}

func TestNormalizeConstant(t *testing.T) {
	v := Vec{4, 4, 4}
	out := Normalize(v)
	for i, x := range out {
		if x != 0 {
			t.Errorf("Normalize(constant)[%d] = %v, want 0", i, x)
		}
	}
}

func TestNormalizeRange(t *testing.T) {
	v := Vec{0, 5, 10}
	out := Normalize(v)
	want := Vec{0, 0.5, 1}
	for i := range out {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Errorf("Normalize()[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestConcat(t *testing.T) {
	out := Concat(Vec{1, 2}, Vec{}, Vec{3}, Vec{4, 5})
	want := Vec{1, 2, 3, 4, 5}
	if len(out) != len(want) {
		t.Fatalf("Concat len = %d, want %d", len(out), len(want))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("Concat[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestBinarySearchAxis(t *testing.T) {
	axis := Vec{0, 1, 2, 3, 4}
	cases := []struct {
		x    float64
		want int
	}{
		{-1, 0},
		{0, 0},
		{0.5, 0},
		{2.5, 2},
		{4, 3},
		{10, 3},
	}
	for _, c := range cases {
		got := BinarySearchAxis(axis, c.x)
		if got != c.want {
			t.Errorf("BinarySearchAxis(%v) = %d, want %d", c.x, got, c.want)
		}
	}
}
