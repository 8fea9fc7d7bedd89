package prng

import "testing"

func TestDeterministicPerLP(t *testing.T) {
	a := New(3)
	b := New(3)
	for i := 0; i < 50; i++ {
		va, vb := a.Coin(), b.Coin()
		if va != vb {
			t.Fatalf("draw %d diverged: %v != %v", i, va, vb)
		}
	}
}

func TestDifferentLPsDiverge(t *testing.T) {
	a := New(1)
	b := New(2)
	same := true
	for i := 0; i < 20; i++ {
		if a.Coin() != b.Coin() {
			same = false
			break
		}
	}
	if same {
		t.Fatal("expected distinct LP streams to diverge")
	}
}

func TestUniformExceptNeverSelf(t *testing.T) {
	s := New(5)
	for i := 0; i < 1000; i++ {
		v := s.UniformExcept(4, 2)
		if v == 2 || v < 0 || v >= 4 {
			t.Fatalf("UniformExcept returned invalid value %d", v)
		}
	}
}

func TestExponentialPositive(t *testing.T) {
	s := New(0)
	for i := 0; i < 1000; i++ {
		v := s.Exponential(1.0 / 9.0)
		if v < 0 {
			t.Fatalf("Exponential returned negative value %v", v)
		}
	}
}
