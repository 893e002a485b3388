package workload

import "testing"

func TestUnitDeterministic(t *testing.T) {
	a := NewUnit(64)
	b := NewUnit(64)

	for i := 0; i < 5; i++ {
		got, want := a.Run(), b.Run()
		if got != want {
			t.Fatalf("run %d: units diverged: %d != %d", i, got, want)
		}
		if got == 0 {
			t.Fatalf("run %d: checksum is zero", i)
		}
	}
}

func TestUnitMinimumSize(t *testing.T) {
	u := NewUnit(0)
	if len(u.buf) != 1024 {
		t.Errorf("buffer size = %d, want 1024", len(u.buf))
	}
	u.Run()
}

func BenchmarkUnitRun(b *testing.B) {
	u := NewUnit(4096)
	for i := 0; i < b.N; i++ {
		u.Run()
	}
}
