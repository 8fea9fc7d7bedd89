package stats

import "testing"

func TestDisabledRecorderIsNoop(t *testing.T) {
	r := NewRecorder(false)
	r.Observe(0, 1.5)
	text, err := r.Dump()
	if err != nil {
		t.Fatalf("Dump error: %v", err)
	}
	if text != "" {
		t.Fatalf("expected empty dump for disabled recorder, got %q", text)
	}
}

func TestEnabledRecorderDumps(t *testing.T) {
	r := NewRecorder(true)
	r.Observe(0, 0.000002)
	r.Observe(1, 0.5)
	text, err := r.Dump()
	if err != nil {
		t.Fatalf("Dump error: %v", err)
	}
	if text == "" {
		t.Fatal("expected non-empty dump for enabled recorder")
	}
}
