package platform

import "testing"

type stubHandler struct{ name string }

func (s *stubHandler) ProcessEvent(Event) bool { return true }

func TestCaptureIsExclusive(t *testing.T) {
	var c Capture
	a := &stubHandler{name: "a"}
	b := &stubHandler{name: "b"}

	if !c.Acquire(a) {
		t.Fatalf("expected first acquire to succeed")
	}
	if c.Acquire(b) {
		t.Fatalf("expected second handler to be refused")
	}
	c.Release(b)
	if !c.HeldBy(a) {
		t.Fatalf("release by non-owner must not drop the capture")
	}
	c.Release(a)
	if c.Owner() != nil {
		t.Fatalf("expected capture to be free")
	}
	if !c.Acquire(b) {
		t.Fatalf("expected acquire after release to succeed")
	}
}
