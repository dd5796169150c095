package hwtest_test

import (
	"testing"

	"github.com/db47h/spipwm"
	"github.com/db47h/spipwm/hwtest"
)

var (
	_ spipwm.Clock = (*hwtest.Wave)(nil)
	_ spipwm.Bus   = (*hwtest.Wave)(nil)
	_ spipwm.Clock = (*hwtest.Recorder)(nil)
	_ spipwm.Bus   = (*hwtest.Recorder)(nil)
)

func TestWave(t *testing.T) {
	w := &hwtest.Wave{Period: 4, High: 1, Phase: 3}
	exp := []uint64{0, 1, 0, 0, 0, 1, 0, 0}
	for i, e := range exp {
		if v := w.Read(); v != e {
			t.Fatalf("tick %d: expected %d, got %d", i, e, v)
		}
		w.Wait(1)
	}
	if w.Ticks() != uint64(len(exp)) {
		t.Fatalf("expected %d ticks, got %d", len(exp), w.Ticks())
	}
}

func TestRecorder_Frames(t *testing.T) {
	var r hwtest.Recorder
	f := spipwm.Frame(0xa55a)
	r.Write(spipwm.Pack(spipwm.LineState{}))
	for _, bit := range f.Bits() {
		r.Write(spipwm.Pack(spipwm.LineState{Data: bit}))
		r.Wait(2)
		r.Write(spipwm.Pack(spipwm.LineState{Data: bit, SCLK: true}))
		r.Wait(2)
	}
	r.Write(spipwm.Pack(spipwm.Idle))
	// a short frame
	r.Write(spipwm.Pack(spipwm.LineState{}))
	r.Write(spipwm.Pack(spipwm.LineState{SCLK: true}))
	r.Write(spipwm.Pack(spipwm.Idle))

	fs, ok := r.Frames()
	if ok {
		t.Fatal("short frame not detected")
	}
	if len(fs) != 2 || fs[0] != f {
		t.Fatalf("expected first frame %s, got %v", f, fs)
	}
	if r.Ticks() != 4*spipwm.FrameBits {
		t.Fatalf("bad tick count %d", r.Ticks())
	}
}
