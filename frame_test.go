package spipwm_test

import (
	"reflect"
	"testing"
	"testing/quick"

	"github.com/db47h/spipwm"
	"github.com/pkg/errors"
)

func TestEncode_bitOrder(t *testing.T) {
	f, err := spipwm.Encode(spipwm.Transaction{Dir: spipwm.Write, Addr: 0x00, Data: 0xf0})
	if err != nil {
		t.Fatal(err)
	}
	if f != 0x80f0 {
		t.Fatalf("expected frame 0x80f0, got %#x", uint16(f))
	}
	exp := []bool{
		true, false, false, false, false, false, false, false,
		true, true, true, true, false, false, false, false,
	}
	if bs := f.Bits(); !reflect.DeepEqual(bs, exp) {
		t.Fatalf("expected %v, got %v", exp, bs)
	}

	f, err = spipwm.Encode(spipwm.Transaction{Dir: spipwm.Read, Addr: 0x41, Data: 0x01})
	if err != nil {
		t.Fatal(err)
	}
	if f.String() != "0100000100000001" {
		t.Fatalf("bad frame %s", f)
	}
}

func TestEncode_roundTrip(t *testing.T) {
	f := func(w bool, a, d uint8) bool {
		tr := spipwm.Transaction{Dir: spipwm.Read, Addr: int(a & spipwm.MaxAddr), Data: int(d)}
		if w {
			tr.Dir = spipwm.Write
		}
		fr, err := spipwm.Encode(tr)
		if err != nil {
			return false
		}
		return len(fr.Bits()) == spipwm.FrameBits && fr.Transaction() == tr
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}

func TestEncode_validation(t *testing.T) {
	td := []struct {
		addr, data int
		field      string
	}{
		{128, 0, "address"},
		{-1, 0, "address"},
		{0, 256, "data"},
		{0, -1, "data"},
		{200, 300, "address"},
	}
	for _, d := range td {
		tr := spipwm.Transaction{Dir: spipwm.Write, Addr: d.addr, Data: d.data}
		_, err := spipwm.Encode(tr)
		verr, ok := err.(*spipwm.ValidationError)
		if !ok {
			t.Errorf("%v: expected a *ValidationError, got %v", tr, err)
			continue
		}
		if verr.Field != d.field {
			t.Errorf("%v: expected error on %s, got %v", tr, d.field, verr)
		}
	}
	for _, tr := range []spipwm.Transaction{{spipwm.Read, 0, 0}, {spipwm.Write, 127, 255}} {
		if _, err := spipwm.Encode(tr); err != nil {
			t.Errorf("%v: unexpected error %v", tr, err)
		}
	}
}

func TestValidationError_cause(t *testing.T) {
	err := errors.Wrap(spipwm.Transaction{Addr: 0x80}.Validate(), "test")
	if _, ok := errors.Cause(err).(*spipwm.ValidationError); !ok {
		t.Fatalf("unexpected cause %v", errors.Cause(err))
	}
}
