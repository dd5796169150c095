package sim

import (
	"reflect"
	"testing"
)

func TestW_expand(t *testing.T) {
	td := []struct {
		w   W
		exp map[string]string
	}{
		{W{"a": "b"}, map[string]string{"a": "b"}},
		{W{"in[0..2]": "x[4..6]"}, map[string]string{"in[0]": "x[4]", "in[1]": "x[5]", "in[2]": "x[6]"}},
		{W{"in[0..1]": "gnd"}, map[string]string{"in[0]": "gnd", "in[1]": "gnd"}},
		{W{"in[3]": "x"}, map[string]string{"in[3]": "x"}},
	}
	for _, d := range td {
		r, err := d.w.expand()
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(r, d.exp) {
			t.Errorf("%v: expected %v, got %v", d.w, d.exp, r)
		}
	}

	for _, w := range []W{{"": "x"}, {"a[2..1]": "x"}, {"a[0..1": "x[0..1]"}, {"[0..1]": "x"}, {"a": "x[0..1]"}} {
		if _, err := w.expand(); err == nil {
			t.Errorf("%v: expected an error", w)
		}
	}
}

func TestBusPins(t *testing.T) {
	exp := []string{"a[0]", "a[1]", "b[0]", "b[1]"}
	if p := BusPins(2, "a", "b"); !reflect.DeepEqual(p, exp) {
		t.Fatalf("expected %v, got %v", exp, p)
	}
}
