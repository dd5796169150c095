package spipwm_test

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/womat/debug"
)

func TestMain(m *testing.M) {
	debug.SetDebug(ioutil.Discard, debug.Standard)
	os.Exit(m.Run())
}
