package traverse

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain verifies that no test in this package leaks goroutines.
// Pool teardown is part of the sweep contract, so a leak here is a bug
// in Close/Wait handling, not test noise.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
