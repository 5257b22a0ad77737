package app

import (
	"os"
	"strconv"
	"sync/atomic"
)

// MERIDIAN_TEST_MODE short-circuits the binaries' main() so `go test` can
// compile and exercise them without starting servers or dialing Redis.
const testModeEnv = "MERIDIAN_TEST_MODE"

var testMode atomic.Pointer[bool]

// InTestMode reports whether runtime side effects should be skipped. The
// environment is read once and cached.
func InTestMode() bool {
	if v := testMode.Load(); v != nil {
		return *v
	}
	on, _ := strconv.ParseBool(os.Getenv(testModeEnv))
	testMode.Store(&on)
	return on
}

// RefreshTestMode re-reads the environment, for tests that flip the flag.
func RefreshTestMode() {
	on, _ := strconv.ParseBool(os.Getenv(testModeEnv))
	testMode.Store(&on)
}
