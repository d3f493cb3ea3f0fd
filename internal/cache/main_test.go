package cache

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain verifies a TTLCache with AutoCleanup enabled never leaves its
// cleanupLoop goroutine running after Close, the same check the teacher
// applies to its own lock-free cache registry in internal/core.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("sync.runtime_Semacquire"),
	)
}
