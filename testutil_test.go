package asynciter

import "testing"

// withManualScheduler installs a ManualScheduler as the process-wide
// scheduler for the duration of t, restoring the default afterward, so
// tests can step deferred work deterministically instead of racing the
// background goroutine scheduler.
func withManualScheduler(t *testing.T) *ManualScheduler {
	t.Helper()
	ms := NewManualScheduler()
	SetTaskScheduler(ms)
	t.Cleanup(func() { SetTaskScheduler(nil) })
	return ms
}
