// Package service contains the application use cases of the exit checker.
// It coordinates domain objects, the pure streak and pattern algorithms and
// the repositories defined in internal/store.
//
// Key components:
//
//   - ExitEventRecorder: the append-only log of departures
//   - StreakTracker: persisted perfect-exit streak
//   - StatsService: the on-demand statistics view
//   - HomeService: the single home zone and monitor re-arming
//   - ChecklistService: checklist item management
//
// The exit session lifecycle lives in the exit_session subpackage.
//
// Services depend on store interfaces, never on a specific implementation,
// and are not safe for concurrent use: they are owned by the coordination
// loop (internal/loop).
package service
