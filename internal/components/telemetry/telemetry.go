package telemetry

import (
	"fmt"
)

// API receives everything xwordclues reports about a run. SlogAPI writes
// it to the log, tests use a Recorder to check what was reported.
//
// Ids are `report_*` constants of the reporting package, written as
// `<component>.<operation>` in lowercase with underscores inside names,
// e.g. `session.reacquire`, `driver.item`, `worklist.row`. Packages wrap
// the API they are given in a ScopedAPI, so the ids that reach the log
// read `xwordinfo: session.reacquire` or `batch: driver.item`.
type API interface {
	// ReportBroken reports a failure that stops an operation: a session
	// that cannot be acquired, an output file that cannot be written.
	ReportBroken(id string, params ...any)

	// ReportWarning reports something a run survives but a user may want
	// to look at: a lost session, a skipped worklist row, an item that
	// ended in ERROR.
	ReportWarning(id string, params ...any)

	// ReportDebug reports per request and per item progress, only shown
	// with --verbose.
	ReportDebug(id string, params ...any)

	// ReportCount reports a running total, e.g. records written so far.
	// Each report replaces the previous value of the same id.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id with the name of the package reporting it.
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportDebug(id string, params ...any) {
	s.inner.ReportDebug(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(fmt.Sprintf("%s: %s", s.namespace, id), count)
}
