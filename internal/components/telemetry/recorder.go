package telemetry

import (
	"strings"
	"sync"
)

type ReportKind int

const (
	REPORT_BROKEN ReportKind = iota
	REPORT_WARNING
	REPORT_DEBUG
	REPORT_COUNT
)

type Report struct {
	Kind   ReportKind
	Id     string
	Params []any
	Count  int64
}

// Recorder is an API that keeps every report in memory so tests can make
// assertions on what was reported. It forwards to Inner when it is set.
type Recorder struct {
	Inner API

	mutex   sync.Mutex
	reports []Report
}

func (r *Recorder) push(report Report) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reports = append(r.reports, report)
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.push(Report{Kind: REPORT_BROKEN, Id: id, Params: params})
	if r.Inner != nil {
		r.Inner.ReportBroken(id, params...)
	}
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.push(Report{Kind: REPORT_WARNING, Id: id, Params: params})
	if r.Inner != nil {
		r.Inner.ReportWarning(id, params...)
	}
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.push(Report{Kind: REPORT_DEBUG, Id: msg, Params: params})
	if r.Inner != nil {
		r.Inner.ReportDebug(msg, params...)
	}
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.push(Report{Kind: REPORT_COUNT, Id: id, Count: count})
	if r.Inner != nil {
		r.Inner.ReportCount(id, count)
	}
}

// Reports returns a copy of all reports so far.
func (r *Recorder) Reports() []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	out := make([]Report, len(r.reports))
	copy(out, r.reports)
	return out
}

// Find returns the reports of the given kind whose id ends with suffix.
// ScopedAPI prefixes ids, so matching on the suffix keeps tests independent
// of namespaces.
func (r *Recorder) Find(kind ReportKind, suffix string) []Report {
	var out []Report
	for _, report := range r.Reports() {
		if report.Kind == kind && strings.HasSuffix(report.Id, suffix) {
			out = append(out, report)
		}
	}
	return out
}
