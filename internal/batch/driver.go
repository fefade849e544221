// Package batch runs a worklist against the site one item at a time.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"
	"xwordclues/internal/components/assert"
	"xwordclues/internal/components/chrono"
	"xwordclues/internal/components/telemetry"
	"xwordclues/internal/records"
	"xwordclues/internal/scrapers/xwordinfo"
	"xwordclues/internal/sink"
)

const (
	report_driver_item    = "driver.item"
	report_driver_records = "driver.records"
	report_driver_session = "driver.session"
	report_driver_output  = "driver.output"
)

// DefaultPace is the delay between two items before scaling.
const DefaultPace = time.Second

type Options struct {
	Pace time.Duration
	// PaceScale multiplies Pace, 0 is treated as 1.
	PaceScale float64
	// Resume continues a previous run of a resumable mode instead of
	// starting over.
	Resume bool
}

func (o Options) delay() time.Duration {
	pace := o.Pace
	if pace == 0 {
		pace = DefaultPace
	}
	scale := o.PaceScale
	if scale == 0 {
		scale = 1
	}
	return time.Duration(float64(pace) * scale)
}

// Report sums up a run.
type Report struct {
	Mode string
	// Total is the length of the worklist.
	Total int
	// Resumed is the number of items a previous run already finished.
	Resumed int
	// States counts how many items were classified into and settled in
	// each state, SESSION_EXPIRED counts every lost session.
	States  map[ItemState]int
	Records int
	// Interrupted is set when the context was cancelled before the
	// worklist was finished.
	Interrupted bool
}

func (r Report) Processed() int {
	return r.States[RECORDED] + r.States[SKIPPED]
}

type Driver[T Item] struct {
	source xwordinfo.SessionSource
	mode   Mode[T]
	clock  chrono.API
	tel    telemetry.API
	state  *RunState
	opts   Options
}

// NewDriver creates a driver, state may be nil for modes that are not
// resumable.
func NewDriver[T Item](
	source xwordinfo.SessionSource,
	mode Mode[T],
	clock chrono.API,
	state *RunState,
	tel telemetry.API,
	opts Options,
) *Driver[T] {
	assert.NotNil(source, "session source")
	assert.NotNil(mode, "mode")
	assert.NotNil(clock, "clock")
	assert.NotNil(tel, "telemetry")
	assert.NotNegative(opts.PaceScale, "pace scale")
	assert.NotNegative(opts.Pace, "pace")

	if !mode.Resumable() {
		state = nil
	}
	return &Driver[T]{
		source: source,
		mode:   mode,
		clock:  clock,
		tel:    telemetry.NewScopedAPI("batch", tel),
		state:  state,
		opts:   opts,
	}
}

// Open returns where the driver should write records to: a buffer
// written once on Close for modes that are not resumable, otherwise a
// file appended to as items finish (kept when resuming, truncated when
// not).
func (d *Driver[T]) Open(path string) (sink.Sink, error) {
	if !d.mode.Resumable() {
		return sink.NewBuffer(path), nil
	}
	if d.opts.Resume {
		return sink.Resume(path)
	}
	return sink.Create(path)
}

func (d *Driver[T]) start(ctx context.Context, items []T, outputPath string) (int, error) {
	if d.state == nil {
		return 0, nil
	}
	if !d.opts.Resume {
		return 0, d.state.Reset(ctx)
	}

	outputRecords, err := sink.CountRecords(outputPath)
	if err != nil {
		return 0, err
	}
	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = item.Key()
	}
	return d.state.Offset(ctx, keys, outputRecords)
}

type outcome struct {
	state   ItemState
	records []records.Record
	err     error
	// lost counts sessions found expired while processing
	lost int
}

// process makes one item go from REQUESTED to a classified state, lost
// sessions are replaced once and the item is retried with the new one.
func (d *Driver[T]) process(ctx context.Context, sess *xwordinfo.Session, item T) (out outcome, next *xwordinfo.Session) {
	next = sess
	lost := 0
	defer func() {
		if r := recover(); r != nil {
			out = outcome{state: ERROR, err: fmt.Errorf("panic: %v", r), lost: lost}
		}
	}()

	d.tel.ReportDebug(report_driver_item, item.Key(), REQUESTED)
	recs, last, err := xwordinfo.WithSession(ctx, d.source, sess, func(s *xwordinfo.Session) ([]records.Record, error) {
		next = s
		recs, err := d.mode.Process(ctx, s, item)
		if errors.Is(err, xwordinfo.ErrSessionExpired) {
			lost++
			d.tel.ReportWarning(report_driver_session, item.Key(), s.Generation)
		}
		return recs, err
	})
	next = last
	switch {
	case err != nil:
		return outcome{state: ERROR, err: err, lost: lost}, next
	case len(recs) == 0:
		return outcome{state: NOT_FOUND, lost: lost}, next
	}
	return outcome{state: EXTRACTED, records: recs, lost: lost}, next
}

// Run processes every unfinished item of the worklist in order, writing
// records to out. Items that fail are reported and skipped, only failing
// to acquire the first session, to read or write run state or to write
// output stops the run early. The context is checked between items.
func (d *Driver[T]) Run(ctx context.Context, items []T, out sink.Sink, outputPath string) (Report, error) {
	report := Report{
		Mode:   d.mode.Name(),
		Total:  len(items),
		States: map[ItemState]int{},
	}

	offset, err := d.start(ctx, items, outputPath)
	if err != nil {
		d.tel.ReportBroken(report_driver_output, err)
		return report, err
	}
	report.Resumed = offset
	if offset >= len(items) {
		return report, nil
	}

	sess, err := d.source.Acquire(ctx)
	if err != nil {
		return report, fmt.Errorf("start batch: %w", err)
	}

	processed := 0
	for i := offset; i < len(items); i++ {
		item := items[i]
		if processed > 0 {
			err = d.clock.Sleep(ctx, d.opts.delay())
		}
		if err != nil || ctx.Err() != nil {
			report.Interrupted = true
			return report, context.Cause(ctx)
		}

		var result outcome
		result, sess = d.process(ctx, sess, item)
		processed++
		report.States[SESSION_EXPIRED] += result.lost
		if ctx.Err() != nil {
			// a cancelled lookup says nothing about the item itself
			report.Interrupted = true
			return report, context.Cause(ctx)
		}

		report.States[result.state]++
		if result.state == ERROR {
			d.tel.ReportWarning(report_driver_item, item.Key(), result.err)
		}

		err = out.Append(result.records)
		if err != nil {
			d.tel.ReportBroken(report_driver_output, err)
			return report, err
		}
		terminal := result.state.Terminal()
		if d.state != nil {
			err = d.state.Complete(ctx, i, item.Key(), terminal, len(result.records))
			if err != nil {
				d.tel.ReportBroken(report_driver_output, err)
				return report, err
			}
		}

		report.States[terminal]++
		report.Records += len(result.records)
		d.tel.ReportDebug(report_driver_item, item.Key(), result.state, terminal)
		d.tel.ReportCount(report_driver_records, int64(report.Records))
	}

	return report, nil
}
