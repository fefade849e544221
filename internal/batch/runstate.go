package batch

import (
	"context"
	"database/sql"
	"fmt"
	"xwordclues/internal/components/chrono"
	"xwordclues/internal/components/telemetry"
	"xwordclues/internal/db"
)

const (
	report_runstate_reconcile = "run_state.reconcile"
)

// RunState is the ledger of worklist items a run has finished, one row per
// item in worklist order. Rows are only ever added while a run is going.
type RunState struct {
	qry   *db.Queries
	run   string
	clock chrono.API
	tel   telemetry.API
}

func NewRunState(database *sql.DB, run string, clock chrono.API, tel telemetry.API) *RunState {
	return &RunState{
		qry:   db.New(database),
		run:   run,
		clock: clock,
		tel:   telemetry.NewScopedAPI("batch", tel),
	}
}

// Reset forgets every finished item, for runs that start over.
func (s *RunState) Reset(ctx context.Context) error {
	err := s.qry.DeleteRun(ctx, s.run)
	if err != nil {
		return fmt.Errorf("reset run state: %w", err)
	}
	return nil
}

// Complete marks the item at position as finished.
func (s *RunState) Complete(ctx context.Context, position int, key string, state ItemState, records int) error {
	err := s.qry.CompleteItem(ctx, db.CompleteItemParams{
		Run:         s.run,
		Position:    int64(position),
		Item:        key,
		State:       state.String(),
		Records:     int64(records),
		CompletedAt: s.clock.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("complete %q: %w", key, err)
	}
	return nil
}

// Offset returns the position of the first unfinished item, given the
// keys of the worklist and the number of records already in the output.
//
// The output is appended to before the ledger, so the two can disagree by
// the item that was being recorded when the run stopped:
//   - an empty ledger next to existing output counts one item per record,
//     the output alone is all there is to go on;
//   - more records in the output than in the ledger means the next item
//     made it to the output, it is marked finished;
//   - fewer records in the output (deleted or truncated) forgets every
//     item from the first one whose records are missing.
func (s *RunState) Offset(ctx context.Context, keys []string, outputRecords int) (int, error) {
	next, err := s.qry.NextPosition(ctx, s.run)
	if err != nil {
		return 0, fmt.Errorf("read run state: %w", err)
	}
	recorded, err := s.qry.SumRecords(ctx, s.run)
	if err != nil {
		return 0, fmt.Errorf("read run state: %w", err)
	}
	position := int(next)
	extra := outputRecords - int(recorded)

	switch {
	case position == 0 && extra > 0:
		s.tel.ReportWarning(report_runstate_reconcile, "no run state, resuming from output", outputRecords)
		for ; position < extra && position < len(keys); position++ {
			err = s.Complete(ctx, position, keys[position], RECORDED, 1)
			if err != nil {
				return 0, err
			}
		}
	case extra > 0 && position < len(keys):
		s.tel.ReportWarning(report_runstate_reconcile, keys[position], extra)
		err = s.Complete(ctx, position, keys[position], RECORDED, extra)
		if err != nil {
			return 0, err
		}
		position++
	case extra < 0:
		position, err = s.trim(ctx, outputRecords)
		if err != nil {
			return 0, err
		}
	}

	return min(position, len(keys)), nil
}

// trim drops the ledger from the first item whose records are not all in
// the output and returns that item's position.
func (s *RunState) trim(ctx context.Context, outputRecords int) (int, error) {
	items, err := s.qry.GetCompletedItems(ctx, s.run)
	if err != nil {
		return 0, fmt.Errorf("read run state: %w", err)
	}

	cut := len(items)
	cutItem := ""
	kept := 0
	for _, item := range items {
		if kept+int(item.Records) > outputRecords {
			cut = int(item.Position)
			cutItem = item.Item
			break
		}
		kept += int(item.Records)
	}
	s.tel.ReportWarning(report_runstate_reconcile, "output has fewer records than run state, redoing items", outputRecords, cut)
	if kept < outputRecords {
		// the cut item was only partly written, its records will repeat
		s.tel.ReportWarning(report_runstate_reconcile, "partial item in output", cutItem, outputRecords-kept)
	}

	err = s.qry.TrimRun(ctx, db.TrimRunParams{Run: s.run, Position: int64(cut)})
	if err != nil {
		return 0, fmt.Errorf("trim run state: %w", err)
	}
	return cut, nil
}
