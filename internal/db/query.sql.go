package db

import (
	"context"
)

type CompletedItem struct {
	Run         string
	Position    int64
	Item        string
	State       string
	Records     int64
	CompletedAt int64
}

const completeItem = `-- name: CompleteItem :exec
insert or replace into completed_item (run, position, item, state, records, completed_at)
values (?, ?, ?, ?, ?, ?)
`

type CompleteItemParams struct {
	Run         string
	Position    int64
	Item        string
	State       string
	Records     int64
	CompletedAt int64
}

func (q *Queries) CompleteItem(ctx context.Context, arg CompleteItemParams) error {
	_, err := q.db.ExecContext(ctx, completeItem,
		arg.Run,
		arg.Position,
		arg.Item,
		arg.State,
		arg.Records,
		arg.CompletedAt,
	)
	return err
}

const deleteRun = `-- name: DeleteRun :exec
delete from completed_item where run = ?
`

func (q *Queries) DeleteRun(ctx context.Context, run string) error {
	_, err := q.db.ExecContext(ctx, deleteRun, run)
	return err
}

const getCompletedItems = `-- name: GetCompletedItems :many
select run, position, item, state, records, completed_at from completed_item
where run = ?
order by position asc
`

func (q *Queries) GetCompletedItems(ctx context.Context, run string) ([]CompletedItem, error) {
	rows, err := q.db.QueryContext(ctx, getCompletedItems, run)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CompletedItem
	for rows.Next() {
		var i CompletedItem
		if err := rows.Scan(
			&i.Run,
			&i.Position,
			&i.Item,
			&i.State,
			&i.Records,
			&i.CompletedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const trimRun = `-- name: TrimRun :exec
delete from completed_item where run = ? and position >= ?
`

type TrimRunParams struct {
	Run      string
	Position int64
}

func (q *Queries) TrimRun(ctx context.Context, arg TrimRunParams) error {
	_, err := q.db.ExecContext(ctx, trimRun, arg.Run, arg.Position)
	return err
}

const nextPosition = `-- name: NextPosition :one
select coalesce(max(position) + 1, 0) from completed_item
where run = ?
`

func (q *Queries) NextPosition(ctx context.Context, run string) (int64, error) {
	row := q.db.QueryRowContext(ctx, nextPosition, run)
	var coalesce int64
	err := row.Scan(&coalesce)
	return coalesce, err
}

const sumRecords = `-- name: SumRecords :one
select coalesce(sum(records), 0) from completed_item
where run = ?
`

func (q *Queries) SumRecords(ctx context.Context, run string) (int64, error) {
	row := q.db.QueryRowContext(ctx, sumRecords, run)
	var coalesce int64
	err := row.Scan(&coalesce)
	return coalesce, err
}
