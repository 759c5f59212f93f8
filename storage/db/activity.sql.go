package db

import (
	"context"
)

const createActivity = `
INSERT INTO activity (id, operator, screen, action, record_id, detail, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id, operator, screen, action, record_id, detail, created_at
`

type CreateActivityParams struct {
	ID        string
	Operator  string
	Screen    string
	Action    string
	RecordID  string
	Detail    string
	CreatedAt int64
}

func (q *Queries) CreateActivity(ctx context.Context, arg CreateActivityParams) (Activity, error) {
	row := q.db.QueryRowContext(ctx, createActivity,
		arg.ID,
		arg.Operator,
		arg.Screen,
		arg.Action,
		arg.RecordID,
		arg.Detail,
		arg.CreatedAt,
	)
	var i Activity
	err := row.Scan(
		&i.ID,
		&i.Operator,
		&i.Screen,
		&i.Action,
		&i.RecordID,
		&i.Detail,
		&i.CreatedAt,
	)
	return i, err
}

const listRecentActivity = `
SELECT id, operator, screen, action, record_id, detail, created_at
FROM activity
ORDER BY created_at DESC, id DESC
LIMIT ?
`

func (q *Queries) ListRecentActivity(ctx context.Context, limit int64) ([]Activity, error) {
	rows, err := q.db.QueryContext(ctx, listRecentActivity, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Activity
	for rows.Next() {
		var i Activity
		if err := rows.Scan(
			&i.ID,
			&i.Operator,
			&i.Screen,
			&i.Action,
			&i.RecordID,
			&i.Detail,
			&i.CreatedAt,
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

const countActivityByScreenSince = `
SELECT screen, COUNT(*) AS total
FROM activity
WHERE created_at >= ?
GROUP BY screen
ORDER BY total DESC, screen
`

type CountActivityByScreenSinceRow struct {
	Screen string
	Total  int64
}

func (q *Queries) CountActivityByScreenSince(ctx context.Context, since int64) ([]CountActivityByScreenSinceRow, error) {
	rows, err := q.db.QueryContext(ctx, countActivityByScreenSince, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CountActivityByScreenSinceRow
	for rows.Next() {
		var i CountActivityByScreenSinceRow
		if err := rows.Scan(&i.Screen, &i.Total); err != nil {
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

const deleteActivityBefore = `
DELETE FROM activity WHERE created_at < ?
`

func (q *Queries) DeleteActivityBefore(ctx context.Context, before int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteActivityBefore, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
