// Package reconcile tracks object-storage cleanup that failed during
// best-effort deletion, so orphaned assets become retryable work items
// instead of silent leaks.
package reconcile

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Item is one pending (or resolved) cleanup work item.
type Item struct {
	ID         int64      `json:"id"`
	Key        string     `json:"key"`
	Reason     string     `json:"reason"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at"`
}

// Log is the persistent work-item store.
type Log struct {
	db *pgxpool.Pool
}

func NewLog(db *pgxpool.Pool) *Log {
	return &Log{db: db}
}

func (l *Log) EnsureSchema(ctx context.Context) error {
	const ddl = `
create table if not exists storage_reconcile_items (
    id          bigserial primary key,
    key         text not null,
    reason      text not null,
    created_at  timestamptz not null default now(),
    resolved_at timestamptz
);

create index if not exists storage_reconcile_pending_idx
    on storage_reconcile_items (created_at) where resolved_at is null;
`
	if _, err := l.db.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure reconcile schema: %w", err)
	}
	return nil
}

// RecordFailedDelete inserts a work item. Recording is itself best-effort:
// a failed insert is logged and dropped, never surfaced to the caller.
func (l *Log) RecordFailedDelete(ctx context.Context, key string, cause error) {
	const q = `insert into storage_reconcile_items (key, reason) values ($1, $2);`
	if _, err := l.db.Exec(ctx, q, key, cause.Error()); err != nil {
		log.Printf("[error] operation=reconcile_record key=%s error=%v", key, err)
	}
}

// Pending returns up to limit unresolved items, oldest first.
func (l *Log) Pending(ctx context.Context, limit int) ([]Item, error) {
	const q = `
select id, key, reason, created_at, resolved_at
from storage_reconcile_items
where resolved_at is null
order by created_at
limit $1;
`
	rows, err := l.db.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Key, &it.Reason, &it.CreatedAt, &it.ResolvedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (l *Log) MarkResolved(ctx context.Context, id int64) error {
	const q = `update storage_reconcile_items set resolved_at = now() where id = $1;`
	_, err := l.db.Exec(ctx, q, id)
	return err
}
