package projects

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the projects table if missing. Run at boot in
// development; production deployments manage the schema with migrations.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	const ddl = `
create table if not exists projects (
    id            uuid primary key,
    name          text not null,
    description   text,
    scene_data    jsonb not null default '{}'::jsonb,
    thumbnail_url text,
    created_at    timestamptz not null default now(),
    updated_at    timestamptz not null default now()
);

create index if not exists projects_updated_at_idx on projects (updated_at desc);
`
	if _, err := db.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure projects schema: %w", err)
	}
	return nil
}
