package projects

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const projectColumns = `id, name, description, scene_data, thumbnail_url, created_at, updated_at`

func scanProject(row pgx.Row) (*Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.SceneData, &p.ThumbnailURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns all projects, most recently modified first.
func (r *Repo) List(ctx context.Context) ([]Project, error) {
	const q = `
select ` + projectColumns + `
from projects
order by updated_at desc;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Project, 0, 16)
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.SceneData, &p.ThumbnailURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id string) (*Project, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	const q = `
select ` + projectColumns + `
from projects
where id = $1::uuid;
`
	return scanProject(r.db.QueryRow(ctx, q, id))
}

func (r *Repo) Create(ctx context.Context, name string, description *string, sceneData []byte) (*Project, error) {
	if name == "" {
		return nil, fmt.Errorf("name required")
	}

	const q = `
insert into projects (id, name, description, scene_data)
values ($1::uuid, $2, $3, $4)
returning ` + projectColumns + `;
`
	return scanProject(r.db.QueryRow(ctx, q, uuid.NewString(), name, description, sceneData))
}

// Update applies only the fields present in f; updated_at advances on
// every successful update.
func (r *Repo) Update(ctx context.Context, id string, f UpdateFields) (*Project, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	if f.empty() {
		return r.touch(ctx, id)
	}

	set := []string{"updated_at = now()"}
	args := []interface{}{id}

	if f.Name != nil {
		args = append(args, *f.Name)
		set = append(set, fmt.Sprintf("name = $%d", len(args)))
	}
	if f.DescriptionSet {
		args = append(args, f.Description)
		set = append(set, fmt.Sprintf("description = $%d", len(args)))
	}
	if f.SceneData != nil {
		args = append(args, f.SceneData)
		set = append(set, fmt.Sprintf("scene_data = $%d", len(args)))
	}
	if f.ThumbnailURLSet {
		args = append(args, f.ThumbnailURL)
		set = append(set, fmt.Sprintf("thumbnail_url = $%d", len(args)))
	}

	q := fmt.Sprintf(`
update projects
set %s
where id = $1::uuid
returning %s;
`, strings.Join(set, ", "), projectColumns)

	return scanProject(r.db.QueryRow(ctx, q, args...))
}

// touch advances updated_at without changing any field, so an empty
// partial update still counts as a mutation.
func (r *Repo) touch(ctx context.Context, id string) (*Project, error) {
	const q = `
update projects
set updated_at = now()
where id = $1::uuid
returning ` + projectColumns + `;
`
	return scanProject(r.db.QueryRow(ctx, q, id))
}

// Delete removes the record. The caller handles thumbnail cleanup first.
func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}

	const q = `delete from projects where id = $1::uuid;`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}
