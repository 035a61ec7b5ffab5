package convert

import (
	"context"
	"database/sql"
	"fmt"
)

type sqlStore struct {
	db *sql.DB
}

// NewSQLStore persists conversions via database/sql; both the sqlite and
// pgx drivers accept the $n placeholders used here.
func NewSQLStore(db *sql.DB) Store {
	return &sqlStore{db: db}
}

func (s *sqlStore) PutConversion(c Conversion) error {
	_, err := s.db.Exec(
		`INSERT INTO conversions (id, owner_id, question_count, points, artifact_key, content_type, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		c.ID, c.OwnerID, c.QuestionCount, c.Points, c.ArtifactKey, c.ContentType, c.CreatedAt,
	)
	return err
}

func (s *sqlStore) GetConversion(id string) (Conversion, error) {
	var c Conversion
	err := s.db.QueryRow(
		`SELECT id, owner_id, question_count, points, artifact_key, content_type, created_at
		 FROM conversions WHERE id=$1`, id,
	).Scan(&c.ID, &c.OwnerID, &c.QuestionCount, &c.Points, &c.ArtifactKey, &c.ContentType, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return Conversion{}, fmt.Errorf("conversion %q not found", id)
	}
	return c, err
}

func (s *sqlStore) ListConversions(ctx context.Context, opts ListOpts) ([]Conversion, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	q := `SELECT id, owner_id, question_count, points, artifact_key, content_type, created_at
	      FROM conversions`
	args := []any{}
	if opts.OwnerID != "" {
		q += ` WHERE owner_id=$1`
		args = append(args, opts.OwnerID)
	}
	q += fmt.Sprintf(` ORDER BY created_at DESC, id LIMIT %d OFFSET %d`, limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Conversion
	for rows.Next() {
		var c Conversion
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.QuestionCount, &c.Points, &c.ArtifactKey, &c.ContentType, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
