package groups

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/certlab/protodrill/internal/errs"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) SaveGroups(ctx context.Context, topic string, gs []Group) error {
	buf, err := json.Marshal(gs)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO concept_groups (topic,groups_json,updated_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (topic) DO UPDATE SET groups_json=EXCLUDED.groups_json, updated_at=EXCLUDED.updated_at`,
		topic, string(buf), time.Now().Unix())
	return err
}

func (s *SQLStore) LoadGroups(ctx context.Context, topic string) ([]Group, error) {
	row := s.db.QueryRowContext(ctx, `SELECT groups_json FROM concept_groups WHERE topic=$1`, topic)
	var buf string
	if err := row.Scan(&buf); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	var gs []Group
	if err := json.Unmarshal([]byte(buf), &gs); err != nil {
		return nil, err
	}
	return gs, nil
}

func (s *SQLStore) SetOverride(ctx context.Context, questionID, groupID string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO group_overrides (question_id,group_id,updated_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (question_id) DO UPDATE SET group_id=EXCLUDED.group_id, updated_at=EXCLUDED.updated_at`,
		questionID, groupID, time.Now().Unix())
	return err
}

func (s *SQLStore) Overrides(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT question_id,group_id FROM group_overrides`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var qid, gid string
		if err := rows.Scan(&qid, &gid); err != nil {
			return nil, err
		}
		out[qid] = gid
	}
	return out, rows.Err()
}
