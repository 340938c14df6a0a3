package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/blake2b"
)

// SnapshotRow is one archived scene document.
type SnapshotRow struct {
	ID          uuid.UUID
	Scene       string
	Entities    int
	Document    json.RawMessage
	Fingerprint []byte
	CreatedAt   time.Time
}

type SceneRepo struct {
	db *DB
}

func NewSceneRepo(db *DB) *SceneRepo {
	return &SceneRepo{db: db}
}

// Save archives doc for scene. A document identical to the latest snapshot
// of the same scene is not stored again; the existing row is returned.
func (r *SceneRepo) Save(ctx context.Context, scene string, entities int, doc []byte) (*SnapshotRow, error) {
	sum := blake2b.Sum256(doc)
	latest, err := r.Latest(ctx, scene)
	if err != nil {
		return nil, err
	}
	if latest != nil && string(latest.Fingerprint) == string(sum[:]) {
		return latest, nil
	}

	row := &SnapshotRow{
		ID:          uuid.New(),
		Scene:       scene,
		Entities:    entities,
		Document:    json.RawMessage(doc),
		Fingerprint: sum[:],
	}
	err = r.db.Pool.QueryRow(ctx,
		`INSERT INTO scene_snapshots (id, scene, entities, document, fingerprint)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		row.ID, row.Scene, row.Entities, []byte(row.Document), row.Fingerprint,
	).Scan(&row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("save snapshot of %q: %w", scene, err)
	}
	return row, nil
}

// Latest returns the newest snapshot of scene, or nil when there is none.
func (r *SceneRepo) Latest(ctx context.Context, scene string) (*SnapshotRow, error) {
	return r.loadOne(ctx,
		`SELECT id, scene, entities, document, fingerprint, created_at
		 FROM scene_snapshots WHERE scene = $1
		 ORDER BY created_at DESC LIMIT 1`, scene)
}

// Load returns the snapshot with id, or nil when it does not exist.
func (r *SceneRepo) Load(ctx context.Context, id uuid.UUID) (*SnapshotRow, error) {
	return r.loadOne(ctx,
		`SELECT id, scene, entities, document, fingerprint, created_at
		 FROM scene_snapshots WHERE id = $1`, id)
}

func (r *SceneRepo) loadOne(ctx context.Context, query string, arg any) (*SnapshotRow, error) {
	row := &SnapshotRow{}
	var doc []byte
	err := r.db.Pool.QueryRow(ctx, query, arg).Scan(
		&row.ID, &row.Scene, &row.Entities, &doc, &row.Fingerprint, &row.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	row.Document = doc
	return row, nil
}

// List returns up to limit snapshots of scene, newest first, without their
// documents.
func (r *SceneRepo) List(ctx context.Context, scene string, limit int) ([]SnapshotRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, scene, entities, fingerprint, created_at
		 FROM scene_snapshots WHERE scene = $1
		 ORDER BY created_at DESC LIMIT $2`, scene, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots of %q: %w", scene, err)
	}
	defer rows.Close()

	var out []SnapshotRow
	for rows.Next() {
		var s SnapshotRow
		if err := rows.Scan(&s.ID, &s.Scene, &s.Entities, &s.Fingerprint, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SceneRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM scene_snapshots WHERE id = $1`, id)
	return err
}

// Prune keeps the newest keep snapshots of scene and deletes the rest.
func (r *SceneRepo) Prune(ctx context.Context, scene string, keep int) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM scene_snapshots
		 WHERE scene = $1 AND id NOT IN (
		     SELECT id FROM scene_snapshots WHERE scene = $1
		     ORDER BY created_at DESC LIMIT $2)`,
		scene, keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots of %q: %w", scene, err)
	}
	return tag.RowsAffected(), nil
}
