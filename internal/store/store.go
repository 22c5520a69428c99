// Package store persists board state in a SQLite database. It is the
// durable side of the persistence sync: a one-time pull on load, then
// idempotent batched upserts as the board changes.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/corkboard/pkg/board"
	"github.com/vanderheijden86/corkboard/pkg/geom"
	"github.com/vanderheijden86/corkboard/pkg/sync"
)

const schema = `
CREATE TABLE IF NOT EXISTS entities (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	x          REAL NOT NULL,
	y          REAL NOT NULL,
	w          REAL NOT NULL,
	h          REAL NOT NULL,
	color      TEXT NOT NULL DEFAULT '',
	z          INTEGER NOT NULL DEFAULT 0,
	updated_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS links (
	a            TEXT NOT NULL,
	b            TEXT NOT NULL,
	type         TEXT NOT NULL,
	note         TEXT NOT NULL DEFAULT '',
	ai_generated INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_links_a ON links(a);
CREATE INDEX IF NOT EXISTS idx_links_b ON links(b);
`

// Store is a SQLite-backed board store.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the board database at path.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot apply schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadEntities reads all entities in stacking order (bottom first).
func (s *Store) LoadEntities(ctx context.Context) ([]board.EntityRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, x, y, w, h, color FROM entities ORDER BY z, id`)
	if err != nil {
		return nil, fmt.Errorf("query entities: %w", err)
	}
	defer rows.Close()

	var recs []board.EntityRecord
	for rows.Next() {
		var (
			id, kindStr, colorStr string
			x, y, w, h            float64
		)
		if err := rows.Scan(&id, &kindStr, &x, &y, &w, &h, &colorStr); err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		kind, err := board.ParseKind(kindStr)
		if err != nil {
			return nil, fmt.Errorf("entity %s: %w", id, err)
		}
		pos := geom.Pt(x, y)
		size := geom.Size{W: w, H: h}
		recs = append(recs, board.EntityRecord{
			ID: id, Kind: kind, Pos: &pos, Size: &size, Color: colorStr,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entities: %w", err)
	}
	return recs, nil
}

// LoadLinks reads all links.
func (s *Store) LoadLinks(ctx context.Context) ([]board.Link, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a, b, type, note, ai_generated FROM links ORDER BY a, b, type`)
	if err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}
	defer rows.Close()

	var links []board.Link
	for rows.Next() {
		var (
			l  board.Link
			ai int
			ty string
		)
		if err := rows.Scan(&l.A, &l.B, &ty, &l.Note, &ai); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		l.Type = board.LinkType(ty)
		l.AIGenerated = ai != 0
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating links: %w", err)
	}
	return links, nil
}

// SaveBoard replaces the stored board wholesale in one transaction.
func (s *Store) SaveBoard(ctx context.Context, reg *board.Registry, links []board.Link) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entities`); err != nil {
		return fmt.Errorf("clear entities: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM links`); err != nil {
		return fmt.Errorf("clear links: %w", err)
	}

	now := time.Now().UTC()
	for z, id := range reg.ZOrder() {
		e := reg.Get(id)
		_, err := tx.ExecContext(ctx,
			`INSERT INTO entities (id, kind, x, y, w, h, color, z, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Kind.String(), e.Pos.X, e.Pos.Y, e.Size.W, e.Size.H, e.Color, z, now)
		if err != nil {
			return fmt.Errorf("insert entity %s: %w", e.ID, err)
		}
	}
	for _, l := range links {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO links (a, b, type, note, ai_generated) VALUES (?, ?, ?, ?, ?)`,
			l.A, l.B, string(l.Type), l.Note, boolInt(l.AIGenerated))
		if err != nil {
			return fmt.Errorf("insert link %s-%s: %w", l.A, l.B, err)
		}
	}
	return tx.Commit()
}

// UpsertPositions applies a batch of position updates. Replay-safe: an
// update for an unknown entity inserts a minimal note row rather than
// failing, so a delayed write after a reload cannot error out the sync.
func (s *Store) UpsertPositions(ctx context.Context, ups []sync.PositionUpdate) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		for _, u := range ups {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO entities (id, kind, x, y, w, h, color, z, updated_at)
				 VALUES (?, 'note', ?, ?, 0, 0, '', 0, ?)
				 ON CONFLICT(id) DO UPDATE SET x = excluded.x, y = excluded.y, updated_at = excluded.updated_at`,
				u.ID, u.Pos.X, u.Pos.Y, now)
			if err != nil {
				return fmt.Errorf("upsert position %s: %w", u.ID, err)
			}
		}
		return nil
	})
}

// UpsertSizes applies a batch of size updates.
func (s *Store) UpsertSizes(ctx context.Context, ups []sync.SizeUpdate) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		for _, u := range ups {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO entities (id, kind, x, y, w, h, color, z, updated_at)
				 VALUES (?, 'note', 0, 0, ?, ?, '', 0, ?)
				 ON CONFLICT(id) DO UPDATE SET w = excluded.w, h = excluded.h, updated_at = excluded.updated_at`,
				u.ID, u.Size.W, u.Size.H, now)
			if err != nil {
				return fmt.Errorf("upsert size %s: %w", u.ID, err)
			}
		}
		return nil
	})
}

// UpsertColors applies a batch of color updates.
func (s *Store) UpsertColors(ctx context.Context, ups []sync.ColorUpdate) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		for _, u := range ups {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO entities (id, kind, x, y, w, h, color, z, updated_at)
				 VALUES (?, 'note', 0, 0, 0, 0, ?, 0, ?)
				 ON CONFLICT(id) DO UPDATE SET color = excluded.color, updated_at = excluded.updated_at`,
				u.ID, u.Color, now)
			if err != nil {
				return fmt.Errorf("upsert color %s: %w", u.ID, err)
			}
		}
		return nil
	})
}

// DeleteEntities removes a batch of entities and every link touching
// them, in one transaction. Deleting an id that is already gone is a
// no-op, so a replayed batch cannot fail.
func (s *Store) DeleteEntities(ctx context.Context, ids []string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, id := range ids {
			if _, err := tx.ExecContext(ctx, `DELETE FROM entities WHERE id = ?`, id); err != nil {
				return fmt.Errorf("delete entity %s: %w", id, err)
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM links WHERE a = ? OR b = ?`, id, id); err != nil {
				return fmt.Errorf("delete links of %s: %w", id, err)
			}
		}
		return nil
	})
}

// CountEntities returns the number of stored entities.
func (s *Store) CountEntities(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entities`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
