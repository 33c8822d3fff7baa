// Package report keeps a per-session record of what a conversion could not
// map cleanly: unmapped ids, placeholder allocations and failed chunks.
package report

import (
	_ "embed"
	"log/slog"
	"time"

	lz4 "github.com/DataDog/golz4-2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/qustavo/dotsql"
)

//go:embed schema.sql
var schema string

//go:embed queries.sql
var queries string

type Session struct {
	ID        string    `db:"id"`
	Source    string    `db:"source"`
	Target    string    `db:"target"`
	StartedAt time.Time `db:"started_at"`
}

type Unmapped struct {
	Identifier string `db:"identifier"`
	Count      int    `db:"count"`
}

type Placeholder struct {
	Name string `db:"name"`
	ID   int    `db:"id"`
}

// Failure is a chunk that couldn't be converted. Payload is the raw chunk
// as read, decompressed again on listing.
type Failure struct {
	X       int    `db:"x"`
	Z       int    `db:"z"`
	Reason  string `db:"reason"`
	Payload []byte `db:"payload"`
}

// Store is safe for concurrent use; sqlite runs with a single connection,
// which serializes writers.
type Store struct {
	db  *sqlx.DB
	dot *dotsql.DotSql
	log *slog.Logger
}

// Open creates or opens the report database at path. ":memory:" gives a
// private in-memory store.
func Open(path string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open report database")
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create report schema")
	}
	dot, err := dotsql.LoadFromString(queries)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to parse report queries")
	}
	return &Store{db: db, dot: dot, log: log}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) query(name string) string {
	q, err := s.dot.Raw(name)
	if err != nil {
		panic("report query not found: " + name)
	}
	return q
}

func (s *Store) exec(name string, args ...any) error {
	_, err := s.db.Exec(s.query(name), args...)
	return errors.Wrap(err, name)
}

func (s *Store) StartSession(id uuid.UUID, source, target string) error {
	return s.exec("insert-session", id.String(), source, target, time.Now().UTC())
}

func (s *Store) Sessions() ([]Session, error) {
	var out []Session
	err := s.db.Select(&out, s.query("list-sessions"))
	return out, errors.Wrap(err, "list-sessions")
}

// AddUnmapped adds n sightings of an id the reader had no mapping for.
func (s *Store) AddUnmapped(session uuid.UUID, identifier string, n int) error {
	return s.exec("add-unmapped", session.String(), identifier, n)
}

func (s *Store) Unmapped(session uuid.UUID) ([]Unmapped, error) {
	var out []Unmapped
	err := s.db.Select(&out, s.query("list-unmapped"), session.String())
	return out, errors.Wrap(err, "list-unmapped")
}

func (s *Store) PutPlaceholders(session uuid.UUID, assigned map[string]int) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	for name, id := range assigned {
		if _, err := tx.Exec(s.query("put-placeholder"), session.String(), name, id); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "placeholder %s", name)
		}
	}
	return tx.Commit()
}

func (s *Store) Placeholders(session uuid.UUID) ([]Placeholder, error) {
	var out []Placeholder
	err := s.db.Select(&out, s.query("list-placeholders"), session.String())
	return out, errors.Wrap(err, "list-placeholders")
}

// AddFailure records a chunk that failed, keeping its raw payload
// lz4-compressed.
func (s *Store) AddFailure(session uuid.UUID, x, z int, reason error, payload []byte) error {
	var comp []byte
	if len(payload) > 0 {
		comp = make([]byte, lz4.CompressBoundHdr(payload))
		n, err := lz4.CompressHCHdr(comp, payload)
		if err != nil {
			return errors.Wrapf(err, "compressing chunk %d,%d", x, z)
		}
		comp = comp[:n]
	}
	s.log.Debug("recording failed chunk", "x", x, "z", z, "err", reason, "bytes", len(payload))
	return s.exec("put-failure", session.String(), x, z, reason.Error(), comp)
}

func (s *Store) Failures(session uuid.UUID) ([]Failure, error) {
	var out []Failure
	if err := s.db.Select(&out, s.query("list-failures"), session.String()); err != nil {
		return nil, errors.Wrap(err, "list-failures")
	}
	for i := range out {
		if len(out[i].Payload) == 0 {
			continue
		}
		raw, err := lz4.UncompressAllocHdr(nil, out[i].Payload)
		if err != nil {
			return nil, errors.Wrapf(err, "chunk %d,%d payload", out[i].X, out[i].Z)
		}
		out[i].Payload = raw
	}
	return out, nil
}
