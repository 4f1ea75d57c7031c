// Package registry stores fitted pipelines by name and version in a SQLite database.
package registry

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/askiada/go-preprocess/pkg/pipeline"
)

var (
	ErrNotFound       = errors.New("pipeline not found")
	ErrInvalidName    = errors.New("invalid pipeline name")
	ErrInvalidVersion = errors.New("invalid pipeline version")
)

// Entry describes a registered pipeline version.
type Entry struct {
	Name       string
	Version    int
	PipelineID string
	Steps      int
	Size       int
	CreatedAt  time.Time
}

// Store is a pipeline registry backed by SQLite.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS pipelines (
	name        TEXT    NOT NULL,
	version     INTEGER NOT NULL,
	pipeline_id TEXT    NOT NULL,
	steps       INTEGER NOT NULL,
	created_at  INTEGER NOT NULL,
	blob        BLOB    NOT NULL,
	PRIMARY KEY (name, version)
);`

// Open opens or creates the registry database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open registry")
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()

		return nil, errors.Wrapf(err, "unable to connect to registry %s", path)
	}

	_, err = db.ExecContext(ctx, schema)
	if err != nil {
		db.Close()

		return nil, errors.Wrap(err, "unable to initialise registry schema")
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put registers pipe under name as the next version.
func (s *Store) Put(ctx context.Context, name string, pipe *pipeline.Pipeline) (Entry, error) {
	err := validateName(name)
	if err != nil {
		return Entry{}, err
	}

	data, err := pipe.MarshalBinary()
	if err != nil {
		return Entry{}, errors.Wrapf(err, "unable to encode pipeline %s", name)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, errors.Wrap(err, "unable to begin transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	var latest int

	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM pipelines WHERE name = ?`, name).Scan(&latest)
	if err != nil {
		return Entry{}, errors.Wrapf(err, "unable to read latest version of %s", name)
	}

	entry := Entry{
		Name:       name,
		Version:    latest + 1,
		PipelineID: pipe.ID().String(),
		Steps:      pipe.Len(),
		Size:       len(data),
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO pipelines (name, version, pipeline_id, steps, created_at, blob) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Name, entry.Version, entry.PipelineID, entry.Steps, entry.CreatedAt.UnixMicro(), data,
	)
	if err != nil {
		return Entry{}, errors.Wrapf(err, "unable to insert %s@%d", name, entry.Version)
	}

	err = tx.Commit()
	if err != nil {
		return Entry{}, errors.Wrap(err, "unable to commit")
	}

	return entry, nil
}

// Get returns the encoded pipeline registered under name. Version 0 selects the latest
// version.
func (s *Store) Get(ctx context.Context, name string, version int) ([]byte, Entry, error) {
	if version < 0 {
		return nil, Entry{}, errors.Wrapf(ErrInvalidVersion, "%d", version)
	}

	query := `SELECT name, version, pipeline_id, steps, created_at, blob FROM pipelines WHERE name = ?`
	args := []any{name}

	if version == 0 {
		query += ` ORDER BY version DESC LIMIT 1`
	} else {
		query += ` AND version = ?`
		args = append(args, version)
	}

	var (
		entry   Entry
		created int64
		data    []byte
	)

	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&entry.Name, &entry.Version, &entry.PipelineID, &entry.Steps, &created, &data,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, Entry{}, errors.Wrapf(ErrNotFound, "%s", Ref(name, version))
	}
	if err != nil {
		return nil, Entry{}, errors.Wrapf(err, "unable to read %s", Ref(name, version))
	}

	entry.Size = len(data)
	entry.CreatedAt = time.UnixMicro(created).UTC()

	return data, entry, nil
}

// Load returns the pipeline registered under name. Version 0 selects the latest version.
func (s *Store) Load(ctx context.Context, name string, version int, opts ...pipeline.LoadOption) (*pipeline.Pipeline, Entry, error) {
	data, entry, err := s.Get(ctx, name, version)
	if err != nil {
		return nil, Entry{}, err
	}

	pipe, err := pipeline.Unmarshal(data, opts...)
	if err != nil {
		return nil, Entry{}, errors.Wrapf(err, "unable to load %s@%d", entry.Name, entry.Version)
	}

	return pipe, entry, nil
}

// List returns every registered version, by name then version.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, version, pipeline_id, steps, created_at, LENGTH(blob) FROM pipelines ORDER BY name, version`)
	if err != nil {
		return nil, errors.Wrap(err, "unable to list pipelines")
	}
	defer rows.Close()

	var entries []Entry

	for rows.Next() {
		var (
			entry   Entry
			created int64
		)

		err = rows.Scan(&entry.Name, &entry.Version, &entry.PipelineID, &entry.Steps, &created, &entry.Size)
		if err != nil {
			return nil, errors.Wrap(err, "unable to scan pipeline")
		}
		entry.CreatedAt = time.UnixMicro(created).UTC()

		entries = append(entries, entry)
	}

	err = rows.Err()
	if err != nil {
		return nil, errors.Wrap(err, "unable to list pipelines")
	}

	return entries, nil
}

// ParseRef splits "name" or "name@version". A missing version is 0, the latest.
func ParseRef(ref string) (string, int, error) {
	name, version, found := strings.Cut(ref, "@")

	err := validateName(name)
	if err != nil {
		return "", 0, err
	}

	if !found {
		return name, 0, nil
	}

	v, err := strconv.Atoi(version)
	if err != nil || v < 1 {
		return "", 0, errors.Wrapf(ErrInvalidVersion, "%q", version)
	}

	return name, v, nil
}

// Ref formats a name and version as accepted by ParseRef.
func Ref(name string, version int) string {
	if version == 0 {
		return name
	}

	return name + "@" + strconv.Itoa(version)
}

func validateName(name string) error {
	if name == "" || strings.ContainsAny(name, "@ \t\n") {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}

	return nil
}
