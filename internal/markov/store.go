package markov

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"subkatsu/internal/fileutil"
	"subkatsu/internal/services"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the model file format version. Bump it when the schema
// changes; older model files must be retrained or re-imported.
const schemaVersion = 1

// ErrSchemaMismatch indicates a model file written by an incompatible version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ErrLocked indicates another process is writing the same model.
var ErrLocked = errors.New("model file is locked by another process")

const (
	metaOrder     = "order"
	metaRunID     = "run_id"
	metaCreatedAt = "created_at"
	metaSequences = "sequences"
	metaSources   = "sources"
)

// Metadata describes a persisted model.
type Metadata struct {
	Order     int       `json:"order" yaml:"order"`
	RunID     string    `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Sequences int       `json:"sequences" yaml:"sequences"`
	Sources   int       `json:"sources" yaml:"sources"`
}

// Save writes chain to path as a SQLite model file. The file is built under a
// temporary name and renamed into place while holding <path>.lock.
func Save(ctx context.Context, path string, chain *Chain, meta Metadata) error {
	if chain == nil {
		return services.Wrap(services.ErrModel, "markov", "save", "chain is nil", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return services.Wrap(services.ErrModel, "markov", "save", "ensure model directory", err)
	}

	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrModel, "markov", "save", "acquire lock", err)
	}
	if !ok {
		return services.Wrap(services.ErrModel, "markov", "save", path, ErrLocked)
	}
	defer func() { _ = lock.Unlock() }()

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return services.Wrap(services.ErrModel, "markov", "save", "create temp file", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := writeModel(ctx, tmpPath, chain, meta); err != nil {
		return services.Wrap(services.ErrModel, "markov", "save", path, err)
	}
	if err := fileutil.ReplaceFile(tmpPath, path); err != nil {
		return services.Wrap(services.ErrModel, "markov", "save", "install model file", err)
	}
	return nil
}

func writeModel(ctx context.Context, path string, chain *Chain, meta Metadata) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite db: %w", err)
	}
	defer db.Close()

	pragmas := []string{
		"PRAGMA journal_mode = DELETE",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			return fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	createdAt := meta.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	stats := chain.Stats()
	metaRows := map[string]string{
		metaOrder:     strconv.Itoa(chain.Order()),
		metaRunID:     meta.RunID,
		metaCreatedAt: createdAt.UTC().Format(time.RFC3339Nano),
		metaSequences: strconv.Itoa(stats.Sequences),
		metaSources:   strconv.Itoa(meta.Sources),
	}
	for key, value := range metaRows {
		if _, err := tx.ExecContext(ctx, "INSERT INTO meta (key, value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("insert meta %s: %w", key, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO transitions (context, token, count) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare transitions insert: %w", err)
	}
	defer stmt.Close()
	for _, tr := range chain.Transitions() {
		encoded, err := json.Marshal(tr.Context)
		if err != nil {
			return fmt.Errorf("encode context: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, string(encoded), tr.Token, tr.Count); err != nil {
			return fmt.Errorf("insert transition: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit model: %w", err)
	}
	return nil
}

// Load reads a model file written by Save. The returned chain is frozen.
func Load(ctx context.Context, path string) (*Chain, Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, Metadata{}, services.Wrap(services.ErrModel, "markov", "load", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, Metadata{}, services.Wrap(services.ErrModel, "markov", "load", path+" is not a regular file", nil)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, Metadata{}, services.Wrap(services.ErrModel, "markov", "load", "open sqlite db", err)
	}
	defer db.Close()

	chain, meta, err := readModel(ctx, db)
	if err != nil {
		return nil, Metadata{}, services.Wrap(services.ErrModel, "markov", "load", path, err)
	}
	return chain, meta, nil
}

func readModel(ctx context.Context, db *sql.DB) (*Chain, Metadata, error) {
	if _, err := db.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		return nil, Metadata{}, fmt.Errorf("apply pragma: %w", err)
	}

	var tableExists int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return nil, Metadata{}, errors.New("not a subkatsu model file")
	}

	var version int
	if err := db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return nil, Metadata{}, fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return nil, Metadata{}, fmt.Errorf("%w: model has version %d, expected %d (retrain or re-import the model)",
			ErrSchemaMismatch, version, schemaVersion)
	}

	meta, err := readMetadata(ctx, db)
	if err != nil {
		return nil, Metadata{}, err
	}

	rows, err := db.QueryContext(ctx, "SELECT context, token, count FROM transitions ORDER BY context, token")
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("query transitions: %w", err)
	}
	defer rows.Close()

	var transitions []Transition
	for rows.Next() {
		var (
			encoded string
			tr      Transition
		)
		if err := rows.Scan(&encoded, &tr.Token, &tr.Count); err != nil {
			return nil, Metadata{}, fmt.Errorf("scan transition: %w", err)
		}
		if err := json.Unmarshal([]byte(encoded), &tr.Context); err != nil {
			return nil, Metadata{}, fmt.Errorf("decode context %q: %w", encoded, err)
		}
		transitions = append(transitions, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, Metadata{}, fmt.Errorf("iterate transitions: %w", err)
	}

	chain, err := restore(meta.Order, meta.Sequences, transitions)
	if err != nil {
		return nil, Metadata{}, err
	}
	return chain, meta, nil
}

func readMetadata(ctx context.Context, db *sql.DB) (Metadata, error) {
	rows, err := db.QueryContext(ctx, "SELECT key, value FROM meta")
	if err != nil {
		return Metadata{}, fmt.Errorf("query meta: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Metadata{}, fmt.Errorf("scan meta: %w", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return Metadata{}, fmt.Errorf("iterate meta: %w", err)
	}

	var meta Metadata
	order, err := strconv.Atoi(values[metaOrder])
	if err != nil {
		return Metadata{}, fmt.Errorf("parse order %q: %w", values[metaOrder], err)
	}
	meta.Order = order
	meta.RunID = values[metaRunID]
	if raw := values[metaCreatedAt]; raw != "" {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			meta.CreatedAt = ts
		}
	}
	meta.Sequences, _ = strconv.Atoi(values[metaSequences])
	meta.Sources, _ = strconv.Atoi(values[metaSources])
	return meta, nil
}
