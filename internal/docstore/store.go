// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docstore keeps a history of generated documents in SQLite so
// earlier generations can be listed, inspected, and exported.
package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/docgen/pkg/types"
)

// ErrNotFound is returned when no document has the requested ID.
var ErrNotFound = errors.New("document not found")

const (
	defaultLimit = 50

	// timeLayout is fixed-width so stored timestamps sort lexically.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Store manages the document history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema
// exists. The parent directory is created if missing.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			template_id TEXT NOT NULL,
			category TEXT NOT NULL,
			profile_id TEXT,
			compliant INTEGER NOT NULL,
			content TEXT NOT NULL,
			context TEXT,
			evidence TEXT,
			findings TEXT,
			generated_at TEXT NOT NULL,
			version TEXT,
			generator TEXT,
			context_hash TEXT,
			compliance_level TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_template ON documents(template_id)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_profile ON documents(profile_id)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_generated ON documents(generated_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Save records doc. Saving an ID twice replaces the earlier row.
func (s *Store) Save(ctx context.Context, doc *types.RenderedDocument) error {
	return save(ctx, s.db, doc)
}

// SaveAll records every document in one transaction.
func (s *Store) SaveAll(ctx context.Context, docs []*types.RenderedDocument) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	for _, doc := range docs {
		if err := save(ctx, tx, doc); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func save(ctx context.Context, ex execer, doc *types.RenderedDocument) error {
	ctxJSON, err := json.Marshal(doc.Context)
	if err != nil {
		return fmt.Errorf("marshaling context: %w", err)
	}
	evJSON, err := json.Marshal(doc.EvidenceIDs)
	if err != nil {
		return fmt.Errorf("marshaling evidence: %w", err)
	}
	findJSON, err := json.Marshal(doc.Findings)
	if err != nil {
		return fmt.Errorf("marshaling findings: %w", err)
	}

	_, err = ex.ExecContext(ctx,
		`INSERT OR REPLACE INTO documents
			(id, template_id, category, profile_id, compliant, content, context,
			 evidence, findings, generated_at, version, generator, context_hash, compliance_level)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.TemplateID, string(doc.Category), doc.ProfileID, boolInt(doc.Compliant()),
		doc.Content, string(ctxJSON), string(evJSON), string(findJSON),
		doc.Metadata.GeneratedAt.UTC().Format(timeLayout),
		doc.Metadata.Version, doc.Metadata.Generator, doc.Metadata.ContextHash, doc.Metadata.ComplianceLevel,
	)
	if err != nil {
		return fmt.Errorf("saving document %s: %w", doc.ID, err)
	}
	return nil
}

// QueryOptions filters List and the exports. Zero values match everything.
type QueryOptions struct {
	TemplateID string
	ProfileID  string

	// Compliant, when set, keeps only documents whose compliance matches.
	Compliant *bool

	// Contains matches a substring of the rendered content.
	Contains string

	// Since keeps documents generated at or after this time.
	Since time.Time

	// Limit caps the result count. Zero uses 50; negative means no limit.
	Limit int
}

const selectColumns = `SELECT id, template_id, category, profile_id, content, context, evidence,
	findings, generated_at, version, generator, context_hash, compliance_level
	FROM documents`

// Get returns the document with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*types.RenderedDocument, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", id, err)
	}
	return doc, nil
}

// List returns matching documents, newest first.
func (s *Store) List(ctx context.Context, opts QueryOptions) ([]*types.RenderedDocument, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(selectColumns + ` WHERE 1=1`)

	if opts.TemplateID != "" {
		qb.WriteString(` AND template_id = ?`)
		args = append(args, opts.TemplateID)
	}
	if opts.ProfileID != "" {
		qb.WriteString(` AND profile_id = ?`)
		args = append(args, opts.ProfileID)
	}
	if opts.Compliant != nil {
		qb.WriteString(` AND compliant = ?`)
		args = append(args, boolInt(*opts.Compliant))
	}
	if opts.Contains != "" {
		qb.WriteString(` AND instr(content, ?) > 0`)
		args = append(args, opts.Contains)
	}
	if !opts.Since.IsZero() {
		qb.WriteString(` AND generated_at >= ?`)
		args = append(args, opts.Since.UTC().Format(timeLayout))
	}

	qb.WriteString(` ORDER BY generated_at DESC, id`)

	limit := opts.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	if limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []*types.RenderedDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// Delete removes the document with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(sc scanner) (*types.RenderedDocument, error) {
	var (
		doc         types.RenderedDocument
		category    string
		profileID   sql.NullString
		ctxJSON     sql.NullString
		evJSON      sql.NullString
		findJSON    sql.NullString
		generatedAt string
		version     sql.NullString
		generator   sql.NullString
		hash        sql.NullString
		level       sql.NullString
	)
	if err := sc.Scan(&doc.ID, &doc.TemplateID, &category, &profileID, &doc.Content,
		&ctxJSON, &evJSON, &findJSON, &generatedAt, &version, &generator, &hash, &level); err != nil {
		return nil, err
	}

	doc.Category = types.Category(category)
	doc.ProfileID = profileID.String
	if err := unmarshalColumn(ctxJSON, &doc.Context); err != nil {
		return nil, fmt.Errorf("context: %w", err)
	}
	if err := unmarshalColumn(evJSON, &doc.EvidenceIDs); err != nil {
		return nil, fmt.Errorf("evidence: %w", err)
	}
	if err := unmarshalColumn(findJSON, &doc.Findings); err != nil {
		return nil, fmt.Errorf("findings: %w", err)
	}

	t, err := time.Parse(timeLayout, generatedAt)
	if err != nil {
		return nil, fmt.Errorf("generated_at: %w", err)
	}
	doc.Metadata = types.Metadata{
		GeneratedAt:     t,
		Version:         version.String,
		Generator:       generator.String,
		ContextHash:     hash.String,
		ComplianceLevel: level.String,
	}
	return &doc, nil
}

func unmarshalColumn(col sql.NullString, v any) error {
	if !col.Valid || col.String == "" || col.String == "null" {
		return nil
	}
	return json.Unmarshal([]byte(col.String), v)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
