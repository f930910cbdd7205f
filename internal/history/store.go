// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists lookup metadata in SQLite so past rsIDs can be
// listed and completed. Fetched literature content is never stored.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/deepgene/internal/evidence"
	"github.com/pdiddy/deepgene/internal/genedata"
	"github.com/pdiddy/deepgene/pkg/types"
)

const defaultMaxResults = 20

// Entry is one recorded lookup.
type Entry struct {
	ID             int64     `json:"id" yaml:"id"`
	RSID           string    `json:"rsid" yaml:"rsid"`
	Annotation     string    `json:"annotation" yaml:"annotation"`
	PositionalGene string    `json:"positional_gene" yaml:"positional_gene"`
	GeneSymbol     string    `json:"gene_symbol,omitempty" yaml:"gene_symbol,omitempty"`
	Citations      int       `json:"citations" yaml:"citations"`
	Mentions       []string  `json:"mentions" yaml:"mentions"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
}

// Store manages the history SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the history database at cfg.Path, creating the
// parent directory and schema if they do not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
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
		`CREATE TABLE IF NOT EXISTS lookups (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			rsid TEXT NOT NULL,
			annotation TEXT NOT NULL,
			positional_gene TEXT,
			gene_symbol TEXT,
			citations INTEGER NOT NULL DEFAULT 0,
			mentions TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_lookups_rsid ON lookups(rsid)`,
		`CREATE INDEX IF NOT EXISTS idx_lookups_created_at ON lookups(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores the metadata of a completed lookup. Mentions are the distinct
// identifiers across all of the dossier's citations.
func (s *Store) Record(ctx context.Context, d types.Dossier) error {
	var mentions []string
	for _, c := range d.Literature {
		mentions = evidence.Union(mentions, c.Mentions)
	}
	mentionsJSON, err := json.Marshal(mentions)
	if err != nil {
		return fmt.Errorf("marshaling mentions: %w", err)
	}

	created := d.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO lookups (rsid, annotation, positional_gene, gene_symbol, citations, mentions, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.RSID, d.Annotation, d.PositionalGene, genedata.ExtractGeneSymbol(d.PositionalGene),
		len(d.Literature), string(mentionsJSON), created.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting lookup %s: %w", d.RSID, err)
	}
	return nil
}

// Recent returns up to limit lookups, newest first. A limit of 0 uses the
// configured maximum.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, rsid, annotation, positional_gene, gene_symbol, citations, mentions, created_at
		 FROM lookups ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e            Entry
			gene, symbol sql.NullString
			mentionsJSON sql.NullString
			createdStr   string
		)
		if err := rows.Scan(&e.ID, &e.RSID, &e.Annotation, &gene, &symbol, &e.Citations, &mentionsJSON, &createdStr); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.PositionalGene = gene.String
		e.GeneSymbol = symbol.String
		e.Mentions = []string{}
		if mentionsJSON.Valid && mentionsJSON.String != "" {
			_ = json.Unmarshal([]byte(mentionsJSON.String), &e.Mentions)
			if e.Mentions == nil {
				e.Mentions = []string{}
			}
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Complete returns the distinct recorded rsIDs that start with prefix, most
// recently looked up first. An empty prefix matches every rsID.
func (s *Store) Complete(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rsid FROM lookups
		 WHERE substr(rsid, 1, ?) = ?
		 GROUP BY rsid ORDER BY MAX(created_at) DESC, MAX(id) DESC LIMIT ?`,
		len(prefix), prefix, s.maxResults)
	if err != nil {
		return nil, fmt.Errorf("querying rsids: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var rsid string
		if err := rows.Scan(&rsid); err != nil {
			return nil, fmt.Errorf("scanning rsid: %w", err)
		}
		out = append(out, rsid)
	}
	return out, rows.Err()
}

// ExportYAML writes up to limit recent entries to w as a YAML sequence.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer, limit int) error {
	entries, err := s.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []Entry{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// String renders an entry as a single summary line.
func (e Entry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %-12s %-10s %s", e.CreatedAt.Local().Format("2006-01-02 15:04"), e.RSID, e.Annotation, e.PositionalGene)
	fmt.Fprintf(&b, "  (%d citations, %d mentions)", e.Citations, len(e.Mentions))
	return b.String()
}
