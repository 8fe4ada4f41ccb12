// Package catalog reads résumé records from the document store.
//
// Records come from the embedding table written by the ingestion side of the
// system: one row per stored chunk, with the originating PDF file name kept
// under a key of the row's JSON metadata. SQLCatalog reads that table through
// gorm and works against both Postgres and SQLite.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ErrUnsupportedURL is returned by Open for URLs with an unknown scheme.
var ErrUnsupportedURL = errors.New("unsupported database URL")

// Record identifies one stored résumé.
type Record struct {
	ID string `json:"id"`

	// SourceFilename is the PDF file name from the row metadata. It is empty
	// when the metadata has no source entry.
	SourceFilename string `json:"source_filename"`
}

// Catalog lists the records to process.
type Catalog interface {
	Records(ctx context.Context) ([]Record, error)
}

// Options selects the table and columns a SQLCatalog reads.
type Options struct {
	Table          string
	IDColumn       string
	MetadataColumn string

	// SourceKey is the metadata key holding the PDF file name.
	SourceKey string

	// Log receives gorm's query log. Nil silences it.
	Log logger.Writer

	// SlowQuery is the threshold above which queries are logged as slow.
	SlowQuery time.Duration
}

// DefaultOptions returns the layout of the langchain pgvector store.
func DefaultOptions() Options {
	return Options{
		Table:          "langchain_pg_embedding",
		IDColumn:       "id",
		MetadataColumn: "cmetadata",
		SourceKey:      "source",
		SlowQuery:      time.Second,
	}
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

func (o Options) validate() error {
	for name, v := range map[string]string{
		"table":           o.Table,
		"id column":       o.IDColumn,
		"metadata column": o.MetadataColumn,
	} {
		if !identifier.MatchString(v) {
			return fmt.Errorf("invalid %s name %q", name, v)
		}
	}
	if o.SourceKey == "" {
		return errors.New("source key must not be empty")
	}
	return nil
}

// SQLCatalog reads records from a SQL table via gorm.
type SQLCatalog struct {
	db   *gorm.DB
	opts Options
}

// Dialector picks the gorm driver for a database URL.
//
// postgres:// and postgresql:// URLs use the pgx-based Postgres driver.
// sqlite:<path> opens <path> with SQLite; file: URIs are passed to SQLite as-is.
func Dialector(url string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgres.Open(url), nil
	case strings.HasPrefix(url, "sqlite:"):
		path := strings.TrimPrefix(url, "sqlite:")
		path = strings.TrimPrefix(path, "//")
		if path == "" {
			return nil, fmt.Errorf("%w: empty sqlite path", ErrUnsupportedURL)
		}
		return sqlite.Open(path), nil
	case strings.HasPrefix(url, "file:"):
		return sqlite.Open(url), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedURL, redact(url))
}

// Open connects to the database at url.
func Open(url string, opts Options) (*SQLCatalog, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	dialector, err := Dialector(url)
	if err != nil {
		return nil, err
	}

	gormLog := logger.Discard
	if opts.Log != nil {
		gormLog = logger.New(opts.Log, logger.Config{
			SlowThreshold:             opts.SlowQuery,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", redact(url), err)
	}
	return &SQLCatalog{db: db, opts: opts}, nil
}

// Records returns every row of the table, highest id first.
//
// Rows whose metadata is missing, not a JSON object, or lacks the source key
// are returned with an empty SourceFilename.
func (c *SQLCatalog) Records(ctx context.Context) ([]Record, error) {
	rows, err := c.db.WithContext(ctx).
		Table(c.opts.Table).
		Select([]string{c.opts.IDColumn, c.opts.MetadataColumn}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: c.opts.IDColumn}, Desc: true}).
		Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", c.opts.Table, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var id, meta sql.NullString
		if err := rows.Scan(&id, &meta); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		records = append(records, Record{
			ID:             id.String,
			SourceFilename: sourceOf(meta, c.opts.SourceKey),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return records, nil
}

// Close releases the underlying connection pool.
func (c *SQLCatalog) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func sourceOf(meta sql.NullString, key string) string {
	if !meta.Valid || meta.String == "" {
		return ""
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(meta.String), &fields); err != nil {
		return ""
	}
	s, _ := fields[key].(string)
	return s
}

// redact hides the password of a URL with credentials.
func redact(url string) string {
	scheme, rest, ok := strings.Cut(url, "://")
	if !ok {
		return url
	}
	creds, host, ok := strings.Cut(rest, "@")
	if !ok {
		return url
	}
	user, _, hasPass := strings.Cut(creds, ":")
	if !hasPass {
		return url
	}
	return scheme + "://" + user + ":***@" + host
}
