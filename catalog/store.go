// Package catalog stores scanned documents in a SQL database so runs can be
// listed and compared later.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/shibukawa/structscan/scanner"
)

// timeLayout has a fixed width so stored timestamps sort lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Run describes one stored document
type Run struct {
	ID           uuid.UUID
	Source       string
	CreatedAt    time.Time
	Declarations int
}

// Store reads and writes runs
type Store struct {
	db     *sql.DB
	driver string
	owned  bool
	now    func() time.Time
}

// Open connects to the database. driver is one of sqlite3, pgx or mysql
// (postgres and postgresql are accepted for pgx).
func Open(driver, dsn string) (*Store, error) {
	name, err := normalizeDriver(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", name, err)
	}

	return &Store{db: db, driver: name, owned: true, now: time.Now}, nil
}

// New wraps an existing connection. The caller keeps ownership of db.
func New(db *sql.DB, driver string) (*Store, error) {
	name, err := normalizeDriver(driver)
	if err != nil {
		return nil, err
	}

	return &Store{db: db, driver: name, now: time.Now}, nil
}

// Close closes the connection if the store opened it
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}

	return s.db.Close()
}

// Save stores doc as a new run and returns it
func (s *Store) Save(ctx context.Context, source string, doc scanner.Document) (Run, error) {
	run := Run{
		ID:           uuid.New(),
		Source:       source,
		CreatedAt:    s.now().UTC(),
		Declarations: len(doc),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	id := run.ID.String()

	_, err = tx.ExecContext(ctx,
		s.rebind(`INSERT INTO structscan_runs (id, source, created_at, declaration_count) VALUES (?, ?, ?, ?)`),
		id, run.Source, run.CreatedAt.Format(timeLayout), run.Declarations)
	if err != nil {
		return Run{}, fmt.Errorf("failed to insert run: %w", err)
	}

	for i, decl := range doc {
		_, err = tx.ExecContext(ctx,
			s.rebind(`INSERT INTO structscan_declarations (run_id, seq, name, attribute) VALUES (?, ?, ?, ?)`),
			id, i, decl.Declaration.Name, decl.Attribute.Name)
		if err != nil {
			return Run{}, fmt.Errorf("failed to insert declaration %s: %w", decl.Declaration.Name, err)
		}

		for j, param := range decl.Attribute.Params {
			_, err = tx.ExecContext(ctx,
				s.rebind(`INSERT INTO structscan_params (run_id, declaration_seq, seq, name, param_value) VALUES (?, ?, ?, ?, ?)`),
				id, i, j, param.Name, param.Value)
			if err != nil {
				return Run{}, fmt.Errorf("failed to insert parameter %s of %s: %w", param.Name, decl.Declaration.Name, err)
			}
		}

		for j, field := range decl.Declaration.Fields {
			_, err = tx.ExecContext(ctx,
				s.rebind(`INSERT INTO structscan_fields (run_id, declaration_seq, seq, name, field_type, doc_comment) VALUES (?, ?, ?, ?, ?, ?)`),
				id, i, j, field.Name, field.Type, field.DocComment)
			if err != nil {
				return Run{}, fmt.Errorf("failed to insert field %s of %s: %w", field.Name, decl.Declaration.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("failed to commit run: %w", err)
	}

	return run, nil
}

// Runs lists stored runs, newest first
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, created_at, declaration_count FROM structscan_runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}

	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}

	return runs, nil
}

// Latest returns the newest run stored for source
func (s *Store) Latest(ctx context.Context, source string) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT id, source, created_at, declaration_count FROM structscan_runs WHERE source = ? ORDER BY created_at DESC, id LIMIT 1`),
		source)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: no run for '%s'", ErrRunNotFound, source)
	}

	return run, err
}

// Load reads back the document stored by run id
func (s *Store) Load(ctx context.Context, id uuid.UUID) (Run, scanner.Document, error) {
	row := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT id, source, created_at, declaration_count FROM structscan_runs WHERE id = ?`),
		id.String())

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	if err != nil {
		return Run{}, nil, err
	}

	doc, err := s.loadDeclarations(ctx, id.String())
	if err != nil {
		return Run{}, nil, err
	}

	if err := s.loadParams(ctx, id.String(), doc); err != nil {
		return Run{}, nil, err
	}

	if err := s.loadFields(ctx, id.String(), doc); err != nil {
		return Run{}, nil, err
	}

	return run, doc, nil
}

func (s *Store) loadDeclarations(ctx context.Context, id string) (scanner.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT name, attribute FROM structscan_declarations WHERE run_id = ? ORDER BY seq`), id)
	if err != nil {
		return nil, fmt.Errorf("failed to query declarations: %w", err)
	}
	defer rows.Close()

	doc := scanner.Document{}

	for rows.Next() {
		var name, attribute string
		if err := rows.Scan(&name, &attribute); err != nil {
			return nil, fmt.Errorf("failed to scan declaration: %w", err)
		}

		doc = append(doc, scanner.AnnotatedDeclaration{
			Attribute:   scanner.Attribute{Name: attribute, Params: []scanner.AttributeParam{}},
			Declaration: scanner.Declaration{Name: name, Fields: []scanner.Field{}},
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read declarations: %w", err)
	}

	return doc, nil
}

func (s *Store) loadParams(ctx context.Context, id string, doc scanner.Document) error {
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT declaration_seq, name, param_value FROM structscan_params WHERE run_id = ? ORDER BY declaration_seq, seq`), id)
	if err != nil {
		return fmt.Errorf("failed to query parameters: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			seq   int
			param scanner.AttributeParam
		)

		if err := rows.Scan(&seq, &param.Name, &param.Value); err != nil {
			return fmt.Errorf("failed to scan parameter: %w", err)
		}

		if seq < 0 || seq >= len(doc) {
			return fmt.Errorf("parameter %s refers to missing declaration %d", param.Name, seq)
		}

		doc[seq].Attribute.Params = append(doc[seq].Attribute.Params, param)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read parameters: %w", err)
	}

	return nil
}

func (s *Store) loadFields(ctx context.Context, id string, doc scanner.Document) error {
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT declaration_seq, name, field_type, doc_comment FROM structscan_fields WHERE run_id = ? ORDER BY declaration_seq, seq`), id)
	if err != nil {
		return fmt.Errorf("failed to query fields: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			seq   int
			field scanner.Field
		)

		if err := rows.Scan(&seq, &field.Name, &field.Type, &field.DocComment); err != nil {
			return fmt.Errorf("failed to scan field: %w", err)
		}

		if seq < 0 || seq >= len(doc) {
			return fmt.Errorf("field %s refers to missing declaration %d", field.Name, seq)
		}

		doc[seq].Declaration.Fields = append(doc[seq].Declaration.Fields, field)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read fields: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run       Run
		id        string
		createdAt string
	)

	if err := row.Scan(&id, &run.Source, &createdAt, &run.Declarations); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}

		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return Run{}, fmt.Errorf("invalid run id '%s': %w", id, err)
	}

	run.ID = parsed

	run.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("invalid run timestamp '%s': %w", createdAt, err)
	}

	return run, nil
}
