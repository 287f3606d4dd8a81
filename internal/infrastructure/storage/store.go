package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"IdeaOasis/internal/domain"
	"IdeaOasis/internal/ports"
)

// SQLStore implements ports.IdeaStore on database/sql. Both postgres and
// sqlite are supported; the driver is inferred from the DSN.
type SQLStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.IdeaStore = (*SQLStore)(nil)

// Open connects using the driver implied by the DSN, applies migrations and
// returns a ready store.
func Open(dsn string) (*SQLStore, error) {
	driver := driverFor(dsn)

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := New(db, driver)
	if err := store.migrate(driver); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// New wraps an existing connection; driver selects the placeholder format.
func New(db *sql.DB, driver string) *SQLStore {
	placeholder := sq.PlaceholderFormat(sq.Question)
	if driver == "postgres" {
		placeholder = sq.Dollar
	}
	return &SQLStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

func driverFor(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return "postgres"
	}
	return "sqlite3"
}

func (s *SQLStore) migrate(driver string) error {
	schema := migrationsSQLite
	if driver == "postgres" {
		schema = migrationsPostgres
	}
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

var ideaColumns = []string{
	"id", "idea_title", "source_url", "summary", "language",
	"source_type", "published_at", "archived", "created_at", "updated_at",
}

// FindByTitleSince returns the idea with the exact title created at or after
// since, or nil when none exists.
func (s *SQLStore) FindByTitleSince(ctx context.Context, title string, since time.Time) (*domain.PublishedIdea, error) {
	query, args, err := s.builder.
		Select(ideaColumns...).
		From("ideas").
		Where(sq.Eq{"idea_title": title}).
		Where(sq.GtOrEq{"created_at": since}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build title query: %w", err)
	}

	idea, err := scanIdea(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query by title: %w", err)
	}
	return &idea, nil
}

// FindByTitleSubstringSince returns ideas created at or after since whose
// title contains token, case-insensitive.
func (s *SQLStore) FindByTitleSubstringSince(ctx context.Context, token string, since time.Time) ([]domain.PublishedIdea, error) {
	pattern := "%" + escapeLike(strings.ToLower(token)) + "%"
	query, args, err := s.builder.
		Select(ideaColumns...).
		From("ideas").
		Where(sq.Expr(`LOWER(idea_title) LIKE ? ESCAPE '\'`, pattern)).
		Where(sq.GtOrEq{"created_at": since}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build substring query: %w", err)
	}

	return s.queryIdeas(ctx, query, args...)
}

// Insert persists a new idea and returns it with its assigned identity and
// timestamps filled in.
func (s *SQLStore) Insert(ctx context.Context, idea domain.PublishedIdea) (domain.PublishedIdea, error) {
	now := time.Now().UTC()
	idea.CreatedAt = now
	idea.UpdatedAt = now

	query, args, err := s.builder.
		Insert("ideas").
		Columns("idea_title", "source_url", "summary", "language",
			"source_type", "published_at", "archived", "created_at", "updated_at").
		Values(idea.Title, idea.SourceURL, idea.Summary, idea.Language,
			string(idea.SourceType), idea.PublishedAt, idea.Archived, idea.CreatedAt, idea.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return domain.PublishedIdea{}, fmt.Errorf("build insert: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&idea.ID); err != nil {
		return domain.PublishedIdea{}, fmt.Errorf("insert idea: %w", err)
	}
	return idea, nil
}

// FindStale returns unarchived ideas created before cutoff.
func (s *SQLStore) FindStale(ctx context.Context, cutoff time.Time) ([]domain.PublishedIdea, error) {
	query, args, err := s.builder.
		Select(ideaColumns...).
		From("ideas").
		Where(sq.Eq{"archived": false}).
		Where(sq.Lt{"created_at": cutoff}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build stale query: %w", err)
	}

	return s.queryIdeas(ctx, query, args...)
}

// UpdateArchivedFlag flips archived on the given ideas in one batch.
func (s *SQLStore) UpdateArchivedFlag(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := s.builder.
		Update("ideas").
		Set("archived", true).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build archive update: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("archive ideas: %w", err)
	}
	return nil
}

// CountActiveSince counts unarchived ideas created at or after since.
func (s *SQLStore) CountActiveSince(ctx context.Context, since time.Time) (int, error) {
	query, args, err := s.builder.
		Select("COUNT(*)").
		From("ideas").
		Where(sq.Eq{"archived": false}).
		Where(sq.GtOrEq{"created_at": since}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active ideas: %w", err)
	}
	return count, nil
}

func (s *SQLStore) queryIdeas(ctx context.Context, query string, args ...any) ([]domain.PublishedIdea, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ideas: %w", err)
	}
	defer rows.Close()

	var ideas []domain.PublishedIdea
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, fmt.Errorf("scan idea: %w", err)
		}
		ideas = append(ideas, idea)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return ideas, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdea(row rowScanner) (domain.PublishedIdea, error) {
	var (
		idea       domain.PublishedIdea
		sourceType string
	)
	err := row.Scan(
		&idea.ID, &idea.Title, &idea.SourceURL, &idea.Summary, &idea.Language,
		&sourceType, &idea.PublishedAt, &idea.Archived, &idea.CreatedAt, &idea.UpdatedAt,
	)
	if err != nil {
		return domain.PublishedIdea{}, err
	}
	idea.SourceType = domain.SourceType(sourceType)
	return idea, nil
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
