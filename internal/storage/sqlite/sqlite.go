package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/slok/venvx/internal/log"
	"github.com/slok/venvx/internal/model"
	"github.com/slok/venvx/internal/storage/sqlite/migrations"
)

// RepositoryConfig is the configuration for the SQLite repository.
type RepositoryConfig struct {
	DBPath string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SQLite"})
	return nil
}

// Repository is a SQLite implementation of storage.Repository.
type Repository struct {
	db     *sql.DB
	logger log.Logger
}

// NewRepository creates a new SQLite repository.
func NewRepository(ctx context.Context, cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	migrator, err := migrations.NewMigrator(db, cfg.Logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	if err := migrator.Up(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not run migrations: %w", err)
	}

	cfg.Logger.Debugf("SQLite repository initialized at %s", cfg.DBPath)

	return &Repository{db: db, logger: cfg.Logger}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error { return r.db.Close() }

// CreateEnvironment creates a new environment record in the repository.
func (r *Repository) CreateEnvironment(ctx context.Context, env model.Environment) error {
	query := `
		INSERT INTO environments (id, path, python_path, installer, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		env.ID,
		env.Path,
		env.PythonPath,
		string(env.Installer),
		env.CreatedAt.Unix(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: environments.") {
			return fmt.Errorf("environment already exists: %w", model.ErrAlreadyExists)
		}
		return fmt.Errorf("could not insert environment: %w", err)
	}

	r.logger.Debugf("Created environment in repository: %s", env.ID)
	return nil
}

// GetEnvironment retrieves an environment record by ID.
func (r *Repository) GetEnvironment(ctx context.Context, id string) (*model.Environment, error) {
	query := `
		SELECT id, path, python_path, installer, created_at
		FROM environments
		WHERE id = ?
	`

	env, err := r.scanOne(ctx, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("environment %s: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query environment: %w", err)
	}

	return env, nil
}

// GetEnvironmentByPath retrieves an environment record by its directory path.
func (r *Repository) GetEnvironmentByPath(ctx context.Context, path string) (*model.Environment, error) {
	query := `
		SELECT id, path, python_path, installer, created_at
		FROM environments
		WHERE path = ?
	`

	env, err := r.scanOne(ctx, query, path)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("environment at %s: %w", path, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query environment: %w", err)
	}

	return env, nil
}

// ListEnvironments retrieves all environment records ordered by creation time.
func (r *Repository) ListEnvironments(ctx context.Context) ([]model.Environment, error) {
	query := `
		SELECT id, path, python_path, installer, created_at
		FROM environments
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not query environments: %w", err)
	}
	defer rows.Close()

	var envs []model.Environment
	for rows.Next() {
		env, err := scanEnvironment(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan environment: %w", err)
		}
		envs = append(envs, *env)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not iterate environments: %w", err)
	}

	return envs, nil
}

// DeleteEnvironment deletes an environment record by ID.
func (r *Repository) DeleteEnvironment(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM environments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("could not delete environment: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not check deletion: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("environment %s: %w", id, model.ErrNotFound)
	}

	r.logger.Debugf("Deleted environment from repository: %s", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanOne(ctx context.Context, query string, arg any) (*model.Environment, error) {
	row := r.db.QueryRowContext(ctx, query, arg)
	return scanEnvironment(row)
}

func scanEnvironment(row rowScanner) (*model.Environment, error) {
	var env model.Environment
	var installer string
	var createdAt int64

	err := row.Scan(&env.ID, &env.Path, &env.PythonPath, &installer, &createdAt)
	if err != nil {
		return nil, err
	}

	env.Installer = model.Installer(installer)
	env.CreatedAt = time.Unix(createdAt, 0).UTC()

	return &env, nil
}
