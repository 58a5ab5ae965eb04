package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/mohitkumar/screenflow/logger"
	"github.com/mohitkumar/screenflow/model"
	"github.com/mohitkumar/screenflow/persistence"
	"github.com/mohitkumar/screenflow/util"
	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Dialect string

const (
	DIALECT_POSTGRES Dialect = "postgres"
	DIALECT_SQLITE   Dialect = "sqlite"
)

var _ persistence.Storage = new(sqlStorage)

type sqlStorage struct {
	db       *sql.DB
	dialect  Dialect
	variants util.EncoderDecoder[[]model.Variant]
	metrics  util.EncoderDecoder[[]string]
}

// Open connects with the driver registered for dialect and creates the
// schema if it does not exist yet.
func Open(ctx context.Context, dialect Dialect, dsn string) (*sqlStorage, error) {
	switch dialect {
	case DIALECT_POSTGRES, DIALECT_SQLITE:
	default:
		return nil, fmt.Errorf("unsupported sql dialect %s", dialect)
	}
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	if dialect == DIALECT_SQLITE {
		// one writer; also keeps ":memory:" on a single database
		db.SetMaxOpenConns(1)
	}
	s := New(db, dialect)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func New(db *sql.DB, dialect Dialect) *sqlStorage {
	return &sqlStorage{
		db:       db,
		dialect:  dialect,
		variants: util.NewJsonEncoderDecoder[[]model.Variant](),
		metrics:  util.NewJsonEncoderDecoder[[]string](),
	}
}

func (s *sqlStorage) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return persistence.StorageLayerError{Message: fmt.Sprintf("migrate: %s", err.Error())}
		}
	}
	return nil
}

func (s *sqlStorage) Close() error {
	return s.db.Close()
}

// bind rewrites ? placeholders to $n for postgres.
func (s *sqlStorage) bind(query string) string {
	if s.dialect != DIALECT_POSTGRES {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "UNIQUE constraint failed")
}

func storageError(op string, err error) error {
	logger.Error("sql storage error", zap.String("op", op), zap.Error(err))
	return persistence.StorageLayerError{Message: fmt.Sprintf("%s: %s", op, err.Error())}
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *sqlStorage) SaveExperiment(ctx context.Context, exp model.Experiment) error {
	variants, err := s.variants.Encode(exp.Variants)
	if err != nil {
		return err
	}
	secondary := exp.SecondaryMetrics
	if secondary == nil {
		secondary = []string{}
	}
	metrics, err := s.metrics.Encode(secondary)
	if err != nil {
		return err
	}
	query := s.bind(`INSERT INTO experiments
		(id, organization_id, name, status, variants, primary_metric, secondary_metrics, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (organization_id, id) DO UPDATE SET
			name = excluded.name,
			status = excluded.status,
			variants = excluded.variants,
			primary_metric = excluded.primary_metric,
			secondary_metrics = excluded.secondary_metrics,
			updated_at = excluded.updated_at`)
	_, err = s.db.ExecContext(ctx, query,
		exp.Id, exp.OrganizationId, exp.Name, string(exp.Status), string(variants),
		exp.PrimaryMetric, string(metrics), exp.CreatedAt, exp.UpdatedAt)
	if err != nil {
		return storageError("save experiment", err)
	}
	return nil
}

const experimentColumns = `id, organization_id, name, status, variants, primary_metric, secondary_metrics, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func (s *sqlStorage) scanExperiment(row scanner) (*model.Experiment, error) {
	var exp model.Experiment
	var status, variants, metrics string
	if err := row.Scan(&exp.Id, &exp.OrganizationId, &exp.Name, &status, &variants,
		&exp.PrimaryMetric, &metrics, &exp.CreatedAt, &exp.UpdatedAt); err != nil {
		return nil, err
	}
	exp.Status = model.ExperimentStatus(status)
	vs, err := s.variants.Decode([]byte(variants))
	if err != nil {
		return nil, fmt.Errorf("decode variants of %s: %w", exp.Id, err)
	}
	exp.Variants = *vs
	ms, err := s.metrics.Decode([]byte(metrics))
	if err != nil {
		return nil, fmt.Errorf("decode metrics of %s: %w", exp.Id, err)
	}
	if len(*ms) > 0 {
		exp.SecondaryMetrics = *ms
	}
	return &exp, nil
}

func (s *sqlStorage) GetExperiment(ctx context.Context, orgId string, id string) (*model.Experiment, error) {
	query := s.bind(`SELECT ` + experimentColumns + ` FROM experiments WHERE id = ? AND organization_id = ?`)
	exp, err := s.scanExperiment(s.db.QueryRowContext(ctx, query, id, orgId))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.ErrNotFound
	}
	if err != nil {
		return nil, storageError("get experiment", err)
	}
	return exp, nil
}

func (s *sqlStorage) DeleteExperiment(ctx context.Context, orgId string, id string) error {
	res, err := s.db.ExecContext(ctx, s.bind(`DELETE FROM experiments WHERE id = ? AND organization_id = ?`), id, orgId)
	if err != nil {
		return storageError("delete experiment", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func (s *sqlStorage) ListExperiments(ctx context.Context, orgId string) ([]*model.Experiment, error) {
	query := s.bind(`SELECT ` + experimentColumns + ` FROM experiments WHERE organization_id = ? ORDER BY id`)
	rows, err := s.db.QueryContext(ctx, query, orgId)
	if err != nil {
		return nil, storageError("list experiments", err)
	}
	defer rows.Close()
	res := make([]*model.Experiment, 0)
	for rows.Next() {
		exp, err := s.scanExperiment(rows)
		if err != nil {
			return nil, storageError("list experiments", err)
		}
		res = append(res, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list experiments", err)
	}
	return res, nil
}

func (s *sqlStorage) GetAssignment(ctx context.Context, orgId string, experimentId string, userId string) (*model.Assignment, error) {
	query := s.bind(`SELECT id, organization_id, experiment_id, user_id, variant_id, environment, created_at
		FROM variant_assignments WHERE organization_id = ? AND experiment_id = ? AND user_id = ?`)
	var a model.Assignment
	var env string
	err := s.db.QueryRowContext(ctx, query, orgId, experimentId, userId).
		Scan(&a.Id, &a.OrganizationId, &a.ExperimentId, &a.UserId, &a.VariantId, &env, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.ErrNotFound
	}
	if err != nil {
		return nil, storageError("get assignment", err)
	}
	a.Environment = model.Environment(env)
	return &a, nil
}

func (s *sqlStorage) CreateAssignment(ctx context.Context, a model.Assignment) error {
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	query := s.bind(`INSERT INTO variant_assignments
		(id, organization_id, experiment_id, user_id, variant_id, environment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query, a.Id, a.OrganizationId, a.ExperimentId, a.UserId, a.VariantId, string(a.Environment), createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return persistence.ErrAssignmentExists
		}
		return storageError("create assignment", err)
	}
	return nil
}

func (s *sqlStorage) SaveOrganization(ctx context.Context, org model.Organization) error {
	query := s.bind(`INSERT INTO organizations (id, name, test_api_key, live_api_key, api_key)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			test_api_key = excluded.test_api_key,
			live_api_key = excluded.live_api_key,
			api_key = excluded.api_key`)
	_, err := s.db.ExecContext(ctx, query, org.Id, org.Name,
		nullable(org.TestAPIKey), nullable(org.LiveAPIKey), nullable(org.APIKey))
	if err != nil {
		return storageError("save organization", err)
	}
	return nil
}

var keyColumns = map[model.APIKeyKind]string{
	model.API_KEY_TEST:   "test_api_key",
	model.API_KEY_LIVE:   "live_api_key",
	model.API_KEY_LEGACY: "api_key",
}

func (s *sqlStorage) FindOrganizationByKey(ctx context.Context, kind model.APIKeyKind, key string) (*model.Organization, error) {
	column, ok := keyColumns[kind]
	if !ok || key == "" {
		return nil, persistence.ErrNotFound
	}
	query := s.bind(`SELECT id, name, test_api_key, live_api_key, api_key FROM organizations WHERE ` + column + ` = ?`)
	var org model.Organization
	var test, live, legacy sql.NullString
	err := s.db.QueryRowContext(ctx, query, key).Scan(&org.Id, &org.Name, &test, &live, &legacy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.ErrNotFound
	}
	if err != nil {
		return nil, storageError("find organization", err)
	}
	org.TestAPIKey, org.LiveAPIKey, org.APIKey = test.String, live.String, legacy.String
	return &org, nil
}
