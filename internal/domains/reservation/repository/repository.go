package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"strings"
	"teesheet/infras/otel"
	"teesheet/infras/postgres"
	"teesheet/internal/domains/reservation/model"
	"teesheet/shared/constant"
	gDto "teesheet/shared/dto"
	"teesheet/shared/failure"
	"teesheet/shared/logger"
	gRepo "teesheet/shared/repository"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Reservation is the reservation store. Plain reads run on the read
// connection and may lag recent commits; anything that must observe a
// write-consistent snapshot goes through InTransaction.
type Reservation interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	ListConfirmed(ctx context.Context, bayID string, date time.Time, excludeID string) ([]model.Reservation, error)
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the unit of work handed to InTransaction callbacks. LockSchedule
// serializes writers on one (bay, date) pair; everything else in the
// transaction then sees a stable schedule for that pair.
type Tx interface {
	LockSchedule(ctx context.Context, bayID string, date time.Time) error
	ListConfirmed(ctx context.Context, bayID string, date time.Time, excludeID string) ([]model.Reservation, error)
	Get(ctx context.Context, id string) (model.Reservation, error)
	Insert(ctx context.Context, reservation model.Reservation) error
	Update(ctx context.Context, fields map[string]any, id string) error
}

const listConfirmedQuery = `SELECT id, bay_id, reserve_date, start_min, end_min, status, created_at, modified_at, created_by, modified_by
FROM reservations
WHERE bay_id = $1 AND reserve_date = $2 AND status = $3 AND ($4 = '' OR id::text <> $4)
ORDER BY start_min ASC`

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) ListConfirmed(ctx context.Context, bayID string, date time.Time, excludeID string) ([]model.Reservation, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.ListConfirmed")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, listConfirmedQuery)

	return listConfirmed(ctx, repo.db.Read, bayID, date, excludeID)
}

// InTransaction runs fn inside one transaction on the write connection. The
// transaction is rolled back on any error, including context cancellation, so
// a cancelled write never leaves partial state. Exclusion-constraint
// violations surface as the same conflict failure an availability pre-check
// produces.
func (repo *repositoryImpl) InTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.InTransaction")
	defer scope.End()

	sqltx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to begin transaction (%s): %w", model.EntityName, err)
	}

	defer func() {
		_ = sqltx.Rollback()
	}()

	if err := fn(ctx, &txImpl{tx: sqltx}); err != nil {
		return translateConflict(err)
	}

	if err := sqltx.Commit(); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return translateConflict(fmt.Errorf("failed to commit transaction (%s): %w", model.EntityName, err))
	}

	return nil
}

type txImpl struct {
	tx *sqlx.Tx
}

// LockSchedule takes a transaction-scoped advisory lock keyed on the bay and
// date. Writers on the same pair queue behind each other; writers on other
// pairs are untouched.
func (t *txImpl) LockSchedule(ctx context.Context, bayID string, date time.Time) error {
	key := bayID + ":" + date.Format(constant.CalendarDateFormat)

	if _, err := t.tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", key); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to lock bay schedule: %w", err)
	}

	return nil
}

func (t *txImpl) ListConfirmed(ctx context.Context, bayID string, date time.Time, excludeID string) ([]model.Reservation, error) {
	return listConfirmed(ctx, t.tx, bayID, date, excludeID)
}

func (t *txImpl) Get(ctx context.Context, id string) (model.Reservation, error) {
	var reservation model.Reservation

	query := "SELECT id, bay_id, reserve_date, start_min, end_min, status, created_at, modified_at, created_by, modified_by FROM reservations WHERE id = $1"

	err := t.tx.GetContext(ctx, &reservation, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return reservation, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return reservation, fmt.Errorf("failed to get data (%s): %w", model.EntityName, err)
	}

	return reservation, nil
}

func (t *txImpl) Insert(ctx context.Context, reservation model.Reservation) error {
	query := `INSERT INTO reservations (id, bay_id, reserve_date, start_min, end_min, status, created_at, modified_at, created_by, modified_by)
VALUES (:id, :bay_id, :reserve_date, :start_min, :end_min, :status, :created_at, :modified_at, :created_by, :modified_by)`

	if _, err := t.tx.NamedExecContext(ctx, query, reservation); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to insert data (%s): %w", model.EntityName, err)
	}

	return nil
}

func (t *txImpl) Update(ctx context.Context, fields map[string]any, id string) error {
	setClauses := make([]string, 0, len(fields))
	for col := range maps.Keys(fields) {
		setClauses = append(setClauses, fmt.Sprintf("%s = :%s", col, col))
	}

	args := map[string]any{"filter_id": id}
	maps.Copy(args, fields)

	query := fmt.Sprintf("UPDATE reservations SET %s WHERE id = :filter_id", strings.Join(setClauses, ", "))

	if _, err := t.tx.NamedExecContext(ctx, query, args); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to update data (%s): %w", model.EntityName, err)
	}

	return nil
}

type selecter interface {
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

func listConfirmed(ctx context.Context, db selecter, bayID string, date time.Time, excludeID string) ([]model.Reservation, error) {
	var reservations []model.Reservation

	err := db.SelectContext(ctx, &reservations, listConfirmedQuery, bayID, date, model.StatusConfirmed, excludeID)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to list confirmed reservations: %w", err)
	}

	return reservations, nil
}

// translateConflict maps an exclusion-constraint violation onto the uniform
// conflict failure, so callers see one signal no matter which layer caught the
// overlap.
func translateConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeExclusionViolation {
		return failure.Conflict("bay is already reserved for the requested time") //nolint:wrapcheck
	}

	return err
}
