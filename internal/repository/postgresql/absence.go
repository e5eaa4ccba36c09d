package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/homecare-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type absenceRepositoryImpl struct {
	db *database.DB
}

func NewAbsenceRepository(db *database.DB) absence.Repository {
	return &absenceRepositoryImpl{db: db}
}

const absenceColumns = `
	id, employee_id, contract_id, absence_type, start_date, end_date, reason,
	justification_url, justification_due_date, justification_reminder_sent_at,
	family_event_type, leave_year, status, business_days_count,
	decided_by, decided_at, created_at, updated_at`

func scanAbsence(row pgx.Row) (absence.Absence, error) {
	var (
		a               absence.Absence
		absenceType     string
		status          string
		familyEventType *string
	)
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.ContractID, &absenceType, &a.StartDate, &a.EndDate, &a.Reason,
		&a.JustificationURL, &a.JustificationDueDate, &a.JustificationReminderSentAt,
		&familyEventType, &a.LeaveYear, &status, &a.BusinessDaysCount,
		&a.DecidedBy, &a.DecidedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return absence.Absence{}, err
	}

	a.Type = absence.AbsenceType(absenceType)
	a.Status = absence.Status(status)
	if familyEventType != nil {
		fe := absence.FamilyEventType(*familyEventType)
		a.FamilyEventType = &fe
	}
	return a, nil
}

func collectAbsences(rows pgx.Rows) ([]absence.Absence, error) {
	defer rows.Close()

	absences := make([]absence.Absence, 0)
	for rows.Next() {
		a, err := scanAbsence(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan absence: %w", err)
		}
		absences = append(absences, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return absences, nil
}

// Create implements absence.Repository.
func (r *absenceRepositoryImpl) Create(ctx context.Context, a absence.Absence) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	if a.ID == "" {
		a.ID = uuid.New().String()
	}

	var familyEventType *string
	if a.FamilyEventType != nil {
		fe := string(*a.FamilyEventType)
		familyEventType = &fe
	}

	query := `
		INSERT INTO absences (
			id, employee_id, contract_id, absence_type, start_date, end_date, reason,
			justification_url, justification_due_date, family_event_type, leave_year,
			status, business_days_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + absenceColumns

	created, err := scanAbsence(q.QueryRow(ctx, query,
		a.ID, a.EmployeeID, a.ContractID, string(a.Type), a.StartDate, a.EndDate, a.Reason,
		a.JustificationURL, a.JustificationDueDate, familyEventType, a.LeaveYear,
		string(a.Status), a.BusinessDaysCount,
	))
	if err != nil {
		if pgErrorCode(err) == pgExclusionViolation {
			return absence.Absence{}, absence.ErrAbsenceOverlap
		}
		return absence.Absence{}, fmt.Errorf("failed to create absence: %w", err)
	}

	return created, nil
}

// GetByID implements absence.Repository.
func (r *absenceRepositoryImpl) GetByID(ctx context.Context, id string) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + absenceColumns + ` FROM absences WHERE id = $1`

	a, err := scanAbsence(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return absence.Absence{}, absence.ErrAbsenceNotFound
		}
		return absence.Absence{}, fmt.Errorf("failed to get absence: %w", err)
	}

	return a, nil
}

// ListBlockingByEmployee implements absence.Repository.
func (r *absenceRepositoryImpl) ListBlockingByEmployee(ctx context.Context, employeeID string) ([]absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + absenceColumns + `
		FROM absences
		WHERE employee_id = $1 AND status IN ('pending', 'approved')
		ORDER BY start_date`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list absences: %w", err)
	}

	return collectAbsences(rows)
}

// ListByEmployee implements absence.Repository with optional filters.
func (r *absenceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, filter absence.MyAbsenceFilter) ([]absence.Absence, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"employee_id = $1"}
	args := []interface{}{employeeID}
	paramCount := 1

	if filter.Status != nil && *filter.Status != "" {
		paramCount++
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", paramCount))
		args = append(args, *filter.Status)
	}

	if filter.AbsenceType != nil && *filter.AbsenceType != "" {
		paramCount++
		whereClauses = append(whereClauses, fmt.Sprintf("absence_type = $%d", paramCount))
		args = append(args, *filter.AbsenceType)
	}

	if filter.StartDate != nil && *filter.StartDate != "" {
		paramCount++
		whereClauses = append(whereClauses, fmt.Sprintf("end_date >= $%d::date", paramCount))
		args = append(args, *filter.StartDate)
	}

	if filter.EndDate != nil && *filter.EndDate != "" {
		paramCount++
		whereClauses = append(whereClauses, fmt.Sprintf("start_date <= $%d::date", paramCount))
		args = append(args, *filter.EndDate)
	}

	whereClause := strings.Join(whereClauses, " AND ")

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM absences WHERE %s`, whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count absences: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s
		FROM absences
		WHERE %s
		ORDER BY start_date DESC
		LIMIT $%d OFFSET $%d
	`, absenceColumns, whereClause, paramCount+1, paramCount+2)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list absences: %w", err)
	}

	absences, err := collectAbsences(rows)
	if err != nil {
		return nil, 0, err
	}

	return absences, total, nil
}

// Decide implements absence.Repository.
func (r *absenceRepositoryImpl) Decide(ctx context.Context, id string, status absence.Status, decidedBy string) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE absences
		SET status = $2, decided_by = $3, decided_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + absenceColumns

	a, err := scanAbsence(q.QueryRow(ctx, query, id, string(status), decidedBy))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return absence.Absence{}, getErr
			}
			return absence.Absence{}, absence.ErrAbsenceAlreadyDecided
		}
		return absence.Absence{}, fmt.Errorf("failed to update absence status: %w", err)
	}

	return a, nil
}

// Delete implements absence.Repository.
func (r *absenceRepositoryImpl) Delete(ctx context.Context, id string, expected absence.Status) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM absences
		WHERE id = $1 AND status = $2 AND status IN ('pending', 'approved')
		RETURNING ` + absenceColumns

	a, err := scanAbsence(q.QueryRow(ctx, query, id, string(expected)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return absence.Absence{}, getErr
			}
			return absence.Absence{}, absence.ErrInvalidStatusTransition
		}
		return absence.Absence{}, fmt.Errorf("failed to delete absence: %w", err)
	}

	return a, nil
}

// LockEmployee implements absence.Repository. The lock is released when the
// surrounding transaction commits or rolls back.
func (r *absenceRepositoryImpl) LockEmployee(ctx context.Context, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('absence:' || $1::text))`, employeeID); err != nil {
		return fmt.Errorf("failed to lock employee absences: %w", err)
	}

	return nil
}

// ListOverdueJustifications implements absence.Repository.
func (r *absenceRepositoryImpl) ListOverdueJustifications(ctx context.Context, asOf time.Time, limit int) ([]absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + absenceColumns + `
		FROM absences
		WHERE absence_type = 'sick'
		  AND status <> 'rejected'
		  AND justification_url IS NULL
		  AND justification_reminder_sent_at IS NULL
		  AND justification_due_date < $1
		ORDER BY justification_due_date
		LIMIT $2`

	rows, err := q.Query(ctx, query, asOf, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue justifications: %w", err)
	}

	return collectAbsences(rows)
}

// MarkJustificationReminderSent implements absence.Repository.
func (r *absenceRepositoryImpl) MarkJustificationReminderSent(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE absences
		SET justification_reminder_sent_at = $2, updated_at = NOW()
		WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("failed to mark justification reminder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return absence.ErrAbsenceNotFound
	}

	return nil
}
