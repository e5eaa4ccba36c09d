package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/homecare-backend-go/internal/pkg/database"
)

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.Repository {
	return &shiftRepositoryImpl{db: db}
}

// CancelPlannedShifts implements shift.Repository.
func (r *shiftRepositoryImpl) CancelPlannedShifts(ctx context.Context, employeeID string, start, end time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts
		SET status = 'cancelled', updated_at = NOW()
		WHERE employee_id = $1
		  AND status = 'planned'
		  AND shift_date BETWEEN $2 AND $3`

	tag, err := q.Exec(ctx, query, employeeID, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel planned shifts: %w", err)
	}

	return tag.RowsAffected(), nil
}
