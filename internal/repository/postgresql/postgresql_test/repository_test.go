package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/contract"
	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/homecare-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func createContract(t *testing.T, ctx context.Context, setup *TestDatabaseSetup, employeeID, employerID string) contract.Contract {
	t.Helper()
	c, err := postgresql.NewContractRepository(setup.DB).Create(ctx, contract.Contract{
		EmployeeID:   employeeID,
		EmployerID:   employerID,
		EmployeeName: "Marie Dupont",
		StartDate:    day(2020, 1, 6),
		WeeklyHours:  decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	return c
}

func TestContractRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewContractRepository(setup.DB)

	employeeID, employerID := uuid.NewString(), uuid.NewString()
	c := createContract(t, ctx, setup, employeeID, employerID)
	assert.Equal(t, contract.StatusActive, c.Status)
	assert.True(t, decimal.NewFromInt(20).Equal(c.WeeklyHours))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, day(2020, 1, 6), got.StartDate.UTC())

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, contract.ErrContractNotFound)

	active, err := repo.ListActiveByEmployee(ctx, employeeID)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	other := createContract(t, ctx, setup, uuid.NewString(), employerID)
	all, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.ElementsMatch(t, []string{c.ID, other.ID}, []string{all[0].ID, all[1].ID})

	ok, err := repo.HasActiveContract(ctx, employeeID, employerID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.HasActiveContract(ctx, employeeID, uuid.NewString())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLeaveBalanceRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewLeaveBalanceRepository(setup.DB)

	c := createContract(t, ctx, setup, uuid.NewString(), uuid.NewString())
	balance := leave.LeaveBalance{
		ContractID:   c.ID,
		EmployeeID:   c.EmployeeID,
		EmployerID:   c.EmployerID,
		LeaveYear:    "2023-2024",
		AcquiredDays: decimal.NewFromInt(25),
	}

	created, err := repo.Create(ctx, balance)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = repo.Create(ctx, balance)
	assert.ErrorIs(t, err, leave.ErrLeaveBalanceExists)

	require.NoError(t, repo.IncrementTaken(ctx, c.ID, "2023-2024", decimal.NewFromInt(5)))
	got, err := repo.GetByContractAndYear(ctx, c.ID, "2023-2024")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5).Equal(got.TakenDays))
	assert.True(t, decimal.NewFromInt(20).Equal(got.Remaining()))

	previous, err := repo.DecrementTaken(ctx, c.ID, "2023-2024", decimal.NewFromInt(8))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5).Equal(previous))
	got, err = repo.GetByContractAndYear(ctx, c.ID, "2023-2024")
	require.NoError(t, err)
	assert.True(t, got.TakenDays.IsZero(), "taken days never go negative")

	adjusted, err := repo.AddAdjustment(ctx, c.ID, "2023-2024", decimal.RequireFromString("-1.5"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("23.5").Equal(adjusted.Remaining()))

	err = repo.IncrementTaken(ctx, c.ID, "2030-2031", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, leave.ErrLeaveBalanceNotFound)
	_, err = repo.GetByContractAndYear(ctx, c.ID, "2030-2031")
	assert.ErrorIs(t, err, leave.ErrLeaveBalanceNotFound)

	raised, err := repo.RaiseAcquired(ctx, c.ID, "2023-2024", decimal.NewFromInt(30))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(30).Equal(raised.AcquiredDays))
	kept, err := repo.RaiseAcquired(ctx, c.ID, "2023-2024", decimal.NewFromInt(12))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(30).Equal(kept.AcquiredDays), "acquired days are never lowered")
	_, err = repo.RaiseAcquired(ctx, c.ID, "2030-2031", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, leave.ErrLeaveBalanceNotFound)

	list, err := repo.ListByEmployee(ctx, c.EmployeeID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestLeaveBalanceRepository_DuplicateInsideTransaction(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewLeaveBalanceRepository(setup.DB)
	tx := postgresql.NewTxManager(setup.DB)

	c := createContract(t, ctx, setup, uuid.NewString(), uuid.NewString())
	balance := leave.LeaveBalance{
		ContractID:   c.ID,
		EmployeeID:   c.EmployeeID,
		EmployerID:   c.EmployerID,
		LeaveYear:    "2023-2024",
		AcquiredDays: decimal.NewFromInt(10),
	}
	_, err := repo.Create(ctx, balance)
	require.NoError(t, err)

	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := repo.Create(ctx, balance)
		if !errors.Is(err, leave.ErrLeaveBalanceExists) {
			return err
		}
		got, err := repo.GetByContractAndYear(ctx, c.ID, "2023-2024")
		if err != nil {
			return err
		}
		_, err = repo.RaiseAcquired(ctx, c.ID, "2023-2024", got.AcquiredDays.Add(decimal.NewFromInt(5)))
		return err
	})
	require.NoError(t, err)

	got, err := repo.GetByContractAndYear(ctx, c.ID, "2023-2024")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(15).Equal(got.AcquiredDays))
}

func TestAbsenceRepository_OverlapConstraint(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAbsenceRepository(setup.DB)
	employeeID := uuid.NewString()

	first, err := repo.Create(ctx, absence.Absence{
		EmployeeID:        employeeID,
		Type:              absence.TypeTraining,
		StartDate:         day(2024, 3, 18),
		EndDate:           day(2024, 3, 20),
		Status:            absence.StatusPending,
		BusinessDaysCount: 3,
	})
	require.NoError(t, err)

	overlapping := absence.Absence{
		EmployeeID: employeeID,
		Type:       absence.TypeUnavailable,
		StartDate:  day(2024, 3, 20),
		EndDate:    day(2024, 3, 22),
		Status:     absence.StatusPending,
	}
	_, err = repo.Create(ctx, overlapping)
	assert.ErrorIs(t, err, absence.ErrAbsenceOverlap)

	decided, err := repo.Decide(ctx, first.ID, absence.StatusRejected, uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, absence.StatusRejected, decided.Status)
	require.NotNil(t, decided.DecidedAt)

	_, err = repo.Decide(ctx, first.ID, absence.StatusApproved, uuid.NewString())
	assert.ErrorIs(t, err, absence.ErrAbsenceAlreadyDecided)

	// rejected absences no longer block the period
	second, err := repo.Create(ctx, overlapping)
	require.NoError(t, err)

	blocking, err := repo.ListBlockingByEmployee(ctx, employeeID)
	require.NoError(t, err)
	require.Len(t, blocking, 1)
	assert.Equal(t, second.ID, blocking[0].ID)

	// the rejected absence is never deleted
	_, err = repo.Delete(ctx, first.ID, absence.StatusRejected)
	assert.ErrorIs(t, err, absence.ErrInvalidStatusTransition)

	// a status that moved since it was read blocks the delete
	_, err = repo.Delete(ctx, second.ID, absence.StatusApproved)
	assert.ErrorIs(t, err, absence.ErrInvalidStatusTransition)

	deleted, err := repo.Delete(ctx, second.ID, absence.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, absence.StatusPending, deleted.Status)
	_, err = repo.Delete(ctx, second.ID, absence.StatusPending)
	assert.ErrorIs(t, err, absence.ErrAbsenceNotFound)
}

func TestAbsenceRepository_ListAndJustifications(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAbsenceRepository(setup.DB)
	employeeID := uuid.NewString()

	due := day(2024, 3, 20)
	sick, err := repo.Create(ctx, absence.Absence{
		EmployeeID:           employeeID,
		Type:                 absence.TypeSick,
		StartDate:            day(2024, 3, 18),
		EndDate:              day(2024, 3, 22),
		Status:               absence.StatusPending,
		JustificationDueDate: &due,
		BusinessDaysCount:    5,
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, absence.Absence{
		EmployeeID: employeeID,
		Type:       absence.TypeTraining,
		StartDate:  day(2024, 4, 8),
		EndDate:    day(2024, 4, 8),
		Status:     absence.StatusPending,
	})
	require.NoError(t, err)

	sickType := string(absence.TypeSick)
	list, total, err := repo.ListByEmployee(ctx, employeeID, absence.MyAbsenceFilter{AbsenceType: &sickType, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, sick.ID, list[0].ID)

	list, total, err = repo.ListByEmployee(ctx, employeeID, absence.MyAbsenceFilter{Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 1)

	overdue, err := repo.ListOverdueJustifications(ctx, day(2024, 3, 21), 10)
	require.NoError(t, err)
	require.Len(t, overdue, 1)

	require.NoError(t, repo.MarkJustificationReminderSent(ctx, sick.ID, time.Now()))
	overdue, err = repo.ListOverdueJustifications(ctx, day(2024, 3, 21), 10)
	require.NoError(t, err)
	assert.Empty(t, overdue)
}

func TestAbsenceRepository_LockEmployeeInTransaction(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAbsenceRepository(setup.DB)
	tx := postgresql.NewTxManager(setup.DB)

	sentinel := errors.New("rollback")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := repo.LockEmployee(ctx, uuid.NewString()); err != nil {
			return err
		}
		_, err := repo.Create(ctx, absence.Absence{
			EmployeeID: uuid.NewString(),
			Type:       absence.TypeEmergency,
			StartDate:  day(2024, 5, 2),
			EndDate:    day(2024, 5, 2),
			Status:     absence.StatusPending,
		})
		if err != nil {
			return err
		}
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	var count int
	require.NoError(t, setup.DB.QueryRow(ctx, "SELECT COUNT(*) FROM absences").Scan(&count))
	assert.Zero(t, count, "rolled back transaction leaves no rows")
}

func TestShiftRepository_CancelPlannedShifts(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()

	c := createContract(t, ctx, setup, uuid.NewString(), uuid.NewString())
	for _, d := range []time.Time{day(2024, 3, 17), day(2024, 3, 18), day(2024, 3, 19)} {
		_, err := setup.DB.Exec(ctx, `
			INSERT INTO shifts (id, contract_id, employee_id, shift_date, start_time, end_time)
			VALUES ($1, $2, $3, $4, '08:00', '12:00')`,
			uuid.NewString(), c.ID, c.EmployeeID, d)
		require.NoError(t, err)
	}

	cancelled, err := postgresql.NewShiftRepository(setup.DB).CancelPlannedShifts(ctx, c.EmployeeID, day(2024, 3, 18), day(2024, 3, 22))
	require.NoError(t, err)
	assert.Equal(t, int64(2), cancelled)
}

func TestNotificationRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewNotificationRepository(setup.DB)
	recipient := uuid.NewString()

	batch := []*notification.Notification{
		{ID: uuid.NewString(), RecipientID: recipient, Type: notification.TypeAbsenceApproved, Title: "Absence approved", CreatedAt: time.Now()},
		{ID: uuid.NewString(), RecipientID: recipient, Type: notification.TypeAbsenceRejected, Title: "Absence rejected",
			Data: map[string]interface{}{"absence_id": "x"}, CreatedAt: time.Now()},
	}
	require.NoError(t, repo.CreateBatch(ctx, batch))

	unread, err := repo.GetUnreadCount(ctx, recipient)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	require.NoError(t, repo.MarkAsRead(ctx, []string{batch[0].ID}, recipient))
	list, total, err := repo.GetByUserID(ctx, recipient, 1, 10, true)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "x", list[0].Data["absence_id"])

	require.NoError(t, repo.MarkAllAsRead(ctx, recipient))
	unread, err = repo.GetUnreadCount(ctx, recipient)
	require.NoError(t, err)
	assert.Zero(t, unread)
}
