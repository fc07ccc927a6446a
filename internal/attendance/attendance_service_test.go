package attendance

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	attendanceerrors "go-staffhub/internal/attendance/errors"
	"go-staffhub/internal/shared/apperror"
	"go-staffhub/internal/shared/clock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepo struct {
	withTxFn                func(tx *sql.Tx) Repository
	createFn                func(ctx context.Context, a *Attendance) error
	findByEmployeeAndDateFn func(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)
	setCheckOutFn           func(ctx context.Context, employeeID string, date time.Time, checkOut string, at time.Time) (int64, error)
	findRangeFn             func(ctx context.Context, employeeID string, start, end time.Time) ([]Attendance, error)
	countByStatusFn         func(ctx context.Context, employeeID string, start, end time.Time, status string) (int64, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository                    { return f.withTxFn(tx) }
func (f *fakeRepo) Create(ctx context.Context, a *Attendance) error { return f.createFn(ctx, a) }
func (f *fakeRepo) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error) {
	return f.findByEmployeeAndDateFn(ctx, employeeID, date)
}
func (f *fakeRepo) SetCheckOut(ctx context.Context, employeeID string, date time.Time, checkOut string, at time.Time) (int64, error) {
	return f.setCheckOutFn(ctx, employeeID, date, checkOut, at)
}
func (f *fakeRepo) FindRange(ctx context.Context, employeeID string, start, end time.Time) ([]Attendance, error) {
	return f.findRangeFn(ctx, employeeID, start, end)
}
func (f *fakeRepo) CountByStatus(ctx context.Context, employeeID string, start, end time.Time, status string) (int64, error) {
	return f.countByStatusFn(ctx, employeeID, start, end, status)
}

// memoryRepo keeps a single employee-day in memory.
func memoryRepo(saved *Attendance) *fakeRepo {
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.createFn = func(ctx context.Context, a *Attendance) error {
		if saved.ID != uuid.Nil {
			return errors.New("UNIQUE constraint failed: attendance.employee_id, attendance.attendance_date")
		}
		*saved = *a
		return nil
	}
	repo.findByEmployeeAndDateFn = func(ctx context.Context, employeeID string, date time.Time) (*Attendance, error) {
		if saved.ID == uuid.Nil {
			return nil, gorm.ErrRecordNotFound
		}
		cp := *saved
		return &cp, nil
	}
	repo.setCheckOutFn = func(ctx context.Context, employeeID string, date time.Time, checkOut string, at time.Time) (int64, error) {
		if saved.ID == uuid.Nil || saved.CheckOut != nil {
			return 0, nil
		}
		saved.CheckOut = &checkOut
		saved.UpdatedAt = at
		return 1, nil
	}
	return repo
}

var morning = time.Date(2024, 3, 4, 9, 5, 0, 0, time.UTC)

func TestService_CheckInAndCheckOut(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	employeeID := uuid.New().String()
	ctx := context.Background()

	var saved Attendance
	now := morning
	svc := NewService(db, memoryRepo(&saved), clock.Func(func() time.Time { return now }))

	mock.ExpectBegin()
	mock.ExpectCommit()
	inResp, err := svc.CheckIn(ctx, employeeID, CheckInRequest{})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", inResp.AttendanceDate)
	assert.Equal(t, "09:05:00", inResp.CheckIn)
	assert.Equal(t, StatusPresent, inResp.Status)
	assert.Nil(t, inResp.CheckOut)

	now = morning.Add(8 * time.Hour)
	mock.ExpectBegin()
	mock.ExpectCommit()
	outResp, err := svc.CheckOut(ctx, employeeID)
	require.NoError(t, err)
	require.NotNil(t, outResp.CheckOut)
	assert.Equal(t, "17:05:00", *outResp.CheckOut)
	assert.Equal(t, inResp.ID, outResp.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CheckIn_KeepsStatusHint(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	var saved Attendance
	svc := NewService(db, memoryRepo(&saved), clock.Fixed(morning))

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.CheckIn(context.Background(), uuid.New().String(), CheckInRequest{Status: StatusHalfDay})
	require.NoError(t, err)
	assert.Equal(t, StatusHalfDay, resp.Status)
	assert.Equal(t, StatusHalfDay, saved.Status)
}

func TestService_CheckIn_InvalidStatus(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	var saved Attendance
	svc := NewService(db, memoryRepo(&saved), clock.Fixed(morning))

	_, err := svc.CheckIn(context.Background(), uuid.New().String(), CheckInRequest{Status: "Remote"})

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	assert.Equal(t, apperror.FieldError{Field: "status", Reason: "must be one of Present, Late, Absent, Half Day"}, appErr.Details)
	assert.Equal(t, uuid.Nil, saved.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CheckIn_Twice(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	employeeID := uuid.New().String()
	var saved Attendance
	now := morning
	svc := NewService(db, memoryRepo(&saved), clock.Func(func() time.Time { return now }))

	mock.ExpectBegin()
	mock.ExpectCommit()
	first, err := svc.CheckIn(context.Background(), employeeID, CheckInRequest{})
	require.NoError(t, err)

	now = morning.Add(2 * time.Hour)
	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.CheckIn(context.Background(), employeeID, CheckInRequest{Status: StatusLate})

	assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedIn)
	assert.Equal(t, first.ID, saved.ID.String())
	assert.Equal(t, "09:05:00", saved.CheckIn)
	assert.Equal(t, StatusPresent, saved.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CheckIn_LostRaceOnUniqueKey(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.findByEmployeeAndDateFn = func(ctx context.Context, employeeID string, date time.Time) (*Attendance, error) {
		return nil, gorm.ErrRecordNotFound
	}
	repo.createFn = func(ctx context.Context, a *Attendance) error {
		return errors.New(`ERROR: duplicate key value violates unique constraint "uq_attendance_employee_date" (SQLSTATE 23505)`)
	}

	svc := NewService(db, repo, clock.Fixed(morning))
	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.CheckIn(context.Background(), uuid.New().String(), CheckInRequest{})

	assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedIn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CheckOut_WithoutCheckIn(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	var saved Attendance
	svc := NewService(db, memoryRepo(&saved), clock.Fixed(morning))

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.CheckOut(context.Background(), uuid.New().String())

	assert.ErrorIs(t, err, attendanceerrors.ErrNoCheckInFound)
	assert.Equal(t, uuid.Nil, saved.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CheckOut_Twice(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	employeeID := uuid.New().String()
	var saved Attendance
	now := morning
	svc := NewService(db, memoryRepo(&saved), clock.Func(func() time.Time { return now }))

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := svc.CheckIn(context.Background(), employeeID, CheckInRequest{})
	require.NoError(t, err)

	now = morning.Add(8 * time.Hour)
	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err = svc.CheckOut(context.Background(), employeeID)
	require.NoError(t, err)

	now = morning.Add(9 * time.Hour)
	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.CheckOut(context.Background(), employeeID)

	assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedOut)
	require.NotNil(t, saved.CheckOut)
	assert.Equal(t, "17:05:00", *saved.CheckOut)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CheckOut_ConditionalUpdateMissed(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.findByEmployeeAndDateFn = func(ctx context.Context, employeeID string, date time.Time) (*Attendance, error) {
		return &Attendance{ID: uuid.New(), CheckIn: "09:00:00"}, nil
	}
	repo.setCheckOutFn = func(ctx context.Context, employeeID string, date time.Time, checkOut string, at time.Time) (int64, error) {
		return 0, nil
	}

	svc := NewService(db, repo, clock.Fixed(morning))
	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.CheckOut(context.Background(), uuid.New().String())

	assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedOut)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_RequiresEmployee(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, clock.Fixed(morning))

	_, err := svc.GetToday(context.Background(), "")
	assert.ErrorIs(t, err, attendanceerrors.ErrNotAuthenticated)
	_, err = svc.CheckIn(context.Background(), "not-a-uuid", CheckInRequest{})
	assert.ErrorIs(t, err, attendanceerrors.ErrNotAuthenticated)
	_, err = svc.CheckOut(context.Background(), "")
	assert.ErrorIs(t, err, attendanceerrors.ErrNotAuthenticated)
}

func TestService_GetToday(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	var saved Attendance
	repo := memoryRepo(&saved)
	svc := NewService(db, repo, clock.Fixed(time.Date(2024, 3, 4, 23, 30, 0, 0, time.FixedZone("WIB", 7*3600))))

	var asked time.Time
	repo.findByEmployeeAndDateFn = func(ctx context.Context, employeeID string, date time.Time) (*Attendance, error) {
		asked = date
		return nil, gorm.ErrRecordNotFound
	}

	resp, err := svc.GetToday(context.Background(), uuid.New().String())
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), asked)
}

func TestService_ListForRange_Validation(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, clock.Fixed(morning))
	employeeID := uuid.New().String()

	tests := []struct {
		name       string
		start, end string
		field      string
	}{
		{"missing start", "", "2024-03-31", "start"},
		{"bad start", "03/01/2024", "2024-03-31", "start"},
		{"bad end", "2024-03-01", "2024-13-01", "end"},
		{"end before start", "2024-03-10", "2024-03-01", "end"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ListForRange(context.Background(), employeeID, tt.start, tt.end)

			var appErr *apperror.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
			assert.Equal(t, tt.field, appErr.Details.(apperror.FieldError).Field)
		})
	}
}

func TestService_CountPresentInMonth(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.countByStatusFn = func(ctx context.Context, employeeID string, start, end time.Time, status string) (int64, error) {
		assert.Equal(t, StatusPresent, status)
		assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), end)
		return 12, nil
	}
	svc := NewService(db, repo, clock.Fixed(morning))

	resp, err := svc.CountPresentInMonth(context.Background(), uuid.New().String(), "2024-02")
	require.NoError(t, err)
	assert.Equal(t, int64(12), resp.Present)
	assert.Equal(t, 29, resp.TotalDaysInMonth)

	_, err = svc.CountPresentInMonth(context.Background(), uuid.New().String(), "Feb 2024")
	assert.Error(t, err)
}
