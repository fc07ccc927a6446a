package leave_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-staffhub/internal/employee"
	"go-staffhub/internal/events"
	"go-staffhub/internal/leave"
	leaveerrors "go-staffhub/internal/leave/errors"
	leaveMock "go-staffhub/internal/leave/mock"
	"go-staffhub/internal/messaging/kafka"
	"go-staffhub/internal/rbac"
	"go-staffhub/internal/shared/apperror"
	"go-staffhub/internal/shared/clock"
	"go-staffhub/internal/shared/contextutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var now = time.Date(2024, 2, 20, 10, 0, 0, 0, time.UTC)

type fakeOutbox struct {
	created []kafka.OutboxEvent
	err     error
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return f.created, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, event kafka.OutboxEvent, reason string) error {
	return nil
}

func (f *fakeOutbox) last(t *testing.T) events.LeaveEvent {
	t.Helper()
	require.NotEmpty(t, f.created)
	var ev events.LeaveEvent
	require.NoError(t, json.Unmarshal(f.created[len(f.created)-1].Payload, &ev))
	return ev
}

type fakeDirectory map[string]employee.EmployeeResponse

func (d fakeDirectory) LookupMany(ctx context.Context, ids []string) (map[string]employee.EmployeeResponse, error) {
	out := map[string]employee.EmployeeResponse{}
	for _, id := range ids {
		if e, ok := d[id]; ok {
			out[id] = e
		}
	}
	return out, nil
}

type serviceDeps struct {
	sqlMock sqlmock.Sqlmock
	repo    *leaveMock.MockRepository
	outbox  *fakeOutbox
	service leave.Service
}

func setupServiceTest(t *testing.T, dir fakeDirectory) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gate, err := rbac.NewDefaultService(zap.NewNop())
	require.NoError(t, err)

	repo := leaveMock.NewMockRepository(ctrl)
	repo.EXPECT().WithTx(gomock.Any()).Return(repo).AnyTimes()
	outbox := &fakeOutbox{}

	return &serviceDeps{
		sqlMock: sqlMock,
		repo:    repo,
		outbox:  outbox,
		service: leave.NewService(db, repo, outbox, dir, gate, clock.Fixed(now), zap.NewNop()),
	}
}

func expectTx(mock sqlmock.Sqlmock, commit bool) {
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func actor(role string) contextutil.Actor {
	return contextutil.Actor{EmployeeID: uuid.NewString(), Role: role, FullName: "Test " + role}
}

func pendingRequest(owner string) *leave.LeaveRequest {
	return &leave.LeaveRequest{
		ID:         uuid.New(),
		EmployeeID: uuid.MustParse(owner),
		LeaveType:  leave.TypeSick,
		StartDate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
		DaysCount:  3,
		Reason:     "flu and fever",
		Status:     leave.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestSubmit_InclusiveDayCount(t *testing.T) {
	d := setupServiceTest(t, nil)
	requester := actor(rbac.RoleEmployee)

	var saved leave.LeaveRequest
	expectTx(d.sqlMock, true)
	d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, lr *leave.LeaveRequest) error {
		saved = *lr
		return nil
	})

	resp, err := d.service.Submit(context.Background(), requester, leave.SubmitLeaveRequest{
		LeaveType: leave.TypePaid,
		StartDate: "2024-03-01",
		EndDate:   "2024-03-03",
		Reason:    "  family wedding  ",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 3.0, resp.DaysCount)
	assert.Equal(t, leave.StatusPending, resp.Status)
	assert.Equal(t, "family wedding", saved.Reason)
	assert.Nil(t, saved.HalfDayPeriod)

	ev := d.outbox.last(t)
	assert.Equal(t, events.LeaveSubmitted, ev.EventType)
	assert.Equal(t, resp.ID, ev.LeaveRequestID)
	assert.Equal(t, requester.EmployeeID, ev.RequesterID)
	assert.Equal(t, d.outbox.created[0].ID, ev.EventID)
	assert.Equal(t, events.LeaveLifecycleTopic, d.outbox.created[0].Topic)
	assert.NoError(t, d.sqlMock.ExpectationsWereMet())
}

func TestSubmit_HalfDay(t *testing.T) {
	d := setupServiceTest(t, nil)

	expectTx(d.sqlMock, true)
	d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	resp, err := d.service.Submit(context.Background(), actor(rbac.RoleEmployee), leave.SubmitLeaveRequest{
		LeaveType:     leave.TypeCasual,
		StartDate:     "2024-03-05",
		EndDate:       "2024-03-09",
		HalfDay:       true,
		HalfDayPeriod: leave.PeriodAfternoon,
		Reason:        "doctor appointment",
	})
	require.NoError(t, err)

	assert.Equal(t, 0.5, resp.DaysCount)
	assert.Equal(t, "2024-03-05", resp.StartDate)
	assert.Equal(t, "2024-03-05", resp.EndDate)
	require.NotNil(t, resp.HalfDayPeriod)
	assert.Equal(t, leave.PeriodAfternoon, *resp.HalfDayPeriod)
}

func TestSubmit_Validation(t *testing.T) {
	valid := leave.SubmitLeaveRequest{
		LeaveType: leave.TypeSick,
		StartDate: "2024-03-01",
		EndDate:   "2024-03-02",
		Reason:    "seasonal flu",
	}

	tests := []struct {
		name   string
		mutate func(r *leave.SubmitLeaveRequest)
		field  string
	}{
		{"missing start", func(r *leave.SubmitLeaveRequest) { r.StartDate = "" }, "start_date"},
		{"bad start", func(r *leave.SubmitLeaveRequest) { r.StartDate = "2024/03/01" }, "start_date"},
		{"missing end", func(r *leave.SubmitLeaveRequest) { r.EndDate = "" }, "end_date"},
		{"end before start", func(r *leave.SubmitLeaveRequest) { r.EndDate = "2024-02-28" }, "end_date"},
		{"unknown type", func(r *leave.SubmitLeaveRequest) { r.LeaveType = "Vacation" }, "leave_type"},
		{"half day without period", func(r *leave.SubmitLeaveRequest) { r.HalfDay = true }, "half_day_period"},
		{"half day bad period", func(r *leave.SubmitLeaveRequest) { r.HalfDay = true; r.HalfDayPeriod = "evening" }, "half_day_period"},
		{"period without half day", func(r *leave.SubmitLeaveRequest) { r.HalfDayPeriod = leave.PeriodMorning }, "half_day_period"},
		{"short reason", func(r *leave.SubmitLeaveRequest) { r.Reason = "   sick    " }, "reason"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupServiceTest(t, nil)
			req := valid
			tt.mutate(&req)

			_, err := d.service.Submit(context.Background(), actor(rbac.RoleEmployee), req)

			var appErr *apperror.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
			assert.Equal(t, tt.field, appErr.Details.(apperror.FieldError).Field)
			assert.Empty(t, d.outbox.created)
		})
	}
}

func TestSubmit_RequiresActor(t *testing.T) {
	d := setupServiceTest(t, nil)
	_, err := d.service.Submit(context.Background(), contextutil.Actor{}, leave.SubmitLeaveRequest{})
	assert.ErrorIs(t, err, leaveerrors.ErrNotAuthenticated)
}

func TestSubmit_OutboxFailureRollsBack(t *testing.T) {
	d := setupServiceTest(t, nil)
	d.outbox.err = errors.New("outbox insert failed")

	expectTx(d.sqlMock, false)
	d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	_, err := d.service.Submit(context.Background(), actor(rbac.RoleEmployee), leave.SubmitLeaveRequest{
		LeaveType: leave.TypeWFH, StartDate: "2024-03-01", EndDate: "2024-03-01", Reason: "internet installer visit",
	})
	assert.Error(t, err)
	assert.NoError(t, d.sqlMock.ExpectationsWereMet())
}

func TestDecide_EmployeeIsRejectedBeforeAnyRead(t *testing.T) {
	d := setupServiceTest(t, nil)

	// no repository expectations: any read or write fails the test
	_, err := d.service.Decide(context.Background(), actor(rbac.RoleEmployee), uuid.NewString(),
		leave.DecisionRequest{Decision: leave.StatusApproved})

	assert.ErrorIs(t, err, leaveerrors.ErrDecideForbidden)
	assert.Empty(t, d.outbox.created)

	_, err = d.service.Decide(context.Background(), actor(rbac.RoleManager), uuid.NewString(),
		leave.DecisionRequest{Decision: leave.StatusApproved})
	assert.ErrorIs(t, err, leaveerrors.ErrDecideForbidden)
}

func TestDecide_Approve(t *testing.T) {
	requester := actor(rbac.RoleEmployee)
	hr := actor(rbac.RoleHR)
	d := setupServiceTest(t, fakeDirectory{
		requester.EmployeeID: {ID: requester.EmployeeID, FullName: "Budi", Email: "budi@example.com", Role: rbac.RoleEmployee},
		hr.EmployeeID:        {ID: hr.EmployeeID, FullName: "Sari", Role: rbac.RoleHR},
	})
	lr := pendingRequest(requester.EmployeeID)
	id := lr.ID.String()

	expectTx(d.sqlMock, true)
	d.repo.EXPECT().FindByID(gomock.Any(), id).Return(lr, nil)
	d.repo.EXPECT().Decide(gomock.Any(), id, leave.StatusApproved, hr.EmployeeID, gomock.Any(), now).Return(int64(1), nil)

	resp, err := d.service.Decide(context.Background(), hr, id, leave.DecisionRequest{Decision: leave.StatusApproved, Comment: " enjoy "})
	require.NoError(t, err)

	assert.Equal(t, leave.StatusApproved, resp.Status)
	require.NotNil(t, resp.DecisionBy)
	assert.Equal(t, hr.EmployeeID, *resp.DecisionBy)
	require.NotNil(t, resp.DecisionComment)
	assert.Equal(t, "enjoy", *resp.DecisionComment)
	require.NotNil(t, resp.Employee)
	assert.Equal(t, "Budi", resp.Employee.FullName)
	require.NotNil(t, resp.DecisionMaker)
	assert.Equal(t, "Sari", resp.DecisionMaker.FullName)

	ev := d.outbox.last(t)
	assert.Equal(t, events.LeaveDecided, ev.EventType)
	assert.Equal(t, leave.StatusApproved, ev.Status)
	assert.Equal(t, hr.EmployeeID, ev.DecisionBy)
	assert.Equal(t, "enjoy", ev.Comment)
}

func TestDecide_SecondDecisionIsInvalidTransition(t *testing.T) {
	requester := actor(rbac.RoleEmployee)
	d := setupServiceTest(t, nil)
	lr := pendingRequest(requester.EmployeeID)
	decider := uuid.New()
	lr.Status = leave.StatusApproved
	lr.DecisionBy = &decider

	expectTx(d.sqlMock, false)
	d.repo.EXPECT().FindByID(gomock.Any(), lr.ID.String()).Return(lr, nil)

	_, err := d.service.Decide(context.Background(), actor(rbac.RoleAdmin), lr.ID.String(),
		leave.DecisionRequest{Decision: leave.StatusRejected})

	assert.ErrorIs(t, err, leaveerrors.ErrInvalidTransition)
	assert.Equal(t, leave.StatusApproved, lr.Status)
	assert.Empty(t, d.outbox.created)
}

func TestDecide_LostRace(t *testing.T) {
	requester := actor(rbac.RoleEmployee)
	d := setupServiceTest(t, nil)
	lr := pendingRequest(requester.EmployeeID)

	expectTx(d.sqlMock, false)
	d.repo.EXPECT().FindByID(gomock.Any(), lr.ID.String()).Return(lr, nil)
	d.repo.EXPECT().Decide(gomock.Any(), lr.ID.String(), leave.StatusRejected, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(int64(0), nil)

	_, err := d.service.Decide(context.Background(), actor(rbac.RoleHR), lr.ID.String(),
		leave.DecisionRequest{Decision: leave.StatusRejected})

	assert.ErrorIs(t, err, leaveerrors.ErrInvalidTransition)
	assert.Empty(t, d.outbox.created)
}

func TestDecide_BadDecisionAndMissingRequest(t *testing.T) {
	d := setupServiceTest(t, nil)

	_, err := d.service.Decide(context.Background(), actor(rbac.RoleHR), uuid.NewString(),
		leave.DecisionRequest{Decision: leave.StatusCancelled})
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "decision", appErr.Details.(apperror.FieldError).Field)

	id := uuid.NewString()
	expectTx(d.sqlMock, false)
	d.repo.EXPECT().FindByID(gomock.Any(), id).Return(nil, gorm.ErrRecordNotFound)
	_, err = d.service.Decide(context.Background(), actor(rbac.RoleHR), id,
		leave.DecisionRequest{Decision: leave.StatusApproved})
	assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
}

func TestCancel(t *testing.T) {
	requester := actor(rbac.RoleEmployee)

	t.Run("requester cancels pending", func(t *testing.T) {
		d := setupServiceTest(t, nil)
		lr := pendingRequest(requester.EmployeeID)

		expectTx(d.sqlMock, true)
		d.repo.EXPECT().FindByID(gomock.Any(), lr.ID.String()).Return(lr, nil)
		d.repo.EXPECT().TransitionStatus(gomock.Any(), lr.ID.String(), leave.StatusPending, leave.StatusCancelled, now).
			Return(int64(1), nil)

		resp, err := d.service.Cancel(context.Background(), requester, lr.ID.String())
		require.NoError(t, err)
		assert.Equal(t, leave.StatusCancelled, resp.Status)
		assert.Equal(t, events.LeaveCancelled, d.outbox.last(t).EventType)
	})

	t.Run("someone else", func(t *testing.T) {
		d := setupServiceTest(t, nil)
		lr := pendingRequest(requester.EmployeeID)

		expectTx(d.sqlMock, false)
		d.repo.EXPECT().FindByID(gomock.Any(), lr.ID.String()).Return(lr, nil)

		_, err := d.service.Cancel(context.Background(), actor(rbac.RoleAdmin), lr.ID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrCancelForbidden)
	})

	t.Run("already decided", func(t *testing.T) {
		d := setupServiceTest(t, nil)
		lr := pendingRequest(requester.EmployeeID)
		lr.Status = leave.StatusRejected

		expectTx(d.sqlMock, false)
		d.repo.EXPECT().FindByID(gomock.Any(), lr.ID.String()).Return(lr, nil)

		_, err := d.service.Cancel(context.Background(), requester, lr.ID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidTransition)
	})
}

func TestList_NonPrivilegedIsPinnedToSelf(t *testing.T) {
	d := setupServiceTest(t, nil)
	me := actor(rbac.RoleEmployee)

	d.repo.EXPECT().List(gomock.Any(), leave.ListFilter{EmployeeID: me.EmployeeID, Status: leave.StatusPending}).
		Return([]leave.LeaveRequest{*pendingRequest(me.EmployeeID)}, nil)

	got, err := d.service.List(context.Background(), me, leave.ListFilter{EmployeeID: uuid.NewString(), Status: leave.StatusPending})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestList_HRSeesEveryoneEnriched(t *testing.T) {
	a, b := actor(rbac.RoleEmployee), actor(rbac.RoleEmployee)
	d := setupServiceTest(t, fakeDirectory{
		a.EmployeeID: {ID: a.EmployeeID, FullName: "Ayu", Email: "ayu@example.com", Role: rbac.RoleEmployee},
		b.EmployeeID: {ID: b.EmployeeID, FullName: "Bima", Email: "bima@example.com", Role: rbac.RoleEmployee},
	})

	d.repo.EXPECT().List(gomock.Any(), leave.ListFilter{}).
		Return([]leave.LeaveRequest{*pendingRequest(b.EmployeeID), *pendingRequest(a.EmployeeID)}, nil)

	got, err := d.service.List(context.Background(), actor(rbac.RoleHR), leave.ListFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Bima", got[0].Employee.FullName)
	assert.Equal(t, "ayu@example.com", got[1].Employee.Email)
	assert.Nil(t, got[0].DecisionMaker)
}

func TestList_UnknownStatus(t *testing.T) {
	d := setupServiceTest(t, nil)
	_, err := d.service.List(context.Background(), actor(rbac.RoleHR), leave.ListFilter{Status: "archived"})

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
}

func TestGet_Access(t *testing.T) {
	owner := actor(rbac.RoleEmployee)
	d := setupServiceTest(t, nil)
	lr := pendingRequest(owner.EmployeeID)
	d.repo.EXPECT().FindByID(gomock.Any(), lr.ID.String()).Return(lr, nil).Times(3)

	_, err := d.service.Get(context.Background(), owner, lr.ID.String())
	assert.NoError(t, err)

	_, err = d.service.Get(context.Background(), actor(rbac.RoleHR), lr.ID.String())
	assert.NoError(t, err)

	_, err = d.service.Get(context.Background(), actor(rbac.RoleManager), lr.ID.String())
	assert.ErrorIs(t, err, leaveerrors.ErrViewForbidden)

	_, err = d.service.Get(context.Background(), owner, "not-an-id")
	assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
}

func TestSendMessage(t *testing.T) {
	owner := actor(rbac.RoleEmployee)

	t.Run("participant posts", func(t *testing.T) {
		d := setupServiceTest(t, nil)
		lr := pendingRequest(owner.EmployeeID)

		expectTx(d.sqlMock, true)
		d.repo.EXPECT().FindByID(gomock.Any(), lr.ID.String()).Return(lr, nil)
		d.repo.EXPECT().AddMessage(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, m *leave.LeaveRequestMessage) error {
			m.ID = 7
			return nil
		})

		resp, err := d.service.SendMessage(context.Background(), owner, lr.ID.String(), "  can I get a doctor's note later?  ")
		require.NoError(t, err)
		assert.Equal(t, int64(7), resp.ID)
		assert.Equal(t, "can I get a doctor's note later?", resp.Message)

		ev := d.outbox.last(t)
		assert.Equal(t, events.LeaveMessagePosted, ev.EventType)
		assert.Equal(t, int64(7), ev.MessageID)
		assert.Equal(t, events.LeaveMessagesTopic, d.outbox.created[0].Topic)
	})

	t.Run("outsider", func(t *testing.T) {
		d := setupServiceTest(t, nil)
		lr := pendingRequest(owner.EmployeeID)

		expectTx(d.sqlMock, false)
		d.repo.EXPECT().FindByID(gomock.Any(), lr.ID.String()).Return(lr, nil)

		_, err := d.service.SendMessage(context.Background(), actor(rbac.RoleManager), lr.ID.String(), "hello")
		assert.ErrorIs(t, err, leaveerrors.ErrViewForbidden)
	})

	t.Run("blank text", func(t *testing.T) {
		d := setupServiceTest(t, nil)
		_, err := d.service.SendMessage(context.Background(), owner, uuid.NewString(), "   ")

		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "message", appErr.Details.(apperror.FieldError).Field)
	})
}

func TestListMessages_KeepsStoreOrder(t *testing.T) {
	owner := actor(rbac.RoleEmployee)
	hr := actor(rbac.RoleHR)
	d := setupServiceTest(t, fakeDirectory{
		hr.EmployeeID: {ID: hr.EmployeeID, FullName: "Sari"},
	})
	lr := pendingRequest(owner.EmployeeID)

	d.repo.EXPECT().FindByID(gomock.Any(), lr.ID.String()).Return(lr, nil)
	d.repo.EXPECT().ListMessages(gomock.Any(), lr.ID.String()).Return([]leave.LeaveRequestMessage{
		{ID: 1, LeaveRequestID: lr.ID, SenderID: uuid.MustParse(owner.EmployeeID), Message: "A", CreatedAt: now},
		{ID: 2, LeaveRequestID: lr.ID, SenderID: uuid.MustParse(hr.EmployeeID), Message: "B", CreatedAt: now},
	}, nil)

	got, err := d.service.ListMessages(context.Background(), hr, lr.ID.String())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Message)
	assert.Equal(t, "B", got[1].Message)
	assert.Nil(t, got[0].Sender)
	assert.Equal(t, "Sari", got[1].Sender.FullName)
}

func TestNeedsInfoAndReopen(t *testing.T) {
	owner := actor(rbac.RoleEmployee)
	d := setupServiceTest(t, nil)
	lr := pendingRequest(owner.EmployeeID)
	id := lr.ID.String()

	expectTx(d.sqlMock, true)
	d.repo.EXPECT().FindByID(gomock.Any(), id).Return(lr, nil)
	d.repo.EXPECT().TransitionStatus(gomock.Any(), id, leave.StatusPending, leave.StatusNeedsInfo, now).Return(int64(1), nil)

	resp, err := d.service.SetNeedsInfo(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusNeedsInfo, resp.Status)
	assert.Equal(t, leave.SystemActor, d.outbox.last(t).ActorID)

	// reopen needs the request to be waiting for information
	fresh := pendingRequest(owner.EmployeeID)
	expectTx(d.sqlMock, false)
	d.repo.EXPECT().FindByID(gomock.Any(), fresh.ID.String()).Return(fresh, nil)
	_, err = d.service.Reopen(context.Background(), fresh.ID.String())
	assert.ErrorIs(t, err, leaveerrors.ErrNotNeedsInfo)

	expectTx(d.sqlMock, true)
	d.repo.EXPECT().FindByID(gomock.Any(), id).Return(lr, nil)
	d.repo.EXPECT().TransitionStatus(gomock.Any(), id, leave.StatusNeedsInfo, leave.StatusPending, now).Return(int64(1), nil)
	resp, err = d.service.Reopen(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, resp.Status)
}
