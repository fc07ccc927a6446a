package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-staffhub/internal/employee"
	employeeerrors "go-staffhub/internal/employee/errors"
	employeeMock "go-staffhub/internal/employee/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

const cacheTTL = 5 * time.Minute

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   employee.Service
	repo      *employeeMock.MockRepository
	redismock redismock.ClientMock
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rdb, redisMock := redismock.NewClientMock()
	repo := employeeMock.NewMockRepository(ctrl)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   employee.NewService(db, repo, rdb, cacheTTL),
		repo:      repo,
		redismock: redisMock,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func sampleEmployee(role string) *employee.Employee {
	return &employee.Employee{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		FullName: "Dewi Lestari",
		Email:    "dewi@example.com",
		Role:     role,
		IsActive: true,
	}
}

func cachedPayload(t *testing.T, e *employee.Employee) []byte {
	t.Helper()
	payload, err := json.Marshal(employee.EmployeeResponse{
		ID:       e.ID.String(),
		UserID:   e.UserID.String(),
		FullName: e.FullName,
		Email:    e.Email,
		Role:     e.Role,
		IsActive: e.IsActive,
	})
	require.NoError(t, err)
	return payload
}

func TestEmployeeService_Lookup(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips repository", func(t *testing.T) {
		deps := setupServiceTest(t)
		e := sampleEmployee("hr")
		deps.redismock.ExpectGet(employee.CacheKeyByID(e.ID.String())).SetVal(string(cachedPayload(t, e)))

		resp, err := deps.service.Lookup(ctx, e.ID.String())

		require.NoError(t, err)
		assert.Equal(t, "hr", resp.Role)
		assert.Equal(t, e.UserID.String(), resp.UserID)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		deps := setupServiceTest(t)
		e := sampleEmployee("employee")
		key := employee.CacheKeyByID(e.ID.String())

		deps.redismock.ExpectGet(key).RedisNil()
		deps.repo.EXPECT().FindByID(ctx, e.ID.String()).Return(e, nil)
		deps.redismock.ExpectSet(key, cachedPayload(t, e), cacheTTL).SetVal("OK")

		resp, err := deps.service.Lookup(ctx, e.ID.String())

		require.NoError(t, err)
		assert.Equal(t, e.FullName, resp.FullName)
		assert.True(t, resp.IsActive)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("cache failure falls back to repository", func(t *testing.T) {
		deps := setupServiceTest(t)
		e := sampleEmployee("manager")
		key := employee.CacheKeyByID(e.ID.String())

		deps.redismock.ExpectGet(key).SetErr(errors.New("redis down"))
		deps.repo.EXPECT().FindByID(ctx, e.ID.String()).Return(e, nil)
		deps.redismock.ExpectSet(key, cachedPayload(t, e), cacheTTL).SetErr(errors.New("redis down"))

		resp, err := deps.service.Lookup(ctx, e.ID.String())

		require.NoError(t, err)
		assert.Equal(t, "manager", resp.Role)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.NewString()

		deps.redismock.ExpectGet(employee.CacheKeyByID(id)).RedisNil()
		deps.repo.EXPECT().FindByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Lookup(ctx, id)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("malformed id is not found without touching storage", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.Lookup(ctx, "not-a-uuid")

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})
}

func TestEmployeeService_LookupByUserID(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)
	e := sampleEmployee("admin")
	key := employee.CacheKeyByUserID(e.UserID.String())

	deps.redismock.ExpectGet(key).RedisNil()
	deps.repo.EXPECT().FindByUserID(ctx, e.UserID.String()).Return(e, nil)
	deps.redismock.ExpectSet(key, cachedPayload(t, e), cacheTTL).SetVal("OK")

	resp, err := deps.service.LookupByUserID(ctx, e.UserID.String())

	require.NoError(t, err)
	assert.Equal(t, e.ID.String(), resp.ID)
	assert.NoError(t, deps.redismock.ExpectationsWereMet())
}

func TestEmployeeService_LookupMany(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)

	hit := sampleEmployee("hr")
	miss := sampleEmployee("employee")
	miss.Email = "budi@example.com"

	deps.redismock.ExpectMGet(employee.CacheKeyByID(hit.ID.String()), employee.CacheKeyByID(miss.ID.String())).
		SetVal([]any{string(cachedPayload(t, hit)), nil})
	deps.repo.EXPECT().FindByIDs(ctx, []string{miss.ID.String()}).Return([]employee.Employee{*miss}, nil)
	deps.redismock.ExpectSet(employee.CacheKeyByID(miss.ID.String()), cachedPayload(t, miss), cacheTTL).SetVal("OK")

	got, err := deps.service.LookupMany(ctx, []string{hit.ID.String(), miss.ID.String(), hit.ID.String(), "junk"})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "hr", got[hit.ID.String()].Role)
	assert.Equal(t, "budi@example.com", got[miss.ID.String()].Email)
	assert.NoError(t, deps.redismock.ExpectationsWereMet())
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := employee.CreateEmployeeRequest{
			UserID:   uuid.NewString(),
			FullName: "Admin",
			Email:    "admin@example.com",
			Role:     "admin",
		}

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, e *employee.Employee) error {
				assert.Equal(t, req.UserID, e.UserID.String())
				assert.Equal(t, "admin", e.Role)
				assert.True(t, e.IsActive)
				return nil
			})

		resp, err := deps.service.Create(ctx, req)

		require.NoError(t, err)
		assert.NotEmpty(t, resp.ID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown role", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			UserID: uuid.NewString(), FullName: "X", Email: "x@example.com", Role: "owner",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidRole)
	})

	t.Run("duplicate email", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_email"})

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			UserID: uuid.NewString(), FullName: "X", Email: "x@example.com", Role: "employee",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeAlreadyExists)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_SetActive(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)
	e := sampleEmployee("employee")

	deps.repo.EXPECT().FindByID(ctx, e.ID.String()).Return(e, nil)
	deps.repo.EXPECT().UpdateActive(ctx, e.ID.String(), false).Return(nil)
	deps.redismock.ExpectDel(employee.CacheKeyByID(e.ID.String()), employee.CacheKeyByUserID(e.UserID.String())).SetVal(2)

	resp, err := deps.service.SetActive(ctx, e.ID.String(), false)

	require.NoError(t, err)
	assert.False(t, resp.IsActive)
	assert.NoError(t, deps.redismock.ExpectationsWereMet())
}

func TestIdentityResolver(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	dir := employeeMock.NewMockService(ctrl)
	resolver := employee.NewIdentityResolver(dir)

	dir.EXPECT().LookupByUserID(ctx, "u-1").Return(employee.EmployeeResponse{
		ID: "e-1", UserID: "u-1", FullName: "Dewi", Email: "dewi@example.com", Role: "hr", IsActive: true,
	}, nil)
	dir.EXPECT().IsActive(ctx, "e-1").Return(true, nil)
	dir.EXPECT().LookupByUserID(ctx, "u-2").Return(employee.EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound)

	id, err := resolver.ResolveIdentity(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, id.Active)
	assert.Equal(t, "e-1", id.Actor.EmployeeID)
	assert.Equal(t, "hr", id.Actor.Role)

	_, err = resolver.ResolveIdentity(ctx, "u-2")
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
}

func TestIdentityResolver_ActiveFlagReadFromStore(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)
	e := sampleEmployee("employee")
	e.IsActive = false
	resolver := employee.NewIdentityResolver(deps.service)

	// the cached profile still says active
	stale := employee.EmployeeResponse{
		ID: e.ID.String(), UserID: e.UserID.String(), FullName: e.FullName, Email: e.Email, Role: e.Role, IsActive: true,
	}
	payload, err := json.Marshal(stale)
	require.NoError(t, err)
	deps.redismock.ExpectGet(employee.CacheKeyByUserID(e.UserID.String())).SetVal(string(payload))
	deps.repo.EXPECT().FindByID(ctx, e.ID.String()).Return(e, nil)

	id, err := resolver.ResolveIdentity(ctx, e.UserID.String())

	require.NoError(t, err)
	assert.False(t, id.Active)
	assert.NoError(t, deps.redismock.ExpectationsWereMet())
}

func TestEmployeeService_IsActive(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)

	_, err := deps.service.IsActive(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)

	id := uuid.NewString()
	deps.repo.EXPECT().FindByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)
	_, err = deps.service.IsActive(ctx, id)
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
}
