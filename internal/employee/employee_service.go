package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	employeeerrors "go-staffhub/internal/employee/errors"
	"go-staffhub/internal/rbac"
	"go-staffhub/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	byIDKeyPrefix     = "employees:id:"
	byUserIDKeyPrefix = "employees:user:"

	DefaultCacheTTL = 10 * time.Minute
)

func CacheKeyByID(id string) string {
	return byIDKeyPrefix + id
}

func CacheKeyByUserID(userID string) string {
	return byUserIDKeyPrefix + userID
}

// Service is the employee directory. Lookups are cached in Redis; the cache
// holds identity only and is dropped whenever a record changes.
//
//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	List(ctx context.Context) ([]EmployeeResponse, error)
	SetActive(ctx context.Context, id string, active bool) (EmployeeResponse, error)
	Lookup(ctx context.Context, id string) (EmployeeResponse, error)
	LookupByUserID(ctx context.Context, userID string) (EmployeeResponse, error)
	LookupMany(ctx context.Context, ids []string) (map[string]EmployeeResponse, error)
	IsActive(ctx context.Context, id string) (bool, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	ttl    time.Duration
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, ttl time.Duration, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		ttl:    ttl,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
		zap.String("role", req.Role),
	)

	if !rbac.IsKnownRole(req.Role) {
		return EmployeeResponse{}, employeeerrors.ErrInvalidRole
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	defer tx.Rollback()

	empl := &Employee{
		ID:       uuid.New(),
		UserID:   userID,
		FullName: req.FullName,
		Email:    req.Email,
		Role:     req.Role,
		IsActive: true,
	}
	if err := s.repo.WithTx(tx).Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
	)
	return mapToResponse(*empl), nil
}

func (s *service) List(ctx context.Context) ([]EmployeeResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("list employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(rows), nil
}

func (s *service) SetActive(ctx context.Context, id string, active bool) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if err := s.repo.UpdateActive(ctx, id, active); err != nil {
		s.logger.Error("update employee active flag failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	empl.IsActive = active

	s.invalidate(ctx, *empl)
	s.logger.Info("employee active flag updated",
		zap.String("employee_id", id),
		zap.Bool("is_active", active),
	)
	return mapToResponse(*empl), nil
}

func (s *service) Lookup(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
	}
	return s.cached(ctx, CacheKeyByID(id), func() (*Employee, error) {
		return s.repo.FindByID(ctx, id)
	})
}

func (s *service) LookupByUserID(ctx context.Context, userID string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
	}
	return s.cached(ctx, CacheKeyByUserID(userID), func() (*Employee, error) {
		return s.repo.FindByUserID(ctx, userID)
	})
}

// IsActive always reads the store. A cached profile may predate a
// deactivation, so sign-in checks must not rely on it.
func (s *service) IsActive(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, employeeerrors.ErrEmployeeNotFound
	}
	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, mapRepositoryError(err)
	}
	return empl.IsActive, nil
}

// LookupMany resolves a batch of ids. Unknown ids are absent from the result.
func (s *service) LookupMany(ctx context.Context, ids []string) (map[string]EmployeeResponse, error) {
	out := make(map[string]EmployeeResponse, len(ids))
	keys := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if _, err := uuid.Parse(id); err != nil {
			continue
		}
		keys = append(keys, id)
	}
	if len(keys) == 0 {
		return out, nil
	}

	misses := keys
	if s.rdb != nil {
		cacheKeys := make([]string, len(keys))
		for i, id := range keys {
			cacheKeys[i] = CacheKeyByID(id)
		}
		vals, err := s.rdb.MGet(ctx, cacheKeys...).Result()
		if err != nil {
			s.logger.Warn("directory cache mget failed", zap.Error(err))
		} else {
			misses = misses[:0:0]
			for i, v := range vals {
				raw, ok := v.(string)
				var resp EmployeeResponse
				if ok && json.Unmarshal([]byte(raw), &resp) == nil {
					out[keys[i]] = resp
					continue
				}
				misses = append(misses, keys[i])
			}
		}
	}
	if len(misses) == 0 {
		return out, nil
	}

	rows, err := s.repo.FindByIDs(ctx, misses)
	if err != nil {
		s.logger.Error("directory batch lookup failed", zap.Int("count", len(misses)), zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	for _, row := range rows {
		resp := mapToResponse(row)
		out[resp.ID] = resp
		s.store(ctx, CacheKeyByID(resp.ID), resp)
	}
	return out, nil
}

func (s *service) cached(ctx context.Context, key string, load func() (*Employee, error)) (EmployeeResponse, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, key).Result()
		if err == nil {
			var resp EmployeeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("directory cache get failed", zap.String("key", key), zap.Error(err))
		}
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		empl, err := load()
		if err != nil {
			return nil, mapRepositoryError(err)
		}
		resp := mapToResponse(*empl)
		s.store(ctx, key, resp)
		return resp, nil
	})
	if err != nil {
		return EmployeeResponse{}, err
	}
	return v.(EmployeeResponse), nil
}

func (s *service) store(ctx context.Context, key string, resp EmployeeResponse) {
	if s.rdb == nil {
		return
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		s.logger.Warn("directory cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *service) invalidate(ctx context.Context, empl Employee) {
	if s.rdb == nil {
		return
	}
	keys := []string{CacheKeyByID(empl.ID.String()), CacheKeyByUserID(empl.UserID.String())}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.logger.Error("failed to invalidate directory cache", zap.Strings("keys", keys), zap.Error(err))
	}
}

func mapToResponse(empl Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:       empl.ID.String(),
		UserID:   empl.UserID.String(),
		FullName: empl.FullName,
		Email:    empl.Email,
		Role:     empl.Role,
		IsActive: empl.IsActive,
	}
}

func mapToListResponse(rows []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res
}
