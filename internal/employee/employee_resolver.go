package employee

import (
	"context"

	"go-staffhub/internal/middleware"
	"go-staffhub/internal/shared/contextutil"
)

type identityResolver struct {
	directory Service
}

// NewIdentityResolver exposes the directory to the auth middleware.
func NewIdentityResolver(directory Service) middleware.IdentityResolver {
	return identityResolver{directory: directory}
}

func (r identityResolver) ResolveIdentity(ctx context.Context, userID string) (middleware.Identity, error) {
	e, err := r.directory.LookupByUserID(ctx, userID)
	if err != nil {
		return middleware.Identity{}, err
	}
	active, err := r.directory.IsActive(ctx, e.ID)
	if err != nil {
		return middleware.Identity{}, err
	}
	return middleware.Identity{
		Actor: contextutil.Actor{
			EmployeeID: e.ID,
			UserID:     e.UserID,
			Role:       e.Role,
			FullName:   e.FullName,
			Email:      e.Email,
		},
		Active: active,
	}, nil
}
