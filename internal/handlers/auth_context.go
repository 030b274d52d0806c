package handlers

import (
	"context"
	"net/http"

	"github.com/ChanaPCN/parkify-app/internal/models"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated caller taken from the JWT.
type Identity struct {
	UserID int
	Role   string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// canActAs reports whether the caller is the user with role and id, or an admin.
func canActAs(r *http.Request, role string, id int) bool {
	caller, ok := IdentityFrom(r.Context())
	if !ok {
		return false
	}
	if caller.Role == models.RoleAdmin {
		return true
	}
	return caller.Role == role && caller.UserID == id
}
