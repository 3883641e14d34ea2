// Package teams resolves team membership against the external identity
// provider. Only the boolean "is member" contract is consumed here; team
// data itself lives at the provider.
package teams

import (
	"context"

	"github.com/vkarpenko/regauth/internal/server/models"
)

// MembershipChecker reports whether user belongs to team. Lookup failures
// must surface as errors: the rights resolution they feed cannot be
// trusted on a silent "not a member" downgrade.
type MembershipChecker interface {
	IsMember(ctx context.Context, team models.Team, user *models.User) (bool, error)
}
