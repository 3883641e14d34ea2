package services

import (
	"context"

	"github.com/vkarpenko/regauth/internal/common"
	"github.com/vkarpenko/regauth/internal/server/models"
	"github.com/vkarpenko/regauth/internal/server/teams"
)

// RightsService computes the strongest permission an actor holds over a
// resource's owner list.
type RightsService struct {
	teams teams.MembershipChecker
}

// NewRightsService constructs a RightsService.
func NewRightsService(checker teams.MembershipChecker) *RightsService {
	return &RightsService{teams: checker}
}

// Resolve scans the owners in order and returns the actor's Rights.
//
// Short-circuits on Full because nothing can beat it. Owner lists are in
// practice [user, user, ..., team, team], so the short-circuit usually
// fires before any membership lookup; correctness does not depend on that
// ordering, only latency does. A membership lookup failure fails the whole
// resolution — downgrading it to "not a member" would hand out a weaker
// answer than the provider might have given.
func (s *RightsService) Resolve(ctx context.Context, actor *models.User, owners []models.Owner) (models.Rights, error) {
	best := models.RightsNone
	for _, owner := range owners {
		switch o := owner.(type) {
		case models.UserOwner:
			if o.User.ID == actor.ID {
				return models.RightsFull, nil
			}
		case models.TeamOwner:
			member, err := s.teams.IsMember(ctx, o.Team, actor)
			if err != nil {
				return models.RightsNone, common.DependencyError("team membership lookup failed", err)
			}
			if member {
				best = models.RightsPublish
			}
		}
	}
	return best, nil
}
