package service

import (
	"context"

	"github.com/google/uuid"

	"planboard/internal/apperr"
	"planboard/internal/authz"
	"planboard/internal/identity"
	"planboard/internal/model"
	"planboard/internal/repository"
	"planboard/internal/view"
)

type TeamService struct {
	teams *repository.TeamRepository
	users *repository.UserRepository
}

func NewTeamService(teams *repository.TeamRepository, users *repository.UserRepository) *TeamService {
	return &TeamService{teams: teams, users: users}
}

// TeamResult pairs the team with every user whose affiliation the
// operation changed, both joiners and leavers, so callers can update
// client state without a refetch.
type TeamResult struct {
	Team         *model.Team `json:"team"`
	UpdatedUsers []view.User `json:"updated_users"`
}

// Create makes a team and reconciles its initial member set.
func (s *TeamService) Create(ctx context.Context, caller identity.Caller, name string, leaderID *uuid.UUID, memberIDs []uuid.UUID) (*TeamResult, error) {
	if err := authz.CanCreateTeam(caller); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apperr.Validationf("team name is required")
	}

	team := &model.Team{ID: uuid.New(), Name: name, LeaderID: leaderID}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, storeErr(err)
	}

	changed, err := s.teams.ReconcileMembers(ctx, team.ID, memberIDs)
	if err != nil {
		return nil, storeErr(err)
	}
	return &TeamResult{Team: team, UpdatedUsers: userViews(changed)}, nil
}

// Update renames the team and/or changes its leader, then reconciles the
// member set as a set-difference: users entering get the team, users
// leaving lose it, and both directions are reported back.
func (s *TeamService) Update(ctx context.Context, caller identity.Caller, teamID uuid.UUID, name string, leaderID *uuid.UUID, memberIDs []uuid.UUID) (*TeamResult, error) {
	if err := authz.CanUpdateTeam(caller); err != nil {
		return nil, err
	}

	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, storeErr(err)
	}
	if name != "" {
		team.Name = name
	}
	team.LeaderID = leaderID
	if err := s.teams.Update(ctx, team); err != nil {
		return nil, storeErr(err)
	}

	changed, err := s.teams.ReconcileMembers(ctx, teamID, memberIDs)
	if err != nil {
		return nil, storeErr(err)
	}
	return &TeamResult{Team: team, UpdatedUsers: userViews(changed)}, nil
}

// Delete removes the team; every member keeps their account with the
// affiliation cleared. The released users are returned.
func (s *TeamService) Delete(ctx context.Context, caller identity.Caller, teamID uuid.UUID) ([]view.User, error) {
	if err := authz.CanDeleteTeam(caller); err != nil {
		return nil, err
	}
	released, err := s.teams.Delete(ctx, teamID)
	if err != nil {
		return nil, storeErr(err)
	}
	return userViews(released), nil
}

// Members lists the team's current roster.
func (s *TeamService) Members(ctx context.Context, caller identity.Caller, teamID uuid.UUID) ([]view.User, error) {
	if err := authz.CanListTeamMembers(caller, teamID); err != nil {
		return nil, err
	}
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return nil, storeErr(err)
	}

	members, err := s.users.GetTeamMembers(ctx, teamID)
	if err != nil {
		return nil, storeErr(err)
	}
	return userViews(members), nil
}

// AddMembers attaches users to the team. Open to super admins and the
// team's own leader.
func (s *TeamService) AddMembers(ctx context.Context, caller identity.Caller, teamID uuid.UUID, userIDs []uuid.UUID) ([]view.User, error) {
	if err := authz.CanManageTeamMembers(caller, teamID); err != nil {
		return nil, err
	}
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return nil, storeErr(err)
	}

	updated, err := s.users.SetTeam(ctx, userIDs, &teamID)
	if err != nil {
		return nil, storeErr(err)
	}
	return userViews(updated), nil
}

// RemoveMember detaches one user from the team.
func (s *TeamService) RemoveMember(ctx context.Context, caller identity.Caller, teamID, userID uuid.UUID) (*view.User, error) {
	if err := authz.CanManageTeamMembers(caller, teamID); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	if user.TeamID == nil || *user.TeamID != teamID {
		return nil, apperr.Validationf("user is not a member of this team")
	}

	updated, err := s.users.SetTeam(ctx, []uuid.UUID{userID}, nil)
	if err != nil {
		return nil, storeErr(err)
	}
	if len(updated) == 0 {
		return nil, apperr.NotFoundf("user not found")
	}
	v := view.NewUser(&updated[0])
	return &v, nil
}

func userViews(users []model.User) []view.User {
	out := make([]view.User, len(users))
	for i := range users {
		out[i] = view.NewUser(&users[i])
	}
	return out
}
