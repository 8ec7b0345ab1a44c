package service

import (
	"context"
	"errors"
	"slices"

	errorvalues "github.com/limbo/questboard/internal/error_values"
	"github.com/limbo/questboard/internal/repository"
	"github.com/limbo/questboard/pkg/entity"
)

const DefaultLeaderboardLimit = 10

type LeaderboardService struct {
	users repository.UsersRepositoryI
}

func NewLeaderboardService(users repository.UsersRepositoryI) *LeaderboardService {
	return &LeaderboardService{users: users}
}

// GetLeaderboard ranks users by score. For country and region scopes every
// group is cut to limit first, then the union is sorted and cut to limit
// again. Rank is the position in the returned list.
func (ls *LeaderboardService) GetLeaderboard(ctx context.Context, scope entity.LeaderboardScope, limit int) ([]*entity.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	users, err := ls.allUsers(ctx)
	if err != nil {
		return nil, err
	}

	var ranked []*entity.User
	switch scope {
	case entity.ScopeGlobal:
		ranked = top(users, limit)
	case entity.ScopeCountry, entity.ScopeRegion:
		for _, group := range groupBy(users, scope) {
			ranked = append(ranked, top(group, limit)...)
		}
		ranked = top(ranked, limit)
	default:
		return nil, errorvalues.ErrInvalidScope
	}

	entries := make([]*entity.LeaderboardEntry, 0, len(ranked))
	for i, u := range ranked {
		entry := &entity.LeaderboardEntry{
			Rank:     i + 1,
			UserID:   u.ID,
			Username: u.Username,
			Score:    u.Score,
			Level:    u.Level,
			Region:   u.Region,
			Country:  u.Country,
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// GetUserRank returns the 1-based rank of user within its scope group, or -1
// when the user is unknown or belongs to no group.
func (ls *LeaderboardService) GetUserRank(ctx context.Context, uid int64, scope entity.LeaderboardScope) (int, error) {
	if scope != entity.ScopeGlobal && scope != entity.ScopeCountry && scope != entity.ScopeRegion {
		return -1, errorvalues.ErrInvalidScope
	}
	users, err := ls.allUsers(ctx)
	if err != nil {
		return -1, err
	}
	idx := slices.IndexFunc(users, func(u *entity.User) bool { return u.ID == uid })
	if idx < 0 {
		return -1, nil
	}
	var group []*entity.User
	if scope == entity.ScopeGlobal {
		group = users
	} else {
		key := locationOf(users[idx], scope)
		if key == "" {
			return -1, nil
		}
		for _, u := range users {
			if locationOf(u, scope) == key {
				group = append(group, u)
			}
		}
	}
	sorted := byScore(group)
	return slices.IndexFunc(sorted, func(u *entity.User) bool { return u.ID == uid }) + 1, nil
}

func (ls *LeaderboardService) allUsers(ctx context.Context) ([]*entity.User, error) {
	users, err := ls.users.GetAll(ctx)
	if err != nil {
		return nil, errors.New("repository listing users error: " + err.Error())
	}
	return users, nil
}

// locationOf returns the grouping key of u, empty when u is outside any group.
func locationOf(u *entity.User, scope entity.LeaderboardScope) string {
	var v string
	switch scope {
	case entity.ScopeCountry:
		v = u.Country
	case entity.ScopeRegion:
		v = u.Region
	}
	if v == entity.GlobalLocation {
		return ""
	}
	return v
}

// groupBy keeps groups in order of first appearance.
func groupBy(users []*entity.User, scope entity.LeaderboardScope) [][]*entity.User {
	index := make(map[string]int)
	var groups [][]*entity.User
	for _, u := range users {
		key := locationOf(u, scope)
		if key == "" {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], u)
	}
	return groups
}

// byScore sorts a copy by score descending, equal scores keep input order.
func byScore(users []*entity.User) []*entity.User {
	out := slices.Clone(users)
	slices.SortStableFunc(out, func(a, b *entity.User) int {
		return b.Score - a.Score
	})
	return out
}

func top(users []*entity.User, limit int) []*entity.User {
	sorted := byScore(users)
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
