package store

import "github.com/lalith-99/huddle/internal/models"

// StatKind selects one of the three tracked counters.
type StatKind int

const (
	StatChannels StatKind = iota
	StatDMs
	StatMessages
)

func userSeries(u *models.User, kind StatKind) *[]models.StatPoint {
	switch kind {
	case StatDMs:
		return &u.Stats.DMsJoined
	case StatMessages:
		return &u.Stats.MessagesSent
	default:
		return &u.Stats.ChannelsJoined
	}
}

func (s *Store) systemSeries(kind StatKind) *[]models.StatPoint {
	switch kind {
	case StatDMs:
		return &s.Stats.DMsExist
	case StatMessages:
		return &s.Stats.MessagesExist
	default:
		return &s.Stats.ChannelsExist
	}
}

func latest(series []models.StatPoint) int {
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1].Count
}

// BumpUserStat appends a new snapshot (previous count + delta) to each listed
// user's series for the given kind. Unknown ids are skipped.
func (s *Store) BumpUserStat(userIDs []int64, kind StatKind, delta int) {
	now := s.Now()
	for _, uid := range userIDs {
		u := s.UserByIDAny(uid)
		if u == nil {
			continue
		}
		series := userSeries(u, kind)
		*series = append(*series, models.StatPoint{
			Count:     latest(*series) + delta,
			Timestamp: now,
		})
	}
}

// BumpSystemStat appends a new snapshot to the system-wide series.
func (s *Store) BumpSystemStat(kind StatKind, delta int) {
	series := s.systemSeries(kind)
	*series = append(*series, models.StatPoint{
		Count:     latest(*series) + delta,
		Timestamp: s.Now(),
	})
}

// Involvement computes the user's involvement rate: their joined channels,
// joined DMs and sent messages over the system totals of the same, 0 when
// the system totals are all zero. Capped at 1: removals shrink the system
// totals without touching personal series, so the raw ratio can exceed 1.
func (s *Store) Involvement(u *models.User) float64 {
	mine := latest(u.Stats.ChannelsJoined) + latest(u.Stats.DMsJoined) + latest(u.Stats.MessagesSent)
	total := latest(s.Stats.ChannelsExist) + latest(s.Stats.DMsExist) + latest(s.Stats.MessagesExist)
	if total == 0 {
		return 0
	}
	rate := float64(mine) / float64(total)
	if rate > 1 {
		rate = 1
	}
	return rate
}

// Utilization computes the share of valid users who belong to at least one
// channel or DM, 0 when there are no valid users.
func (s *Store) Utilization() float64 {
	active, all := 0, 0
	for _, u := range s.Users {
		if !u.Valid {
			continue
		}
		all++
		if latest(u.Stats.ChannelsJoined) > 0 || latest(u.Stats.DMsJoined) > 0 {
			active++
		}
	}
	if all == 0 {
		return 0
	}
	return float64(active) / float64(all)
}
