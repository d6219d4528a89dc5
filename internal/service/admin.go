package service

import (
	"go.uber.org/zap"

	"github.com/lalith-99/huddle/internal/models"
	"github.com/lalith-99/huddle/internal/store"
)

// validOwnerCount counts users who are both valid and global owners.
func (s *Service) validOwnerCount() int {
	n := 0
	for _, u := range s.st.Users {
		if u.Valid && u.Permission == models.PermOwner {
			n++
		}
	}
	return n
}

// AdminChangePermission sets a user's global permission. Demoting the last
// remaining owner is rejected. A promotion to Owner also grants channel
// ownership in every channel the user already belongs to.
func (s *Service) AdminChangePermission(token string, userID int64, permission models.Permission) error {
	s.st.Lock()
	defer s.st.Unlock()

	actor, _, err := s.authorize(token)
	if err != nil {
		return err
	}
	if actor.Permission != models.PermOwner {
		return accessError("user %d is not a global owner", actor.ID)
	}
	target := s.st.UserByID(userID)
	if target == nil {
		return inputError("user %d does not exist", userID)
	}
	if !permission.Valid() {
		return inputError("permission %d is not valid", permission)
	}
	if target.Permission == models.PermOwner && permission == models.PermMember && s.validOwnerCount() == 1 {
		return inputError("user %d is the only global owner", userID)
	}

	target.Permission = permission
	if permission == models.PermOwner {
		for _, ch := range s.st.Channels {
			c := store.ChannelContainer(ch)
			if c.HasMember(target.ID) {
				c.AddOwner(target.ID)
			}
		}
	}
	s.logger.Info("permission changed",
		zap.Int64("user_id", userID),
		zap.Int("permission", int(permission)),
	)
	s.persist()
	return nil
}

// AdminRemoveUser soft-deletes a user: their sessions end, their name reads
// as the redaction placeholder, the bodies of every message they authored
// are redacted in place, and they are stripped from all channel and DM
// membership. Their profile stays fetchable. Removing the last remaining
// global owner is rejected.
func (s *Service) AdminRemoveUser(token string, userID int64) error {
	s.st.Lock()
	defer s.st.Unlock()

	actor, _, err := s.authorize(token)
	if err != nil {
		return err
	}
	if actor.Permission != models.PermOwner {
		return accessError("user %d is not a global owner", actor.ID)
	}
	target := s.st.UserByID(userID)
	if target == nil {
		return inputError("user %d does not exist", userID)
	}
	if target.Permission == models.PermOwner && s.validOwnerCount() == 1 {
		return inputError("user %d is the only global owner", userID)
	}

	for _, ch := range s.st.Channels {
		s.expelFromContainer(store.ChannelContainer(ch), target.ID, store.StatChannels)
	}
	for _, dm := range s.st.DMs {
		s.expelFromContainer(store.DMContainer(dm), target.ID, store.StatDMs)
	}

	target.Valid = false
	target.Sessions = nil
	target.Profile.FirstName = "Removed"
	target.Profile.LastName = "user"

	s.logger.Info("user removed", zap.Int64("user_id", userID))
	s.persist()
	return nil
}

// expelFromContainer redacts uid's authored messages in c and drops uid from
// its member and owner lists, decrementing the expelled user's membership
// series when they actually belonged.
func (s *Service) expelFromContainer(c store.Container, uid int64, kind store.StatKind) {
	for _, m := range *c.Messages() {
		if m.AuthorID == uid {
			m.Body = redactedPlaceholder
		}
	}
	if c.HasMember(uid) {
		c.RemoveMember(uid)
		c.RemoveOwner(uid)
		s.st.BumpUserStat([]int64{uid}, kind, -1)
	}
}
