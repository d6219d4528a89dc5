package store

import "github.com/lalith-99/huddle/internal/models"

// Lookup layer: pure queries over the store, no mutation. "Not found" is a
// nil (or !ok) result, never an error; the service layer decides whether a
// miss is an access or an input failure.

// UserByID resolves a user id for authorization purposes: removed users are
// invisible here.
func (s *Store) UserByID(id int64) *models.User {
	for _, u := range s.Users {
		if u.ID == id {
			if !u.Valid {
				return nil
			}
			return u
		}
	}
	return nil
}

// UserByIDAny resolves a user id including soft-removed users, for profile
// display.
func (s *Store) UserByIDAny(id int64) *models.User {
	for _, u := range s.Users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// UserByHandle resolves a handle to a user. Removed users keep their handle
// but are not resolvable.
func (s *Store) UserByHandle(handle string) *models.User {
	for _, u := range s.Users {
		if u.Valid && u.Profile.Handle == handle {
			return u
		}
	}
	return nil
}

// UserByEmail resolves a registered email address, matching through the
// public profile where the email lives.
func (s *Store) UserByEmail(email string) *models.User {
	for _, u := range s.Users {
		if u.Profile.Email == email {
			return u
		}
	}
	return nil
}

// HandleTaken reports whether any user, removed or not, holds the handle.
func (s *Store) HandleTaken(handle string) bool {
	for _, u := range s.Users {
		if u.Profile.Handle == handle {
			return true
		}
	}
	return false
}

// ChannelByID resolves a channel id.
func (s *Store) ChannelByID(id int64) *models.Channel {
	for _, c := range s.Channels {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// DMByID resolves a DM id.
func (s *Store) DMByID(id int64) *models.DM {
	for _, d := range s.DMs {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// ChannelContainer wraps a channel in the tagged container union.
func ChannelContainer(c *models.Channel) Container {
	return Container{Kind: models.KindChannel, Channel: c}
}

// DMContainer wraps a DM in the tagged container union.
func DMContainer(d *models.DM) Container {
	return Container{Kind: models.KindDM, DM: d}
}

// ContainerByID resolves (kind, id) to a container; the result's Valid()
// reports whether it exists.
func (s *Store) ContainerByID(kind models.ContainerKind, id int64) Container {
	if kind == models.KindDM {
		return DMContainer(s.DMByID(id))
	}
	return ChannelContainer(s.ChannelByID(id))
}

// MessageRef is a fully resolved message location: the container holding it,
// the message itself, its position within the container (0 = newest) and the
// index entry mirroring it.
type MessageRef struct {
	Container
	Msg   *models.Message
	Pos   int
	Entry *models.IndexEntry
}

// FindMessage locates a message by id through the message-position index.
func (s *Store) FindMessage(id int64) (MessageRef, bool) {
	for _, e := range s.Index {
		if !containsID(e.MessageIDs, id) {
			continue
		}
		c := s.ContainerByID(e.Kind, e.ContainerID)
		if !c.Valid() {
			return MessageRef{}, false
		}
		for pos, m := range *c.Messages() {
			if m.ID == id {
				return MessageRef{Container: c, Msg: m, Pos: pos, Entry: e}, true
			}
		}
		return MessageRef{}, false
	}
	return MessageRef{}, false
}

// HasSession reports whether sid is an active session of the user.
func HasSession(u *models.User, sid int64) bool {
	return containsID(u.Sessions, sid)
}

// DropSession removes sid from the user's session set, permanently
// invalidating any credential minted for it.
func DropSession(u *models.User, sid int64) {
	u.Sessions = removeID(u.Sessions, sid)
}
