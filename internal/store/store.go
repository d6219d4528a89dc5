// Package store owns the canonical in-memory object graph: users, channels,
// DMs, the message-position index and the system-wide statistics series.
//
// The store is a single shared mutable structure. Every logical operation,
// whether an API call or a fired timer, must run atomically with respect to
// all others, so the store embeds one mutex and callers hold it for the whole
// operation. Store methods themselves never lock; they assume the caller
// already does. ID allocation re-checks uniqueness under that same lock, so
// two concurrent allocations can never mint the same id.
package store

import (
	"math/rand"
	"sync"
	"time"

	"github.com/lalith-99/huddle/internal/models"
)

const (
	entityIDMin  = 1000000
	entityIDMax  = 9999999
	messageIDMin = 10000000
	messageIDMax = 99999999
)

// Store is the single source of truth. All other components read and mutate
// through it while holding its mutex.
type Store struct {
	sync.Mutex

	Users    []*models.User
	Channels []*models.Channel
	DMs      []*models.DM
	Index    []*models.IndexEntry
	Stats    models.SystemStats

	// UsedIDs records every id ever issued, across all entity kinds.
	// Allocation consults it so ids are never reused, even after the entity
	// that held one is gone. Message ids in particular must never collide
	// across channels and DMs, including with messages that were removed or
	// are still waiting on a delivery timer.
	UsedIDs map[int64]bool

	rng *rand.Rand

	// Now returns the current unix second. Tests swap it out to pin
	// timestamps.
	Now func() int64
}

// New returns an empty store with zeroed system statistics stamped at the
// current time.
func New() *Store {
	s := &Store{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		Now: func() int64 { return time.Now().UTC().Unix() },
	}
	s.reset()
	return s
}

// Reset returns the store to its initial state. Used by the clear operation
// and by tests.
func (s *Store) Reset() {
	s.reset()
}

func (s *Store) reset() {
	now := int64(0)
	if s.Now != nil {
		now = s.Now()
	}
	s.Users = nil
	s.Channels = nil
	s.DMs = nil
	s.Index = nil
	s.UsedIDs = make(map[int64]bool)
	s.Stats = models.SystemStats{
		ChannelsExist: []models.StatPoint{{Count: 0, Timestamp: now}},
		DMsExist:      []models.StatPoint{{Count: 0, Timestamp: now}},
		MessagesExist: []models.StatPoint{{Count: 0, Timestamp: now}},
	}
}

func (s *Store) allocID(lo, hi int64) int64 {
	for {
		id := lo + s.rng.Int63n(hi-lo+1)
		if !s.UsedIDs[id] {
			s.UsedIDs[id] = true
			return id
		}
	}
}

// NewUserID allocates a fresh user id.
func (s *Store) NewUserID() int64 { return s.allocID(entityIDMin, entityIDMax) }

// NewSessionID allocates a fresh session id. Sessions draw from the same id
// pool as entities so a session id is unique across the whole store.
func (s *Store) NewSessionID() int64 { return s.allocID(entityIDMin, entityIDMax) }

// NewChannelID allocates a fresh channel id.
func (s *Store) NewChannelID() int64 { return s.allocID(entityIDMin, entityIDMax) }

// NewDMID allocates a fresh DM id.
func (s *Store) NewDMID() int64 { return s.allocID(entityIDMin, entityIDMax) }

// NewMessageID allocates a fresh message id from the wider message range.
func (s *Store) NewMessageID() int64 { return s.allocID(messageIDMin, messageIDMax) }

// Container is a tagged reference to one of the two message-holding entity
// kinds. Exactly one of Channel/DM is non-nil.
type Container struct {
	Kind    models.ContainerKind
	Channel *models.Channel
	DM      *models.DM
}

// Valid reports whether the container actually resolved.
func (c Container) Valid() bool { return c.Channel != nil || c.DM != nil }

// ID returns the container's entity id.
func (c Container) ID() int64 {
	if c.Kind == models.KindDM {
		return c.DM.ID
	}
	return c.Channel.ID
}

// Name returns the container's display name.
func (c Container) Name() string {
	if c.Kind == models.KindDM {
		return c.DM.Name
	}
	return c.Channel.Name
}

// Members returns a pointer to the container's member id list.
func (c Container) Members() *[]int64 {
	if c.Kind == models.KindDM {
		return &c.DM.Members
	}
	return &c.Channel.Members
}

// Owners returns a pointer to the container's owner id list.
func (c Container) Owners() *[]int64 {
	if c.Kind == models.KindDM {
		return &c.DM.Owners
	}
	return &c.Channel.Owners
}

// Messages returns a pointer to the container's message list, newest first.
func (c Container) Messages() *[]*models.Message {
	if c.Kind == models.KindDM {
		return &c.DM.Messages
	}
	return &c.Channel.Messages
}

// HasMember reports whether uid is in the container's member list.
func (c Container) HasMember(uid int64) bool { return containsID(*c.Members(), uid) }

// HasOwner reports whether uid is in the container's owner list.
func (c Container) HasOwner(uid int64) bool { return containsID(*c.Owners(), uid) }

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// AddMember appends uid to the container's member list if absent.
func (c Container) AddMember(uid int64) {
	if !c.HasMember(uid) {
		*c.Members() = append(*c.Members(), uid)
	}
}

// AddOwner appends uid to the container's owner list if absent.
func (c Container) AddOwner(uid int64) {
	if !c.HasOwner(uid) {
		*c.Owners() = append(*c.Owners(), uid)
	}
}

// RemoveMember deletes uid from the member list; no-op when absent.
func (c Container) RemoveMember(uid int64) { *c.Members() = removeID(*c.Members(), uid) }

// RemoveOwner deletes uid from the owner list; no-op when absent.
func (c Container) RemoveOwner(uid int64) { *c.Owners() = removeID(*c.Owners(), uid) }

// InsertMessage places msg at the newest position of the container and
// mirrors its id into the message-position index, creating the container's
// index entry on first use.
func (s *Store) InsertMessage(c Container, msg *models.Message) {
	msgs := c.Messages()
	*msgs = append([]*models.Message{msg}, *msgs...)

	for _, e := range s.Index {
		if e.Kind == c.Kind && e.ContainerID == c.ID() {
			e.MessageIDs = append([]int64{msg.ID}, e.MessageIDs...)
			return
		}
	}
	s.Index = append(s.Index, &models.IndexEntry{
		Kind:        c.Kind,
		ContainerID: c.ID(),
		MessageIDs:  []int64{msg.ID},
	})
}

// RemoveMessage deletes the referenced message from its container and from
// the index, pruning the index entry if it becomes empty.
func (s *Store) RemoveMessage(ref MessageRef) {
	msgs := ref.Messages()
	*msgs = append((*msgs)[:ref.Pos], (*msgs)[ref.Pos+1:]...)

	ref.Entry.MessageIDs = removeID(ref.Entry.MessageIDs, ref.Msg.ID)
	if len(ref.Entry.MessageIDs) == 0 {
		s.pruneIndexEntry(ref.Entry)
	}
}

// RemoveDM deletes a DM and its index entry. Returns how many messages the
// DM held so the caller can adjust the message counters.
func (s *Store) RemoveDM(dm *models.DM) int {
	removed := len(dm.Messages)
	for i, d := range s.DMs {
		if d == dm {
			s.DMs = append(s.DMs[:i], s.DMs[i+1:]...)
			break
		}
	}
	for _, e := range s.Index {
		if e.Kind == models.KindDM && e.ContainerID == dm.ID {
			s.pruneIndexEntry(e)
			break
		}
	}
	return removed
}

func (s *Store) pruneIndexEntry(entry *models.IndexEntry) {
	for i, e := range s.Index {
		if e == entry {
			s.Index = append(s.Index[:i], s.Index[i+1:]...)
			return
		}
	}
}

// PushNotification prepends a notification to the user's feed (newest first).
func PushNotification(u *models.User, n models.Notification) {
	u.Notifications = append([]models.Notification{n}, u.Notifications...)
}
