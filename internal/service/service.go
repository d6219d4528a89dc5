// Package service implements the domain operations: identity and sessions,
// channel and DM membership, messaging, standups, statistics and
// administration. Every operation follows the same shape: take the store
// lock, validate in a fixed order (credential, then referenced container,
// then membership, then semantic checks), mutate, update the dependent
// bookkeeping (stats, notifications, message index), persist a snapshot.
// Validation always completes before the first mutation, so a failed request
// leaves no partial state behind.
package service

import (
	"fmt"
	"os"
	"sync"
	"unicode"

	"go.uber.org/zap"

	"github.com/lalith-99/huddle/internal/auth"
	"github.com/lalith-99/huddle/internal/email"
	"github.com/lalith-99/huddle/internal/models"
	"github.com/lalith-99/huddle/internal/scheduler"
	"github.com/lalith-99/huddle/internal/store"
)

const (
	maxMessageLen     = 1000
	maxChannelNameLen = 20
	maxHandleLen      = 20
	messagesPageSize  = 50
	notificationsCap  = 20

	defaultAvatarURL = "/static/default_image.jpg"

	// redactedPlaceholder replaces both the scrubbed display name and the
	// bodies of messages authored by a removed user.
	redactedPlaceholder = "Removed user"
)

// EventSink receives live events for connected clients. Implemented by the
// websocket hub; a nil sink disables events.
type EventSink interface {
	Publish(userIDs []int64, event string, payload any)
}

// Service wires the entity store to the collaborators every operation needs.
type Service struct {
	st     *store.Store
	logger *zap.Logger
	secret string
	mailer email.Sender
	sched  *scheduler.Scheduler
	events EventSink

	snapshotPath string

	// snapMu orders snapshot writes. snapSeq is guarded by the store lock;
	// snapWritten by snapMu.
	snapMu      sync.Mutex
	snapSeq     uint64
	snapWritten uint64

	// resetCodes is the flat (email, code) list for password resets; the
	// latest code per email overwrites the previous one. Guarded by the
	// store lock like everything else. Deliberately not snapshotted: codes
	// are short-lived secrets.
	resetCodes []resetCode
}

type resetCode struct {
	Email string
	Code  string
}

// New constructs a Service. mailer and events may be nil (mail and live
// events are then disabled); sched is required for scheduled sends and
// standups.
func New(st *store.Store, logger *zap.Logger, secret, snapshotPath string, mailer email.Sender, sched *scheduler.Scheduler, events EventSink) *Service {
	return &Service{
		st:           st,
		logger:       logger,
		secret:       secret,
		snapshotPath: snapshotPath,
		mailer:       mailer,
		sched:        sched,
		events:       events,
	}
}

// authorize resolves a session credential to its user and session id. It is
// the first check of every authenticated operation and must run with the
// store lock held. Any failure (malformed token, unknown or removed user,
// pruned session) is an access error.
func (s *Service) authorize(token string) (*models.User, int64, error) {
	claims, err := auth.ParseToken(token, s.secret)
	if err != nil {
		return nil, 0, accessError("invalid token")
	}
	u := s.st.UserByID(claims.UserID)
	if u == nil {
		return nil, 0, accessError("invalid auth_user_id %d", claims.UserID)
	}
	if !store.HasSession(u, claims.SessionID) {
		return nil, 0, accessError("invalid session %d", claims.SessionID)
	}
	return u, claims.SessionID, nil
}

// Authenticate resolves a credential to its user id, for callers outside
// the service (the websocket endpoint) that need identity only.
func (s *Service) Authenticate(token string) (int64, error) {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}

// persist serializes the store (lock must be held) and writes the snapshot
// outside the critical section. Writes go to a temp file first and are
// renamed into place, so a reader never sees a torn snapshot; each write
// carries a sequence number so an older snapshot can never overwrite a newer
// one. Best effort: failures are logged, never returned.
func (s *Service) persist() {
	if s.snapshotPath == "" {
		return
	}
	data, err := s.st.Snapshot()
	if err != nil {
		s.logger.Error("snapshot marshal failed", zap.Error(err))
		return
	}
	s.snapSeq++
	seq := s.snapSeq
	go func() {
		s.snapMu.Lock()
		defer s.snapMu.Unlock()
		if seq <= s.snapWritten {
			return
		}
		tmp := s.snapshotPath + ".tmp"
		if err := os.WriteFile(tmp, data, 0o600); err != nil {
			s.logger.Error("snapshot write failed", zap.Error(err))
			return
		}
		if err := os.Rename(tmp, s.snapshotPath); err != nil {
			s.logger.Error("snapshot rename failed", zap.Error(err))
			return
		}
		s.snapWritten = seq
	}()
}

// publish forwards an event to the sink, if one is attached.
func (s *Service) publish(userIDs []int64, event string, payload any) {
	if s.events != nil {
		s.events.Publish(userIDs, event, payload)
	}
}

// profilesFor resolves member id lists to profiles through the lookup layer.
// IDs that no longer resolve (removed users still present in an old list)
// are skipped.
func (s *Service) profilesFor(ids []int64) []models.Profile {
	out := make([]models.Profile, 0, len(ids))
	for _, id := range ids {
		if u := s.st.UserByIDAny(id); u != nil {
			out = append(out, u.Profile)
		}
	}
	return out
}

func isAlpha(name string) bool {
	for _, r := range name {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return len(name) > 0
}

func fullName(u *models.User) string {
	return u.Profile.FirstName + " " + u.Profile.LastName
}

// --- response views -------------------------------------------------------

type AuthResult struct {
	Token  string `json:"token"`
	UserID int64  `json:"auth_user_id"`
}

type ChannelSummary struct {
	ID   int64  `json:"channel_id"`
	Name string `json:"name"`
}

type DMSummary struct {
	ID   int64  `json:"dm_id"`
	Name string `json:"name"`
}

type ChannelDetails struct {
	Name    string           `json:"name"`
	Public  bool             `json:"is_public"`
	Owners  []models.Profile `json:"owner_members"`
	Members []models.Profile `json:"all_members"`
}

type DMDetails struct {
	Name    string           `json:"name"`
	Members []models.Profile `json:"members"`
}

type ReactView struct {
	ReactID           int64   `json:"react_id"`
	UserIDs           []int64 `json:"u_ids"`
	IsThisUserReacted bool    `json:"is_this_user_reacted"`
}

type MessageView struct {
	ID        int64       `json:"message_id"`
	AuthorID  int64       `json:"u_id"`
	Body      string      `json:"message"`
	CreatedAt int64       `json:"time_created"`
	Pinned    bool        `json:"is_pinned"`
	Reacts    []ReactView `json:"reacts"`
}

type MessagesPage struct {
	Messages []MessageView `json:"messages"`
	Start    int           `json:"start"`
	End      int           `json:"end"`
}

type UserStatsView struct {
	models.UserStats
	InvolvementRate float64 `json:"involvement_rate"`
}

type SystemStatsView struct {
	models.SystemStats
	UtilizationRate float64 `json:"utilization_rate"`
}

// messageView renders a message for a particular viewer, computing the
// viewer-relative reaction flag.
func messageView(m *models.Message, viewerID int64) MessageView {
	reacts := make([]ReactView, 0, len(m.Reacts))
	for _, r := range m.Reacts {
		uids := r.UserIDs
		if uids == nil {
			uids = []int64{}
		}
		reacts = append(reacts, ReactView{
			ReactID:           r.ReactID,
			UserIDs:           uids,
			IsThisUserReacted: containsID(uids, viewerID),
		})
	}
	return MessageView{
		ID:        m.ID,
		AuthorID:  m.AuthorID,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
		Pinned:    m.Pinned,
		Reacts:    reacts,
	}
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// messagesPage returns the window [start, start+50) of a container's
// messages, newest first. End is -1 when the window reaches the oldest
// message.
func messagesPage(c store.Container, viewerID int64, start int) (MessagesPage, error) {
	msgs := *c.Messages()
	if start > len(msgs) {
		return MessagesPage{}, inputError("start %d is greater than the number of messages in the %s", start, c.Kind)
	}
	end := start + messagesPageSize
	pageEnd := end
	if end > len(msgs) {
		end = len(msgs)
		pageEnd = -1
	}
	page := MessagesPage{
		Messages: make([]MessageView, 0, end-start),
		Start:    start,
		End:      pageEnd,
	}
	for _, m := range msgs[start:end] {
		page.Messages = append(page.Messages, messageView(m, viewerID))
	}
	return page, nil
}

// Clear resets the store to its initial state.
func (s *Service) Clear() {
	s.st.Lock()
	defer s.st.Unlock()
	s.st.Reset()
	s.resetCodes = nil
	s.persist()
}

// Load restores the store from the snapshot file at process start.
func (s *Service) Load() error {
	if s.snapshotPath == "" {
		return nil
	}
	if err := s.st.LoadFile(s.snapshotPath); err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	return nil
}
