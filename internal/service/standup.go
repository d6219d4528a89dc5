package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/lalith-99/huddle/internal/store"
)

// StandupStatus reports whether a channel's standup is running and when it
// finishes. TimeFinish is nil while inactive.
type StandupStatus struct {
	IsActive   bool   `json:"is_active"`
	TimeFinish *int64 `json:"time_finish"`
}

// StandupStart begins a standup in a channel for length seconds. Buffered
// standup lines are flushed as one message when it expires. Only one standup
// may run per channel at a time.
func (s *Service) StandupStart(token string, channelID int64, length int64) (int64, error) {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return 0, err
	}
	ch := s.st.ChannelByID(channelID)
	if ch == nil {
		return 0, inputError("channel %d does not exist", channelID)
	}
	if !store.ChannelContainer(ch).HasMember(u.ID) {
		return 0, accessError("user %d is not a member of channel %d", u.ID, channelID)
	}
	if length < 0 {
		return 0, inputError("standup length cannot be negative")
	}
	if ch.Standup.Active {
		return 0, inputError("a standup is already active in channel %d", channelID)
	}

	finish := s.st.Now() + length
	ch.Standup.Active = true
	ch.Standup.FinishAt = finish
	ch.Standup.StarterID = u.ID
	ch.Standup.Lines = nil

	s.sched.After(time.Duration(length)*time.Second, "standup_flush", func() {
		s.flushStandup(channelID)
	})

	s.logger.Info("standup started",
		zap.Int64("channel_id", channelID),
		zap.Int64("user_id", u.ID),
		zap.Int64("finish", finish),
	)
	s.persist()
	return finish, nil
}

// StandupActive reports the channel's standup state.
func (s *Service) StandupActive(token string, channelID int64) (StandupStatus, error) {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return StandupStatus{}, err
	}
	ch := s.st.ChannelByID(channelID)
	if ch == nil {
		return StandupStatus{}, inputError("channel %d does not exist", channelID)
	}
	if !store.ChannelContainer(ch).HasMember(u.ID) {
		return StandupStatus{}, accessError("user %d is not a member of channel %d", u.ID, channelID)
	}

	status := StandupStatus{IsActive: ch.Standup.Active}
	if ch.Standup.Active {
		finish := ch.Standup.FinishAt
		status.TimeFinish = &finish
	}
	return status, nil
}

// StandupSend buffers a line into the channel's running standup.
func (s *Service) StandupSend(token string, channelID int64, message string) error {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return err
	}
	ch := s.st.ChannelByID(channelID)
	if ch == nil {
		return inputError("channel %d does not exist", channelID)
	}
	if !store.ChannelContainer(ch).HasMember(u.ID) {
		return accessError("user %d is not a member of channel %d", u.ID, channelID)
	}
	if !ch.Standup.Active {
		return inputError("no standup is active in channel %d", channelID)
	}
	if len([]rune(message)) > maxMessageLen {
		return inputError("message length must be at most %d characters", maxMessageLen)
	}

	ch.Standup.Lines = append(ch.Standup.Lines, fullName(u)+": "+message)
	s.persist()
	return nil
}

// flushStandup is the expiry callback. It concatenates the buffered lines in
// arrival order into a single message authored by whoever started the
// standup, then returns the channel to the inactive state. An empty buffer
// produces no message and touches no counters. No-ops if the channel is
// gone.
func (s *Service) flushStandup(channelID int64) {
	s.st.Lock()
	defer s.st.Unlock()

	ch := s.st.ChannelByID(channelID)
	if ch == nil {
		s.logger.Info("standup flush dropped, channel gone", zap.Int64("channel_id", channelID))
		return
	}

	lines := ch.Standup.Lines
	starterID := ch.Standup.StarterID
	ch.Standup.Active = false
	ch.Standup.FinishAt = 0
	ch.Standup.StarterID = 0
	ch.Standup.Lines = nil

	if len(lines) == 0 {
		s.persist()
		return
	}

	body := ""
	for _, line := range lines {
		body += line + "\n"
	}

	starter := s.st.UserByIDAny(starterID)
	if starter == nil {
		s.persist()
		return
	}
	msg := s.newMessage(starter.ID, body)
	s.st.InsertMessage(store.ChannelContainer(ch), msg)
	s.st.BumpUserStat([]int64{starter.ID}, store.StatMessages, 1)
	s.st.BumpSystemStat(store.StatMessages, 1)
	s.publish(ch.Members, "message", messageView(msg, starter.ID))
	s.persist()
}
