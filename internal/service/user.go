package service

import (
	"github.com/lalith-99/huddle/internal/models"
)

// UserProfile returns any user's profile, including soft-removed users,
// whose names read as the redaction placeholder.
func (s *Service) UserProfile(token string, userID int64) (models.Profile, error) {
	s.st.Lock()
	defer s.st.Unlock()

	if _, _, err := s.authorize(token); err != nil {
		return models.Profile{}, err
	}
	u := s.st.UserByIDAny(userID)
	if u == nil {
		return models.Profile{}, inputError("user %d does not exist", userID)
	}
	return u.Profile, nil
}

// UserSetName updates the caller's first and last name.
func (s *Service) UserSetName(token, firstName, lastName string) error {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return err
	}
	if !validName(firstName) {
		return inputError("first name must be 1 to %d alphabetic characters", maxNameLen)
	}
	if !validName(lastName) {
		return inputError("last name must be 1 to %d alphabetic characters", maxNameLen)
	}

	u.Profile.FirstName = firstName
	u.Profile.LastName = lastName
	s.persist()
	return nil
}

// UserSetEmail updates the caller's email address.
func (s *Service) UserSetEmail(token, email string) error {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return err
	}
	if !emailPattern.MatchString(email) {
		return inputError("email %q is not a valid email address", email)
	}
	if other := s.st.UserByEmail(email); other != nil && other.ID != u.ID {
		return inputError("email %q is already in use", email)
	}

	u.Profile.Email = email
	s.persist()
	return nil
}

// UserSetHandle updates the caller's handle. Handles are 3 to 20
// alphanumeric characters and unique across all users, removed ones
// included.
func (s *Service) UserSetHandle(token, handle string) error {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return err
	}
	runes := []rune(handle)
	if len(runes) < 3 || len(runes) > maxHandleLen {
		return inputError("handle must be 3 to %d characters", maxHandleLen)
	}
	if !allAlnum(runes) {
		return inputError("handle must be alphanumeric")
	}
	if u.Profile.Handle != handle && s.st.HandleTaken(handle) {
		return inputError("handle %q is already in use", handle)
	}

	u.Profile.Handle = handle
	s.persist()
	return nil
}

// UsersAll lists every user's profile, removed users included.
func (s *Service) UsersAll(token string) ([]models.Profile, error) {
	s.st.Lock()
	defer s.st.Unlock()

	if _, _, err := s.authorize(token); err != nil {
		return nil, err
	}
	out := make([]models.Profile, 0, len(s.st.Users))
	for _, u := range s.st.Users {
		out = append(out, u.Profile)
	}
	return out, nil
}

// UserStats returns the caller's personal statistics series plus the lazily
// computed involvement rate.
func (s *Service) UserStats(token string) (UserStatsView, error) {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return UserStatsView{}, err
	}
	return UserStatsView{
		UserStats:       u.Stats,
		InvolvementRate: s.st.Involvement(u),
	}, nil
}

// UsersStats returns the system-wide statistics series plus the lazily
// computed utilization rate.
func (s *Service) UsersStats(token string) (SystemStatsView, error) {
	s.st.Lock()
	defer s.st.Unlock()

	if _, _, err := s.authorize(token); err != nil {
		return SystemStatsView{}, err
	}
	return SystemStatsView{
		SystemStats:     s.st.Stats,
		UtilizationRate: s.st.Utilization(),
	}, nil
}

// Notifications returns the caller's 20 newest notifications, newest first.
func (s *Service) Notifications(token string) ([]models.Notification, error) {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return nil, err
	}
	feed := u.Notifications
	if len(feed) > notificationsCap {
		feed = feed[:notificationsCap]
	}
	out := make([]models.Notification, len(feed))
	copy(out, feed)
	return out, nil
}
