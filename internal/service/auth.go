package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/lalith-99/huddle/internal/auth"
	"github.com/lalith-99/huddle/internal/models"
	"github.com/lalith-99/huddle/internal/store"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9]+[._]?[a-zA-Z0-9]+@\w+\.\w{2,3}$`)

const (
	minPasswordLen = 6
	maxNameLen     = 50
)

// Register creates an account and opens its first session. The first
// registered user becomes a global Owner; everyone after is a Member.
func (s *Service) Register(email, password, firstName, lastName string) (AuthResult, error) {
	s.st.Lock()
	defer s.st.Unlock()

	if !emailPattern.MatchString(email) {
		return AuthResult{}, inputError("email %q is not a valid email address", email)
	}
	if s.st.UserByEmail(email) != nil {
		return AuthResult{}, inputError("email %q is already registered", email)
	}
	if len(password) < minPasswordLen {
		return AuthResult{}, inputError("password must be at least %d characters", minPasswordLen)
	}
	if !validName(firstName) {
		return AuthResult{}, inputError("first name must be 1 to %d alphabetic characters", maxNameLen)
	}
	if !validName(lastName) {
		return AuthResult{}, inputError("last name must be 1 to %d alphabetic characters", maxNameLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, inputError("hash password: %v", err)
	}

	perm := models.PermMember
	if len(s.st.Users) == 0 {
		perm = models.PermOwner
	}

	now := s.st.Now()
	zero := func() []models.StatPoint {
		return []models.StatPoint{{Count: 0, Timestamp: now}}
	}
	u := &models.User{
		ID:           s.st.NewUserID(),
		PasswordHash: string(hash),
		Sessions:     []int64{s.st.NewSessionID()},
		Permission:   perm,
		Valid:        true,
		Profile: models.Profile{
			FirstName: firstName,
			LastName:  lastName,
			Handle:    s.generateHandle(firstName, lastName),
			Email:     email,
			AvatarURL: defaultAvatarURL,
		},
		Stats: models.UserStats{
			ChannelsJoined: zero(),
			DMsJoined:      zero(),
			MessagesSent:   zero(),
		},
	}
	u.Profile.UserID = u.ID
	s.st.Users = append(s.st.Users, u)

	token, err := auth.GenerateToken(u.ID, u.Sessions[0], s.secret)
	if err != nil {
		return AuthResult{}, accessError("mint credential: %v", err)
	}

	s.logger.Info("user registered",
		zap.Int64("user_id", u.ID),
		zap.String("handle", u.Profile.Handle),
	)
	s.persist()
	return AuthResult{Token: token, UserID: u.ID}, nil
}

// Login verifies credentials and opens a new session alongside any existing
// ones.
func (s *Service) Login(email, password string) (AuthResult, error) {
	s.st.Lock()
	defer s.st.Unlock()

	if !emailPattern.MatchString(email) {
		return AuthResult{}, inputError("email %q is not a valid email address", email)
	}
	u := s.st.UserByEmail(email)
	if u == nil {
		return AuthResult{}, inputError("email %q is not registered", email)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return AuthResult{}, inputError("incorrect password")
	}
	if !u.Valid {
		return AuthResult{}, accessError("account has been removed")
	}

	sid := s.st.NewSessionID()
	u.Sessions = append(u.Sessions, sid)

	token, err := auth.GenerateToken(u.ID, sid, s.secret)
	if err != nil {
		return AuthResult{}, accessError("mint credential: %v", err)
	}

	s.logger.Info("user logged in", zap.Int64("user_id", u.ID))
	s.persist()
	return AuthResult{Token: token, UserID: u.ID}, nil
}

// Logout prunes the credential's session, permanently invalidating it.
func (s *Service) Logout(token string) error {
	s.st.Lock()
	defer s.st.Unlock()

	u, sid, err := s.authorize(token)
	if err != nil {
		return err
	}
	store.DropSession(u, sid)

	s.logger.Info("user logged out", zap.Int64("user_id", u.ID))
	s.persist()
	return nil
}

// PasswordResetRequest issues a reset code and mails it out. Unknown or
// removed accounts are a silent success so the endpoint leaks nothing.
func (s *Service) PasswordResetRequest(email string) error {
	s.st.Lock()
	defer s.st.Unlock()

	u := s.st.UserByEmail(email)
	if u == nil || !u.Valid {
		return nil
	}

	code := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	s.setResetCode(email, code)

	if s.mailer != nil {
		if err := s.mailer.Send(email, "Huddle password reset", "Your password reset code is: "+code); err != nil {
			s.logger.Error("reset email failed", zap.String("email", email), zap.Error(err))
		}
	}
	return nil
}

// PasswordReset redeems a still-valid reset code for a new password. The
// code is single use.
func (s *Service) PasswordReset(code, newPassword string) error {
	s.st.Lock()
	defer s.st.Unlock()

	idx := -1
	for i, rc := range s.resetCodes {
		if rc.Code == code {
			idx = i
			break
		}
	}
	if idx < 0 {
		return inputError("invalid reset code")
	}
	if len(newPassword) < minPasswordLen {
		return inputError("password must be at least %d characters", minPasswordLen)
	}
	u := s.st.UserByEmail(s.resetCodes[idx].Email)
	if u == nil {
		return inputError("invalid reset code")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return inputError("hash password: %v", err)
	}
	u.PasswordHash = string(hash)
	s.resetCodes = append(s.resetCodes[:idx], s.resetCodes[idx+1:]...)

	s.logger.Info("password reset", zap.Int64("user_id", u.ID))
	s.persist()
	return nil
}

// setResetCode records the latest code for an email, overwriting a previous
// outstanding one.
func (s *Service) setResetCode(email, code string) {
	for i, rc := range s.resetCodes {
		if rc.Email == email {
			s.resetCodes[i].Code = code
			return
		}
	}
	s.resetCodes = append(s.resetCodes, resetCode{Email: email, Code: code})
}

func validName(name string) bool {
	n := len([]rune(name))
	return n >= 1 && n <= maxNameLen && isAlpha(name)
}

// generateHandle builds the lowercase concatenation of the names truncated
// to 20 characters. On collision it appends the smallest unused non-negative
// suffix, re-truncating the body so the whole handle stays within the limit.
func (s *Service) generateHandle(firstName, lastName string) string {
	base := strings.ToLower(firstName + lastName)
	if r := []rune(base); len(r) > maxHandleLen {
		base = string(r[:maxHandleLen])
	}
	if !s.st.HandleTaken(base) {
		return base
	}
	for n := 0; ; n++ {
		suffix := strconv.Itoa(n)
		body := base
		if room := maxHandleLen - len(suffix); len([]rune(body)) > room {
			body = string([]rune(body)[:room])
		}
		if candidate := body + suffix; !s.st.HandleTaken(candidate) {
			return candidate
		}
	}
}
