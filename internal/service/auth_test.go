package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.Register("alice@example.com", "password123", "Alice", "Nguyen")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.NotZero(t, res.UserID)

	profile, err := svc.UserProfile(res.Token, res.UserID)
	require.NoError(t, err)
	require.Equal(t, "alicenguyen", profile.Handle)
	require.Equal(t, "alice@example.com", profile.Email)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "taken@example.com", "Taken", "User")

	cases := []struct {
		name     string
		email    string
		password string
		first    string
		last     string
	}{
		{"malformed email", "not-an-email", "password123", "Bob", "Li"},
		{"duplicate email", "taken@example.com", "password123", "Bob", "Li"},
		{"short password", "bob@example.com", "12345", "Bob", "Li"},
		{"empty first name", "bob@example.com", "password123", "", "Li"},
		{"non-alphabetic name", "bob@example.com", "password123", "B0b", "Li"},
		{"overlong last name", "bob@example.com", "password123", "Bob", strings.Repeat("a", 51)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(tc.email, tc.password, tc.first, tc.last)
			require.True(t, IsInput(err), "want input error, got %v", err)
		})
	}
}

func TestHandleCollisionSuffix(t *testing.T) {
	svc, _ := newTestService(t)

	first := register(t, svc, "js1@example.com", "John", "Smith")
	second := register(t, svc, "js2@example.com", "John", "Smith")
	third := register(t, svc, "js3@example.com", "John", "Smith")

	p1, err := svc.UserProfile(first.Token, first.UserID)
	require.NoError(t, err)
	p2, err := svc.UserProfile(first.Token, second.UserID)
	require.NoError(t, err)
	p3, err := svc.UserProfile(first.Token, third.UserID)
	require.NoError(t, err)

	require.Equal(t, "johnsmith", p1.Handle)
	require.Equal(t, "johnsmith0", p2.Handle)
	require.Equal(t, "johnsmith1", p3.Handle)
}

func TestHandleTruncation(t *testing.T) {
	svc, _ := newTestService(t)

	long := register(t, svc, "long1@example.com", "Maximiliana", "Oppenheimer")
	clash := register(t, svc, "long2@example.com", "Maximiliana", "Oppenheimer")

	p1, err := svc.UserProfile(long.Token, long.UserID)
	require.NoError(t, err)
	require.Len(t, p1.Handle, 20)

	// The suffix replaces the tail so the whole handle stays within 20.
	p2, err := svc.UserProfile(long.Token, clash.UserID)
	require.NoError(t, err)
	require.Len(t, p2.Handle, 20)
	require.Equal(t, p1.Handle[:19]+"0", p2.Handle)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	reg := register(t, svc, "carol@example.com", "Carol", "Danvers")

	res, err := svc.Login("carol@example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, reg.UserID, res.UserID)
	require.NotEqual(t, reg.Token, res.Token)

	// Both sessions stay usable independently.
	_, err = svc.ChannelsList(reg.Token)
	require.NoError(t, err)
	_, err = svc.ChannelsList(res.Token)
	require.NoError(t, err)

	_, err = svc.Login("carol@example.com", "wrongpassword")
	require.True(t, IsInput(err))
	_, err = svc.Login("nobody@example.com", "password123")
	require.True(t, IsInput(err))
	_, err = svc.Login("bad-email", "password123")
	require.True(t, IsInput(err))
}

func TestLogoutInvalidatesCredential(t *testing.T) {
	svc, _ := newTestService(t)
	reg := register(t, svc, "dave@example.com", "Dave", "Grohl")

	require.NoError(t, svc.Logout(reg.Token))

	_, err := svc.ChannelsList(reg.Token)
	require.True(t, IsAccess(err))

	err = svc.Logout(reg.Token)
	require.True(t, IsAccess(err))
}

func TestBogusTokenRejected(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "erin@example.com", "Erin", "Moran")

	_, err := svc.ChannelsList("not-a-token")
	require.True(t, IsAccess(err))
}

// captureMailer records outbound mail for assertions.
type captureMailer struct {
	to   []string
	body []string
}

func (m *captureMailer) Send(to, subject, body string) error {
	m.to = append(m.to, to)
	m.body = append(m.body, body)
	return nil
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _ := newTestService(t)
	mailer := &captureMailer{}
	svc.mailer = mailer

	register(t, svc, "frank@example.com", "Frank", "Ocean")

	require.NoError(t, svc.PasswordResetRequest("frank@example.com"))
	require.Len(t, mailer.to, 1)

	parts := strings.Split(mailer.body[0], ": ")
	require.Len(t, parts, 2)
	code := parts[1]

	err := svc.PasswordReset(code, "short")
	require.True(t, IsInput(err))

	require.NoError(t, svc.PasswordReset(code, "newpassword456"))

	_, err = svc.Login("frank@example.com", "password123")
	require.True(t, IsInput(err))
	_, err = svc.Login("frank@example.com", "newpassword456")
	require.NoError(t, err)

	// Codes are single use.
	err = svc.PasswordReset(code, "anotherpass789")
	require.True(t, IsInput(err))
}

func TestPasswordResetLatestCodeWins(t *testing.T) {
	svc, _ := newTestService(t)
	mailer := &captureMailer{}
	svc.mailer = mailer

	register(t, svc, "gina@example.com", "Gina", "Torres")

	require.NoError(t, svc.PasswordResetRequest("gina@example.com"))
	require.NoError(t, svc.PasswordResetRequest("gina@example.com"))
	require.Len(t, mailer.body, 2)

	first := strings.Split(mailer.body[0], ": ")[1]
	second := strings.Split(mailer.body[1], ": ")[1]

	err := svc.PasswordReset(first, "newpassword456")
	require.True(t, IsInput(err))
	require.NoError(t, svc.PasswordReset(second, "newpassword456"))
}

func TestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	svc, _ := newTestService(t)
	mailer := &captureMailer{}
	svc.mailer = mailer

	require.NoError(t, svc.PasswordResetRequest("ghost@example.com"))
	require.Empty(t, mailer.to)
}
