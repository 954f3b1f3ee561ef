package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewUser_Success(t *testing.T) {
	user, err := NewUser("Alice", "Alice@Example.com", "s3cretpass")

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, UserStatusActive, user.Status)
	assert.False(t, user.IsAdmin)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "s3cretpass", user.PasswordHash)
	assert.Len(t, user.GetDomainEvents(), 1)
}

func TestNewUser_InvalidUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
	}{
		{"empty", ""},
		{"too short", "ab"},
		{"too long", string(make([]byte, 51))},
		{"invalid characters", "user name!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.username, "a@example.com", "s3cretpass")
			assert.Error(t, err)
		})
	}
}

func TestNewUser_InvalidEmail(t *testing.T) {
	_, err := NewUser("alice", "not-an-email", "s3cretpass")
	assert.Error(t, err)

	_, err = NewUser("alice", "", "s3cretpass")
	assert.Error(t, err)
}

func TestNewUser_InvalidPassword(t *testing.T) {
	_, err := NewUser("alice", "a@example.com", "short")
	assert.Error(t, err)
}

func TestNewAdminUser(t *testing.T) {
	user, err := NewAdminUser("admin", "admin@example.com", "s3cretpass")

	assert.NoError(t, err)
	assert.True(t, user.IsAdmin)
}

func TestUser_VerifyPassword(t *testing.T) {
	user, err := NewUser("alice", "a@example.com", "s3cretpass")
	assert.NoError(t, err)

	assert.True(t, user.VerifyPassword("s3cretpass"))
	assert.False(t, user.VerifyPassword("wrongpass"))
}

func TestUser_ChangePassword(t *testing.T) {
	user, _ := NewUser("alice", "a@example.com", "s3cretpass")

	err := user.ChangePassword("s3cretpass", "newpassword")
	assert.NoError(t, err)
	assert.True(t, user.VerifyPassword("newpassword"))
	assert.False(t, user.VerifyPassword("s3cretpass"))
}

func TestUser_ChangePassword_WrongCurrent(t *testing.T) {
	user, _ := NewUser("alice", "a@example.com", "s3cretpass")

	err := user.ChangePassword("wrongpass", "newpassword")
	assert.Error(t, err)
	assert.True(t, user.VerifyPassword("s3cretpass"))
}

func TestUser_RecordLoginFailure_LocksAccount(t *testing.T) {
	user, _ := NewUser("alice", "a@example.com", "s3cretpass")

	locked := false
	for i := 0; i < 5; i++ {
		locked = user.RecordLoginFailure(5, 15*time.Minute)
	}

	assert.True(t, locked)
	assert.Equal(t, UserStatusLocked, user.Status)
	assert.True(t, user.IsLocked())
	assert.False(t, user.CanLogin())
}

func TestUser_IsLocked_ExpiresAutomatically(t *testing.T) {
	user, _ := NewUser("alice", "a@example.com", "s3cretpass")

	for i := 0; i < 5; i++ {
		user.RecordLoginFailure(5, -time.Minute) // already expired
	}

	assert.False(t, user.IsLocked())
	assert.True(t, user.CanLogin())
}

func TestUser_RecordLoginSuccess_ResetsFailures(t *testing.T) {
	user, _ := NewUser("alice", "a@example.com", "s3cretpass")
	user.RecordLoginFailure(5, 15*time.Minute)

	user.RecordLoginSuccess("203.0.113.7")

	assert.Equal(t, 0, user.FailedAttempts)
	assert.Nil(t, user.LockedUntil)
	assert.Equal(t, "203.0.113.7", user.LastLoginIP)
	assert.NotNil(t, user.LastLoginAt)
}

func TestUser_DeactivateAndReactivate(t *testing.T) {
	user, _ := NewUser("alice", "a@example.com", "s3cretpass")

	assert.NoError(t, user.Deactivate())
	assert.True(t, user.IsDeactivated())
	assert.False(t, user.CanLogin())

	// Double deactivation fails
	assert.Error(t, user.Deactivate())

	assert.NoError(t, user.Reactivate())
	assert.Equal(t, UserStatusActive, user.Status)
	assert.True(t, user.CanLogin())

	assert.Error(t, user.Reactivate())
}

func TestUser_GetDisplayNameOrUsername(t *testing.T) {
	user, _ := NewUser("alice", "a@example.com", "s3cretpass")
	assert.Equal(t, "alice", user.GetDisplayNameOrUsername())

	assert.NoError(t, user.SetDisplayName("Alice W."))
	assert.Equal(t, "Alice W.", user.GetDisplayNameOrUsername())
}
