package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reading-room-library/internal/models"
	"reading-room-library/internal/session"
)

func testUser(uid string) *models.UserRecord {
	return &models.UserRecord{
		UID:      uid,
		Nickname: "czytelnik",
		Email:    uid + "@czytelnia.pl",
	}
}

func TestCreateAndGetSession(t *testing.T) {
	m := session.NewManager()

	sess, err := m.CreateSession(testUser("u1"), false)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, "u1", sess.UID)
	assert.False(t, sess.IsAdmin)
	assert.True(t, sess.ExpiresAt.After(time.Now()))

	got, ok := m.GetSession(sess.ID)
	require.True(t, ok)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, "u1", got.User.UID)
}

func TestCreateSession_AdminFlag(t *testing.T) {
	m := session.NewManager()

	sess, err := m.CreateSession(testUser("admin"), true)
	require.NoError(t, err)
	assert.True(t, sess.IsAdmin)
}

func TestSessionIDsAreUnique(t *testing.T) {
	m := session.NewManager()
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		sess, err := m.CreateSession(testUser("u1"), false)
		require.NoError(t, err)
		assert.False(t, seen[sess.ID], "powtórzony identyfikator sesji")
		seen[sess.ID] = true
	}
}

func TestGetSession_Expired(t *testing.T) {
	m := session.NewManager()

	sess, err := m.CreateSession(testUser("u1"), false)
	require.NoError(t, err)

	sess.ExpiresAt = time.Now().Add(-time.Minute)

	_, ok := m.GetSession(sess.ID)
	assert.False(t, ok)
}

func TestGetSession_Unknown(t *testing.T) {
	m := session.NewManager()

	_, ok := m.GetSession("nie-istnieje")
	assert.False(t, ok)
}

func TestDeleteSession(t *testing.T) {
	m := session.NewManager()

	sess, err := m.CreateSession(testUser("u1"), false)
	require.NoError(t, err)

	m.DeleteSession(sess.ID)

	_, ok := m.GetSession(sess.ID)
	assert.False(t, ok)
}

func TestRefreshUser(t *testing.T) {
	m := session.NewManager()

	sess, err := m.CreateSession(testUser("u1"), false)
	require.NoError(t, err)

	updated := testUser("u1")
	updated.Nickname = "nowy-pseudonim"
	m.RefreshUser(sess.ID, updated)

	got, ok := m.GetSession(sess.ID)
	require.True(t, ok)
	assert.Equal(t, "nowy-pseudonim", got.User.Nickname)
}
