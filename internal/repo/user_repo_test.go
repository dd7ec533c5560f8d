package repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-auth-api/internal/domain"
	"go-auth-api/internal/testutil"
)

func seedUser(t *testing.T, r *UserRepo, email string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:           email, // 测试里直接拿邮箱当 id 省事
		Email:        email,
		PasswordHash: "x",
		Role:         domain.RoleUser,
		IsActive:     true,
	}
	require.NoError(t, r.Create(u))
	return u
}

func TestCreateDuplicateEmail(t *testing.T) {
	r := NewUserRepo(testutil.NewDB(t))
	seedUser(t, r, "a@b.com")

	err := r.Create(&domain.User{ID: "other", Email: "a@b.com", PasswordHash: "x", Role: "user"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestFindMissingReturnsNil(t *testing.T) {
	r := NewUserRepo(testutil.NewDB(t))

	u, err := r.FindByEmail("nobody@b.com")
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = r.FindByID("nope")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestBumpLoginAttemptsLocksAtThreshold(t *testing.T) {
	r := NewUserRepo(testutil.NewDB(t))
	seedUser(t, r, "a@b.com")

	for i := 1; i <= 4; i++ {
		require.NoError(t, r.BumpLoginAttempts("a@b.com", 5))
		u, err := r.FindByEmail("a@b.com")
		require.NoError(t, err)
		assert.Equal(t, i, u.LoginAttempts)
		assert.True(t, u.IsActive, "still active at %d attempts", i)
	}

	require.NoError(t, r.BumpLoginAttempts("a@b.com", 5))
	u, err := r.FindByEmail("a@b.com")
	require.NoError(t, err)
	assert.Equal(t, 5, u.LoginAttempts)
	assert.False(t, u.IsActive)
}

func TestResetLoginAttempts(t *testing.T) {
	r := NewUserRepo(testutil.NewDB(t))
	seedUser(t, r, "a@b.com")
	require.NoError(t, r.BumpLoginAttempts("a@b.com", 5))

	now := time.Now()
	require.NoError(t, r.ResetLoginAttempts("a@b.com", now))

	u, err := r.FindByEmail("a@b.com")
	require.NoError(t, err)
	assert.Equal(t, 0, u.LoginAttempts)
	require.NotNil(t, u.LastLogin)
	assert.WithinDuration(t, now, *u.LastLogin, time.Second)
}

func TestSetActiveUnlockClearsAttempts(t *testing.T) {
	r := NewUserRepo(testutil.NewDB(t))
	seedUser(t, r, "a@b.com")
	for i := 0; i < 5; i++ {
		require.NoError(t, r.BumpLoginAttempts("a@b.com", 5))
	}

	require.NoError(t, r.SetActive("a@b.com", true))
	u, err := r.FindByEmail("a@b.com")
	require.NoError(t, err)
	assert.True(t, u.IsActive)
	assert.Equal(t, 0, u.LoginAttempts)
}

func TestSetActiveMissingUser(t *testing.T) {
	r := NewUserRepo(testutil.NewDB(t))
	assert.ErrorIs(t, r.SetActive("nope", false), domain.ErrUserNotFound)
}

func TestSoftDelete(t *testing.T) {
	r := NewUserRepo(testutil.NewDB(t))
	seedUser(t, r, "a@b.com")

	require.NoError(t, r.SoftDelete("a@b.com"))
	u, err := r.FindByEmail("a@b.com")
	require.NoError(t, err)
	assert.Nil(t, u)

	assert.ErrorIs(t, r.SoftDelete("a@b.com"), domain.ErrUserNotFound)
}

func TestSearch(t *testing.T) {
	db := testutil.NewDB(t)
	r := NewUserRepo(db)
	seedUser(t, r, "alice@b.com")
	seedUser(t, r, "bob@b.com")
	require.NoError(t, r.SoftDelete("bob@b.com"))

	us, total, err := r.Search("alice", false, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, us, 1)
	assert.Equal(t, "alice@b.com", us[0].Email)

	// 软删的默认不出现，with_deleted 才带出来
	_, total, err = r.Search("", false, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = r.Search("", true, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestListByRole(t *testing.T) {
	r := NewUserRepo(testutil.NewDB(t))
	seedUser(t, r, "a@b.com")
	admin := &domain.User{ID: "adm", Email: "adm@b.com", PasswordHash: "x", Role: domain.RoleAdmin, IsActive: true}
	require.NoError(t, r.Create(admin))

	us, err := r.ListByRole(domain.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, us, 1)
	assert.Equal(t, "adm@b.com", us[0].Email)
}
