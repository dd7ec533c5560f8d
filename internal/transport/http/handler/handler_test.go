package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"go-auth-api/internal/core/auth"
	"go-auth-api/internal/repo"
	"go-auth-api/internal/service"
	"go-auth-api/internal/testutil"
	"go-auth-api/internal/transport/http/middleware"
)

type stubMailer struct {
	token string
	sent  int
}

func (m *stubMailer) SendPasswordReset(_ context.Context, _, token string, _ time.Time) error {
	m.token = token
	m.sent++
	return nil
}

type fixture struct {
	r       *gin.Engine
	db      *gorm.DB
	jwter   *auth.JWTer
	mailer  *stubMailer
	userSvc *service.UserService
}

// 和正式 router 同构的最小挂载，不走全局注册表
func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	ur := repo.NewUserRepo(db)
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}
	mailer := &stubMailer{}

	authSvc := service.NewAuthService(ur, jwter, 5, zap.NewNop())
	userSvc := service.NewUserService(ur, nil, bcrypt.MinCost)
	pwSvc := service.NewPasswordService(db, mailer, bcrypt.MinCost, time.Hour, zap.NewNop())

	r := gin.New()
	api := r.Group("/api")
	public := api.Group("")
	authed := api.Group("", middleware.AuthJWT(jwter, ""))
	NewAuthHandler(authSvc).MountAPI(public, authed)
	NewUserHandler(userSvc).MountAPI(public, authed)
	NewPasswordHandler(pwSvc).MountAPI(public, authed)

	return &fixture{r: r, db: db, jwter: jwter, mailer: mailer, userSvc: userSvc}
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w, env
}

func (f *fixture) register(t *testing.T, email, password, role string) {
	t.Helper()
	w, _ := f.do(t, http.MethodPost, "/api/users/register", "",
		gin.H{"email": email, "password": password, "role": role})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func (f *fixture) login(t *testing.T, email, password string) string {
	t.Helper()
	w, env := f.do(t, http.MethodPost, "/api/auth/login", "",
		gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)

	w, env := f.do(t, http.MethodPost, "/api/users/register", "",
		gin.H{"email": "a@b.com", "password": "Abc12345!"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 0, env.Code)
	// 密码哈希绝不出现在响应里
	assert.NotContains(t, string(env.Data), "passwordHash")
	assert.NotContains(t, string(env.Data), "$2a$")

	tok := f.login(t, "a@b.com", "Abc12345!")
	claims, err := f.jwter.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", claims.Email)
}

func TestRegisterWeakPassword(t *testing.T) {
	f := newFixture(t)

	w, _ := f.do(t, http.MethodPost, "/api/users/register", "",
		gin.H{"email": "a@b.com", "password": "weakpass"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterDuplicate(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@b.com", "Abc12345!", "")

	w, _ := f.do(t, http.MethodPost, "/api/users/register", "",
		gin.H{"email": "A@B.com", "password": "Abc12345!"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@b.com", "Abc12345!", "")

	w, _ := f.do(t, http.MethodPost, "/api/auth/login", "",
		gin.H{"email": "a@b.com", "password": "Wrong123!"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginLockout(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@b.com", "Abc12345!", "")

	for i := 0; i < 5; i++ {
		w, _ := f.do(t, http.MethodPost, "/api/auth/login", "",
			gin.H{"email": "a@b.com", "password": "Wrong123!"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	// 锁定后密码正确也返回 423
	w, _ := f.do(t, http.MethodPost, "/api/auth/login", "",
		gin.H{"email": "a@b.com", "password": "Abc12345!"})
	assert.Equal(t, http.StatusLocked, w.Code)
}

func TestProfileAuth(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@b.com", "Abc12345!", "")

	// 无 token
	w, _ := f.do(t, http.MethodGet, "/api/users/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 坏 token
	w, _ = f.do(t, http.MethodGet, "/api/users/profile", "garbage.token.here", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	tok := f.login(t, "a@b.com", "Abc12345!")
	w, env := f.do(t, http.MethodGet, "/api/users/profile", tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var out struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, "a@b.com", out.User.Email)
}

func TestListUsersAdminOnly(t *testing.T) {
	f := newFixture(t)
	f.register(t, "user@b.com", "Abc12345!", "")
	f.register(t, "adm@b.com", "Abc12345!", "admin")

	userTok := f.login(t, "user@b.com", "Abc12345!")
	w, _ := f.do(t, http.MethodGet, "/api/users", userTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admTok := f.login(t, "adm@b.com", "Abc12345!")
	w, env := f.do(t, http.MethodGet, "/api/users", admTok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, 2, out.Count)
}

func TestUpdateProfileRoleIgnoredForNonAdmin(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@b.com", "Abc12345!", "")
	tok := f.login(t, "a@b.com", "Abc12345!")

	w, env := f.do(t, http.MethodPut, "/api/users/profile", tok,
		gin.H{"role": "admin"})
	assert.Equal(t, http.StatusOK, w.Code)
	var out struct {
		User struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, "user", out.User.Role)
}

func TestDeleteOtherUserRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@b.com", "Abc12345!", "")
	f.register(t, "victim@b.com", "Abc12345!", "")
	tok := f.login(t, "a@b.com", "Abc12345!")

	victim, err := repo.NewUserRepo(f.db).FindByEmail("victim@b.com")
	require.NoError(t, err)

	w, _ := f.do(t, http.MethodDelete, "/api/users/"+victim.ID, tok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestForgotPasswordGenericResponse(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@b.com", "Abc12345!", "")

	// 存在与否同一个 200 同一句话
	w1, env1 := f.do(t, http.MethodPost, "/api/password/forgot-password", "",
		gin.H{"email": "a@b.com"})
	w2, env2 := f.do(t, http.MethodPost, "/api/password/forgot-password", "",
		gin.H{"email": "nobody@b.com"})
	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.JSONEq(t, string(env1.Data), string(env2.Data))
	assert.Equal(t, 1, f.mailer.sent)
}

func TestResetPasswordFlow(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@b.com", "Abc12345!", "")

	w, _ := f.do(t, http.MethodPost, "/api/password/forgot-password", "",
		gin.H{"email": "a@b.com"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, f.mailer.token)

	w, env := f.do(t, http.MethodPost, "/api/password/validate-token", "",
		gin.H{"token": f.mailer.token, "email": "a@b.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	var v struct {
		Valid bool `json:"valid"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &v))
	assert.True(t, v.Valid)

	w, _ = f.do(t, http.MethodPost, "/api/password/reset-password", "",
		gin.H{"token": f.mailer.token, "email": "a@b.com", "newPassword": "New12345!"})
	assert.Equal(t, http.StatusOK, w.Code)

	// 旧密码失效，新密码可登录
	w, _ = f.do(t, http.MethodPost, "/api/auth/login", "",
		gin.H{"email": "a@b.com", "password": "Abc12345!"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	f.login(t, "a@b.com", "New12345!")

	// token 已消费
	w, _ = f.do(t, http.MethodPost, "/api/password/reset-password", "",
		gin.H{"token": f.mailer.token, "email": "a@b.com", "newPassword": "Other123!"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@b.com", "Abc12345!", "")
	tok := f.login(t, "a@b.com", "Abc12345!")

	// 新旧相同被 nefield 拦下
	w, _ := f.do(t, http.MethodPost, "/api/password/change-password", tok,
		gin.H{"currentPassword": "Abc12345!", "newPassword": "Abc12345!"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = f.do(t, http.MethodPost, "/api/password/change-password", tok,
		gin.H{"currentPassword": "nope", "newPassword": "New12345!"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = f.do(t, http.MethodPost, "/api/password/change-password", tok,
		gin.H{"currentPassword": "Abc12345!", "newPassword": "New12345!"})
	assert.Equal(t, http.StatusOK, w.Code)
	f.login(t, "a@b.com", "New12345!")
}
