package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kollydap/workcheck/internal/config"
	"github.com/kollydap/workcheck/internal/models"
	"github.com/kollydap/workcheck/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "router-test-secret"

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	user   models.User
	admin  models.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Company{}, &models.User{}, &models.Attendance{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	hash, _ := util.HashPassword("Password123", 4)
	user := models.User{Email: "user@example.com", PasswordHash: hash, FullName: "Employee", IsActive: true}
	admin := models.User{Email: "admin@example.com", PasswordHash: hash, FullName: "Admin", IsActive: true, IsAdmin: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.JWT.Secret = testSecret
	cfg.JWT.Issuer = "workcheck-test"
	cfg.JWT.ExpireHours = 1
	cfg.Security.BcryptCost = 4

	return &testEnv{
		router: SetupRouter(cfg, db),
		db:     db,
		user:   user,
		admin:  admin,
	}
}

func (env *testEnv) token(t *testing.T, u models.User) string {
	t.Helper()
	token, err := util.GenerateToken(testSecret, "workcheck-test", u.ID, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func (env *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

// TestAuthRequired 未登录访问受保护接口应 401
func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/attendance/status", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// TestStatus_NoRecordToday 今天没有记录时返回 404
func TestStatus_NoRecordToday(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, env.user)

	rec := env.do(t, http.MethodGet, "/api/v1/attendance/status", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404, body: %s", rec.Code, rec.Body.String())
	}
}

// TestCheckInFlow 签到 -> 重复签到冲突 -> 查询状态 -> 签退 -> 重复签退冲突
func TestCheckInFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, env.user)

	// 第一次签到
	rec := env.do(t, http.MethodPost, "/api/v1/attendance/check-in", token, gin.H{
		"check_in_method": "QR",
		"latitude":        39.9,
		"longitude":       116.4,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("check-in status = %d, body: %s", rec.Code, rec.Body.String())
	}

	// 已签到状态下再次签到 -> 400
	rec = env.do(t, http.MethodPost, "/api/v1/attendance/check-in", token, gin.H{
		"check_in_method": "MANUAL",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("double check-in status = %d, want 400", rec.Code)
	}

	// 当前状态应为打开的记录
	rec = env.do(t, http.MethodGet, "/api/v1/attendance/status", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status endpoint = %d, body: %s", rec.Code, rec.Body.String())
	}

	// 签退
	rec = env.do(t, http.MethodPost, "/api/v1/attendance/check-out", token, gin.H{
		"check_out_method": "MANUAL",
		"notes":            "left early",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("check-out status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			Attendance models.Attendance `json:"attendance"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode check-out response: %v", err)
	}
	if resp.Data.Attendance.CheckOut == nil {
		t.Error("check-out response should carry a check_out time")
	}
	if resp.Data.Attendance.Notes != "left early" {
		t.Errorf("notes = %q, want %q", resp.Data.Attendance.Notes, "left early")
	}

	// 没有打开的记录时签退 -> 400
	rec = env.do(t, http.MethodPost, "/api/v1/attendance/check-out", token, gin.H{
		"check_out_method": "MANUAL",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("double check-out status = %d, want 400", rec.Code)
	}
}

// TestCheckIn_InvalidMethod 枚举值在传输层校验
func TestCheckIn_InvalidMethod(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, env.user)

	rec := env.do(t, http.MethodPost, "/api/v1/attendance/check-in", token, gin.H{
		"check_in_method": "CARRIER_PIGEON",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid method status = %d, want 400", rec.Code)
	}
}

// TestAdminCreate 管理员补录；普通用户无权访问
func TestAdminCreate(t *testing.T) {
	env := newTestEnv(t)

	body := gin.H{
		"user_id":         env.user.ID,
		"check_in":        "2024-01-01T09:00:00",
		"check_out":       "2024-01-01T17:00:00",
		"check_in_method": "MANUAL",
	}

	// 普通用户 -> 拒绝
	rec := env.do(t, http.MethodPost, "/api/v1/attendance/", env.token(t, env.user), body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-admin create status = %d, want 400", rec.Code)
	}

	// 管理员 -> 成功
	rec = env.do(t, http.MethodPost, "/api/v1/attendance/", env.token(t, env.admin), body)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin create status = %d, body: %s", rec.Code, rec.Body.String())
	}
}

// TestGetByID_Ownership 本人和管理员可查，其他人 400
func TestGetByID_Ownership(t *testing.T) {
	env := newTestEnv(t)

	// 用户自己签到一条
	rec := env.do(t, http.MethodPost, "/api/v1/attendance/check-in", env.token(t, env.user), gin.H{
		"check_in_method": "MANUAL",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("check-in failed: %s", rec.Body.String())
	}
	var created struct {
		Data struct {
			Attendance models.Attendance `json:"attendance"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	id := created.Data.Attendance.ID

	// 本人可查
	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/attendance/%d", id), env.token(t, env.user), nil)
	if rec.Code != http.StatusOK {
		t.Errorf("owner get status = %d, want 200", rec.Code)
	}

	// 管理员可查
	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/attendance/%d", id), env.token(t, env.admin), nil)
	if rec.Code != http.StatusOK {
		t.Errorf("admin get status = %d, want 200", rec.Code)
	}

	// 其他普通用户 -> 400
	hash, _ := util.HashPassword("Password123", 4)
	other := models.User{Email: "other@example.com", PasswordHash: hash, IsActive: true}
	if err := env.db.Create(&other).Error; err != nil {
		t.Fatal(err)
	}
	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/attendance/%d", id), env.token(t, other), nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("stranger get status = %d, want 400", rec.Code)
	}

	// 不存在的 id -> 404
	rec = env.do(t, http.MethodGet, "/api/v1/attendance/99999", env.token(t, env.admin), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing id status = %d, want 404", rec.Code)
	}
}

// TestList_Scoping 管理员看全部，普通用户只看自己的
func TestList_Scoping(t *testing.T) {
	env := newTestEnv(t)

	if rec := env.do(t, http.MethodPost, "/api/v1/attendance/check-in", env.token(t, env.user), gin.H{"check_in_method": "MANUAL"}); rec.Code != http.StatusOK {
		t.Fatalf("user check-in failed: %s", rec.Body.String())
	}
	if rec := env.do(t, http.MethodPost, "/api/v1/attendance/check-in", env.token(t, env.admin), gin.H{"check_in_method": "MANUAL"}); rec.Code != http.StatusOK {
		t.Fatalf("admin check-in failed: %s", rec.Body.String())
	}

	type listResp struct {
		Data struct {
			Attendance []models.Attendance `json:"attendance"`
		} `json:"data"`
	}

	rec := env.do(t, http.MethodGet, "/api/v1/attendance/", env.token(t, env.admin), nil)
	var adminList listResp
	if err := json.Unmarshal(rec.Body.Bytes(), &adminList); err != nil {
		t.Fatal(err)
	}
	if len(adminList.Data.Attendance) != 2 {
		t.Errorf("admin sees %d records, want 2", len(adminList.Data.Attendance))
	}

	rec = env.do(t, http.MethodGet, "/api/v1/attendance/", env.token(t, env.user), nil)
	var userList listResp
	if err := json.Unmarshal(rec.Body.Bytes(), &userList); err != nil {
		t.Fatal(err)
	}
	if len(userList.Data.Attendance) != 1 {
		t.Errorf("user sees %d records, want 1", len(userList.Data.Attendance))
	}
	if len(userList.Data.Attendance) > 0 && userList.Data.Attendance[0].UserID != env.user.ID {
		t.Error("user list leaked another user's record")
	}
}

// TestLogin 登录换取 token
func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "user@example.com",
		"password": "Password123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.Token == "" {
		t.Fatal("login should return a token")
	}

	// 错误密码 -> 401
	rec = env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "user@example.com",
		"password": "WrongPassword",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad password status = %d, want 401", rec.Code)
	}
}
