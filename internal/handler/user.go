package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/kollydap/workcheck/internal/models"
	"github.com/kollydap/workcheck/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserHandler 用户管理接口
type UserHandler struct {
	DB         *gorm.DB
	BcryptCost int
}

func NewUserHandler(db *gorm.DB, bcryptCost int) *UserHandler {
	return &UserHandler{DB: db, BcryptCost: bcryptCost}
}

func userResp(u *models.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"full_name":  u.FullName,
		"is_active":  u.IsActive,
		"is_admin":   u.IsAdmin,
		"company_id": u.CompanyID,
		"created_at": u.CreatedAt,
	}
}

// Me 返回当前登录用户信息（需要经过 AuthMiddleware）
func (h *UserHandler) Me(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return
	}

	util.Success(c, util.Response{"user": userResp(user)})
}

// List 管理员列出用户
func (h *UserHandler) List(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 {
		limit = 100
	}

	var users []models.User
	if err := h.DB.Offset(skip).Limit(limit).Find(&users).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to list users")
		return
	}

	items := make([]gin.H, 0, len(users))
	for i := range users {
		items = append(items, userResp(&users[i]))
	}
	util.Success(c, util.Response{"users": items})
}

type createUserReq struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FullName  string `json:"full_name" binding:"max=64"`
	IsActive  *bool  `json:"is_active"`
	IsAdmin   bool   `json:"is_admin"`
	CompanyID *uint  `json:"company_id"`
}

// Create 管理员创建用户（可直接指定角色和公司）
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !emailRe.MatchString(req.Email) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid email address")
		return
	}
	if len(req.Password) < 8 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "password must be at least 8 characters")
		return
	}

	var count int64
	if err := h.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to check email")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "the user with this email already exists in the system")
		return
	}

	hash, err := util.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to hash password")
		return
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		IsActive:     true,
		IsAdmin:      req.IsAdmin,
		CompanyID:    req.CompanyID,
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.DB.Create(&user).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create user")
		return
	}

	util.Success(c, util.Response{"user": userResp(&user)})
}

// GetByID 本人或管理员可查
func (h *UserHandler) GetByID(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	if uint(id) == user.ID {
		util.Success(c, util.Response{"user": userResp(user)})
		return
	}
	if !user.IsAdmin {
		util.Error(c, http.StatusBadRequest, util.CodePermission, "not enough permissions")
		return
	}

	var target models.User
	if err := h.DB.First(&target, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "User not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load user")
		}
		return
	}

	util.Success(c, util.Response{"user": userResp(&target)})
}

type updateUserReq struct {
	Password  string  `json:"password"`
	FullName  *string `json:"full_name"`
	IsActive  *bool   `json:"is_active"`
	IsAdmin   *bool   `json:"is_admin"`
	CompanyID *uint   `json:"company_id"`
}

// Update 管理员更新用户，密码传入时重新哈希
func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	var target models.User
	if err := h.DB.First(&target, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "User not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load user")
		}
		return
	}

	var req updateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	if req.Password != "" {
		if len(req.Password) < 8 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "password must be at least 8 characters")
			return
		}
		hash, err := util.HashPassword(req.Password, h.BcryptCost)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to hash password")
			return
		}
		target.PasswordHash = hash
	}
	if req.FullName != nil {
		target.FullName = *req.FullName
	}
	if req.IsActive != nil {
		target.IsActive = *req.IsActive
	}
	if req.IsAdmin != nil {
		target.IsAdmin = *req.IsAdmin
	}
	if req.CompanyID != nil {
		target.CompanyID = req.CompanyID
	}

	if err := h.DB.Save(&target).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update user")
		return
	}

	util.Success(c, util.Response{"user": userResp(&target)})
}

// Delete 管理员删除用户
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	var target models.User
	if err := h.DB.First(&target, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "User not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load user")
		}
		return
	}

	if err := h.DB.Delete(&target).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete user")
		return
	}

	util.Success(c, util.Response{"user": userResp(&target)})
}
