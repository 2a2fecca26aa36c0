package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/kollydap/workcheck/internal/models"
	"github.com/kollydap/workcheck/internal/tag"
	"github.com/kollydap/workcheck/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CompanyHandler 公司管理接口
type CompanyHandler struct {
	DB *gorm.DB
}

func NewCompanyHandler(db *gorm.DB) *CompanyHandler {
	return &CompanyHandler{DB: db}
}

type companyReq struct {
	Name        string   `json:"name" binding:"required,max=128"`
	Address     string   `json:"address" binding:"max=255"`
	Description string   `json:"description" binding:"max=255"`
	IsActive    *bool    `json:"is_active"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// List 管理员看全部；普通用户只能看到自己所属的公司
func (h *CompanyHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return
	}

	if !user.IsAdmin {
		if user.CompanyID == nil {
			util.Success(c, util.Response{"companies": []models.Company{}})
			return
		}
		var company models.Company
		if err := h.DB.First(&company, *user.CompanyID).Error; err != nil {
			util.Success(c, util.Response{"companies": []models.Company{}})
			return
		}
		util.Success(c, util.Response{"companies": []models.Company{company}})
		return
	}

	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 {
		limit = 100
	}

	var companies []models.Company
	if err := h.DB.Offset(skip).Limit(limit).Find(&companies).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to list companies")
		return
	}

	util.Success(c, util.Response{"companies": companies})
}

// Create 管理员新建公司
func (h *CompanyHandler) Create(c *gin.Context) {
	var req companyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "company name is required")
		return
	}

	company := models.Company{
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
		IsActive:    true,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}
	if req.IsActive != nil {
		company.IsActive = *req.IsActive
	}

	if err := h.DB.Create(&company).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create company")
		return
	}

	util.Success(c, util.Response{"company": company})
}

// GetByID 管理员或本公司成员可查
func (h *CompanyHandler) GetByID(c *gin.Context) {
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

	var company models.Company
	if err := h.DB.First(&company, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Company not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load company")
		}
		return
	}

	if !user.IsAdmin && (user.CompanyID == nil || *user.CompanyID != company.ID) {
		util.Error(c, http.StatusBadRequest, util.CodePermission, "not enough permissions")
		return
	}

	// 返回公司的同时带上员工列表
	var employees []models.User
	_ = h.DB.Where("company_id = ?", company.ID).Find(&employees).Error

	util.Success(c, util.Response{
		"company":   company,
		"employees": employees,
	})
}

// Update 管理员更新公司信息
func (h *CompanyHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	var company models.Company
	if err := h.DB.First(&company, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Company not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load company")
		}
		return
	}

	var req companyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	company.Name = strings.TrimSpace(req.Name)
	company.Address = req.Address
	company.Description = req.Description
	if req.IsActive != nil {
		company.IsActive = *req.IsActive
	}
	if req.Latitude != nil {
		company.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		company.Longitude = req.Longitude
	}

	if err := h.DB.Save(&company).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update company")
		return
	}

	util.Success(c, util.Response{"company": company})
}

// Delete 管理员删除公司
func (h *CompanyHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	if err := h.DB.Delete(&models.Company{}, id).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete company")
		return
	}

	util.Success(c, util.Response{"message": "company deleted"})
}

// CheckInQR 为公司生成签到二维码（base64 PNG）
func (h *CompanyHandler) CheckInQR(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	var company models.Company
	if err := h.DB.First(&company, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Company not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load company")
		}
		return
	}

	size, _ := strconv.Atoi(c.DefaultQuery("size", "256"))

	payload := tag.NewTagPayload(company.ID)
	image, err := tag.GenerateQR(payload, size)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to generate QR code")
		return
	}

	util.Success(c, util.Response{
		"payload":  payload,
		"image":    image,
		"encoding": "base64/png",
	})
}
