package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/kollydap/workcheck/internal/attendance"
	"github.com/kollydap/workcheck/internal/util"

	"github.com/gin-gonic/gin"
)

// AttendanceHandler 负责签到/签退和考勤查询接口
type AttendanceHandler struct {
	Engine   *attendance.Engine
	Query    *attendance.Query
	PageSize int
}

func NewAttendanceHandler(engine *attendance.Engine, query *attendance.Query, pageSize int) *AttendanceHandler {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &AttendanceHandler{Engine: engine, Query: query, PageSize: pageSize}
}

// ---------- 请求结构 ----------

type checkInReq struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Method    string   `json:"check_in_method" binding:"required,oneof=QR NFC MANUAL"`
	Notes     string   `json:"notes" binding:"max=1000"`
}

type checkOutReq struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Method    string   `json:"check_out_method" binding:"required,oneof=QR NFC MANUAL"`
	Notes     string   `json:"notes" binding:"max=1000"`
}

type adminCreateReq struct {
	UserID         uint     `json:"user_id" binding:"required"`
	CheckIn        string   `json:"check_in" binding:"required"`
	CheckOut       string   `json:"check_out"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	CheckInMethod  string   `json:"check_in_method" binding:"omitempty,oneof=QR NFC MANUAL"`
	CheckOutMethod string   `json:"check_out_method" binding:"omitempty,oneof=QR NFC MANUAL"`
	Notes          string   `json:"notes" binding:"max=1000"`
}

func parseAPITime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// mapEngineErr 把业务错误翻译成 HTTP 返回
func mapEngineErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		util.Error(c, http.StatusBadRequest, util.CodeConflict, "You are already checked in. Please check out first.")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		util.Error(c, http.StatusBadRequest, util.CodeConflict, "You are not checked in. Please check in first.")
	case errors.Is(err, attendance.ErrOutsideRadius):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "You are too far from the authorized check-in site.")
	case errors.Is(err, attendance.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Attendance record not found")
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "attendance operation failed")
	}
}

// ---------- 签到 ----------

func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return
	}

	var req checkInReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	rec, err := h.Engine.CheckIn(user.ID, req.Latitude, req.Longitude, req.Method, req.Notes)
	if err != nil {
		mapEngineErr(c, err)
		return
	}

	util.Success(c, util.Response{"attendance": rec})
}

// ---------- 签退 ----------

func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return
	}

	var req checkOutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	rec, err := h.Engine.CheckOut(user.ID, req.Latitude, req.Longitude, req.Method, req.Notes)
	if err != nil {
		mapEngineErr(c, err)
		return
	}

	util.Success(c, util.Response{"attendance": rec})
}

// Status 返回当前用户今天最近的一条考勤记录
func (h *AttendanceHandler) Status(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return
	}

	status, err := h.Engine.CurrentStatus(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load status")
		return
	}
	if status == nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "No active attendance record found.")
		return
	}

	util.Success(c, util.Response{"attendance": status})
}

// List 考勤列表：管理员可以看全部（可选时间范围），普通用户只能看自己的
func (h *AttendanceHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return
	}

	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit <= 0 {
		limit = h.PageSize
	}

	startStr := c.Query("start_date")
	endStr := c.Query("end_date")

	var (
		start, end time.Time
		hasRange   bool
	)
	if startStr != "" && endStr != "" {
		var ok bool
		if start, ok = parseAPITime(startStr); !ok {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid start_date")
			return
		}
		if end, ok = parseAPITime(endStr); !ok {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid end_date")
			return
		}
		hasRange = true
	}

	var (
		records interface{}
		err     error
	)
	switch {
	case user.IsAdmin && hasRange:
		records, err = h.Query.ListByDateRange(start, end, nil, skip, limit)
	case user.IsAdmin:
		records, err = h.Query.List(skip, limit)
	case hasRange:
		records, err = h.Query.ListByDateRange(start, end, &user.ID, skip, limit)
	default:
		records, err = h.Query.ListByUser(user.ID, skip, limit)
	}
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to list attendance")
		return
	}

	util.Success(c, util.Response{"attendance": records})
}

// Create 管理员补录：接收显式 check_in，绕过签到状态机
func (h *AttendanceHandler) Create(c *gin.Context) {
	var req adminCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	checkIn, ok := parseAPITime(req.CheckIn)
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid check_in time")
		return
	}

	in := attendance.CreateInput{
		UserID:         req.UserID,
		CheckIn:        checkIn,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		CheckInMethod:  req.CheckInMethod,
		CheckOutMethod: req.CheckOutMethod,
		Notes:          req.Notes,
	}
	if req.CheckOut != "" {
		checkOut, ok := parseAPITime(req.CheckOut)
		if !ok {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid check_out time")
			return
		}
		in.CheckOut = &checkOut
	}

	rec, err := h.Query.Create(in)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create attendance")
		return
	}

	util.Success(c, util.Response{"attendance": rec})
}

// GetByID 单条查询：本人或管理员
func (h *AttendanceHandler) GetByID(c *gin.Context) {
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

	rec, err := h.Query.GetByID(uint(id))
	if err != nil {
		mapEngineErr(c, err)
		return
	}

	if !user.IsAdmin && rec.UserID != user.ID {
		util.Error(c, http.StatusBadRequest, util.CodePermission, "not enough permissions")
		return
	}

	util.Success(c, util.Response{"attendance": rec})
}

// Update 管理员修正：稀疏更新，只改请求里出现的字段
func (h *AttendanceHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	// 打卡方式在传输层校验枚举值
	for _, key := range []string{"check_in_method", "check_out_method"} {
		if v, ok := fields[key]; ok && v != nil {
			s, isStr := v.(string)
			if !isStr || (s != "QR" && s != "NFC" && s != "MANUAL") {
				util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid "+key)
				return
			}
		}
	}

	rec, err := h.Query.GetByID(uint(id))
	if err != nil {
		mapEngineErr(c, err)
		return
	}

	rec, err = h.Query.Update(rec, fields)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update attendance")
		return
	}

	util.Success(c, util.Response{"attendance": rec})
}
