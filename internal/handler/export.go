package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/kollydap/workcheck/internal/models"
	"github.com/kollydap/workcheck/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler 导出考勤报表
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

var exportHeaders = []string{"Record ID", "User ID", "Check-in", "Check-out", "In Method", "Out Method", "Latitude", "Longitude", "Notes"}

// loadRecords 管理员导出全部，普通用户只导出自己的
func (h *ExportHandler) loadRecords(user *models.User) ([]models.Attendance, error) {
	q := h.DB.Model(&models.Attendance{})
	if !user.IsAdmin {
		q = q.Where("user_id = ?", user.ID)
	}

	var records []models.Attendance
	err := q.Order("check_in DESC").Find(&records).Error
	return records, err
}

func exportRow(rec *models.Attendance) []string {
	checkOut := ""
	if rec.CheckOut != nil {
		checkOut = rec.CheckOut.Format("2006-01-02 15:04:05")
	}
	lat, lon := "", ""
	if rec.Latitude != nil {
		lat = fmt.Sprintf("%.6f", *rec.Latitude)
	}
	if rec.Longitude != nil {
		lon = fmt.Sprintf("%.6f", *rec.Longitude)
	}

	return []string{
		fmt.Sprintf("%d", rec.ID),
		fmt.Sprintf("%d", rec.UserID),
		rec.CheckIn.Format("2006-01-02 15:04:05"),
		checkOut,
		rec.CheckInMethod,
		rec.CheckOutMethod,
		lat,
		lon,
		rec.Notes,
	}
}

// ExportCSV 导出考勤为 CSV
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return
	}

	records, err := h.loadRecords(user)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load attendance")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"attendance_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// UTF-8 BOM（让 Excel 正确识别）
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer.Write(exportHeaders)
	for i := range records {
		writer.Write(exportRow(&records[i]))
	}
}

// ExportXLSX 导出考勤为 XLSX
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return
	}

	records, err := h.loadRecords(user)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load attendance")
		return
	}

	f := excelize.NewFile()
	sheetName := "Attendance"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create sheet")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for idx := range records {
		row := exportRow(&records[idx])
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, idx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.SetColWidth(sheetName, "A", "B", 10)
	f.SetColWidth(sheetName, "C", "D", 20)
	f.SetColWidth(sheetName, "E", "H", 12)
	f.SetColWidth(sheetName, "I", "I", 40)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"attendance_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
	}
}
