package router

import (
	"github.com/kollydap/workcheck/internal/attendance"
	"github.com/kollydap/workcheck/internal/config"
	"github.com/kollydap/workcheck/internal/handler"
	"github.com/kollydap/workcheck/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// siteGate 只有配置了站点坐标和半径时才启用距离校验
func siteGate(cfg config.AttendanceConfig) *attendance.SiteGate {
	if cfg.SiteLatitude == nil || cfg.SiteLongitude == nil || cfg.RadiusMeters <= 0 {
		return nil
	}
	return &attendance.SiteGate{
		Latitude:     *cfg.SiteLatitude,
		Longitude:    *cfg.SiteLongitude,
		RadiusMeters: cfg.RadiusMeters,
	}
}

// SetupRouter configures the Gin engine and all API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.CORS(cfg.CORS.AllowOrigins))

	store := attendance.NewStore(db)
	engine := attendance.NewEngine(store, siteGate(cfg.Attendance))
	query := attendance.NewQuery(store)

	authHandler := handler.NewAuthHandler(db, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	userHandler := handler.NewUserHandler(db, cfg.Security.BcryptCost)
	companyHandler := handler.NewCompanyHandler(db)
	attendanceHandler := handler.NewAttendanceHandler(engine, query, cfg.Attendance.PageSize)
	exportHandler := handler.NewExportHandler(db)

	api := r.Group("/api/v1")

	// 登录/注册接口（不需要鉴权）
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// 需要登录才能访问的接口
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret, db))

	protected.GET("/me", userHandler.Me)

	// 考勤
	protected.POST("/attendance/check-in", attendanceHandler.CheckIn)
	protected.POST("/attendance/check-out", attendanceHandler.CheckOut)
	protected.GET("/attendance/status", attendanceHandler.Status)
	protected.GET("/attendance/", attendanceHandler.List)
	protected.GET("/attendance/:id", attendanceHandler.GetByID)
	protected.GET("/attendance/export/csv", exportHandler.ExportCSV)
	protected.GET("/attendance/export/xlsx", exportHandler.ExportXLSX)

	// 公司（查询对成员开放）
	protected.GET("/companies/", companyHandler.List)
	protected.GET("/companies/:id", companyHandler.GetByID)

	// NFC 标签校验
	protected.POST("/tags/nfc/validate", handler.ValidateNFC)

	// 管理员接口
	admin := protected.Group("")
	admin.Use(middleware.AdminRequired())

	admin.POST("/attendance/", attendanceHandler.Create)
	admin.PUT("/attendance/:id", attendanceHandler.Update)

	admin.GET("/users/", userHandler.List)
	admin.POST("/users/", userHandler.Create)
	admin.PUT("/users/:id", userHandler.Update)
	admin.DELETE("/users/:id", userHandler.Delete)

	admin.POST("/companies/", companyHandler.Create)
	admin.PUT("/companies/:id", companyHandler.Update)
	admin.DELETE("/companies/:id", companyHandler.Delete)
	admin.GET("/companies/:id/qr", companyHandler.CheckInQR)

	// 用户详情：本人或管理员（权限在 handler 里判断）
	protected.GET("/users/:id", userHandler.GetByID)

	return r
}
