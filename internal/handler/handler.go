package handler

import (
	"github.com/kollydap/workcheck/internal/models"

	"github.com/gin-gonic/gin"
)

// currentUser 取出 AuthMiddleware 放进 context 的用户
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get("currentUser")
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// timeLayouts 接口接受的时间格式
var timeLayouts = []string{
	"2006-01-02T15:04:05Z07:00", // RFC3339
	"2006-01-02T15:04:05",
	"2006-01-02",
}
