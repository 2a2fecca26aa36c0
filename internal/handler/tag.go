package handler

import (
	"net/http"

	"github.com/kollydap/workcheck/internal/tag"
	"github.com/kollydap/workcheck/internal/util"

	"github.com/gin-gonic/gin"
)

type nfcValidateReq struct {
	TagID      string `json:"tag_id" binding:"required"`
	ExpectedID string `json:"expected_id"`
}

// ValidateNFC NFC 标签校验（签到辅助凭证）
func ValidateNFC(c *gin.Context) {
	var req nfcValidateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	result := tag.ValidateNFC(req.TagID, req.ExpectedID)
	util.Success(c, util.Response{"result": result})
}
