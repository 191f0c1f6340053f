package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 身份由認證協作者驗證後放進 header，核心信任它，不再驗證憑證
const (
	HeaderAttendantID = "X-Attendant-ID"
	HeaderRoles       = "X-Roles"

	ctxAttendantID = "attendant_id"
	ctxRoles       = "roles"
)

// Identity 把驗證過的身份從 header 帶進 gin context，
// 所有 Dispatcher/CounterRegistry 呼叫都以明確參數傳遞，不留全域狀態。
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxAttendantID, c.GetHeader(HeaderAttendantID))
		c.Set(ctxRoles, c.GetHeader(HeaderRoles))
		c.Next()
	}
}

// RequireAttendant 擋掉沒有帶身份的服務人員操作
func RequireAttendant() gin.HandlerFunc {
	return func(c *gin.Context) {
		if AttendantID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing attendant identity",
			})
			return
		}
		c.Next()
	}
}

func AttendantID(c *gin.Context) string {
	return c.GetString(ctxAttendantID)
}
