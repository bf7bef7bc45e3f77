package response

import "github.com/gin-gonic/gin"

// 成功直接回 payload，失败统一 {"error": msg}；状态码走真实 HTTP 语义

func OK(c *gin.Context, data any) { c.JSON(200, data) }

func Created(c *gin.Context, data any) { c.JSON(201, data) }

func Err(c *gin.Context, status int, msg string) {
	if msg == "" {
		msg = StatusMsg[status]
	}
	c.JSON(status, gin.H{"error": msg})
}

func AbortErr(c *gin.Context, status int, msg string) {
	if msg == "" {
		msg = StatusMsg[status]
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
