package response

import (
	"github.com/gin-gonic/gin"
)

// Success writes the flat envelope {success, message?, ...payload}. Payload
// keys are merged into the top level, e.g. {"success":true,"leave":{...}}.
func Success(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

func Error(c *gin.Context, status int, errorCode string, message string, details interface{}) {
	body := gin.H{
		"success": false,
		"code":    errorCode,
		"message": message,
	}
	if details != nil {
		body["details"] = details
	}
	c.JSON(status, body)
}
