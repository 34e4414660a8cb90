package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the wire shape of every reply. Code 0 means success; non-zero
// codes follow each handler group's numbering (400xx bad input, 404xx not
// found, 500xx storage/delivery) so kiosk clients can branch on the code
// without parsing the message.
type Envelope struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success writes a 200 reply wrapping the payload.
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, Envelope{Message: "success", Data: data})
}

// Error writes a failure reply carrying the handler's taxonomy code.
func Error(ctx *gin.Context, status, code int, message string) {
	ctx.JSON(status, Envelope{Code: code, Message: message})
}
