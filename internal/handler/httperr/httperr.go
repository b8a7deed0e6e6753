// Package httperr defines the single error payload shape this API emits,
// a flat {"error": "..."} object.
package httperr

import (
	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int    `json:"-"`
	Error  string `json:"error"`
}

func New(status int, msg string) Response {
	return Response{Status: status, Error: msg}
}

// Abort writes the payload and records the underlying error on the gin
// context so the logging middleware can report what actually went wrong;
// the client only sees msg.
func Abort(c *gin.Context, status int, err error, msg string) {
	resp := New(status, msg)

	if err != nil {
		_ = c.Error(&gin.Error{
			Err:  err,
			Type: gin.ErrorTypePublic,
			Meta: resp,
		})
	}
	c.AbortWithStatusJSON(status, resp)
}
