package handler

import "github.com/gin-gonic/gin"

// currentUserID pulls the authenticated account id the auth middleware stored
// on the request context. Empty string means the route was not gated.
func currentUserID(c *gin.Context) string {
	v, ok := c.Get("userID")
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}
