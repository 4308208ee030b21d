package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

func ProfileID(c *gin.Context) uint {
	return c.MustGet(ContextProfileID).(uint)
}

func OrganizationID(c *gin.Context) uint {
	return c.MustGet(ContextOrganizationID).(uint)
}

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
