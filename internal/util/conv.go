package util

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// MustParseUint converts a path/query parameter, returning 0 on failure.
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// ParseDay converts a day path parameter; returns -1 when not a valid
// non-negative integer.
func ParseDay(s string) int {
	day, err := strconv.Atoi(s)
	if err != nil || day < 0 {
		return -1
	}
	return day
}

// QueryInt reads an integer query parameter with a default.
func QueryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return v
}
