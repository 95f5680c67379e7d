package util

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIErrorParams struct {
	Msg string
	Err error
}

// Contains function is to check item whether is exist or not in a list and will return bool
func Contains(d string, dl []string) bool {
	for _, v := range dl {
		if v == d {
			return true
		}
	}
	return false
}

// HasPrefixIn reports whether s starts with any prefix in the list.
func HasPrefixIn(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if len(s) >= len(p) && s[:len(p)] == p {
			return true
		}
	}
	return false
}

// CallErrorNotFound is for return API response not found
func CallErrorNotFound(c *gin.Context, params APIErrorParams) {
	c.JSON(http.StatusNotFound, gin.H{"error": params.Msg})
}

// CallUserError is for return error from user side
func CallUserError(c *gin.Context, params APIErrorParams) {
	c.JSON(http.StatusBadRequest, gin.H{"error": params.Msg})
}

// CallServerError is for return API response server error. The underlying
// error is logged server-side only; the client gets the generic message.
func CallServerError(c *gin.Context, params APIErrorParams) {
	if params.Err != nil {
		log.Printf("server error: %s: %v", params.Msg, params.Err)
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": params.Msg})
}

// CallUserNotAuthorized is for return API response with status code 401
func CallUserNotAuthorized(c *gin.Context, params APIErrorParams) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": params.Msg})
}

// CallTooManyRequests is for return API response with status code 429
func CallTooManyRequests(c *gin.Context, params APIErrorParams) {
	c.JSON(http.StatusTooManyRequests, gin.H{"error": params.Msg})
}
