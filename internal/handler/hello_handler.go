package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pairplay/backend/internal/auth"
)

// Hello godoc
// @Summary      Greeting
// @Description  Public. Includes the caller's email when a valid token is sent.
// @Tags         misc
// @Produce      json
// @Success      200  {object}  map[string]string "{"message": "Hello from the pairplay API!"}"
// @Router       /hello [get]
func Hello(c *gin.Context) {
	resp := gin.H{"message": "Hello from the pairplay API!"}
	if _, ok := auth.UserID(c); ok {
		resp["email"] = auth.Email(c)
	}
	c.JSON(http.StatusOK, resp)
}
