// Package auth contains the account endpoints: registration, email
// verification, login and the profile of the logged in user
package auth

import (
	"net/http"

	"faithconnect/community-api/app/respond"
	"faithconnect/community-api/internal"
	"faithconnect/community-api/internal/service"

	"github.com/gin-gonic/gin"
)

func Register(c *gin.Context, d *internal.Deps) {
	var data service.RegisterInput
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	res, err := d.Auth.Register(c.Request.Context(), data)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      res.User.ID,
		"name":    res.User.Name,
		"email":   res.User.Email,
		"country": res.User.Country,
		"message": res.Message,
	})
}
