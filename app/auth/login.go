package auth

import (
	"net/http"

	"faithconnect/community-api/app/respond"
	"faithconnect/community-api/internal"
	"faithconnect/community-api/internal/service"

	"github.com/gin-gonic/gin"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	service.PublicUser
	Token string `json:"token"`
}

func Login(c *gin.Context, d *internal.Deps) {
	var data loginBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	sess, err := d.Auth.Login(c.Request.Context(), data.Email, data.Password)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.Set("userID", sess.User.ID)
	c.JSON(http.StatusOK, sessionResponse{sess.User, sess.Token})
}
