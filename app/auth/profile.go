package auth

import (
	"net/http"

	"faithconnect/community-api/app/respond"
	"faithconnect/community-api/internal"
	"faithconnect/community-api/internal/service"

	"github.com/gin-gonic/gin"
)

func ProfileFetch(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	user, err := d.Auth.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ProfileUpdate applies a partial update. Fields missing from the body are
// left untouched
func ProfileUpdate(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	var data service.ProfileUpdate
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	sess, err := d.Auth.UpdateProfile(c.Request.Context(), userID, data)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionResponse{sess.User, sess.Token})
}
