package post

import (
	"net/http"

	"faithconnect/community-api/app/respond"
	"faithconnect/community-api/internal"

	"github.com/gin-gonic/gin"
)

// Like is public and not deduplicated, each call adds one like
func Like(c *gin.Context, d *internal.Deps) {
	p, err := d.Posts.LikePost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}
