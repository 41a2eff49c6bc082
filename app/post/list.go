// Package post contains the endpoints of the community feed
package post

import (
	"net/http"

	"faithconnect/community-api/app/respond"
	"faithconnect/community-api/internal"

	"github.com/gin-gonic/gin"
)

func List(c *gin.Context, d *internal.Deps) {
	posts, err := d.Posts.ListPosts(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}
