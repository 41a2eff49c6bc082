package post

import (
	"net/http"

	"faithconnect/community-api/app/respond"
	"faithconnect/community-api/internal"

	"github.com/gin-gonic/gin"
)

type createBody struct {
	Content string `json:"content"`
}

func Create(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	var data createBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	p, err := d.Posts.CreatePost(c.Request.Context(), userID, data.Content)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}
