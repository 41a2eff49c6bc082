// Package prayer contains the prayer wall endpoints. None of them need an account
package prayer

import (
	"net/http"

	"faithconnect/community-api/app/respond"
	"faithconnect/community-api/internal"

	"github.com/gin-gonic/gin"
)

type submitBody struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

func List(c *gin.Context, d *internal.Deps) {
	prayers, err := d.Prayers.ListPrayers(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, prayers)
}

func Submit(c *gin.Context, d *internal.Deps) {
	var data submitBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	p, err := d.Prayers.SubmitPrayer(c.Request.Context(), data.Name, data.Message)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

func Amen(c *gin.Context, d *internal.Deps) {
	p, err := d.Prayers.AmenPrayer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}
