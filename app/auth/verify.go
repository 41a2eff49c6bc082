package auth

import (
	"errors"
	"net/http"

	"faithconnect/community-api/app/respond"
	"faithconnect/community-api/internal"
	"faithconnect/community-api/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	verifiedPage = `<!DOCTYPE html>
<html>
<head><title>FaithConnect</title></head>
<body style="font-family: sans-serif; text-align: center; padding: 50px;">
<h1 style="color: #4CAF50;">Email verified!</h1>
<p>Your account is now active. You can close this page and log in.</p>
</body>
</html>`

	invalidPage = `<!DOCTYPE html>
<html>
<head><title>FaithConnect</title></head>
<body style="font-family: sans-serif; text-align: center; padding: 50px;">
<h1 style="color: #f44336;">Invalid or expired link</h1>
<p>This verification link can't be used anymore.</p>
</body>
</html>`
)

// Verify is opened straight from the mail client, so it answers with HTML
func Verify(c *gin.Context, d *internal.Deps) {
	_, err := d.Auth.VerifyEmail(c.Request.Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, service.ErrVerificationInvalid) {
			c.Data(http.StatusBadRequest, "text/html; charset=utf-8", []byte(invalidPage))
			return
		}

		respond.Error(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(verifiedPage))
}
