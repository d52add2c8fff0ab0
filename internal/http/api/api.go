package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/keepsake-app/keepsake/internal/http/middleware"
	"github.com/keepsake-app/keepsake/internal/model"
)

type HandlerFuncWithAuth func(ctx *gin.Context, user *model.User)
type HandlerFunc func(ctx *gin.Context)

// Controller is the gin group a Module attaches its endpoints to.
type Controller struct {
	Group *gin.RouterGroup
}

func (c *Controller) GET(path string, h HandlerFuncWithAuth) {
	c.Group.GET(path, ResolveEndpointWithAuth(h))
}

func (c *Controller) POST(path string, h HandlerFuncWithAuth) {
	c.Group.POST(path, ResolveEndpointWithAuth(h))
}

func (c *Controller) PUBLIC_GET(path string, h HandlerFunc) {
	c.Group.GET(path, gin.HandlerFunc(h))
}

func (c *Controller) PUBLIC_POST(path string, h HandlerFunc) {
	c.Group.POST(path, gin.HandlerFunc(h))
}

// ResolveEndpointWithAuth hands the current user to the handler, bouncing
// anonymous requests to the login page.
func ResolveEndpointWithAuth(h HandlerFuncWithAuth) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := middleware.GetCurrentUser(ctx)
		if !ok {
			ctx.Redirect(http.StatusSeeOther, "/login")
			ctx.Abort()
			return
		}
		h(ctx, user)
	}
}
