package main

import (
	"html/template"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/keepsake-app/keepsake/internal/db"
	"github.com/keepsake-app/keepsake/internal/http/api"
	authapi "github.com/keepsake-app/keepsake/internal/http/api/auth/endpoints"
	memoriesapi "github.com/keepsake-app/keepsake/internal/http/api/memories/endpoints"
	"github.com/keepsake-app/keepsake/internal/http/middleware"
	"github.com/keepsake-app/keepsake/internal/storage"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(
	r *gin.Engine,
	env Environment,
	store db.Store,
	storageSystem storage.Storage,
	sessions *middleware.SessionManager,
	tmpl *template.Template,
) {
	r.SetHTMLTemplate(tmpl)

	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
		},
		AllowCredentials: false,
	}))

	// every request gets the current user resolved from the session cookie
	r.Use(sessions.LoadUser())

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/",
		Auth:   false,
	},
		memoriesapi.LandingModule(),
		authapi.AuthPublicModule(sessions, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:   "/",
		Auth:     true,
		Sessions: sessions,
	},
		memoriesapi.MemoryModule(store, storageSystem),
		authapi.AuthSessionModule(sessions, store),
	)

	// Static content
	if !env.UseSpaces {
		r.Static("/uploads", "./uploads")
	}
}
