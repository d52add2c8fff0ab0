package endpoints

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/keepsake-app/keepsake/internal/db"
	"github.com/keepsake-app/keepsake/internal/http/api"
	"github.com/keepsake-app/keepsake/internal/http/api/auth/packets"
	"github.com/keepsake-app/keepsake/internal/http/middleware"
	"github.com/keepsake-app/keepsake/internal/model"
)

// AuthPublicModule mounts the public account endpoints
// (/register, /login, /logout).
func AuthPublicModule(sessions *middleware.SessionManager, store db.Store) api.Module {
	ctl := newAccountManager(sessions, store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/register", ctl.registerPage)
		c.PUBLIC_POST("/register", ctl.register)
		c.PUBLIC_GET("/login", ctl.loginPage)
		c.PUBLIC_POST("/login", ctl.login)
		c.PUBLIC_GET("/logout", ctl.logout)
	})
}

// AuthSessionModule mounts the endpoints that need an established session
// (/profile password change).
func AuthSessionModule(sessions *middleware.SessionManager, store db.Store) api.Module {
	ctl := newAccountManager(sessions, store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/profile", ctl.profilePage)
		c.POST("/profile", ctl.changePassword)
	})
}

type AccountManager struct {
	sessions *middleware.SessionManager
	store    db.Store
}

func newAccountManager(sessions *middleware.SessionManager, store db.Store) *AccountManager {
	return &AccountManager{sessions: sessions, store: store}
}

// GET /register
func (a *AccountManager) registerPage(ctx *gin.Context) {
	_, loggedIn := middleware.GetCurrentUser(ctx)
	ctx.HTML(http.StatusOK, "register.html", gin.H{"LoggedIn": loggedIn})
}

// POST /register
func (a *AccountManager) register(ctx *gin.Context) {
	var form packets.RegisterForm
	if err := ctx.ShouldBind(&form); err != nil {
		ctx.HTML(http.StatusBadRequest, "register.html", gin.H{
			"Error": "all fields are required and the email must be valid",
			"Form":  form,
		})
		return
	}

	if existing, _ := a.store.GetUserByEmail(form.Email); existing != nil {
		log.Warn().Str("email", form.Email).Msg("register email already in use")
		ctx.HTML(http.StatusConflict, "register.html", gin.H{
			"Error": "that email is already registered",
			"Form":  form,
		})
		return
	}

	hashed, err := middleware.HashPassword(form.Password)
	if err != nil {
		ctx.HTML(http.StatusInternalServerError, "register.html", gin.H{
			"Error": "could not create account",
			"Form":  form,
		})
		return
	}

	userID, err := a.store.CreateUser(form.Name, form.Email, hashed)
	if err != nil {
		// the unique indexes may race the lookup above
		if db.IsUniqueViolation(err) {
			ctx.HTML(http.StatusConflict, "register.html", gin.H{
				"Error": "that name or email is already registered",
				"Form":  form,
			})
			return
		}
		ctx.HTML(http.StatusInternalServerError, "register.html", gin.H{
			"Error": "could not create account",
			"Form":  form,
		})
		return
	}

	if err := a.sessions.Issue(ctx, userID); err != nil {
		log.Error().Err(err).Msg("failed to issue session after register")
		ctx.Redirect(http.StatusSeeOther, "/login")
		return
	}
	ctx.Redirect(http.StatusSeeOther, "/show")
}

// GET /login
func (a *AccountManager) loginPage(ctx *gin.Context) {
	_, loggedIn := middleware.GetCurrentUser(ctx)
	ctx.HTML(http.StatusOK, "login.html", gin.H{"LoggedIn": loggedIn})
}

// POST /login
func (a *AccountManager) login(ctx *gin.Context) {
	var form packets.LoginForm
	if err := ctx.ShouldBind(&form); err != nil {
		ctx.HTML(http.StatusBadRequest, "login.html", gin.H{
			"Error": "email and password are required",
			"Form":  form,
		})
		return
	}

	foundUser, err := a.store.GetUserByEmail(form.Email)
	if errors.Is(err, sql.ErrNoRows) {
		ctx.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Error": "no account is registered with that email",
			"Form":  form,
		})
		return
	}
	if err != nil {
		ctx.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"Error": "could not log in",
			"Form":  form,
		})
		return
	}

	if !middleware.CheckPassword(foundUser.HashedPassword, form.Password) {
		ctx.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Error": middleware.ErrInvalidCredentials.Error(),
			"Form":  form,
		})
		return
	}

	if err := a.sessions.Issue(ctx, foundUser.ID); err != nil {
		log.Error().Err(err).Msg("failed to issue session")
		ctx.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"Error": "could not log in",
			"Form":  form,
		})
		return
	}
	ctx.Redirect(http.StatusSeeOther, "/show")
}

// GET /logout
func (a *AccountManager) logout(ctx *gin.Context) {
	a.sessions.Clear(ctx)
	ctx.Redirect(http.StatusSeeOther, "/")
}

// GET /profile
func (a *AccountManager) profilePage(ctx *gin.Context, user *model.User) {
	ctx.HTML(http.StatusOK, "profile.html", gin.H{"LoggedIn": true, "User": user})
}

// POST /profile
func (a *AccountManager) changePassword(ctx *gin.Context, user *model.User) {
	var form packets.ChangePasswordForm
	if err := ctx.ShouldBind(&form); err != nil {
		ctx.HTML(http.StatusBadRequest, "profile.html", gin.H{
			"LoggedIn": true, "User": user,
			"Error": "all fields are required",
		})
		return
	}

	if !middleware.CheckPassword(user.HashedPassword, form.OldPassword) {
		ctx.HTML(http.StatusBadRequest, "profile.html", gin.H{
			"LoggedIn": true, "User": user,
			"Error": "old password is incorrect",
		})
		return
	}

	if form.NewPassword != form.RepeatPassword {
		ctx.HTML(http.StatusBadRequest, "profile.html", gin.H{
			"LoggedIn": true, "User": user,
			"Error": "new passwords do not match",
		})
		return
	}

	hashed, err := middleware.HashPassword(form.NewPassword)
	if err != nil {
		ctx.HTML(http.StatusInternalServerError, "profile.html", gin.H{
			"LoggedIn": true, "User": user,
			"Error": "could not change password",
		})
		return
	}

	if err := a.store.UpdateUserPassword(user.ID, hashed); err != nil {
		ctx.HTML(http.StatusInternalServerError, "profile.html", gin.H{
			"LoggedIn": true, "User": user,
			"Error": "could not change password",
		})
		return
	}

	ctx.HTML(http.StatusOK, "profile.html", gin.H{
		"LoggedIn": true, "User": user,
		"Message": "password updated",
	})
}
