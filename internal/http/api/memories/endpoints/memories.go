package endpoints

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/keepsake-app/keepsake/internal/db"
	"github.com/keepsake-app/keepsake/internal/http/api"
	"github.com/keepsake-app/keepsake/internal/http/api/memories/packets"
	"github.com/keepsake-app/keepsake/internal/http/middleware"
	"github.com/keepsake-app/keepsake/internal/model"
	"github.com/keepsake-app/keepsake/internal/storage"
)

type MemoryController struct {
	store   db.Store
	storage storage.Storage
}

func newMemoryController(store db.Store, storage storage.Storage) *MemoryController {
	return &MemoryController{store: store, storage: storage}
}

// LandingModule mounts the public landing page.
func LandingModule() api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/", home)
	})
}

// MemoryModule mounts the authenticated memory CRUD pages.
func MemoryModule(store db.Store, storage storage.Storage) api.Module {
	ctl := newMemoryController(store, storage)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/show", ctl.show)
		c.GET("/add", ctl.addPage)
		c.POST("/add", ctl.add)
		c.GET("/edit/:id", ctl.editPage)
		c.POST("/edit/:id", ctl.edit)
		c.GET("/delete/:id", ctl.delete)
	})
}

// GET /
func home(ctx *gin.Context) {
	_, loggedIn := middleware.GetCurrentUser(ctx)
	ctx.HTML(http.StatusOK, "index.html", gin.H{"LoggedIn": loggedIn})
}

func notFoundPage(ctx *gin.Context) {
	ctx.HTML(http.StatusNotFound, "notfound.html", gin.H{})
}

func memoryView(m model.Memory) packets.MemoryView {
	return packets.MemoryView{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		ImageURL:    m.ImageURL,
		DisplayURL:  storage.DisplayURL(m.ImageURL),
	}
}

// loads the memory and enforces that user owns it. A foreign or missing id
// both come back as not-found so ids can't be probed.
func (c *MemoryController) ownedMemory(ctx *gin.Context, user *model.User) (model.Memory, bool) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		log.Error().Str("id", ctx.Param("id")).Msg("[memories] invalid memory id")
		notFoundPage(ctx)
		return model.Memory{}, false
	}

	m, err := c.store.GetMemoryByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		notFoundPage(ctx)
		return model.Memory{}, false
	}
	if err != nil {
		ctx.HTML(http.StatusInternalServerError, "notfound.html", gin.H{})
		return model.Memory{}, false
	}

	if m.OwnerID != user.ID {
		log.Warn().Int("owner", m.OwnerID).Int("user", user.ID).Msg("[memories] foreign memory access")
		notFoundPage(ctx)
		return model.Memory{}, false
	}
	return m, true
}

// GET /show
func (c *MemoryController) show(ctx *gin.Context, user *model.User) {
	all, err := c.store.ListMemoriesByOwner(user.ID)
	if err != nil {
		ctx.HTML(http.StatusInternalServerError, "show.html", gin.H{
			"LoggedIn": true,
			"Error":    "could not load memories",
		})
		return
	}

	out := make([]packets.MemoryView, 0, len(all))
	for _, m := range all {
		out = append(out, memoryView(m))
	}

	ctx.HTML(http.StatusOK, "show.html", gin.H{
		"LoggedIn": true,
		"Memories": out,
	})
}

// GET /add
func (c *MemoryController) addPage(ctx *gin.Context, user *model.User) {
	ctx.HTML(http.StatusOK, "add.html", gin.H{"LoggedIn": true})
}

// POST /add
func (c *MemoryController) add(ctx *gin.Context, user *model.User) {
	var form packets.NewMemoryForm
	if err := ctx.ShouldBind(&form); err != nil {
		ctx.HTML(http.StatusBadRequest, "add.html", gin.H{
			"LoggedIn": true,
			"Error":    "title and a description of at most 255 characters are required",
			"Form":     form,
		})
		return
	}

	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		log.Warn().Err(err).Msg("[memories] add: missing image")
		ctx.HTML(http.StatusBadRequest, "add.html", gin.H{
			"LoggedIn": true,
			"Error":    "an image is required",
			"Form":     form,
		})
		return
	}

	imageURL, err := c.storage.SaveFile(fileHeader, fileHeader.Filename)
	if err != nil {
		log.Error().Err(err).Msg("[memories] add: upload failed")
		ctx.HTML(http.StatusBadGateway, "add.html", gin.H{
			"LoggedIn": true,
			"Error":    "could not upload the image, nothing was saved",
			"Form":     form,
		})
		return
	}

	if _, err := c.store.CreateMemory(user.ID, form.Title, form.Description, imageURL); err != nil {
		log.Error().Err(err).Msg("[memories] add: db create failed")
		ctx.HTML(http.StatusInternalServerError, "add.html", gin.H{
			"LoggedIn": true,
			"Error":    "could not save the memory",
			"Form":     form,
		})
		return
	}

	ctx.Redirect(http.StatusSeeOther, "/show")
}

// GET /edit/:id
func (c *MemoryController) editPage(ctx *gin.Context, user *model.User) {
	m, ok := c.ownedMemory(ctx, user)
	if !ok {
		return
	}
	ctx.HTML(http.StatusOK, "edit.html", gin.H{
		"LoggedIn": true,
		"Memory":   memoryView(m),
	})
}

// POST /edit/:id
func (c *MemoryController) edit(ctx *gin.Context, user *model.User) {
	m, ok := c.ownedMemory(ctx, user)
	if !ok {
		return
	}

	var form packets.EditMemoryForm
	if err := ctx.ShouldBind(&form); err != nil {
		ctx.HTML(http.StatusBadRequest, "edit.html", gin.H{
			"LoggedIn": true,
			"Error":    "a description of at most 255 characters is required",
			"Memory":   memoryView(m),
		})
		return
	}

	// the image is optional on edit; the stored URL only changes when a new
	// file is supplied
	var imageURL *string
	if fileHeader, err := ctx.FormFile("image"); err == nil {
		uploaded, err := c.storage.SaveFile(fileHeader, fileHeader.Filename)
		if err != nil {
			log.Error().Err(err).Msg("[memories] edit: upload failed")
			ctx.HTML(http.StatusBadGateway, "edit.html", gin.H{
				"LoggedIn": true,
				"Error":    "could not upload the image, nothing was changed",
				"Memory":   memoryView(m),
			})
			return
		}
		imageURL = &uploaded
	}

	if err := c.store.UpdateMemory(m.ID, &form.Description, imageURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			notFoundPage(ctx)
			return
		}
		ctx.HTML(http.StatusInternalServerError, "edit.html", gin.H{
			"LoggedIn": true,
			"Error":    "could not save changes",
			"Memory":   memoryView(m),
		})
		return
	}

	ctx.Redirect(http.StatusSeeOther, "/show")
}

// GET /delete/:id
func (c *MemoryController) delete(ctx *gin.Context, user *model.User) {
	m, ok := c.ownedMemory(ctx, user)
	if !ok {
		return
	}

	if err := c.store.DeleteMemory(m.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			notFoundPage(ctx)
			return
		}
		ctx.HTML(http.StatusInternalServerError, "show.html", gin.H{
			"LoggedIn": true,
			"Error":    "could not delete the memory",
		})
		return
	}

	ctx.Redirect(http.StatusSeeOther, "/show")
}
