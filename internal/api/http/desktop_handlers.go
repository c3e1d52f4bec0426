package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/retrodesk/internal/domain/window"
	"github.com/GriffinCanCode/retrodesk/internal/shared/utils"
)

// CreateDesktopRequest is the optional body of POST /desktops
type CreateDesktopRequest struct {
	Mobile bool `json:"mobile"`
}

// OpenWindowRequest is the body of POST /desktops/:id/windows
type OpenWindowRequest struct {
	ID       string           `json:"id" binding:"required"`
	Title    string           `json:"title"`
	Content  string           `json:"content"`
	Position *window.Position `json:"position"`
	Size     *window.Size     `json:"size"`
}

// ListCatalog lists launchable apps; ?mobile=true hides desktop-only apps
func (h *Handlers) ListCatalog(c *gin.Context) {
	mobile := c.Query("mobile") == "true"
	c.JSON(http.StatusOK, gin.H{"apps": h.catalog.ForMobile(mobile)})
}

// CreateDesktop starts a new desktop session
func (h *Handlers) CreateDesktop(c *gin.Context) {
	var req CreateDesktopRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	info, err := h.desktops.Create(req.Mobile)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, info)
}

// GetDesktop returns a desktop and its windows
func (h *Handlers) GetDesktop(c *gin.Context) {
	info, err := h.desktops.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// DeleteDesktop shuts a desktop down
func (h *Handlers) DeleteDesktop(c *gin.Context) {
	if err := h.desktops.Delete(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// OpenWindow opens or raises a window
func (h *Handlers) OpenWindow(c *gin.Context) {
	var req OpenWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "window id is required"})
		return
	}

	req.ID = strings.TrimSpace(req.ID)
	if err := utils.ValidateID(req.ID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid window id: " + err.Error()})
		return
	}

	title := utils.ClampTitle(h.sanitizer.Sanitize(req.Title))
	if title == "" {
		title = req.ID
	}
	content := req.Content
	if content == "" {
		content = req.ID
	}

	snap, err := h.desktops.Do(c.Param("id"), func(w *window.Manager) {
		w.Open(req.ID, title, window.ContentRef(content), req.Position, req.Size)
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.metrics.RecordWindowOp("open")
	c.JSON(http.StatusOK, snap)
}

// LaunchApp opens a catalog app with its default title and geometry
func (h *Handlers) LaunchApp(c *gin.Context) {
	snap, err := h.desktops.Launch(c.Param("id"), c.Param("app"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.metrics.RecordWindowOp("launch")
	c.JSON(http.StatusOK, snap)
}

// WindowAction returns a handler applying op to the :wid window
func (h *Handlers) WindowAction(op string, fn func(w *window.Manager, id string)) gin.HandlerFunc {
	return func(c *gin.Context) {
		windowID := c.Param("wid")
		snap, err := h.desktops.Do(c.Param("id"), func(w *window.Manager) {
			fn(w, windowID)
		})
		if err != nil {
			h.respondError(c, err)
			return
		}
		h.metrics.RecordWindowOp(op)
		c.JSON(http.StatusOK, snap)
	}
}
