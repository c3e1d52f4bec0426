package http

import (
	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/retrodesk/internal/domain/window"
)

// Register mounts every REST route on r
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/metrics/json", h.MetricsJSON)

	r.GET("/catalog", h.ListCatalog)

	desktops := r.Group("/desktops")
	desktops.POST("", h.CreateDesktop)
	desktops.GET("/:id", h.GetDesktop)
	desktops.DELETE("/:id", h.DeleteDesktop)
	desktops.POST("/:id/windows", h.OpenWindow)
	desktops.POST("/:id/launch/:app", h.LaunchApp)
	desktops.POST("/:id/windows/:wid/focus", h.WindowAction("focus", (*window.Manager).Focus))
	desktops.POST("/:id/windows/:wid/minimize", h.WindowAction("minimize", (*window.Manager).Minimize))
	desktops.POST("/:id/windows/:wid/restore", h.WindowAction("restore", (*window.Manager).Restore))
	desktops.POST("/:id/windows/:wid/toggle", h.WindowAction("toggle", (*window.Manager).ToggleTaskbar))
	desktops.DELETE("/:id/windows/:wid", h.WindowAction("close", (*window.Manager).Close))

	paint := r.Group("/paint")
	paint.GET("/history", h.PaintHistory)
	paint.GET("/stats", h.GetPaintStats)
}
