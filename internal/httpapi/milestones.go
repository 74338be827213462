package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/alexanderramin/bugtrail/internal/domain"
	"github.com/alexanderramin/bugtrail/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MilestoneHandler struct {
	projects   service.ProjectService
	milestones service.MilestoneService
	logger     *zap.Logger
	now        func() time.Time
}

func NewMilestoneHandler(
	projects service.ProjectService,
	milestones service.MilestoneService,
	logger *zap.Logger,
	now func() time.Time,
) *MilestoneHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &MilestoneHandler{projects: projects, milestones: milestones, logger: logger, now: now}
}

func (h *MilestoneHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/projects/:ref/milestones", h.ListByProject)
	r.GET("/milestones/:id", h.Get)
	r.POST("/milestones/:id/refresh", h.Refresh)
}

type milestoneListResponse struct {
	Project    projectResponse            `json:"project"`
	Milestones []service.MilestoneSummary `json:"milestones"`
}

type projectResponse struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

type refreshResponse struct {
	Marked    bool                     `json:"marked"`
	Milestone service.MilestoneSummary `json:"milestone"`
}

// ListByProject returns visible milestones the actor may access. Hidden
// milestones are included with ?all=true.
func (h *MilestoneHandler) ListByProject(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.projects.Resolve(ctx, c.Param("ref"))
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	ms, err := h.milestones.ListByProject(ctx, p.ID)
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}

	includeHidden := c.Query("all") == "true"
	now := h.now()
	out := make([]service.MilestoneSummary, 0, len(ms))
	for _, m := range ms {
		if !m.Visible() && !includeHidden {
			continue
		}
		ok, err := h.milestones.HasAccess(ctx, m)
		if err != nil {
			abortWithError(c, h.logger, err)
			return
		}
		if !ok {
			continue
		}
		s, err := service.Summarize(ctx, m, now)
		if err != nil {
			abortWithError(c, h.logger, err)
			return
		}
		out = append(out, s)
	}

	c.JSON(http.StatusOK, milestoneListResponse{
		Project:    projectResponse{ID: p.ID, Key: p.Key, Name: p.Name},
		Milestones: out,
	})
}

func (h *MilestoneHandler) Get(c *gin.Context) {
	m, ok := h.loadAccessible(c)
	if !ok {
		return
	}
	s, err := service.Summarize(c.Request.Context(), m, h.now())
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Refresh marks an unreached milestone reached when all of its issues are
// closed and returns the stored state afterwards. A reached milestone is
// returned unchanged.
func (h *MilestoneHandler) Refresh(c *gin.Context) {
	m, ok := h.loadAccessible(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if m.Reached() {
		// Re-marking would move the reached date to now.
		s, err := service.Summarize(ctx, m, h.now())
		if err != nil {
			abortWithError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, refreshResponse{Marked: false, Milestone: s})
		return
	}
	marked, err := h.milestones.UpdateStatus(ctx, m)
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	// UpdateStatus does not touch the instance it was given.
	fresh, err := h.milestones.Load(ctx, m.ID())
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	s, err := service.Summarize(ctx, fresh, h.now())
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, refreshResponse{Marked: marked, Milestone: s})
}

func (h *MilestoneHandler) loadAccessible(c *gin.Context) (*domain.Milestone, bool) {
	ctx := c.Request.Context()
	m, err := h.milestones.Load(ctx, c.Param("id"))
	if err != nil {
		abortWithError(c, h.logger, err)
		return nil, false
	}
	ok, err := h.milestones.HasAccess(ctx, m)
	if err != nil {
		abortWithError(c, h.logger, err)
		return nil, false
	}
	if !ok {
		abortWithError(c, h.logger, fmt.Errorf("milestone %s: %w", m.ID(), domain.ErrAccessDenied))
		return nil, false
	}
	return m, true
}
