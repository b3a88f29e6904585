package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetPostsReport(c *gin.Context) {
	r, err := h.dashboard.ParseRange(c.Query("from"), c.Query("to"), h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.dashboard.PostsReport(c.Request.Context(), r)
	if err != nil {
		h.respondError(c, err, "Failed to fetch Facebook posts")
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *Handler) GetVideosReport(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}

	report, err := h.dashboard.VideosReport(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err, "Failed to fetch Facebook videos")
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *Handler) GetInsightsReport(c *gin.Context) {
	report, err := h.dashboard.InsightsReport(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to fetch Facebook insights data")
		return
	}

	c.JSON(http.StatusOK, report)
}
