package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"lpfcatalog/internal/organizer"
	"lpfcatalog/internal/store"
)

// servedFiles are the data files exposed under /data/:file.
var servedFiles = map[string]bool{
	organizer.CatalogFile:    true,
	organizer.SummaryFile:    true,
	organizer.MoviesFile:     true,
	organizer.EpisodesFile:   true,
	organizer.ComingSoonFile: true,
}

type Handler struct {
	Repo    *store.Repo
	DataDir string
	Service *Service
}

func NewHandler(repo *store.Repo, dataDir string, svc *Service) *Handler {
	return &Handler{Repo: repo, DataDir: dataDir, Service: svc}
}

// RegisterRoutes mounts the read-only catalog API.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/items", h.listItems)
	rg.GET("/items/:id", h.getItem)
	rg.GET("/series", h.listSeries)
	rg.GET("/summary", h.summary)
}

func (h *Handler) RegisterDataRoutes(rg *gin.RouterGroup) {
	rg.GET("/:file", h.serveFile)
}

// RegisterAdminRoutes expects rg to be behind the auth middleware.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/organize", h.organize)
}

func (h *Handler) listItems(c *gin.Context) {
	q := store.ItemQuery{
		Category: c.Query("category"),
		Series:   c.Query("series"),
		Q:        c.Query("q"),
		Limit:    parseInt(c.Query("limit"), 50),
		Offset:   parseInt(c.Query("offset"), 0),
	}

	total, err := h.Repo.CountItems(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"})
		return
	}
	items, err := h.Repo.ListItems(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  q.Limit,
		"offset": q.Offset,
		"items":  items,
	})
}

func (h *Handler) getItem(c *gin.Context) {
	it, err := h.Repo.GetItem(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *Handler) listSeries(c *gin.Context) {
	series, err := h.Repo.ListSeries(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(series), "series": series})
}

func (h *Handler) summary(c *gin.Context) {
	sum, err := h.Repo.Summary(c.Request.Context())
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "catalog not organized yet"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "summary failed"})
		return
	}
	c.JSON(http.StatusOK, sum)
}

// serveFile returns a data file as-is after checking that it still parses.
func (h *Handler) serveFile(c *gin.Context) {
	name := c.Param("file")
	if !servedFiles[name] {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown file"})
		return
	}

	b, err := os.ReadFile(filepath.Join(h.DataDir, name))
	if errors.Is(err, os.ErrNotExist) {
		c.JSON(http.StatusNotFound, gin.H{"error": name + " not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot read " + name})
		return
	}
	if !json.Valid(b) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": name + " is not valid JSON"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", b)
}

func (h *Handler) organize(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "organizer not configured"})
		return
	}

	out, err := h.Service.Organize(c.Request.Context(), "admin")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	issues := make([]gin.H, 0, len(out.Result.Issues))
	for _, is := range out.Result.Issues {
		issues = append(issues, gin.H{"file": is.File, "kind": is.Kind, "error": is.Err.Error()})
	}
	validation := out.Result.ValidationErrors
	if validation == nil {
		validation = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":            out.Run.ID,
		"backup_dir":        out.Result.BackupDir,
		"summary":           out.Result.Summary,
		"issues":            issues,
		"validation_errors": validation,
	})
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
