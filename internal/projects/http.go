package projects

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sceneforge/scene-backend/internal/logging"
	"github.com/sceneforge/scene-backend/internal/scene"
	"github.com/sceneforge/scene-backend/internal/storage"
)

// Thumbnails above this size are rejected before touching storage.
const maxThumbnailBytes = 5 << 20

const thumbnailFolder = "thumbnails"

// Store is the record-store surface the handlers need. *Repo implements it.
type Store interface {
	List(ctx context.Context) ([]Project, error)
	Get(ctx context.Context, id string) (*Project, error)
	Create(ctx context.Context, name string, description *string, sceneData []byte) (*Project, error)
	Update(ctx context.Context, id string, f UpdateFields) (*Project, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// CleanupRecorder receives storage keys whose best-effort deletion failed,
// so they can be retried later instead of silently leaking.
type CleanupRecorder interface {
	RecordFailedDelete(ctx context.Context, key string, cause error)
}

type Handler struct {
	store   Store
	assets  storage.Provider
	cleanup CleanupRecorder
}

// Register attaches project routes to the given router group. cleanup may
// be nil, in which case failed asset deletes are only logged.
func Register(rg *gin.RouterGroup, store Store, assets storage.Provider, cleanup CleanupRecorder) {
	h := &Handler{store: store, assets: assets, cleanup: cleanup}

	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
	rg.POST("/:id/thumbnail", h.uploadThumbnail)
}

// nullableString distinguishes an absent JSON field from an explicit null.
type nullableString struct {
	Set   bool
	Value *string
}

func (s *nullableString) UnmarshalJSON(b []byte) error {
	s.Set = true
	if string(b) == "null" {
		return nil
	}
	return json.Unmarshal(b, &s.Value)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.store.List(c.Request.Context())
	if err != nil {
		logging.NewLogger(c.Request.Context()).Error("list_projects", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		logging.NewLogger(c.Request.Context()).Error("get_project", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch project"})
		return
	}
	c.JSON(http.StatusOK, p)
}

type createReq struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	SceneData   json.RawMessage `json:"sceneData"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" || len(req.SceneData) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and sceneData are required"})
		return
	}

	if _, err := scene.ParseDocument(req.SceneData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.store.Create(c.Request.Context(), strings.TrimSpace(req.Name), req.Description, req.SceneData)
	if err != nil {
		logging.NewLogger(c.Request.Context()).Error("create_project", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, p)
}

type updateReq struct {
	Name         *string         `json:"name"`
	Description  nullableString  `json:"description"`
	SceneData    json.RawMessage `json:"sceneData"`
	ThumbnailURL nullableString  `json:"thumbnailUrl"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	fields := UpdateFields{
		Description:     req.Description.Value,
		DescriptionSet:  req.Description.Set,
		ThumbnailURL:    req.ThumbnailURL.Value,
		ThumbnailURLSet: req.ThumbnailURL.Set,
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
			return
		}
		fields.Name = &name
	}

	if len(req.SceneData) > 0 {
		if _, err := scene.ParseDocument(req.SceneData); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		fields.SceneData = req.SceneData
	}

	p, err := h.store.Update(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		logging.NewLogger(c.Request.Context()).Error("update_project", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *Handler) delete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	p, err := h.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		logging.NewLogger(ctx).Error("delete_project", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	// Asset cleanup is best-effort: its failure never blocks record
	// deletion.
	if p.ThumbnailURL != nil {
		h.bestEffortDeleteAsset(ctx, *p.ThumbnailURL, "delete_project")
	}

	ok, err := h.store.Delete(ctx, id)
	if err != nil {
		logging.NewLogger(ctx).Error("delete_project", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

func (h *Handler) uploadThumbnail(c *gin.Context) {
	ctx := c.Request.Context()

	fileHeader, err := c.FormFile("thumbnail")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if fileHeader.Size > maxThumbnailBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Thumbnail must be 5MB or smaller"})
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only image files are allowed"})
		return
	}

	p, err := h.store.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		logging.NewLogger(ctx).Error("upload_thumbnail", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload thumbnail"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logging.NewLogger(ctx).Error("upload_thumbnail", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload thumbnail"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logging.NewLogger(ctx).Error("upload_thumbnail", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload thumbnail"})
		return
	}

	// Replace-then-delete is not transactional; a failed delete of the
	// old asset is recorded for reconciliation and otherwise ignored.
	if p.ThumbnailURL != nil {
		h.bestEffortDeleteAsset(ctx, *p.ThumbnailURL, "upload_thumbnail")
	}

	res, err := h.assets.Upload(ctx, data, contentType, fileHeader.Filename, thumbnailFolder)
	if err != nil {
		logging.NewLogger(ctx).Error("upload_thumbnail", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload thumbnail"})
		return
	}

	if _, err := h.store.Update(ctx, p.ID, UpdateFields{ThumbnailURL: &res.URL, ThumbnailURLSet: true}); err != nil {
		logging.NewLogger(ctx).Error("upload_thumbnail", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload thumbnail"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": res.URL})
}

func (h *Handler) bestEffortDeleteAsset(ctx context.Context, rawURL, operation string) {
	key := storage.KeyFromURL(rawURL)
	if key == "" {
		return
	}

	err := h.assets.Delete(ctx, key)
	if err == nil || errors.Is(err, storage.ErrObjectNotFound) {
		return
	}

	logging.NewLogger(ctx).Errorf(operation, "asset cleanup failed key=%s error=%v", key, err)
	if h.cleanup != nil {
		h.cleanup.RecordFailedDelete(ctx, key, err)
	}
}
