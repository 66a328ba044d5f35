package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/assettrack/internal/logging"
	"github.com/dmitrijs2005/assettrack/internal/server/models"
	"github.com/dmitrijs2005/assettrack/internal/server/services"
	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type handlers struct {
	users  *services.UserService
	assets *services.AssetService
	store  Pinger
	logger logging.Logger
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// userResponse never carries the password digest.
type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Role: u.Role}
}

type uploadResponse struct {
	Attachment *models.Attachment `json:"attachment"`
	UploadURL  string             `json:"upload_url"`
}

type downloadResponse struct {
	Attachment  *models.Attachment `json:"attachment"`
	DownloadURL string             `json:"download_url"`
}

func (s *handlers) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Asset tracking API is running"})
}

func (s *handlers) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn(ctx, "health check failed", "error", err.Error())
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *handlers) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	user, err := s.users.Register(c.Request.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

// login accepts form-encoded, multipart or JSON credentials.
func (s *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	resp, err := s.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *handlers) me(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		respondUnauthorized(c)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondValidation(c, map[string]string{name: "must be a positive integer"})
		return 0, false
	}
	return id, true
}

func (s *handlers) listAssets(c *gin.Context) {
	list, err := s.assets.ListAssets(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *handlers) createAsset(c *gin.Context) {
	var in services.CreateAssetInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondValidation(c, err.Error())
		return
	}

	asset, err := s.assets.CreateAsset(c.Request.Context(), currentUser(c).ID, in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, asset)
}

func (s *handlers) getAsset(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	asset, err := s.assets.GetAsset(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

func (s *handlers) updateAssetStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	asset, err := s.assets.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

func (s *handlers) deleteAsset(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.assets.DeleteAsset(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *handlers) listMaintenance(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	logs, err := s.assets.ListMaintenanceLogs(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (s *handlers) addMaintenance(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var in services.MaintenanceLogInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondValidation(c, err.Error())
		return
	}

	log, err := s.assets.AddMaintenanceLog(c.Request.Context(), currentUser(c).ID, id, in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, log)
}

func (s *handlers) createAttachment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var in services.AttachmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondValidation(c, err.Error())
		return
	}

	tr, err := s.assets.CreateAttachment(c.Request.Context(), currentUser(c).ID, id, in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, uploadResponse{Attachment: tr.Attachment, UploadURL: tr.URL})
}

func (s *handlers) listAttachments(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	list, err := s.assets.ListAttachments(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *handlers) getAttachment(c *gin.Context) {
	assetID, ok := pathID(c, "id")
	if !ok {
		return
	}
	id, ok := pathID(c, "attachmentID")
	if !ok {
		return
	}

	tr, err := s.assets.GetAttachmentDownload(c.Request.Context(), assetID, id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, downloadResponse{Attachment: tr.Attachment, DownloadURL: tr.URL})
}

func (s *handlers) markUploaded(c *gin.Context) {
	assetID, ok := pathID(c, "id")
	if !ok {
		return
	}
	id, ok := pathID(c, "attachmentID")
	if !ok {
		return
	}

	a, err := s.assets.MarkAttachmentUploaded(c.Request.Context(), assetID, id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}
