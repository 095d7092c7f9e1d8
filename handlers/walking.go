package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"petmily/models"
	"petmily/services/storage"
	"petmily/services/walk"

	"github.com/gin-gonic/gin"
)

// WalkHandler exposes the in-walk endpoints: lifecycle, tracking,
// checkpoint photos, termination negotiation and emergency contact.
type WalkHandler struct {
	Svc        walk.WalkService
	StorageSvc storage.StorageService
}

// NewWalkHandler creates a new WalkHandler instance.
func NewWalkHandler(svc walk.WalkService, storageSvc storage.StorageService) *WalkHandler {
	return &WalkHandler{Svc: svc, StorageSvc: storageSvc}
}

// StartWalkHandler moves a confirmed booking into its active walk.
func (h *WalkHandler) StartWalkHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req struct {
		Location *models.GeoPoint `json:"location"`
	}
	// The start location is optional.
	_ = c.ShouldBindJSON(&req)

	detail, err := h.Svc.StartWalk(c.Request.Context(), c.Param("bookingId"), actor, req.Location)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// CompleteWalkHandler ends an active walk and freezes its statistics.
func (h *WalkHandler) CompleteWalkHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req models.WalkEndRequest
	_ = c.ShouldBindJSON(&req)

	detail, err := h.Svc.CompleteWalk(c.Request.Context(), c.Param("bookingId"), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// IngestTrackHandler accepts one GPS sample from the walker's device.
func (h *WalkHandler) IngestTrackHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req models.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	point, err := h.Svc.IngestTrack(c.Request.Context(), c.Param("bookingId"), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, point)
}

// RealtimeTrackHandler returns the points recorded strictly after the
// "after" cursor, for incremental polling by the live map.
func (h *WalkHandler) RealtimeTrackHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	after := time.Time{}
	if raw := c.Query("after"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'after' timestamp; expected RFC3339"})
			return
		}
		after = parsed
	}

	points, err := h.Svc.RealtimeTrack(c.Request.Context(), c.Param("bookingId"), actor, after)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trackPoints": points})
}

// LatestTrackHandler returns the most recent accepted GPS sample.
func (h *WalkHandler) LatestTrackHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	point, err := h.Svc.LatestTrack(c.Request.Context(), c.Param("bookingId"), actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, point)
}

// GetWalkPathHandler returns the full ordered track with statistics.
func (h *WalkHandler) GetWalkPathHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	path, err := h.Svc.GetWalkPath(c.Request.Context(), c.Param("bookingId"), actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, path)
}

// RecordPhotoHandler records an already-uploaded checkpoint photo URL.
func (h *WalkHandler) RecordPhotoHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req models.PhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	detail, err := h.Svc.RecordPhoto(c.Request.Context(), c.Param("bookingId"), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// UploadPhotoHandler accepts a multipart checkpoint photo, stores it, and
// records the resulting URL against the walk in one call.
func (h *WalkHandler) UploadPhotoHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	bookingID := c.Param("bookingId")

	kind := models.PhotoKind(c.PostForm("photoType"))
	if !models.ValidPhotoKind(kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photoType must be START, MIDDLE or END"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file not provided", "details": err.Error()})
		return
	}

	tempFilePath := filepath.Join(os.TempDir(), fileHeader.Filename)
	if err := c.SaveUploadedFile(fileHeader, tempFilePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file", "details": err.Error()})
		return
	}
	defer os.Remove(tempFilePath)

	uploaded, err := h.StorageSvc.UploadWalkPhoto(c.Request.Context(), tempFilePath, bookingID, kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload photo", "details": err.Error()})
		return
	}

	detail, err := h.Svc.RecordPhoto(c.Request.Context(), bookingID, actor, models.PhotoRequest{
		Kind:     kind,
		PhotoURL: uploaded.URL,
	})
	if err != nil {
		// The walk refused the photo; drop the orphaned upload.
		_ = h.StorageSvc.DeleteFile(c.Request.Context(), uploaded.PublicID)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"walk": detail, "photo": uploaded})
}

// ProposeTerminationHandler opens an early-end negotiation.
func (h *WalkHandler) ProposeTerminationHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req models.ProposeTerminationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	tr, err := h.Svc.ProposeTermination(c.Request.Context(), c.Param("bookingId"), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tr)
}

// ResolveTerminationHandler answers the pending early-end request.
func (h *WalkHandler) ResolveTerminationHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req models.ResolveTerminationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if req.Decision != models.DecisionAccepted && req.Decision != models.DecisionRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "decision must be ACCEPTED or REJECTED"})
		return
	}

	tr, err := h.Svc.ResolveTermination(c.Request.Context(), c.Param("bookingId"), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tr)
}

// EmergencyContactHandler resolves the dispatch number for an emergency
// during an active walk.
func (h *WalkHandler) EmergencyContactHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req models.EmergencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	number, err := h.Svc.EmergencyContact(c.Request.Context(), c.Param("bookingId"), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contactNumber": number, "emergencyType": req.Type})
}
