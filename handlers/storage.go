package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"coinplay/services/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StorageHandler handles KYC document uploads.
type StorageHandler struct {
	StorageSvc storage.StorageService
}

// NewStorageHandler creates a new StorageHandler instance.
func NewStorageHandler(svc storage.StorageService) *StorageHandler {
	return &StorageHandler{StorageSvc: svc}
}

// allowedDocumentBuckets defines permitted folders for KYC uploads.
var allowedDocumentBuckets = map[string]bool{
	"documents": true,
	"selfies":   true,
}

// UploadKYCDocumentHandler handles POST /api/kyc/documents/:bucket. The
// returned URL is what the client attaches to its provider session.
func (h *StorageHandler) UploadKYCDocumentHandler(c *gin.Context) {
	logger := getLogger(c)

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bucket := c.Param("bucket")
	if !allowedDocumentBuckets[bucket] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bucket; allowed values are 'documents' and 'selfies'"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file not provided", "detail": err.Error()})
		return
	}

	tempFilePath := filepath.Join(os.TempDir(), fileHeader.Filename)
	if err := c.SaveUploadedFile(fileHeader, tempFilePath); err != nil {
		logger.Error("failed to buffer upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process upload"})
		return
	}
	defer os.Remove(tempFilePath)

	destFolder := "kyc/" + bucket + "/" + userID.(string)
	url, err := h.StorageSvc.UploadFile(c.Request.Context(), tempFilePath, destFolder)
	if err != nil {
		logger.Error("failed to upload KYC document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store document"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
