package handlers

import (
	"errors"
	"net/http"
	"time"

	auditRepo "coinplay/database/repository/audit"
	kycRepo "coinplay/database/repository/kyc"
	"coinplay/models"
	"coinplay/services/kyc"
	"coinplay/services/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler serves the KYC review queue and user administration.
type AdminHandler struct {
	Users   user.UserService
	KYC     kyc.KYCService
	Records kycRepo.VerificationRecordRepository
	Audit   auditRepo.AdminActionLogRepository
}

// NewAdminHandler creates a new AdminHandler instance.
func NewAdminHandler(userSvc user.UserService, kycSvc kyc.KYCService, records kycRepo.VerificationRecordRepository, audit auditRepo.AdminActionLogRepository) *AdminHandler {
	return &AdminHandler{
		Users:   userSvc,
		KYC:     kycSvc,
		Records: records,
		Audit:   audit,
	}
}

// GetAllUsersHandler handles GET /api/admin/users.
func (h *AdminHandler) GetAllUsersHandler(c *gin.Context) {
	users, err := h.Users.GetAllUsers(c.Request.Context())
	if err != nil {
		getLogger(c).Error("failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// ListKYCRecordsHandler handles GET /api/admin/kyc. It returns the pending
// review queue: records stuck in pending, oldest first.
func (h *AdminHandler) ListKYCRecordsHandler(c *gin.Context) {
	records, err := h.Records.ListStalePending(c.Request.Context(), time.Now())
	if err != nil {
		getLogger(c).Error("failed to list verification records", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list verification records"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

// ReviewKYCRequest is the manual review decision payload.
type ReviewKYCRequest struct {
	Status models.KYCStatus `json:"status" binding:"required"`
	Reason string           `json:"reason"`
}

// ReviewKYCHandler handles POST /api/admin/kyc/:userId/review. Manual
// decisions run through the same transition function as provider updates,
// so invariants and the audit trail hold either way.
func (h *AdminHandler) ReviewKYCHandler(c *gin.Context) {
	logger := getLogger(c)
	targetUserID := c.Param("userId")

	adminID, _ := c.Get("userID")

	var req ReviewKYCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.Status != models.KYCStatusVerified && req.Status != models.KYCStatusRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be 'verified' or 'rejected'"})
		return
	}

	rec, err := h.Records.GetByUserID(c.Request.Context(), targetUserID)
	if err != nil {
		logger.Error("failed to fetch verification record", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch verification record"})
		return
	}
	if rec == nil || rec.ExternalID == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No verification record for user"})
		return
	}

	actor := "admin"
	if id, ok := adminID.(string); ok && id != "" {
		actor = "admin:" + id
	}

	updated, err := h.KYC.ApplyExternalUpdate(c.Request.Context(), kyc.ProviderUpdate{
		ExternalID: rec.ExternalID,
		Status:     req.Status,
		Reason:     req.Reason,
	}, actor)
	if err != nil {
		if errors.Is(err, kyc.ErrUnknownSession) {
			c.JSON(http.StatusConflict, gin.H{"error": "Record changed during review; reload and retry"})
			return
		}
		logger.Error("failed to apply review decision", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply review decision"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// GetKYCAuditTrailHandler handles GET /api/admin/kyc/:userId/audit.
func (h *AdminHandler) GetKYCAuditTrailHandler(c *gin.Context) {
	entries, err := h.Audit.GetByUserID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		getLogger(c).Error("failed to fetch audit trail", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit trail"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
