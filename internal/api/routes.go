package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zulandar/switchboard/internal/resolve"
	"github.com/zulandar/switchboard/internal/rule"
)

// registerRoutes sets up all admin API routes on the Gin router.
func registerRoutes(router *gin.Engine, opts StartOpts) {
	db, timeout := opts.DB, opts.StoreTimeout

	router.GET("/healthz", handleHealthz(db))

	// Stage rules and the resolution contract.
	router.GET("/api/rules", handleRuleList(db, timeout))
	router.POST("/api/rules", handleRuleCreate(db, timeout))
	router.GET("/api/rules/lookup", handleRuleLookup(db, timeout))
	router.GET("/api/rules/devices", handleRuleDevices(db, timeout))
	router.GET("/api/rules/:id", handleRuleGet(db, timeout))
	router.DELETE("/api/rules/:id", handleRuleDelete(db, timeout))
	router.POST("/api/resolve", handleResolve(db, timeout))

	// Device registry.
	router.GET("/api/devices", handleDeviceList(db, timeout))
	router.POST("/api/devices", handleDeviceCreate(db, timeout))
	router.DELETE("/api/devices/:id", handleDeviceDelete(db, timeout))
	router.GET("/api/devices/:id/status", handleDeviceStatus(db, timeout, opts.Providers))

	// Billing packages.
	router.GET("/api/packages", handlePackageList(db, timeout))
	router.POST("/api/packages", handlePackageCreate(db, timeout))
	router.PUT("/api/packages/:id", handlePackageUpdate(db, timeout))
	router.DELETE("/api/packages/:id", handlePackageDelete(db, timeout))

	// Conversation logs and aggregates.
	router.GET("/api/conversations/chat", handleChatThreads(db, timeout))
	router.GET("/api/conversations/bot", handleBotThreads(db, timeout))
	router.GET("/api/dashboard", handleDashboard(db, timeout))
}

// scoped returns a db handle carrying a request-scoped deadline, so a slow
// store surfaces as an error instead of hanging the request.
func scoped(c *gin.Context, db *gorm.DB, timeout time.Duration) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	return db.WithContext(ctx), cancel
}

// statusFor maps store and resolver error kinds to HTTP status codes.
func statusFor(err error) int {
	switch {
	case rule.IsValidationError(err):
		return http.StatusBadRequest
	case rule.IsNotFoundError(err):
		return http.StatusNotFound
	case rule.IsDuplicateRuleError(err):
		return http.StatusConflict
	case resolve.IsUnresolvedFieldError(err) || resolve.IsUnsupportedRuleTypeError(err):
		return http.StatusUnprocessableEntity
	case rule.IsStoreUnavailableError(err):
		return http.StatusServiceUnavailable
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// parseID reads the numeric :id path parameter. On failure it writes the
// 400 response itself and reports false.
func parseID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("api: bad id %q", raw)})
		return 0, false
	}
	return uint(id), true
}

func handleHealthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
