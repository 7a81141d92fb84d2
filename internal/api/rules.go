package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zulandar/switchboard/internal/convlog"
	"github.com/zulandar/switchboard/internal/device"
	"github.com/zulandar/switchboard/internal/resolve"
	"github.com/zulandar/switchboard/internal/rule"
)

type ruleRequest struct {
	DeviceID     string `json:"device_id"`
	Stage        string `json:"stage"`
	InputType    string `json:"input_type"`
	SourceColumn string `json:"source_column"`
	LiteralValue string `json:"literal_value"`
}

type resolveRequest struct {
	DeviceID string            `json:"device_id"`
	Stage    string            `json:"stage"`
	Record   map[string]string `json:"record"`
	// ProspectNum selects a flow-bot thread whose collected fields stand in
	// for an inline record.
	ProspectNum string `json:"prospect_num"`
}

func handleRuleList(db *gorm.DB, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		sdb, cancel := scoped(c, db, timeout)
		defer cancel()

		rules, err := rule.List(sdb)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"rules": rules})
	}
}

func handleRuleCreate(db *gorm.DB, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ruleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("api: parse request: %v", err)})
			return
		}

		sdb, cancel := scoped(c, db, timeout)
		defer cancel()

		// Rules may only reference registered devices. The store itself is
		// registry-agnostic; the check lives at the operator boundary.
		if req.DeviceID != "" {
			known, err := device.Exists(sdb, req.DeviceID)
			if err != nil {
				abortWithError(c, &rule.StoreUnavailableError{Op: "verify device", Err: err})
				return
			}
			if !known {
				abortWithError(c, &rule.ValidationError{
					Field:  "device_id",
					Reason: fmt.Sprintf("names an unregistered device %q", req.DeviceID),
				})
				return
			}
		}

		r, err := rule.Create(sdb, rule.CreateOpts{
			DeviceID:     req.DeviceID,
			Stage:        req.Stage,
			InputType:    req.InputType,
			SourceColumn: req.SourceColumn,
			LiteralValue: req.LiteralValue,
		})
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, r)
	}
}

func handleRuleGet(db *gorm.DB, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		sdb, cancel := scoped(c, db, timeout)
		defer cancel()

		r, err := rule.Get(sdb, id)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func handleRuleDelete(db *gorm.DB, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		sdb, cancel := scoped(c, db, timeout)
		defer cancel()

		if err := rule.Delete(sdb, id); err != nil {
			abortWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// handleRuleLookup is the engine-facing read: the newest rule for a
// (device, stage) pair.
func handleRuleLookup(db *gorm.DB, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := c.Query("device")
		stage := c.Query("stage")
		if deviceID == "" || stage == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "api: device and stage query parameters are required"})
			return
		}

		sdb, cancel := scoped(c, db, timeout)
		defer cancel()

		r, err := rule.Lookup(sdb, deviceID, stage)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

// handleRuleDevices enumerates registered device identifiers for
// rule-creation choices.
func handleRuleDevices(db *gorm.DB, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		sdb, cancel := scoped(c, db, timeout)
		defer cancel()

		ids, err := rule.Devices(device.Registry{DB: sdb})
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"devices": ids})
	}
}

// handleResolve looks up the (device, stage) rule and resolves its value.
// The record comes inline, or from a flow-bot thread when the caller names
// a prospect instead.
func handleResolve(db *gorm.DB, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req resolveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("api: parse request: %v", err)})
			return
		}
		if req.DeviceID == "" || req.Stage == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "api: device_id and stage are required"})
			return
		}

		sdb, cancel := scoped(c, db, timeout)
		defer cancel()

		r, err := rule.Lookup(sdb, req.DeviceID, req.Stage)
		if err != nil {
			abortWithError(c, err)
			return
		}

		record := req.Record
		if record == nil && req.ProspectNum != "" {
			thread, err := convlog.FindBotThread(sdb, req.DeviceID, req.ProspectNum)
			if err != nil {
				abortWithError(c, err)
				return
			}
			record = thread.ProspectRecord()
		}

		value, err := resolve.Value(r, record)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"value": value, "rule_id": r.ID})
	}
}
