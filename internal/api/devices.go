package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zulandar/switchboard/internal/device"
)

type deviceRequest struct {
	DeviceID    string `json:"device_id"`
	Provider    string `json:"provider"`
	APIURL      string `json:"api_url"`
	APIKey      string `json:"api_key"`
	PhoneNumber string `json:"phone_number"`
	Webhook     string `json:"webhook"`
}

func handleDeviceList(db *gorm.DB, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		sdb, cancel := scoped(c, db, timeout)
		defer cancel()

		devices, err := device.List(sdb)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"devices": devices})
	}
}

func handleDeviceCreate(db *gorm.DB, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req deviceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("api: parse request: %v", err)})
			return
		}
		if req.DeviceID == "" || req.Provider == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "api: device_id and provider are required"})
			return
		}
		if !device.ValidProvider(req.Provider) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("api: provider %q is not supported (%v)", req.Provider, device.Providers),
			})
			return
		}

		sdb, cancel := scoped(c, db, timeout)
		defer cancel()

		dev, err := device.Create(sdb, device.CreateOpts{
			DeviceID:    req.DeviceID,
			Provider:    req.Provider,
			APIURL:      req.APIURL,
			APIKey:      req.APIKey,
			PhoneNumber: req.PhoneNumber,
			Webhook:     req.Webhook,
		})
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, dev)
	}
}

func handleDeviceDelete(db *gorm.DB, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		sdb, cancel := scoped(c, db, timeout)
		defer cancel()

		if err := device.Delete(sdb, c.Param("id")); err != nil {
			abortWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// handleDeviceStatus probes the device's provider for connection state.
func handleDeviceStatus(db *gorm.DB, timeout time.Duration, providers ProviderFactory) gin.HandlerFunc {
	return func(c *gin.Context) {
		sdb, cancel := scoped(c, db, timeout)
		defer cancel()

		dev, err := device.Get(sdb, c.Param("id"))
		if err != nil {
			abortWithError(c, err)
			return
		}

		client, err := providers(dev)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		status, err := client.Status(c.Request.Context(), dev)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"device_id": dev.DeviceID,
			"provider":  dev.Provider,
			"online":    status.Online,
			"state":     status.State,
		})
	}
}
