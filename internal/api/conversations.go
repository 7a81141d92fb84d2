package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zulandar/switchboard/internal/billing"
	"github.com/zulandar/switchboard/internal/convlog"
	"github.com/zulandar/switchboard/internal/device"
	"github.com/zulandar/switchboard/internal/rule"
)

// threadFilters reads the shared device/limit query parameters. On a bad
// limit it writes the 400 response itself and reports false.
func threadFilters(c *gin.Context) (convlog.ListFilters, bool) {
	filters := convlog.ListFilters{DeviceID: c.Query("device")}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("api: bad limit %q", raw)})
			return filters, false
		}
		filters.Limit = limit
	}
	return filters, true
}

func handleChatThreads(db *gorm.DB, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		filters, ok := threadFilters(c)
		if !ok {
			return
		}

		sdb, cancel := scoped(c, db, timeout)
		defer cancel()

		threads, err := convlog.ListChat(sdb, filters)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"threads": threads})
	}
}

func handleBotThreads(db *gorm.DB, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		filters, ok := threadFilters(c)
		if !ok {
			return
		}

		sdb, cancel := scoped(c, db, timeout)
		defer cancel()

		threads, err := convlog.ListBot(sdb, filters)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"threads": threads})
	}
}

// handleDashboard aggregates the counts the console landing page shows.
func handleDashboard(db *gorm.DB, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		sdb, cancel := scoped(c, db, timeout)
		defer cancel()

		threads, err := convlog.Counts(sdb)
		if err != nil {
			abortWithError(c, err)
			return
		}
		rules, err := rule.Count(sdb)
		if err != nil {
			abortWithError(c, err)
			return
		}
		devices, err := device.Count(sdb)
		if err != nil {
			abortWithError(c, err)
			return
		}
		packages, err := billing.Count(sdb)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"chat_threads":   threads.Chat,
			"bot_threads":    threads.Bot,
			"human_takeover": threads.HumanTakeover,
			"rules":          rules,
			"devices":        devices,
			"packages":       packages,
		})
	}
}
