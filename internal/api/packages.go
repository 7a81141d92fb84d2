package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zulandar/switchboard/internal/billing"
)

type packageRequest struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

func handlePackageList(db *gorm.DB, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		sdb, cancel := scoped(c, db, timeout)
		defer cancel()

		packages, err := billing.List(sdb)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"packages": packages})
	}
}

func handlePackageCreate(db *gorm.DB, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req packageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("api: parse request: %v", err)})
			return
		}
		if req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "api: name is required"})
			return
		}

		sdb, cancel := scoped(c, db, timeout)
		defer cancel()

		pkg, err := billing.Create(sdb, billing.CreateOpts{Name: req.Name, Amount: req.Amount})
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, pkg)
	}
}

// handlePackageUpdate replaces a package's name and amount. Packages are
// ordinary records, not rules; updating them in place is fine.
func handlePackageUpdate(db *gorm.DB, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var req packageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("api: parse request: %v", err)})
			return
		}
		if req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "api: name is required"})
			return
		}

		sdb, cancel := scoped(c, db, timeout)
		defer cancel()

		pkg, err := billing.Update(sdb, id, billing.CreateOpts{Name: req.Name, Amount: req.Amount})
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, pkg)
	}
}

func handlePackageDelete(db *gorm.DB, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		sdb, cancel := scoped(c, db, timeout)
		defer cancel()

		if err := billing.Delete(sdb, id); err != nil {
			abortWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
