package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"hostelcore/constants"
	"hostelcore/controllers"
	middlewares "hostelcore/middleware"
)

func SetupRoutes(router *gin.Engine, db *gorm.DB, redisCli *redis.Client) {

	allocationController := controllers.NewAllocationController(db, redisCli)
	inventoryController := controllers.NewInventoryController(db, redisCli)
	requestController := controllers.NewRequestController(db, redisCli)

	operator := middlewares.AuthMiddleware(constants.RoleSuperAdmin, constants.RoleWarden)
	staff := middlewares.AuthMiddleware(constants.RoleSuperAdmin, constants.RoleWarden, constants.RoleStaff)

	v1 := router.Group("/api/v1")

	// Allocation Engine
	v1.POST("/allocate", operator, allocationController.Allocate)
	v1.POST("/release", operator, allocationController.Release)
	v1.GET("/accommodations/:studentId", staff, allocationController.GetAccommodationHistory)
	v1.GET("/accommodations/:studentId/active", staff, allocationController.GetActiveAccommodation)

	// Inventory
	v1.GET("/inventory", inventoryController.GetInventorySnapshot)
	v1.GET("/rooms/:id/candidates", staff, inventoryController.GetCandidateBeds)
	v1.GET("/beds/:id/ledger", staff, inventoryController.GetBedLedger)
	v1.GET("/reconcile", operator, inventoryController.Reconcile)
	v1.POST("/hostels", operator, inventoryController.CreateHostel)
	v1.PUT("/hostelStatus", operator, inventoryController.DeactivateHostel)
	v1.POST("/rooms", operator, inventoryController.CreateRoom)
	v1.PUT("/bedStatus", operator, inventoryController.ChangeBedStatus)

	// Requests
	v1.POST("/requests", requestController.CreateRequest)
	v1.GET("/requests", staff, requestController.GetRequests)
	v1.PUT("/requests/:id/cancel", requestController.CancelRequest)
	v1.PUT("/requests/reject", operator, requestController.RejectRequest)
}
