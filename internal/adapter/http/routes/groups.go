package routes

import (
	"github.com/gin-gonic/gin"

	"assistec/internal/adapter/http/handlers"
)

const (
	PathAdmin     = "/admin"
	PathOrders    = "/orders"
	PathApprovals = "/approvals"
	PathPayments  = "/payments"
	PathProfiles  = "/profiles"
	PathSettings  = "/settings"
)

func addPingRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", handlers.Ping)
}

// addApprovalRoutes registers the public approval page. The token is the
// only credential.
func addApprovalRoutes(rg *gin.RouterGroup, h *handlers.ApprovalHandler) {
	approvals := rg.Group(PathApprovals)
	{
		approvals.GET("/:token", h.GetApproval)
		approvals.POST("/:token/approve", h.Approve)
		approvals.POST("/:token/reject", h.Reject)
	}
}

func addProfileRoutes(rg *gin.RouterGroup, h *handlers.ProfileHandler) {
	profiles := rg.Group(PathProfiles)
	{
		profiles.POST("", h.CreateProfile)
		profiles.GET("/:id", h.GetProfile)
	}
}

func addOrderRoutes(rg *gin.RouterGroup, orders *handlers.OrderHandler, approvals *handlers.ApprovalHandler) {
	g := rg.Group(PathOrders)
	{
		g.POST("", orders.CreateOrder)
		g.GET("/:id", orders.GetOrder)
		g.DELETE("/:id", orders.DeleteOrder)
		g.PATCH("/:id/status", orders.UpdateStatus)
		g.PATCH("/:id/discount", orders.ApplyDiscount)
		g.GET("/:id/history", orders.ListStatusHistory)

		g.POST("/:id/items", orders.AddItem)
		g.GET("/:id/items", orders.ListItems)
		g.POST("/:id/messages", orders.PostMessage)
		g.GET("/:id/messages", orders.ListMessages)

		g.GET("/:id/approvals", approvals.ListApprovals)
		g.DELETE("/:id/approvals/:entry_id", approvals.DeleteApprovalEntry)
	}
}

func addBillingRoutes(rg *gin.RouterGroup, h *handlers.BillingPaymentHandler) {
	rg.POST(PathOrders+"/:id"+PathPayments, h.CreatePayment)
	rg.GET(PathOrders+"/:id"+PathPayments, h.ListPayments)
	rg.GET(PathPayments+"/:payment_id", h.GetPayment)
}

func addSettingsRoutes(rg *gin.RouterGroup, h *handlers.SettingsHandler) {
	settings := rg.Group(PathSettings)
	{
		settings.GET("/notifications", h.GetNotificationSettings)
		settings.PUT("/notifications", h.UpdateNotificationSettings)
	}
}
