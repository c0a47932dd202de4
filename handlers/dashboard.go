package handlers

import (
	"log"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sanz-the-nanny/backend-booking/config"
	"github.com/sanz-the-nanny/backend-booking/models"
	"github.com/sanz-the-nanny/backend-booking/store"
)

type DashboardHandler struct {
	store  store.Client
	config *config.Config
}

func NewDashboardHandler(st store.Client, cfg *config.Config) *DashboardHandler {
	return &DashboardHandler{
		store:  st,
		config: cfg,
	}
}

// GetDashboard aggregates the four headline counts plus a recent-activity
// page. Each collection read is independent and best-effort; a failed read
// leaves its count at zero instead of failing the whole summary.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	summary := models.DashboardSummary{
		RecentActivity: []models.ActivityLog{},
	}

	var bookings map[string]models.TrialBooking
	if err := h.store.ReadOnce(c.Request.Context(), store.PathTrialBookings, &bookings); err != nil {
		log.Printf("[Dashboard] bookings read failed: %v", err)
	} else {
		for _, b := range bookings {
			if b.Status == models.BookingPending {
				summary.PendingBookings++
			}
		}
	}

	var clients map[string]models.Client
	if err := h.store.ReadOnce(c.Request.Context(), store.PathClients, &clients); err != nil {
		log.Printf("[Dashboard] clients read failed: %v", err)
	} else {
		for _, cl := range clients {
			if cl.Status == "" || cl.Status == models.ClientActive {
				summary.ActiveClients++
			}
		}
	}

	var prospects map[string]models.Prospect
	if err := h.store.ReadOnce(c.Request.Context(), store.PathProspects, &prospects); err != nil {
		log.Printf("[Dashboard] prospects read failed: %v", err)
	} else {
		for _, p := range prospects {
			if p.Status == "" || p.Status == models.ProspectNew {
				summary.NewProspects++
			}
		}
	}

	var invoices map[string]models.Invoice
	if err := h.store.ReadOnce(c.Request.Context(), store.PathInvoices, &invoices); err != nil {
		log.Printf("[Dashboard] invoices read failed: %v", err)
	} else {
		for _, inv := range invoices {
			if inv.PaymentStatus == "" || inv.PaymentStatus == models.InvoiceUnpaid {
				summary.UnpaidInvoices++
			}
		}
	}

	summary.RecentActivity = h.recentActivity(c)

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Data:    summary,
	})
}

func (h *DashboardHandler) recentActivity(c *gin.Context) []models.ActivityLog {
	var records map[string]models.ActivityLog
	if err := h.store.ReadOnce(c.Request.Context(), store.PathActivityLogs, &records); err != nil {
		log.Printf("[Dashboard] activity read failed: %v", err)
		return []models.ActivityLog{}
	}

	logs := make([]models.ActivityLog, 0, len(records))
	for key, l := range records {
		l.ID = key
		logs = append(logs, l)
	}
	sort.Slice(logs, func(i, j int) bool {
		return logs[i].CreatedAt > logs[j].CreatedAt
	})

	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)
	if offset >= len(logs) {
		return []models.ActivityLog{}
	}
	logs = logs[offset:]
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v := c.Query(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
