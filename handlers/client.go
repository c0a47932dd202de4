package handlers

import (
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sanz-the-nanny/backend-booking/config"
	"github.com/sanz-the-nanny/backend-booking/models"
	"github.com/sanz-the-nanny/backend-booking/services"
	"github.com/sanz-the-nanny/backend-booking/store"
)

type ClientHandler struct {
	store    store.Client
	config   *config.Config
	activity *services.ActivityLogger
}

func NewClientHandler(st store.Client, cfg *config.Config, activity *services.ActivityLogger) *ClientHandler {
	return &ClientHandler{
		store:    st,
		config:   cfg,
		activity: activity,
	}
}

// ListClients runs the auto-expiry sweep, then returns clients decorated
// with linked contract/invoice counts. Filters: status (active | inactive |
// all; inactive includes expired) and a free-text search.
func (h *ClientHandler) ListClients(c *gin.Context) {
	services.ExpireClients(c.Request.Context(), h.store, h.activity, time.Now())

	var records map[string]models.Client
	if err := h.store.ReadOnce(c.Request.Context(), store.PathClients, &records); err != nil {
		log.Printf("[Clients] list failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to fetch clients",
		})
		return
	}

	// Linked-document counts are best-effort decoration.
	contractCounts := h.countByClientKey(c, store.PathContracts)
	invoiceCounts := h.countByClientKey(c, store.PathInvoices)

	statusFilter := c.DefaultQuery("status", "active")
	search := strings.ToLower(c.Query("search"))

	clients := make([]models.ClientWithCounts, 0, len(records))
	for key, cl := range records {
		cl.ID = key
		if cl.Status == "" {
			cl.Status = models.ClientActive
		}
		switch statusFilter {
		case "all":
		case "inactive":
			if cl.Status != models.ClientInactive && cl.Status != models.ClientExpired {
				continue
			}
		default:
			if cl.Status != statusFilter {
				continue
			}
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(cl.FamilyName), search) &&
			!strings.Contains(strings.ToLower(cl.ParentName), search) &&
			!strings.Contains(strings.ToLower(cl.Email), search) {
			continue
		}
		clients = append(clients, models.ClientWithCounts{
			Client:        cl,
			ContractCount: contractCounts[key],
			InvoiceCount:  invoiceCounts[key],
		})
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].FamilyName < clients[j].FamilyName
	})

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Data:    clients,
	})
}

func (h *ClientHandler) GetClient(c *gin.Context) {
	key := c.Param("id")
	client, ok := h.readClient(c, key)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Data:    client,
	})
}

func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req models.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	status := req.Status
	if status == "" {
		status = models.ClientActive
	}
	client := models.Client{
		FamilyName: req.FamilyName,
		ParentName: req.ParentName,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		Children:   req.Children,
		Notes:      req.Notes,
		Status:     status,
		CreatedAt:  services.NowISO(),
	}

	key, err := h.store.Push(c.Request.Context(), store.PathClients, client)
	if err != nil {
		log.Printf("[Clients] create failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to save client",
		})
		return
	}
	client.ID = key

	h.activity.Log("client_created", "Created client: "+client.FamilyName, "client", c.GetString("email"))

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Client created",
		Data:    client,
	})
}

func (h *ClientHandler) UpdateClient(c *gin.Context) {
	key := c.Param("id")

	var req models.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	if _, ok := h.readClient(c, key); !ok {
		return
	}

	fields := map[string]interface{}{
		"family_name": req.FamilyName,
		"parent_name": req.ParentName,
		"email":       req.Email,
		"phone":       req.Phone,
		"address":     req.Address,
		"children":    req.Children,
		"notes":       req.Notes,
		"updated_at":  services.NowISO(),
	}
	if req.Status != "" {
		fields["status"] = req.Status
	}

	if err := h.store.Update(c.Request.Context(), store.ChildPath(store.PathClients, key), fields); err != nil {
		log.Printf("[Clients] update failed for %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to update client",
		})
		return
	}

	h.activity.Log("client_updated", "Updated client: "+req.FamilyName, "client", c.GetString("email"))

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Client updated",
	})
}

func (h *ClientHandler) DeleteClient(c *gin.Context) {
	key := c.Param("id")
	if err := h.store.Remove(c.Request.Context(), store.ChildPath(store.PathClients, key)); err != nil {
		log.Printf("[Clients] delete failed for %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to delete client",
		})
		return
	}
	h.activity.Log("client_deleted", "Deleted client", "client", c.GetString("email"))
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Client deleted",
	})
}

// ToggleStatus flips a client between active and inactive. Expired clients
// are out of reach: re-activating one requires editing its contract dates.
func (h *ClientHandler) ToggleStatus(c *gin.Context) {
	key := c.Param("id")
	client, ok := h.readClient(c, key)
	if !ok {
		return
	}

	if client.Status == models.ClientExpired {
		c.JSON(http.StatusConflict, models.Response{
			Success: false,
			Error:   "Expired clients cannot be toggled",
		})
		return
	}

	newStatus := models.ClientInactive
	if client.Status != models.ClientActive {
		newStatus = models.ClientActive
	}

	err := h.store.Update(c.Request.Context(), store.ChildPath(store.PathClients, key), map[string]interface{}{
		"status":     newStatus,
		"updated_at": services.NowISO(),
	})
	if err != nil {
		log.Printf("[Clients] status toggle failed for %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to update status",
		})
		return
	}

	verb := "Re-activated"
	if newStatus == models.ClientInactive {
		verb = "Deactivated"
	}
	h.activity.Log("client_status", verb+" client: "+clientDisplayName(client), "client", c.GetString("email"))

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Client status updated",
		Data:    gin.H{"status": newStatus},
	})
}

// ToggleOverride flips the availability override. The effect is purely in
// how the next availability read treats this client's contract window; no
// open calendar is recomputed.
func (h *ClientHandler) ToggleOverride(c *gin.Context) {
	key := c.Param("id")
	client, ok := h.readClient(c, key)
	if !ok {
		return
	}

	newVal := !client.AvailabilityOverride
	err := h.store.Update(c.Request.Context(), store.ChildPath(store.PathClients, key), map[string]interface{}{
		"availability_override": newVal,
		"updated_at":            services.NowISO(),
	})
	if err != nil {
		log.Printf("[Clients] override toggle failed for %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to update override",
		})
		return
	}

	verb := "Disabled"
	if newVal {
		verb = "Enabled"
	}
	h.activity.Log("client_override", verb+" availability override for "+clientDisplayName(client), "client", c.GetString("email"))

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Availability override updated",
		Data:    gin.H{"availability_override": newVal},
	})
}

func (h *ClientHandler) readClient(c *gin.Context, key string) (models.Client, bool) {
	var client models.Client
	err := h.store.ReadOnce(c.Request.Context(), store.ChildPath(store.PathClients, key), &client)
	if err != nil {
		log.Printf("[Clients] read failed for %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to fetch client",
		})
		return client, false
	}
	if client.FamilyName == "" && client.ParentName == "" && client.CreatedAt == "" {
		c.JSON(http.StatusNotFound, models.Response{
			Success: false,
			Error:   "Client not found",
		})
		return client, false
	}
	client.ID = key
	if client.Status == "" {
		client.Status = models.ClientActive
	}
	return client, true
}

func (h *ClientHandler) countByClientKey(c *gin.Context, path string) map[string]int {
	var records map[string]struct {
		ClientKey string `json:"client_key"`
	}
	counts := map[string]int{}
	if err := h.store.ReadOnce(c.Request.Context(), path, &records); err != nil {
		log.Printf("[Clients] %s counts failed: %v", path, err)
		return counts
	}
	for _, r := range records {
		if r.ClientKey != "" {
			counts[r.ClientKey]++
		}
	}
	return counts
}

func clientDisplayName(c models.Client) string {
	if c.FamilyName != "" {
		return c.FamilyName
	}
	return c.ParentName
}
