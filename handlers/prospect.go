package handlers

import (
	"log"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/sanz-the-nanny/backend-booking/config"
	"github.com/sanz-the-nanny/backend-booking/models"
	"github.com/sanz-the-nanny/backend-booking/services"
	"github.com/sanz-the-nanny/backend-booking/store"
)

type ProspectHandler struct {
	store    store.Client
	config   *config.Config
	email    services.EmailSender
	activity *services.ActivityLogger
}

func NewProspectHandler(st store.Client, cfg *config.Config, email services.EmailSender, activity *services.ActivityLogger) *ProspectHandler {
	return &ProspectHandler{
		store:    st,
		config:   cfg,
		email:    email,
		activity: activity,
	}
}

// CreateProspect is the public contact-form endpoint. The lead is stored
// first; the admin notice and the auto-reply both ride on goroutines and
// never block or fail the submission.
func (h *ProspectHandler) CreateProspect(c *gin.Context) {
	var req models.CreateProspectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	prospect := models.Prospect{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		Source:    "contact_form",
		Status:    models.ProspectNew,
		CreatedAt: services.NowISO(),
	}

	key, err := h.store.Push(c.Request.Context(), store.PathProspects, prospect)
	if err != nil {
		log.Printf("[Prospects] create failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to save your message, please try again",
		})
		return
	}
	prospect.ID = key

	go h.sendProspectAdminNotice(prospect)
	go h.sendProspectAutoReply(prospect)

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Thanks for reaching out! I'll get back to you soon.",
		Data:    gin.H{"id": key},
	})
}

func (h *ProspectHandler) ListProspects(c *gin.Context) {
	var records map[string]models.Prospect
	if err := h.store.ReadOnce(c.Request.Context(), store.PathProspects, &records); err != nil {
		log.Printf("[Prospects] list failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to fetch prospects",
		})
		return
	}

	statusFilter := c.Query("status")
	prospects := make([]models.Prospect, 0, len(records))
	for key, p := range records {
		p.ID = key
		if p.Status == "" {
			p.Status = models.ProspectNew
		}
		if statusFilter != "" && p.Status != statusFilter {
			continue
		}
		prospects = append(prospects, p)
	}
	sort.Slice(prospects, func(i, j int) bool {
		return prospects[i].CreatedAt > prospects[j].CreatedAt
	})

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Data:    prospects,
	})
}

func (h *ProspectHandler) MarkContacted(c *gin.Context) {
	key := c.Param("id")
	prospect, ok := h.readProspect(c, key)
	if !ok {
		return
	}
	if prospect.Status == models.ProspectConverted {
		c.JSON(http.StatusConflict, models.Response{
			Success: false,
			Error:   "Prospect has already been converted",
		})
		return
	}

	now := services.NowISO()
	err := h.store.Update(c.Request.Context(), store.ChildPath(store.PathProspects, key), map[string]interface{}{
		"status":       models.ProspectContacted,
		"contacted_at": now,
	})
	if err != nil {
		log.Printf("[Prospects] mark-contacted failed for %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to update prospect",
		})
		return
	}

	h.activity.Log("prospect_contacted", "Marked prospect "+prospect.Name+" as contacted", "prospect", c.GetString("email"))

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Prospect marked as contacted",
		Data:    gin.H{"status": models.ProspectContacted, "contacted_at": now},
	})
}

// ConvertProspect creates a client record from the lead and marks the lead
// converted. The client create is the primary write; a failure marking the
// prospect afterwards is logged, not surfaced.
func (h *ProspectHandler) ConvertProspect(c *gin.Context) {
	key := c.Param("id")
	prospect, ok := h.readProspect(c, key)
	if !ok {
		return
	}
	if prospect.Status == models.ProspectConverted {
		c.JSON(http.StatusConflict, models.Response{
			Success: false,
			Error:   "Prospect has already been converted",
		})
		return
	}

	client := models.Client{
		FamilyName: prospect.Name,
		ParentName: prospect.Name,
		Email:      prospect.Email,
		Phone:      prospect.Phone,
		Notes:      prospect.Message,
		Status:     models.ClientActive,
		Source:     "prospect",
		CreatedAt:  services.NowISO(),
	}
	clientKey, err := h.store.Push(c.Request.Context(), store.PathClients, client)
	if err != nil {
		log.Printf("[Prospects] convert failed for %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to create client",
		})
		return
	}
	client.ID = clientKey

	err = h.store.Update(c.Request.Context(), store.ChildPath(store.PathProspects, key), map[string]interface{}{
		"status":       models.ProspectConverted,
		"converted_at": services.NowISO(),
	})
	if err != nil {
		log.Printf("[Prospects] converted-status update failed for %s: %v", key, err)
	}

	h.activity.Log("prospect_converted", "Converted prospect "+prospect.Name+" to client", "prospect", c.GetString("email"))

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Prospect converted to client",
		Data:    client,
	})
}

func (h *ProspectHandler) DeleteProspect(c *gin.Context) {
	key := c.Param("id")
	if err := h.store.Remove(c.Request.Context(), store.ChildPath(store.PathProspects, key)); err != nil {
		log.Printf("[Prospects] delete failed for %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to delete prospect",
		})
		return
	}
	h.activity.Log("prospect_deleted", "Deleted prospect", "prospect", c.GetString("email"))
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Prospect deleted",
	})
}

func (h *ProspectHandler) readProspect(c *gin.Context, key string) (models.Prospect, bool) {
	var prospect models.Prospect
	err := h.store.ReadOnce(c.Request.Context(), store.ChildPath(store.PathProspects, key), &prospect)
	if err != nil {
		log.Printf("[Prospects] read failed for %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to fetch prospect",
		})
		return prospect, false
	}
	if prospect.Name == "" && prospect.Email == "" {
		c.JSON(http.StatusNotFound, models.Response{
			Success: false,
			Error:   "Prospect not found",
		})
		return prospect, false
	}
	prospect.ID = key
	if prospect.Status == "" {
		prospect.Status = models.ProspectNew
	}
	return prospect, true
}

func (h *ProspectHandler) sendProspectAdminNotice(p models.Prospect) {
	body := "<p>New inquiry from the website contact form.</p>" +
		emailRow("Name", p.Name) +
		emailRow("Email", p.Email) +
		emailRowStr("Phone", p.Phone) +
		emailRowStr("Message", p.Message)
	err := h.email.Send(h.config.NotifyEmail, "New Inquiry: "+p.Name, "New Inquiry",
		body, "Reply directly to get in touch.", p.Email)
	if err != nil {
		log.Printf("[Prospects] admin notice failed for %s: %v", p.ID, err)
	}
}

func (h *ProspectHandler) sendProspectAutoReply(p models.Prospect) {
	body := "<p>Hi " + p.Name + ",</p>" +
		"<p>Thanks for getting in touch! I've received your message and will reply within one business day.</p>"
	err := h.email.Send(p.Email, "Thanks for your inquiry!", "Message Received",
		body, "This is an automatic confirmation.", h.config.NotifyEmail)
	if err != nil {
		log.Printf("[Prospects] auto-reply failed for %s: %v", p.ID, err)
	}
}
