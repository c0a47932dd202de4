package handlers

import (
	"context"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sanz-the-nanny/backend-booking/config"
	"github.com/sanz-the-nanny/backend-booking/models"
	"github.com/sanz-the-nanny/backend-booking/services"
	"github.com/sanz-the-nanny/backend-booking/store"
)

type ContractHandler struct {
	store    store.Client
	config   *config.Config
	email    services.EmailSender
	activity *services.ActivityLogger
}

func NewContractHandler(st store.Client, cfg *config.Config, email services.EmailSender, activity *services.ActivityLogger) *ContractHandler {
	return &ContractHandler{
		store:    st,
		config:   cfg,
		email:    email,
		activity: activity,
	}
}

func (h *ContractHandler) ListContracts(c *gin.Context) {
	var records map[string]models.Contract
	if err := h.store.ReadOnce(c.Request.Context(), store.PathContracts, &records); err != nil {
		log.Printf("[Contracts] list failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to fetch contracts",
		})
		return
	}

	contracts := make([]models.Contract, 0, len(records))
	for key, ct := range records {
		ct.ID = key
		contracts = append(contracts, ct)
	}
	sort.Slice(contracts, func(i, j int) bool {
		return contracts[i].CreatedAt > contracts[j].CreatedAt
	})

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Data:    contracts,
	})
}

func (h *ContractHandler) CreateContract(c *gin.Context) {
	var req models.ContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	contract := models.Contract{
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ClientKey:   req.ClientKey,
		ServiceType: req.ServiceType,
		Rate:        req.Rate,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Schedule:    req.Schedule,
		Notes:       req.Notes,
		Status:      models.ContractDraft,
		ShortID:     shortID(),
		CreatedAt:   services.NowISO(),
	}

	key, err := h.store.Push(c.Request.Context(), store.PathContracts, contract)
	if err != nil {
		log.Printf("[Contracts] create failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to save contract",
		})
		return
	}
	contract.ID = key

	go h.syncClientDates(contract)

	h.activity.Log("contract_created", "Created contract for "+contract.ClientName, "contract", c.GetString("email"))

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Contract created",
		Data:    contract,
	})
}

func (h *ContractHandler) UpdateContract(c *gin.Context) {
	key := c.Param("id")

	var req models.ContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	contract, ok := h.readContract(c, key)
	if !ok {
		return
	}

	fields := map[string]interface{}{
		"client_name":  req.ClientName,
		"client_email": req.ClientEmail,
		"client_key":   req.ClientKey,
		"service_type": req.ServiceType,
		"rate":         req.Rate,
		"start_date":   req.StartDate,
		"end_date":     req.EndDate,
		"schedule":     req.Schedule,
		"notes":        req.Notes,
		"updated_at":   services.NowISO(),
	}
	if err := h.store.Update(c.Request.Context(), store.ChildPath(store.PathContracts, key), fields); err != nil {
		log.Printf("[Contracts] update failed for %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to update contract",
		})
		return
	}

	contract.ClientKey = req.ClientKey
	contract.StartDate = req.StartDate
	contract.EndDate = req.EndDate
	contract.ServiceType = req.ServiceType
	contract.Schedule = req.Schedule
	go h.syncClientDates(contract)

	h.activity.Log("contract_updated", "Updated contract for "+req.ClientName, "contract", c.GetString("email"))

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Contract updated",
	})
}

func (h *ContractHandler) DeleteContract(c *gin.Context) {
	key := c.Param("id")
	if err := h.store.Remove(c.Request.Context(), store.ChildPath(store.PathContracts, key)); err != nil {
		log.Printf("[Contracts] delete failed for %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to delete contract",
		})
		return
	}
	h.activity.Log("contract_deleted", "Deleted contract", "contract", c.GetString("email"))
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Contract deleted",
	})
}

// SendContract emails the agreement to the client. Unlike booking
// notifications this send is the whole point of the action, so a provider
// failure is surfaced to the caller and the status stays as it was.
func (h *ContractHandler) SendContract(c *gin.Context) {
	key := c.Param("id")
	contract, ok := h.readContract(c, key)
	if !ok {
		return
	}
	if contract.ClientEmail == "" {
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   "Contract has no client email",
		})
		return
	}

	body := h.contractEmailBody(contract)
	subject := "Your Nanny Service Agreement"
	err := h.email.Send(contract.ClientEmail, subject, "Service Agreement", body,
		"Reply to this email with any questions.", h.config.NotifyEmail)
	if err != nil {
		log.Printf("[Contracts] send failed for %s: %v", key, err)
		c.JSON(http.StatusBadGateway, models.Response{
			Success: false,
			Error:   "Failed to send contract email",
		})
		return
	}

	now := services.NowISO()
	err = h.store.Update(c.Request.Context(), store.ChildPath(store.PathContracts, key), map[string]interface{}{
		"status":  models.ContractSent,
		"sent_at": now,
	})
	if err != nil {
		log.Printf("[Contracts] sent-status update failed for %s: %v", key, err)
	}

	h.activity.Log("contract_sent", "Sent contract to "+contract.ClientEmail, "contract", c.GetString("email"))

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Contract sent",
		Data:    gin.H{"status": models.ContractSent, "sent_at": now},
	})
}

// syncClientDates pushes a linked contract's terms onto the client record so
// the availability resolver sees the current window. The sync is one-way and
// best-effort; a failure leaves the contract saved and is only logged.
func (h *ContractHandler) syncClientDates(contract models.Contract) {
	if contract.ClientKey == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), store.DefaultTimeout)
	defer cancel()

	err := h.store.Update(ctx, store.ChildPath(store.PathClients, contract.ClientKey), map[string]interface{}{
		"contract_start": contract.StartDate,
		"contract_end":   contract.EndDate,
		"service_type":   contract.ServiceType,
		"schedule":       contract.Schedule,
		"updated_at":     services.NowISO(),
	})
	if err != nil {
		log.Printf("[Contracts] client date sync failed for %s: %v", contract.ClientKey, err)
	}
}

func (h *ContractHandler) readContract(c *gin.Context, key string) (models.Contract, bool) {
	var contract models.Contract
	err := h.store.ReadOnce(c.Request.Context(), store.ChildPath(store.PathContracts, key), &contract)
	if err != nil {
		log.Printf("[Contracts] read failed for %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to fetch contract",
		})
		return contract, false
	}
	if contract.ClientName == "" && contract.CreatedAt == "" {
		c.JSON(http.StatusNotFound, models.Response{
			Success: false,
			Error:   "Contract not found",
		})
		return contract, false
	}
	contract.ID = key
	return contract, true
}

func (h *ContractHandler) contractEmailBody(ct models.Contract) string {
	rows := "<p>Hi " + ct.ClientName + ",</p>" +
		"<p>Please find your service agreement details below.</p>" +
		emailRowStr("Service", ct.ServiceType) +
		emailRowStr("Rate", ct.Rate) +
		emailRowStr("Start date", services.FormatDateNice(ct.StartDate)) +
		emailRowStr("End date", services.FormatDateNice(ct.EndDate)) +
		emailRowStr("Schedule", ct.Schedule)
	if ct.ShortID != "" {
		rows += "<p>Agreement reference: <strong>" + ct.ShortID + "</strong></p>"
	}
	return rows
}

func emailRowStr(label, value string) string {
	if value == "" {
		return ""
	}
	return emailRow(label, value)
}

// shortID yields a short human-quotable reference for contracts and
// invoice numbers.
func shortID() string {
	return strings.ToUpper(uuid.NewString()[:6])
}
