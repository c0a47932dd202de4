package handlers

import (
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sanz-the-nanny/backend-booking/config"
	"github.com/sanz-the-nanny/backend-booking/models"
	"github.com/sanz-the-nanny/backend-booking/services"
	"github.com/sanz-the-nanny/backend-booking/store"
)

type InvoiceHandler struct {
	store    store.Client
	config   *config.Config
	activity *services.ActivityLogger
}

func NewInvoiceHandler(st store.Client, cfg *config.Config, activity *services.ActivityLogger) *InvoiceHandler {
	return &InvoiceHandler{
		store:    st,
		config:   cfg,
		activity: activity,
	}
}

// ListInvoices returns invoices newest first, each decorated with the
// derived overdue flag. Overdue is never stored.
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	var records map[string]models.Invoice
	if err := h.store.ReadOnce(c.Request.Context(), store.PathInvoices, &records); err != nil {
		log.Printf("[Invoices] list failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to fetch invoices",
		})
		return
	}

	statusFilter := c.Query("status")
	today := services.DateKey(time.Now())

	invoices := make([]models.InvoiceWithState, 0, len(records))
	for key, inv := range records {
		inv.ID = key
		if inv.PaymentStatus == "" {
			inv.PaymentStatus = models.InvoiceUnpaid
		}
		if statusFilter != "" && inv.PaymentStatus != statusFilter {
			continue
		}
		invoices = append(invoices, models.InvoiceWithState{
			Invoice: inv,
			Overdue: inv.PaymentStatus == models.InvoiceUnpaid && inv.DueDate != "" && inv.DueDate < today,
		})
	}
	sort.Slice(invoices, func(i, j int) bool {
		return invoices[i].CreatedAt > invoices[j].CreatedAt
	})

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Data:    invoices,
	})
}

func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req models.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	number := req.InvoiceNumber
	if number == "" {
		number = "INV-" + shortID()
	}
	invoice := models.Invoice{
		InvoiceNumber: number,
		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
		ClientKey:     req.ClientKey,
		TotalAmount:   req.TotalAmount,
		DueDate:       req.DueDate,
		PaymentStatus: models.InvoiceUnpaid,
		Notes:         req.Notes,
		CreatedAt:     services.NowISO(),
	}

	key, err := h.store.Push(c.Request.Context(), store.PathInvoices, invoice)
	if err != nil {
		log.Printf("[Invoices] create failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to save invoice",
		})
		return
	}
	invoice.ID = key

	h.activity.Log("invoice_created", "Created invoice "+number+" for "+req.ClientName, "invoice", c.GetString("email"))

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Invoice created",
		Data:    invoice,
	})
}

func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	key := c.Param("id")

	var req models.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	if _, ok := h.readInvoice(c, key); !ok {
		return
	}

	fields := map[string]interface{}{
		"client_name":  req.ClientName,
		"client_email": req.ClientEmail,
		"client_key":   req.ClientKey,
		"total_amount": req.TotalAmount,
		"due_date":     req.DueDate,
		"notes":        req.Notes,
		"updated_at":   services.NowISO(),
	}
	if req.InvoiceNumber != "" {
		fields["invoice_number"] = req.InvoiceNumber
	}
	if err := h.store.Update(c.Request.Context(), store.ChildPath(store.PathInvoices, key), fields); err != nil {
		log.Printf("[Invoices] update failed for %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to update invoice",
		})
		return
	}

	h.activity.Log("invoice_updated", "Updated invoice for "+req.ClientName, "invoice", c.GetString("email"))

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Invoice updated",
	})
}

func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	key := c.Param("id")
	invoice, ok := h.readInvoice(c, key)
	if !ok {
		return
	}
	if invoice.PaymentStatus == models.InvoicePaid {
		c.JSON(http.StatusConflict, models.Response{
			Success: false,
			Error:   "Invoice is already paid",
		})
		return
	}

	now := services.NowISO()
	err := h.store.Update(c.Request.Context(), store.ChildPath(store.PathInvoices, key), map[string]interface{}{
		"payment_status": models.InvoicePaid,
		"paid_at":        now,
	})
	if err != nil {
		log.Printf("[Invoices] mark-paid failed for %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to update invoice",
		})
		return
	}

	h.activity.Log("invoice_paid", "Marked invoice "+invoice.InvoiceNumber+" as paid", "invoice", c.GetString("email"))

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Invoice marked as paid",
		Data:    gin.H{"payment_status": models.InvoicePaid, "paid_at": now},
	})
}

func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	key := c.Param("id")
	if err := h.store.Remove(c.Request.Context(), store.ChildPath(store.PathInvoices, key)); err != nil {
		log.Printf("[Invoices] delete failed for %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to delete invoice",
		})
		return
	}
	h.activity.Log("invoice_deleted", "Deleted invoice", "invoice", c.GetString("email"))
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Invoice deleted",
	})
}

func (h *InvoiceHandler) readInvoice(c *gin.Context, key string) (models.Invoice, bool) {
	var invoice models.Invoice
	err := h.store.ReadOnce(c.Request.Context(), store.ChildPath(store.PathInvoices, key), &invoice)
	if err != nil {
		log.Printf("[Invoices] read failed for %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to fetch invoice",
		})
		return invoice, false
	}
	if invoice.InvoiceNumber == "" && invoice.CreatedAt == "" {
		c.JSON(http.StatusNotFound, models.Response{
			Success: false,
			Error:   "Invoice not found",
		})
		return invoice, false
	}
	invoice.ID = key
	if invoice.PaymentStatus == "" {
		invoice.PaymentStatus = models.InvoiceUnpaid
	}
	return invoice, true
}
