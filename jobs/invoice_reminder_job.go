package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/anjiri1684/studio_manager/database"
	"github.com/anjiri1684/studio_manager/models"
	"github.com/anjiri1684/studio_manager/notifications"
)

// SendOverdueInvoiceReminders emails customers whose invoices are past due and
// still carry a balance.
func SendOverdueInvoiceReminders() {
	log.Println("Running job: SendOverdueInvoiceReminders...")

	var overdueInvoices []models.Invoice
	err := database.DB.
		Preload("Customer").
		Where("status IN ? AND due_date IS NOT NULL AND due_date < ?",
			[]string{models.InvoiceStatusSent, models.InvoiceStatusPartiallyPaid}, time.Now()).
		Find(&overdueInvoices).Error
	if err != nil {
		log.Printf("Error checking for overdue invoices: %v", err)
		return
	}

	for _, invoice := range overdueInvoices {
		if invoice.Customer.Email == nil {
			continue
		}

		emailSubject := fmt.Sprintf("Payment Reminder: Invoice %s", invoice.InvoiceNumber)
		emailBody := fmt.Sprintf(
			"<h1>Payment Reminder</h1><p>Hi %s,</p><p>Invoice %s for %s was due on %s and still has an outstanding balance. Please arrange payment at your earliest convenience.</p>",
			invoice.Customer.Name,
			invoice.InvoiceNumber,
			invoice.Total.StringFixed(2),
			invoice.DueDate.Format("January 2, 2006"),
		)

		go notifications.SendEmail(invoice.Customer.Name, *invoice.Customer.Email, emailSubject, emailBody)
	}
}
