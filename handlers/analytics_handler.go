package handlers

import (
	"errors"
	"sort"
	"time"

	"github.com/anjiri1684/studio_manager/database"
	"github.com/anjiri1684/studio_manager/middleware"
	"github.com/anjiri1684/studio_manager/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// parseDateRange reads startDate/endDate ISO query params, defaulting to the
// 30 days trailing the effective end. An explicitly inverted range is a client
// error; an endDate alone just shifts the window back.
func parseDateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	end := time.Now()
	if raw := c.Query("endDate"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("endDate must be an ISO date (YYYY-MM-DD)")
		}
		// Inclusive end of day.
		end = parsed.Add(24*time.Hour - time.Second)
	}

	start := end.AddDate(0, 0, -30)
	if raw := c.Query("startDate"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("startDate must be an ISO date (YYYY-MM-DD)")
		}
		start = parsed
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, errors.New("startDate must not be after endDate")
	}
	return start, end, nil
}

func studioPaymentsInRange(studioID uuid.UUID, start, end time.Time) []models.Payment {
	var payments []models.Payment
	database.DB.
		Joins("JOIN invoices ON invoices.id = payments.invoice_id").
		Where("invoices.studio_id = ? AND payments.paid_at BETWEEN ? AND ?", studioID, start, end).
		Find(&payments)
	return payments
}

type OverviewResponse struct {
	TotalCustomers   int64  `json:"total_customers"`
	BookingsInRange  int64  `json:"bookings_in_range"`
	RevenueInRange   string `json:"revenue_in_range"`
	UnpaidInvoices   int64  `json:"unpaid_invoices"`
	UpcomingBookings int64  `json:"upcoming_bookings"`
}

func GetOverview(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	start, end, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var response OverviewResponse

	database.DB.Model(&models.Customer{}).Where("studio_id = ?", studioID).Count(&response.TotalCustomers)
	database.DB.Model(&models.Booking{}).
		Where("studio_id = ? AND start_time BETWEEN ? AND ?", studioID, start, end).
		Count(&response.BookingsInRange)
	database.DB.Model(&models.Invoice{}).
		Where("studio_id = ? AND status IN ?", studioID,
			[]string{models.InvoiceStatusSent, models.InvoiceStatusPartiallyPaid}).
		Count(&response.UnpaidInvoices)
	database.DB.Model(&models.Booking{}).
		Where("studio_id = ? AND status IN ? AND start_time > ?", studioID,
			[]string{models.BookingStatusPending, models.BookingStatusConfirmed}, time.Now()).
		Count(&response.UpcomingBookings)

	revenue := decimal.Zero
	for _, p := range studioPaymentsInRange(studioID, start, end) {
		revenue = revenue.Add(p.Amount)
	}
	response.RevenueInRange = revenue.StringFixed(2)

	return c.JSON(response)
}

// GetRevenue returns a per-day revenue series for the window.
func GetRevenue(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	start, end, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	byDay := map[string]decimal.Decimal{}
	total := decimal.Zero
	for _, p := range studioPaymentsInRange(studioID, start, end) {
		day := p.PaidAt.Format("2006-01-02")
		byDay[day] = byDay[day].Add(p.Amount)
		total = total.Add(p.Amount)
	}

	series := []fiber.Map{}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		amount, ok := byDay[key]
		if !ok {
			amount = decimal.Zero
		}
		series = append(series, fiber.Map{"date": key, "revenue": amount.StringFixed(2)})
	}

	return c.JSON(fiber.Map{
		"total":  total.StringFixed(2),
		"series": series,
	})
}

func GetBookingsByStatus(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	start, end, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	counts := fiber.Map{}
	for _, status := range []string{
		models.BookingStatusPending,
		models.BookingStatusConfirmed,
		models.BookingStatusCompleted,
		models.BookingStatusCancelled,
	} {
		var count int64
		database.DB.Model(&models.Booking{}).
			Where("studio_id = ? AND status = ? AND start_time BETWEEN ? AND ?", studioID, status, start, end).
			Count(&count)
		counts[status] = count
	}

	return c.JSON(counts)
}

func GetServicePerformance(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	start, end, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var services []models.Service
	database.DB.Where("studio_id = ?", studioID).Find(&services)

	performance := []fiber.Map{}
	for _, service := range services {
		var bookings []models.Booking
		database.DB.
			Where("studio_id = ? AND service_id = ? AND start_time BETWEEN ? AND ?",
				studioID, service.ID, start, end).
			Find(&bookings)

		completed := 0
		revenue := decimal.Zero
		for _, b := range bookings {
			if b.Status == models.BookingStatusCompleted {
				completed++
				revenue = revenue.Add(service.Price)
			}
		}

		performance = append(performance, fiber.Map{
			"service_id":         service.ID.String(),
			"service_name":       service.Name,
			"bookings":           len(bookings),
			"completed_bookings": completed,
			"revenue":            revenue.StringFixed(2),
		})
	}

	return c.JSON(performance)
}

const topCustomerLimit = 5

func GetCustomerInsights(c *fiber.Ctx) error {
	studioID := middleware.StudioID(c)

	start, end, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var newCustomers int64
	database.DB.Model(&models.Customer{}).
		Where("studio_id = ? AND created_at BETWEEN ? AND ?", studioID, start, end).
		Count(&newCustomers)

	var payments []models.Payment
	database.DB.Preload("Invoice").
		Joins("JOIN invoices ON invoices.id = payments.invoice_id").
		Where("invoices.studio_id = ? AND payments.paid_at BETWEEN ? AND ?", studioID, start, end).
		Find(&payments)

	spendByCustomer := map[uuid.UUID]decimal.Decimal{}
	for _, p := range payments {
		key := p.Invoice.CustomerID
		spendByCustomer[key] = spendByCustomer[key].Add(p.Amount)
	}

	type customerSpend struct {
		id    uuid.UUID
		spend decimal.Decimal
	}
	ranked := make([]customerSpend, 0, len(spendByCustomer))
	for id, spend := range spendByCustomer {
		ranked = append(ranked, customerSpend{id: id, spend: spend})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].spend.GreaterThan(ranked[j].spend) })
	if len(ranked) > topCustomerLimit {
		ranked = ranked[:topCustomerLimit]
	}

	ids := make([]uuid.UUID, 0, len(ranked))
	for _, entry := range ranked {
		ids = append(ids, entry.id)
	}
	var customers []models.Customer
	database.DB.Where("id IN ?", ids).Find(&customers)
	namesByID := map[uuid.UUID]string{}
	for _, customer := range customers {
		namesByID[customer.ID] = customer.Name
	}

	topCustomers := []fiber.Map{}
	for _, entry := range ranked {
		topCustomers = append(topCustomers, fiber.Map{
			"customer_id":   entry.id.String(),
			"customer_name": namesByID[entry.id],
			"total_spent":   entry.spend.StringFixed(2),
		})
	}

	return c.JSON(fiber.Map{
		"new_customers": newCustomers,
		"top_customers": topCustomers,
	})
}
