package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/anjiri1684/studio_manager/database"
	"github.com/anjiri1684/studio_manager/models"
	"github.com/anjiri1684/studio_manager/notifications"
)

// SendBookingReminders emails customers roughly an hour before their session.
// The window matches the 5-minute cron cadence so each booking is picked up once.
func SendBookingReminders() {
	log.Println("Running job: SendBookingReminders...")

	now := time.Now()
	lowerBound := now.Add(60 * time.Minute)
	upperBound := now.Add(65 * time.Minute)

	var upcomingBookings []models.Booking
	err := database.DB.
		Preload("Customer").
		Preload("Service").
		Where("status = ? AND start_time BETWEEN ? AND ?",
			models.BookingStatusConfirmed, lowerBound, upperBound).
		Find(&upcomingBookings).Error
	if err != nil {
		log.Printf("Error checking for upcoming bookings: %v", err)
		return
	}

	for _, booking := range upcomingBookings {
		if booking.Customer.Email == nil {
			continue
		}

		emailSubject := "Reminder: Your Session Starts in 1 Hour!"
		emailBody := fmt.Sprintf(
			"<h1>Session Reminder</h1><p>Hi %s,</p><p>This is a friendly reminder that your %s session is scheduled to start at %s.</p>",
			booking.Customer.Name,
			booking.Service.Name,
			booking.StartTime.Format(time.Kitchen),
		)

		go notifications.SendEmail(booking.Customer.Name, *booking.Customer.Email, emailSubject, emailBody)
	}
}
