// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"time"

	"clinicpro-backend/models"
	"clinicpro-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// ReminderService sends next-day appointment reminders over SMS/WhatsApp.
type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewReminderService(db *gorm.DB) *ReminderService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 8 AM
	if _, err := c.AddFunc("0 8 * * *", s.SendDailyReminders); err != nil {
		log.Printf("reminder: failed to schedule daily job: %v", err)
		return
	}

	c.Start()
	log.Println("Reminder scheduler started")
}

// SendDailyReminders notifies clients with an active appointment tomorrow.
func (s *ReminderService) SendDailyReminders() {
	log.Println("Starting daily reminder processing...")

	tomorrow := utils.BeginningOfDay(time.Now().UTC().AddDate(0, 0, 1))

	var appointments []models.Appointment
	err := s.db.Preload("Client").
		Where("date = ? AND status IN ?", tomorrow,
			[]models.AppointmentStatus{models.AppointmentScheduled, models.AppointmentConfirmed}).
		Find(&appointments).Error
	if err != nil {
		log.Printf("reminder: failed to fetch tomorrow's appointments: %v", err)
		return
	}

	for _, appointment := range appointments {
		s.sendReminder(appointment)
	}

	log.Println("Daily reminder processing completed")
}

func (s *ReminderService) sendReminder(appointment models.Appointment) {
	phone := utils.NormalizePhone(appointment.Client.Phone)
	if phone == "" {
		return
	}

	message := fmt.Sprintf("Hi %s, this is a reminder of your appointment tomorrow at %s.",
		appointment.Client.Name, appointment.StartTime.Format(utils.TimeLayout))

	// WhatsApp for international numbers, plain SMS otherwise
	channel := "sms"
	to := phone
	if utils.IsWhatsAppCapable(phone) {
		to = "whatsapp:" + phone
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)
	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	status := "sent"
	errorMessage := ""
	if _, err := s.client.Api.CreateMessage(params); err != nil {
		status = "failed"
		errorMessage = err.Error()
		log.Printf("reminder: failed to send to %s: %v", appointment.Client.Phone, err)
	}

	entry := models.ReminderLog{
		ClientID:      appointment.ClientID,
		AppointmentID: appointment.ID,
		Message:       message,
		Status:        status,
		ErrorMessage:  errorMessage,
		Channel:       channel,
		SentAt:        time.Now(),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("reminder: failed to log reminder for appointment %s: %v", appointment.ID, err)
	}
}
