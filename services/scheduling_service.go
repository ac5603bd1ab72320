// services/scheduling_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"clinicpro-backend/models"
	"clinicpro-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateAppointmentInput defines the expected JSON structure for creating an
// appointment.
type CreateAppointmentInput struct {
	ClientID     uuid.UUID   `json:"clientId" binding:"required"`
	EmployeeID   *uuid.UUID  `json:"employeeId"`
	Date         string      `json:"date" binding:"required"`      // YYYY-MM-DD
	StartTime    string      `json:"startTime" binding:"required"` // HH:MM
	EndTime      string      `json:"endTime" binding:"required"`   // HH:MM
	TreatmentIDs []uuid.UUID `json:"treatmentIds" binding:"required,min=1"`
	Notes        string      `json:"notes"`
}

// UpdateAppointmentInput defines the expected JSON structure for updating an
// appointment. Omitted fields are left untouched.
type UpdateAppointmentInput struct {
	EmployeeID   *uuid.UUID   `json:"employeeId"`
	Date         *string      `json:"date"`
	StartTime    *string      `json:"startTime"`
	EndTime      *string      `json:"endTime"`
	TreatmentIDs *[]uuid.UUID `json:"treatmentIds"`
	Notes        *string      `json:"notes"`
}

// AppointmentFilters models the optional query parameters of the appointment
// list endpoint as an explicit struct instead of ad-hoc conditions.
type AppointmentFilters struct {
	Status     string
	EmployeeID *uuid.UUID
	ClientID   *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	Search     string
	SortBy     string
	SortOrder  string
}

var appointmentSortColumns = map[string]string{
	"date":        "appointments.date",
	"startTime":   "appointments.start_time",
	"status":      "appointments.status",
	"totalAmount": "appointments.total_amount",
	"createdAt":   "appointments.created_at",
}

// Apply translates the filter struct into a gorm query. All list-endpoint
// filtering goes through here so defaults stay in one place.
func (f AppointmentFilters) Apply(q *gorm.DB) *gorm.DB {
	if f.Status != "" {
		q = q.Where("appointments.status = ?", f.Status)
	}
	if f.EmployeeID != nil {
		q = q.Where("appointments.employee_id = ?", *f.EmployeeID)
	}
	if f.ClientID != nil {
		q = q.Where("appointments.client_id = ?", *f.ClientID)
	}
	if f.StartDate != nil {
		q = q.Where("appointments.date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("appointments.date <= ?", *f.EndDate)
	}
	if f.Search != "" {
		q = q.Joins("JOIN clients ON clients.id = appointments.client_id").
			Where("clients.name ILIKE ? OR appointments.notes ILIKE ?",
				"%"+f.Search+"%", "%"+f.Search+"%")
	}
	return q.Order(f.orderClause())
}

func (f AppointmentFilters) orderClause() string {
	column, ok := appointmentSortColumns[f.SortBy]
	if !ok {
		column = "appointments.date"
	}
	direction := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		direction = "ASC"
	}
	if column == "appointments.start_time" {
		return fmt.Sprintf("%s %s", column, direction)
	}
	return fmt.Sprintf("%s %s, appointments.start_time %s", column, direction, direction)
}

// SchedulingService owns appointment creation, edits and the status state
// machine.
type SchedulingService struct {
	db      *gorm.DB
	audit   *AuditService
	billing *BillingService
}

func NewSchedulingService(db *gorm.DB, audit *AuditService, billing *BillingService) *SchedulingService {
	return &SchedulingService{db: db, audit: audit, billing: billing}
}

// intervalsConflict reports whether the candidate interval collides with an
// existing one. The three clauses are the exact rule the clinic uses:
//
//	(a) existing.start <= candidate.start < existing.end
//	(b) existing.start <  candidate.end  <= existing.end
//	(c) candidate.start <= existing.start AND existing.end <= candidate.end
//
// End times are exclusive in (a)/(b), so back-to-back appointments where one
// ends exactly when another starts do not conflict.
func intervalsConflict(existingStart, existingEnd, candidateStart, candidateEnd time.Time) bool {
	if !existingStart.After(candidateStart) && candidateStart.Before(existingEnd) {
		return true
	}
	if existingStart.Before(candidateEnd) && !candidateEnd.After(existingEnd) {
		return true
	}
	if !candidateStart.After(existingStart) && !existingEnd.After(candidateEnd) {
		return true
	}
	return false
}

// HasConflict reports whether the employee already has an active appointment
// overlapping [start, end) on the given date. Read-only; the caller decides
// what to do with a hit. Two concurrent requests can both pass this check
// before either commits; the write path takes no row lock.
func (s *SchedulingService) HasConflict(employeeID uuid.UUID, date, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	q := s.db.Where("employee_id = ? AND date = ? AND status IN ?",
		employeeID, date, models.ActiveAppointmentStatuses)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var existing []models.Appointment
	if err := q.Find(&existing).Error; err != nil {
		return false, err
	}
	for _, appt := range existing {
		if intervalsConflict(appt.StartTime, appt.EndTime, start, end) {
			return true, nil
		}
	}
	return false, nil
}

// Create validates the input, checks for scheduling conflicts and writes the
// appointment plus its treatment line items in one transaction.
func (s *SchedulingService) Create(userID *uuid.UUID, input CreateAppointmentInput) (*models.Appointment, error) {
	date, start, end, err := parseSchedule(input.Date, input.StartTime, input.EndTime)
	if err != nil {
		return nil, err
	}
	if date.Before(utils.BeginningOfDay(time.Now().UTC())) {
		return nil, NewValidationError("appointment date cannot be in the past")
	}

	var client models.Client
	if err := s.db.First(&client, "id = ?", input.ClientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("client not found")
		}
		return nil, err
	}

	if input.EmployeeID != nil {
		var employee models.Employee
		if err := s.db.First(&employee, "id = ?", *input.EmployeeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewNotFoundError("employee not found")
			}
			return nil, err
		}

		conflict, err := s.HasConflict(*input.EmployeeID, date, start, end, nil)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, NewConflictError("the employee already has an appointment in that time slot")
		}
	}

	treatments, err := s.resolveActiveTreatments(input.TreatmentIDs)
	if err != nil {
		return nil, err
	}

	var totalAmount float64
	var items []models.AppointmentTreatment
	for _, t := range treatments {
		totalAmount += t.Price
		items = append(items, models.AppointmentTreatment{
			TreatmentID:   t.ID,
			TreatmentName: t.Name,
			Quantity:      1,
			Price:         t.Price, // snapshot, not live-linked
		})
	}

	appointment := models.Appointment{
		ClientID:    input.ClientID,
		EmployeeID:  input.EmployeeID,
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		Status:      models.AppointmentScheduled,
		Notes:       input.Notes,
		TotalAmount: totalAmount,
		Treatments:  items,
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&appointment).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	s.reload(&appointment)
	s.audit.Record(userID, "appointment", appointment.ID, "create", nil, appointment)

	return &appointment, nil
}

// Update applies a partial edit. Provided date/start/end values are merged
// with the stored ones before re-validation; a provided treatment list
// replaces the existing line items wholesale and recomputes the total, all
// inside one transaction.
func (s *SchedulingService) Update(id uuid.UUID, userID *uuid.UUID, input UpdateAppointmentInput) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := s.db.Preload("Treatments").First(&appointment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("appointment not found")
		}
		return nil, err
	}

	if appointment.Status == models.AppointmentCompleted || appointment.Status == models.AppointmentCancelled {
		return nil, NewStateError("cannot edit a %s appointment; rebook it first", strings.ToLower(string(appointment.Status)))
	}

	before := appointment

	date := appointment.Date.UTC()
	if input.Date != nil {
		parsed, err := utils.ParseDate(*input.Date)
		if err != nil {
			return nil, NewValidationError("%s", err.Error())
		}
		date = parsed
	}

	startClock := clockOf(appointment.StartTime)
	if input.StartTime != nil {
		startClock = *input.StartTime
	}
	endClock := clockOf(appointment.EndTime)
	if input.EndTime != nil {
		endClock = *input.EndTime
	}

	start, err := utils.CombineDateTime(date, startClock)
	if err != nil {
		return nil, NewValidationError("%s", err.Error())
	}
	end, err := utils.CombineDateTime(date, endClock)
	if err != nil {
		return nil, NewValidationError("%s", err.Error())
	}
	if !start.Before(end) {
		return nil, NewValidationError("startTime must be before endTime")
	}

	scheduleChanged := !date.Equal(appointment.Date) ||
		!start.Equal(appointment.StartTime) || !end.Equal(appointment.EndTime)

	employeeID := appointment.EmployeeID
	if input.EmployeeID != nil {
		var employee models.Employee
		if err := s.db.First(&employee, "id = ?", *input.EmployeeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewNotFoundError("employee not found")
			}
			return nil, err
		}
		employeeID = input.EmployeeID
	}

	if employeeID != nil && (input.EmployeeID != nil || scheduleChanged) {
		conflict, err := s.HasConflict(*employeeID, date, start, end, &appointment.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, NewConflictError("the employee already has an appointment in that time slot")
		}
	}

	appointment.EmployeeID = employeeID
	appointment.Date = date
	appointment.StartTime = start
	appointment.EndTime = end
	if input.Notes != nil {
		appointment.Notes = *input.Notes
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if input.TreatmentIDs != nil {
		treatments, err := s.resolveActiveTreatments(*input.TreatmentIDs)
		if err != nil {
			tx.Rollback()
			return nil, err
		}

		if err := tx.Where("appointment_id = ?", appointment.ID).
			Delete(&models.AppointmentTreatment{}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}

		var totalAmount float64
		var items []models.AppointmentTreatment
		for _, t := range treatments {
			totalAmount += t.Price
			items = append(items, models.AppointmentTreatment{
				AppointmentID: appointment.ID,
				TreatmentID:   t.ID,
				TreatmentName: t.Name,
				Quantity:      1,
				Price:         t.Price,
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		appointment.Treatments = items
		appointment.TotalAmount = totalAmount
	}

	if err := tx.Omit("Treatments").Save(&appointment).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	s.reload(&appointment)
	s.audit.Record(userID, "appointment", appointment.ID, "update", before, appointment)

	return &appointment, nil
}

// UpdateStatus applies the strict transition allow-list. Confirming an
// appointment also creates its pending billing as a best-effort side effect.
func (s *SchedulingService) UpdateStatus(id uuid.UUID, userID *uuid.UUID, requested string) (*models.Appointment, error) {
	status := models.AppointmentStatus(requested)
	if !status.Valid() {
		return nil, NewValidationError("invalid appointment status: %s", requested)
	}

	var appointment models.Appointment
	if err := s.db.Preload("Treatments").First(&appointment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("appointment not found")
		}
		return nil, err
	}

	if !appointment.Status.CanTransitionTo(status) {
		return nil, NewStateError("cannot go from %s to %s", appointment.Status, status)
	}

	before := appointment
	appointment.Status = status
	if err := s.db.Omit("Treatments").Save(&appointment).Error; err != nil {
		return nil, err
	}

	s.audit.Record(userID, "appointment", appointment.ID, "status_change", before, appointment)

	if status == models.AppointmentConfirmed {
		// Billing generation must never fail the confirmation itself.
		if err := s.billing.EnsureAppointmentBilling(&appointment); err != nil {
			log.Printf("scheduling: failed to generate billing for confirmed appointment %s: %v", appointment.ID, err)
		}
	}

	return &appointment, nil
}

// Cancel marks the appointment CANCELLED and appends the reason to its notes.
func (s *SchedulingService) Cancel(id uuid.UUID, userID *uuid.UUID, reason string) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := s.db.Preload("Treatments").First(&appointment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("appointment not found")
		}
		return nil, err
	}

	if appointment.Status == models.AppointmentCompleted {
		return nil, NewStateError("cannot cancel a completed appointment")
	}
	if appointment.Status == models.AppointmentCancelled {
		return nil, NewStateError("appointment is already cancelled")
	}

	before := appointment
	appointment.Status = models.AppointmentCancelled
	appointment.Notes = appendCancellationReason(appointment.Notes, reason)

	if err := s.db.Omit("Treatments").Save(&appointment).Error; err != nil {
		return nil, err
	}

	s.audit.Record(userID, "appointment", appointment.ID, "cancel", before, appointment)

	return &appointment, nil
}

// clockOf derives the wall-clock component of a stored timestamp. The value
// is normalized to UTC first, so a database driver returning rows in a local
// zone cannot shift the derived clock onto a neighboring day.
func clockOf(t time.Time) string {
	return t.UTC().Format(utils.TimeLayout)
}

// appendCancellationReason concatenates the reason onto existing notes
// without replacing them.
func appendCancellationReason(notes, reason string) string {
	if reason == "" {
		return notes
	}
	entry := "Cancellation reason: " + reason
	if notes == "" {
		return entry
	}
	return notes + "\n" + entry
}

func (s *SchedulingService) Get(id uuid.UUID) (*models.Appointment, error) {
	var appointment models.Appointment
	err := s.db.Preload("Treatments").Preload("Client").Preload("Employee").
		First(&appointment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("appointment not found")
		}
		return nil, err
	}
	return &appointment, nil
}

func (s *SchedulingService) List(filters AppointmentFilters, page, limit int) ([]models.Appointment, int64, error) {
	q := filters.Apply(s.db.Model(&models.Appointment{}))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var appointments []models.Appointment
	err := q.Preload("Treatments").Preload("Client").Preload("Employee").
		Offset((page - 1) * limit).Limit(limit).
		Find(&appointments).Error
	if err != nil {
		return nil, 0, err
	}
	return appointments, total, nil
}

// Today lists the current day's appointments.
func (s *SchedulingService) Today(page, limit int) ([]models.Appointment, int64, error) {
	today := utils.BeginningOfDay(time.Now().UTC())
	return s.List(AppointmentFilters{
		StartDate: &today,
		EndDate:   &today,
		SortBy:    "startTime",
		SortOrder: "asc",
	}, page, limit)
}

// resolveActiveTreatments loads the requested treatments and detects unknown
// or inactive ids through a count mismatch.
func (s *SchedulingService) resolveActiveTreatments(ids []uuid.UUID) ([]models.Treatment, error) {
	if len(ids) == 0 {
		return nil, NewValidationError("at least one treatment is required")
	}
	var treatments []models.Treatment
	if err := s.db.Where("id IN ? AND is_active = ?", ids, true).Find(&treatments).Error; err != nil {
		return nil, err
	}
	if len(treatments) != len(ids) {
		return nil, NewValidationError("one or more treatments not found or inactive")
	}
	return treatments, nil
}

func (s *SchedulingService) reload(appointment *models.Appointment) {
	if err := s.db.Preload("Treatments").Preload("Client").Preload("Employee").
		First(appointment, "id = ?", appointment.ID).Error; err != nil {
		log.Printf("scheduling: failed to reload appointment %s: %v", appointment.ID, err)
	}
}

func parseSchedule(dateStr, startStr, endStr string) (date, start, end time.Time, err error) {
	date, err = utils.ParseDate(dateStr)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, NewValidationError("%s", err.Error())
	}
	start, err = utils.CombineDateTime(date, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, NewValidationError("%s", err.Error())
	}
	end, err = utils.CombineDateTime(date, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, NewValidationError("%s", err.Error())
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, time.Time{}, NewValidationError("startTime must be before endTime")
	}
	return date, start, end, nil
}
