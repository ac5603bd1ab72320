package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentStatus represents the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentScheduled  AppointmentStatus = "SCHEDULED"
	AppointmentConfirmed  AppointmentStatus = "CONFIRMED"
	AppointmentInProgress AppointmentStatus = "IN_PROGRESS"
	AppointmentCompleted  AppointmentStatus = "COMPLETED"
	AppointmentCancelled  AppointmentStatus = "CANCELLED"
	AppointmentNoShow     AppointmentStatus = "NO_SHOW"
)

// appointmentTransitions is the strict allow-list of status changes.
// COMPLETED is terminal; CANCELLED and NO_SHOW only re-enter the lifecycle
// through rebooking back to SCHEDULED.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentScheduled:  {AppointmentConfirmed, AppointmentCancelled, AppointmentInProgress},
	AppointmentConfirmed:  {AppointmentInProgress, AppointmentCancelled, AppointmentNoShow},
	AppointmentInProgress: {AppointmentCompleted, AppointmentCancelled},
	AppointmentCompleted:  {},
	AppointmentCancelled:  {AppointmentScheduled},
	AppointmentNoShow:     {AppointmentScheduled},
}

// ActiveAppointmentStatuses are the states that occupy an employee's time
// slot and therefore participate in conflict detection.
var ActiveAppointmentStatuses = []AppointmentStatus{
	AppointmentScheduled,
	AppointmentConfirmed,
	AppointmentInProgress,
}

func (s AppointmentStatus) Valid() bool {
	_, ok := appointmentTransitions[s]
	return ok
}

func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	ClientID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"clientId"`
	EmployeeID *uuid.UUID `gorm:"type:uuid;index" json:"employeeId"`

	Date      time.Time `gorm:"not null;index" json:"date"`
	StartTime time.Time `gorm:"not null" json:"startTime"`
	EndTime   time.Time `gorm:"not null" json:"endTime"`

	Status AppointmentStatus `gorm:"type:varchar(20);default:'SCHEDULED';index" json:"status"`
	Notes  string            `gorm:"type:text" json:"notes"`

	// Sum of line items' price x quantity; recomputed whenever the
	// treatment list changes, never edited directly.
	TotalAmount float64 `gorm:"type:decimal(10,2);default:0.0" json:"totalAmount"`

	Client     Client                 `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Employee   *Employee              `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Treatments []AppointmentTreatment `gorm:"foreignKey:AppointmentID" json:"treatments"`

	gorm.Model
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

// AppointmentTreatment is a line item linking an appointment to a treatment.
// Price is a snapshot of Treatment.Price at association time, so later price
// changes never retroactively alter past appointments.
type AppointmentTreatment struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AppointmentID uuid.UUID `gorm:"type:uuid;index;not null" json:"appointmentId"`
	TreatmentID   uuid.UUID `gorm:"type:uuid;index;not null" json:"treatmentId"`

	TreatmentName string  `gorm:"not null" json:"treatmentName"`
	Quantity      int     `gorm:"default:1" json:"quantity"`
	Price         float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Notes         string  `json:"notes"`
}

func (at *AppointmentTreatment) BeforeCreate(tx *gorm.DB) (err error) {
	if at.ID == uuid.Nil {
		at.ID = uuid.New()
	}
	return
}
