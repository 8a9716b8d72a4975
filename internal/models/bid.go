package models

import "time"

// Bid is an offer placed by a regular user on an appointment.
type Bid struct {
	ID            int       `bson:"_id" gorm:"primaryKey" json:"id"`
	Amount        float64   `bson:"amount" gorm:"not null" json:"amount"`
	Message       string    `bson:"message" gorm:"type:text" json:"message"`
	UserID        int       `bson:"userId" gorm:"not null;index" json:"userId"`
	AppointmentID int       `bson:"appointmentId" gorm:"not null;index" json:"appointmentId"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`

	User        *User        `bson:"user,omitempty" gorm:"foreignKey:UserID" json:"user"`
	Appointment *Appointment `bson:"appointment,omitempty" gorm:"foreignKey:AppointmentID" json:"appointment"`
}
