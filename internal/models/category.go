package models

import "time"

type Category struct {
	ID        int       `bson:"_id" gorm:"primaryKey" json:"id"`
	Name      string    `bson:"name" gorm:"size:255;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`

	Appointments []Appointment `bson:"appointments,omitempty" gorm:"foreignKey:CategoryID" json:"appointments"`
}
