package models

import "time"

// Appointment is posted by a regular user in a category and collects bids
// until a doctor accepts it.
type Appointment struct {
	ID          int        `bson:"_id" gorm:"primaryKey" json:"id"`
	Title       string     `bson:"title" gorm:"size:255;not null" json:"title"`
	Description string     `bson:"description" gorm:"type:text" json:"description"`
	Price       float64    `bson:"price" json:"price"`
	ScheduledAt *time.Time `bson:"scheduledAt,omitempty" json:"scheduledAt,omitempty"`
	UserID      int        `bson:"userId" gorm:"not null;index" json:"userId"`
	DoctorID    *int       `bson:"doctorId" gorm:"index" json:"doctorId"`
	CategoryID  int        `bson:"categoryId" gorm:"not null;index" json:"categoryId"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`

	User     *User     `bson:"user,omitempty" gorm:"foreignKey:UserID" json:"user"`
	Doctor   *User     `bson:"doctor,omitempty" gorm:"foreignKey:DoctorID" json:"doctor"`
	Category *Category `bson:"category,omitempty" gorm:"foreignKey:CategoryID" json:"category"`
	Bids     []Bid     `bson:"bids,omitempty" gorm:"foreignKey:AppointmentID" json:"bids"`
}
