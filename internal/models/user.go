package models

import "time"

// User is either a regular user (posts appointments and bids) or a doctor
// (accepts appointments), depending on IsDoctor.
type User struct {
	ID        int       `bson:"_id" gorm:"primaryKey" json:"id"`
	Email     string    `bson:"email" gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string    `bson:"password" gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialized
	UserName  string    `bson:"userName" gorm:"size:255" json:"userName"`
	FirstName string    `bson:"firstName" gorm:"size:255" json:"firstName"`
	LastName  string    `bson:"lastName" gorm:"size:255" json:"lastName"`
	Address   string    `bson:"address" json:"address"`
	Bio       string    `bson:"bio" gorm:"type:text" json:"bio"`
	Phone     string    `bson:"phone" gorm:"size:64" json:"phone"`
	Avatar    string    `bson:"avatar" json:"avatar"`
	IsDoctor  bool      `bson:"isDoctor" gorm:"not null;default:false;index" json:"isDoctor"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`

	PostedAppointments   []Appointment `bson:"postedAppointments,omitempty" gorm:"foreignKey:UserID" json:"postedAppointments"`
	AcceptedAppointments []Appointment `bson:"acceptedAppointments,omitempty" gorm:"foreignKey:DoctorID" json:"acceptedAppointments"`
}
