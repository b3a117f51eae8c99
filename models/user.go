package models

import "time"

// User is a registered patient account. Guest bookings do not create one;
// they carry a PatientContact bundle on the appointment instead.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	TokenHash    string    `bson:"tokenHash,omitempty" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Contact derives the appointment contact bundle for an account holder.
func (u *User) Contact() PatientContact {
	return PatientContact{Name: u.Name, Phone: u.Phone, Email: u.Email}
}
