package model

import (
	"time"
)

// UserStatus gates login; blocked accounts keep their row but cannot
// authenticate.
type UserStatus string

const (
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

type User struct {
	ID           int64      `gorm:"primaryKey"`
	FirstName    string     `gorm:"size:100"`
	LastName     string     `gorm:"size:100"`
	Email        string     `gorm:"size:255;uniqueIndex"`
	Phone        string     `gorm:"size:20;uniqueIndex"` // canonical digits, see pkg/phone
	PasswordHash string     `gorm:"size:255"`
	GoogleID     string     `gorm:"size:64;index"`
	FacebookID   string     `gorm:"size:64;index"`
	Status       UserStatus `gorm:"size:16;default:active"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Admin struct {
	ID           int64  `gorm:"primaryKey"`
	Name         string `gorm:"size:100"`
	Email        string `gorm:"size:255;uniqueIndex"`
	PasswordHash string `gorm:"size:255"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile carries the optional post-signup fields collected by the profile
// setup page. One row per user.
type Profile struct {
	ID        int64  `gorm:"primaryKey"`
	UserID    int64  `gorm:"uniqueIndex"`
	AvatarURL string `gorm:"size:512"`
	Bio       string `gorm:"size:2000"`
	Grade     string `gorm:"size:50"`
	Stream    string `gorm:"size:50"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type BlogPost struct {
	ID        int64  `gorm:"primaryKey"`
	Slug      string `gorm:"size:255;uniqueIndex"`
	Title     string `gorm:"size:255"`
	Excerpt   string `gorm:"size:1000"`
	Body      string `gorm:"type:text"`
	CoverURL  string `gorm:"size:512"`
	Author    string `gorm:"size:100"`
	Published bool   `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Course struct {
	ID          int64  `gorm:"primaryKey"`
	Title       string `gorm:"size:255"`
	Description string `gorm:"type:text"`
	// PriceInPaise is the amount charged through Razorpay; zero means free.
	PriceInPaise int64
	Published    bool `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type EnrollmentStatus string

const (
	EnrollmentPending EnrollmentStatus = "pending"
	EnrollmentActive  EnrollmentStatus = "active"
)

type Enrollment struct {
	ID        int64            `gorm:"primaryKey"`
	UserID    int64            `gorm:"index:idx_enroll_user_course,unique"`
	CourseID  int64            `gorm:"index:idx_enroll_user_course,unique"`
	Status    EnrollmentStatus `gorm:"size:16;default:pending"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PaymentStatus string

const (
	PaymentCreated  PaymentStatus = "created"
	PaymentCaptured PaymentStatus = "captured"
	PaymentFailed   PaymentStatus = "failed"
)

type Payment struct {
	ID            int64  `gorm:"primaryKey"`
	UserID        int64  `gorm:"index"`
	EnrollmentID  int64  `gorm:"index"`
	OrderID       string `gorm:"size:64;uniqueIndex"` // Razorpay order id
	PaymentID     string `gorm:"size:64"`
	AmountInPaise int64
	Status        PaymentStatus `gorm:"size:16;default:created"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type LoginLog struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"index"`
	Method    string    `gorm:"size:20"` // password, otp, google, facebook
	LoggedAt  time.Time `gorm:"index"`
	CreatedAt time.Time
}

type ContactMessage struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"size:100"`
	Email     string `gorm:"size:255"`
	Phone     string `gorm:"size:20"`
	Subject   string `gorm:"size:255"`
	Body      string `gorm:"size:4000"`
	CreatedAt time.Time
}

// Tables lists every entity for migration, mirroring the order rows are
// created in.
func Tables() []any {
	return []any{
		&User{}, &Admin{}, &Profile{},
		&BlogPost{}, &Course{}, &Enrollment{}, &Payment{},
		&LoginLog{}, &ContactMessage{},
	}
}
