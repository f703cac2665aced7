package domain

import "time"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

type User struct {
	ID           int32     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	PhoneNumber  string    `json:"phone_number"`
	Role         Role      `json:"role"`
	IsSuperuser  bool      `json:"is_superuser"`
	Gender       Gender    `json:"gender,omitempty"`
	Course       string    `json:"course,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Courses are the selectable study programmes on the student signup form.
var Courses = []struct{ Code, Label string }{
	{"BSE", "Bachelor of Software Engineering with Honours"},
	{"BIOT", "Bachelor in Information Technology"},
	{"BCSS", "Bachelor of Information Technology (Hons.) in Computer System Security"},
	{"BIS", "Bachelor of Information System with Honours"},
	{"BNS", "Bachelor of Computer Engineering Technology (Networking Systems)"},
	{"other", "Other"},
}

func ValidCourse(code string) bool {
	for _, c := range Courses {
		if c.Code == code {
			return true
		}
	}
	return false
}

// DisplayName falls back to the username when no full name was given.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// Caller returns the identity used for authorization checks.
func (u *User) Caller() Caller {
	return Caller{UserID: u.ID, Username: u.Username, Role: u.Role, IsSuperuser: u.IsSuperuser}
}

// SignupInput carries the signup form for both students and landlords.
// Course and Gender are ignored for landlords.
type SignupInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	FullName        string
	PhoneNumber     string
	Course          string
	Gender          Gender
}
