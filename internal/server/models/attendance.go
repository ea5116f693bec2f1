package models

import "time"

type Attendance struct {
	ID          int64
	EmployeeID  string
	CheckInTime time.Time
	// CheckInDate is midnight of the check-in's calendar day in the server's
	// configured time zone.
	CheckInDate time.Time
}

// AttendanceView is an attendance record joined with the employee's
// directory fields.
type AttendanceView struct {
	ID          int64     `json:"id"`
	EmployeeID  string    `json:"employeeId"`
	CheckInTime time.Time `json:"checkInTime"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	PhoneNumber string    `json:"phoneNumber"`
	NationalID  string    `json:"nationalId"`
	Age         int       `json:"age"`
	Signature   *string   `json:"electronicSignature"`
}

// EmployeeCount is the number of attended days for one employee.
type EmployeeCount struct {
	EmployeeID string
	FirstName  string
	LastName   string
	Days       int
}

type WeeklySummary struct {
	EmployeeID   string    `json:"employeeId"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	WeekStart    time.Time `json:"weekStart"`
	WeekEnd      time.Time `json:"weekEnd"`
	DaysAttended int       `json:"daysAttended"`
	TotalHours   int       `json:"totalHours"`
}
