package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	TypeCasual    = "casual"
	TypeSick      = "sick"
	TypeEarned    = "earned"
	TypeMaternity = "maternity"
	TypePaternity = "paternity"
)

// Types is the closed set of leave types, in display order.
var Types = []string{TypeCasual, TypeSick, TypeEarned, TypeMaternity, TypePaternity}

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

var Statuses = []string{StatusPending, StatusApproved, StatusRejected}

// LeaveRequest is hard deleted on cancel, unlike employees and users.
type LeaveRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates"`

	Type      string                      `gorm:"type:varchar(20);not null"`
	StartDate time.Time                   `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	EndDate   time.Time                   `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	Days      int                         `gorm:"type:int;not null"`
	Reason    string                      `gorm:"type:text;not null"`
	Documents datatypes.JSONSlice[string] `gorm:"type:jsonb"`

	Status          string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_leave_requests_status"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	ApprovedOn      *time.Time
	RejectionReason *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"autoCreateTime;<-:create"`
	UpdatedAt time.Time

	Employee *LeaveEmployee `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// LeaveEmployee is the slice of the employees table shown next to a request.
type LeaveEmployee struct {
	ID         uuid.UUID `gorm:"primaryKey"`
	FullName   string    `gorm:"column:full_name"`
	Department string    `gorm:"column:department"`
}

func (LeaveEmployee) TableName() string {
	return "employees"
}

func isKnownType(t string) bool {
	for _, known := range Types {
		if known == t {
			return true
		}
	}
	return false
}

func isKnownStatus(s string) bool {
	for _, known := range Statuses {
		if known == s {
			return true
		}
	}
	return false
}
