package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	FullName       string         `gorm:"type:varchar(255);not null"`
	Department     string         `gorm:"type:varchar(100)"`
	EmployeeNumber string         `gorm:"type:varchar(30);uniqueIndex:uq_employee_number"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}
