package leave

import (
	"time"
)

const dateLayout = "2006-01-02"

type ApplyLeaveRequest struct {
	Type      string   `json:"type" binding:"required,oneof=casual sick earned maternity paternity"`
	StartDate string   `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string   `json:"endDate" binding:"required,datetime=2006-01-02"`
	Reason    string   `json:"reason" binding:"required,min=10,max=500"`
	Documents []string `json:"documents" binding:"omitempty,max=10,dive,required,max=500"`
}

type DecideLeaveRequest struct {
	Status          string  `json:"status" binding:"required,oneof=approved rejected"`
	RejectionReason *string `json:"rejectionReason" binding:"omitempty,max=500"`
}

// ListQuery filters a leave listing. EmployeeID is ignored for the caller's own listing.
type ListQuery struct {
	Page       int
	Limit      int
	Status     string
	Type       string
	EmployeeID string
}

type LeaveResponse struct {
	ID              string   `json:"id"`
	EmployeeID      string   `json:"employeeId"`
	EmployeeName    string   `json:"employeeName,omitempty"`
	Department      string   `json:"department,omitempty"`
	Type            string   `json:"type"`
	StartDate       string   `json:"startDate"`
	EndDate         string   `json:"endDate"`
	Days            int      `json:"days"`
	Reason          string   `json:"reason"`
	Documents       []string `json:"documents"`
	Status          string   `json:"status"`
	ApprovedBy      *string  `json:"approvedBy,omitempty"`
	ApprovedOn      *string  `json:"approvedOn,omitempty"`
	RejectionReason *string  `json:"rejectionReason,omitempty"`
	CreatedAt       string   `json:"createdAt"`
}

// BalanceEntry is the yearly allowance of one leave type.
type BalanceEntry struct {
	Allocated int `json:"allocated"`
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}

type BalanceResponse map[string]BalanceEntry

type StatsResponse struct {
	Year         int              `json:"year"`
	Total        int64            `json:"total"`
	TotalDays    int64            `json:"totalDays"`
	ApprovedDays int64            `json:"approvedDays"`
	ByStatus     map[string]int64 `json:"byStatus"`
	ByType       map[string]int64 `json:"byType"`
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:              l.ID.String(),
		EmployeeID:      l.EmployeeID.String(),
		Type:            l.Type,
		StartDate:       l.StartDate.Format(dateLayout),
		EndDate:         l.EndDate.Format(dateLayout),
		Days:            l.Days,
		Reason:          l.Reason,
		Documents:       []string(l.Documents),
		Status:          l.Status,
		RejectionReason: l.RejectionReason,
		CreatedAt:       l.CreatedAt.Format(time.RFC3339),
	}
	if resp.Documents == nil {
		resp.Documents = []string{}
	}
	if l.Employee != nil {
		resp.EmployeeName = l.Employee.FullName
		resp.Department = l.Employee.Department
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedOn != nil {
		v := l.ApprovedOn.Format(time.RFC3339)
		resp.ApprovedOn = &v
	}
	return resp
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
