package employee

type EmployeeResponse struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	FullName       string `json:"full_name"`
	Department     string `json:"department,omitempty"`
	EmployeeNumber string `json:"employee_number,omitempty"`
}

func mapToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:             e.ID.String(),
		UserID:         e.UserID.String(),
		FullName:       e.FullName,
		Department:     e.Department,
		EmployeeNumber: e.EmployeeNumber,
	}
}
