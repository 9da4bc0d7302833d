package rbac

type EnforceRequest struct {
	Role     string `json:"role"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

type CapabilitiesResponse struct {
	Role         string   `json:"role"`
	Capabilities []string `json:"capabilities"`
}
