package rbac

const (
	RoleAdmin    = "admin"
	RoleHR       = "hr"
	RoleEmployee = "employee"
)

// Capability is a resource/action pair checked against the caller's role.
type Capability struct {
	Resource string
	Action   string
}

func (c Capability) String() string {
	return c.Resource + ":" + c.Action
}

var (
	CapLeaveApply          = Capability{Resource: "leave", Action: "apply"}
	CapLeaveReadOwn        = Capability{Resource: "leave", Action: "read_own"}
	CapLeaveCancelOwn      = Capability{Resource: "leave", Action: "cancel_own"}
	CapLeaveReadAll        = Capability{Resource: "leave", Action: "read_all"}
	CapLeaveApprove        = Capability{Resource: "leave", Action: "approve"}
	CapLeaveStats          = Capability{Resource: "leave", Action: "stats"}
	CapNotificationReadOwn = Capability{Resource: "notification", Action: "read_own"}
)

type rolePolicy struct {
	role         string
	inherits     string
	capabilities []Capability
}

// defaultPolicies: employee < hr < admin. Every HR capability is also an admin capability.
var defaultPolicies = []rolePolicy{
	{
		role: RoleEmployee,
		capabilities: []Capability{
			CapLeaveApply,
			CapLeaveReadOwn,
			CapLeaveCancelOwn,
			CapNotificationReadOwn,
		},
	},
	{
		role:     RoleHR,
		inherits: RoleEmployee,
		capabilities: []Capability{
			CapLeaveReadAll,
			CapLeaveApprove,
			CapLeaveStats,
		},
	},
	{
		role:     RoleAdmin,
		inherits: RoleHR,
	},
}

// IsKnownRole reports whether role is one of the built-in roles.
func IsKnownRole(role string) bool {
	switch role {
	case RoleAdmin, RoleHR, RoleEmployee:
		return true
	default:
		return false
	}
}
