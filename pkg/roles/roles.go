package roles

// Role is the permission level of an authenticated user.
type Role string

const (
	Student      Role = "student"
	LabAssistant Role = "aslab"
	Admin        Role = "admin"
)

// HierarchyLevel orders roles for route-level gating.
type HierarchyLevel int

const (
	StudentLevel      HierarchyLevel = 1
	LabAssistantLevel HierarchyLevel = 2
	AdminLevel        HierarchyLevel = 3
)

func (r Role) GetHierarchyLevel() HierarchyLevel {
	switch r {
	case Student:
		return StudentLevel
	case LabAssistant:
		return LabAssistantLevel
	case Admin:
		return AdminLevel
	default:
		return StudentLevel
	}
}

// HasPermission reports whether the role sits at or above the required one.
func (r Role) HasPermission(requiredRole Role) bool {
	return r.GetHierarchyLevel() >= requiredRole.GetHierarchyLevel()
}

func (r Role) IsValid() bool {
	switch r {
	case Student, LabAssistant, Admin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// Action is a concrete operation gated by the role policy.
type Action string

const (
	ActionBorrow          Action = "borrow"
	ActionBookLab         Action = "book_lab"
	ActionChangeLabStatus Action = "change_lab_status"
	ActionApproveBorrow   Action = "approve_borrow"
	ActionRejectBorrow    Action = "reject_borrow"
	ActionEditItem        Action = "edit_item"
	ActionDeleteItem      Action = "delete_item"
	ActionManageUsers     Action = "manage_users"
)

// policy is the explicit allow table. Anything not listed is denied.
var policy = map[Role]map[Action]bool{
	Student: {
		ActionBorrow:  true,
		ActionBookLab: true,
	},
	LabAssistant: {
		ActionBorrow:          true,
		ActionBookLab:         true,
		ActionChangeLabStatus: true,
		ActionApproveBorrow:   true,
		ActionRejectBorrow:    true,
		ActionEditItem:        true,
	},
	Admin: {
		ActionBorrow:          true,
		ActionBookLab:         true,
		ActionChangeLabStatus: true,
		ActionApproveBorrow:   true,
		ActionRejectBorrow:    true,
		ActionEditItem:        true,
		ActionDeleteItem:      true,
		ActionManageUsers:     true,
	},
}

// Authorize is a pure lookup into the policy table, deny by default.
func Authorize(role Role, action Action) bool {
	allowed, ok := policy[role]
	if !ok {
		return false
	}
	return allowed[action]
}
