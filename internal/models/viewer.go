package models

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTrainer Role = "trainer"
	RoleStaff   Role = "staff"
)

// Viewer identifies who is asking for tasks. It is either SystemViewer or
// UserViewer; no other implementations exist.
type Viewer interface {
	isViewer()
}

// SystemViewer is a trusted internal caller such as the maintenance job.
type SystemViewer struct{}

// UserViewer is an authenticated user acting through the API.
type UserViewer struct {
	ID   string
	Role Role
}

func (SystemViewer) isViewer() {}
func (UserViewer) isViewer()   {}

// CanViewAll reports whether v bypasses assignment-based visibility.
func CanViewAll(v Viewer) bool {
	switch v := v.(type) {
	case SystemViewer:
		return true
	case UserViewer:
		return v.Role == RoleAdmin
	}
	return false
}

// CanPurge reports whether v may permanently delete expired tasks.
func CanPurge(v Viewer) bool {
	return CanViewAll(v)
}

// CanManage reports whether v may modify t. Creators, assignees and
// administrators may edit a task.
func CanManage(v Viewer, t Task) bool {
	if CanViewAll(v) {
		return true
	}
	u, ok := v.(UserViewer)
	return ok && (t.CreatorID == u.ID || t.IsAssignedTo(u.ID))
}

// IsOwner reports whether v is the creator of t or an administrator.
func IsOwner(v Viewer, t Task) bool {
	if CanViewAll(v) {
		return true
	}
	u, ok := v.(UserViewer)
	return ok && t.CreatorID == u.ID
}

// ViewerID returns the user id behind v, or "" for the system viewer.
func ViewerID(v Viewer) string {
	if u, ok := v.(UserViewer); ok {
		return u.ID
	}
	return ""
}
