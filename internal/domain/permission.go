package domain

// PermissionRule grants or denies a named permission on a target. An empty
// UserID or GroupID matches any user or group.
type PermissionRule struct {
	Permission string
	TargetID   string
	Scope      string
	UserID     string
	GroupID    string
	Allowed    bool
}
