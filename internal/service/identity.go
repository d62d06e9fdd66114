package service

// Identity is an authenticated caller as resolved by the authentication
// middleware.
type Identity struct {
	UserID uint
	Role   string
}

func (i Identity) IsAdmin() bool { return i.Role == "admin" }

// CanAccess is the owner-or-admin rule shared by every per-object expense
// operation.
func CanAccess(identity Identity, ownerID uint) bool {
	return identity.IsAdmin() || identity.UserID == ownerID
}

func RoleOf(isAdmin bool) string {
	if isAdmin {
		return "admin"
	}
	return "user"
}
