package principal

// Authorization policy, one function per action. Services consult these
// instead of comparing role strings inline.

// CanCreateTask reports whether the principal may create and assign tasks.
func CanCreateTask(p *Principal) bool {
	return p.IsAdmin()
}

// CanViewTask reports whether the principal may view a task owned by ownerID.
func CanViewTask(p *Principal, ownerID string) bool {
	if p == nil {
		return false
	}
	return p.IsAdmin() || p.ID == ownerID
}

// CanUpdateTask reports whether the principal may update a task owned by ownerID.
func CanUpdateTask(p *Principal, ownerID string) bool {
	if p == nil {
		return false
	}
	return p.IsAdmin() || p.ID == ownerID
}

// CanDeleteTask reports whether the principal may delete tasks.
func CanDeleteTask(p *Principal) bool {
	return p.IsAdmin()
}

// CanListAllTasks reports whether the principal sees every task or only their own.
func CanListAllTasks(p *Principal) bool {
	return p.IsAdmin()
}

// CanListUsers reports whether the principal may list all users.
func CanListUsers(p *Principal) bool {
	return p.IsAdmin()
}

// CanViewImport reports whether the principal may view an imported record
// owned by ownerID (nil owner means an anonymous upload, admin only).
func CanViewImport(p *Principal, ownerID *string) bool {
	if p == nil {
		return false
	}
	if p.IsAdmin() {
		return true
	}
	return ownerID != nil && *ownerID == p.ID
}

// CanListAllImports reports whether the principal sees every imported record.
func CanListAllImports(p *Principal) bool {
	return p.IsAdmin()
}
