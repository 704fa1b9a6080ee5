package entity

import "github.com/gofrs/uuid/v5"

// CanAct is the single portal-scoping predicate shared by every handler:
// admins act on any portal's records, everyone else only within their own.
func CanAct(actor *User, recordPortal Portal) bool {
	if actor.Role == RoleAdmin {
		return true
	}

	return actor.Portal == recordPortal
}

// CanModifyOwned extends CanAct with the ownership rule used for ticket
// update and delete: admins, or the record owner within their portal.
func CanModifyOwned(actor *User, recordPortal Portal, ownerID string) bool {
	if actor.Role == RoleAdmin {
		return true
	}

	return actor.Portal == recordPortal && ownerID == actor.ID.String()
}

// CanAssign gates officer assignment on tickets.
func CanAssign(actor *User) bool {
	return actor.Role == RolePoliceOfficer || actor.Role == RoleAdmin
}

func IsSelf(actor *User, id uuid.UUID) bool {
	return actor.ID == id
}
