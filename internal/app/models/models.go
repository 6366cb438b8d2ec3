package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent    RoleType = "STUDENT"
	RoleClubAdmin  RoleType = "CLUB_ADMIN"
	RoleSuperAdmin RoleType = "SUPER_ADMIN"
)

// IsValid reports whether r is a known role
func (r RoleType) IsValid() bool {
	switch r {
	case RoleStudent, RoleClubAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// RequestStatus is the lifecycle state of a club request
type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestApproved  RequestStatus = "APPROVED"
	RequestRejected  RequestStatus = "REJECTED"
	RequestWithdrawn RequestStatus = "WITHDRAWN"
)

// IsValid reports whether s is a known request status
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected, RequestWithdrawn:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from s
func (s RequestStatus) IsTerminal() bool {
	return s != RequestPending
}

// AnnouncementType classifies an announcement
type AnnouncementType string

const (
	AnnouncementEvent   AnnouncementType = "EVENT"
	AnnouncementGeneral AnnouncementType = "GENERAL"
	AnnouncementUrgent  AnnouncementType = "URGENT"
)

// IsValid reports whether t is a known announcement type
func (t AnnouncementType) IsValid() bool {
	switch t {
	case AnnouncementEvent, AnnouncementGeneral, AnnouncementUrgent:
		return true
	}
	return false
}
