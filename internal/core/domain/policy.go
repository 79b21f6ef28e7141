package domain

// AccessLevel classifies how an Action is protected.
type AccessLevel int

const (
	// AccessPublic actions need no identity.
	AccessPublic AccessLevel = iota
	// AccessAuthenticated actions need any verified identity.
	AccessAuthenticated
	// AccessSelfOrAdmin actions need the resource owner or an admin.
	AccessSelfOrAdmin
	// AccessAdmin actions need the admin role.
	AccessAdmin
)

// Action names an operation subject to authorization.
type Action string

const (
	ActionViewProfile    Action = "auth.me"
	ActionListUsers      Action = "users.list"
	ActionGetUser        Action = "users.get"
	ActionCreateUser     Action = "users.create"
	ActionUpdateUser     Action = "users.update"
	ActionDeleteUser     Action = "users.delete"
	ActionListProducts   Action = "products.list"
	ActionSearchProducts Action = "products.search"
	ActionGetProduct     Action = "products.get"
	ActionCreateProduct  Action = "products.create"
	ActionUpdateProduct  Action = "products.update"
	ActionDeleteProduct  Action = "products.delete"
	ActionUploadFile     Action = "upload.create"
	ActionUploadInfo     Action = "upload.info"
)

var accessLevels = map[Action]AccessLevel{
	ActionViewProfile:    AccessAuthenticated,
	ActionListUsers:      AccessAuthenticated,
	ActionGetUser:        AccessAuthenticated,
	ActionCreateUser:     AccessAdmin,
	ActionUpdateUser:     AccessSelfOrAdmin,
	ActionDeleteUser:     AccessAdmin,
	ActionListProducts:   AccessPublic,
	ActionSearchProducts: AccessPublic,
	ActionGetProduct:     AccessPublic,
	ActionCreateProduct:  AccessAdmin,
	ActionUpdateProduct:  AccessAdmin,
	ActionDeleteProduct:  AccessAdmin,
	ActionUploadFile:     AccessAuthenticated,
	ActionUploadInfo:     AccessPublic,
}

// Level returns the access level of a. Unknown actions are admin-only.
func (a Action) Level() AccessLevel {
	if lvl, ok := accessLevels[a]; ok {
		return lvl
	}
	return AccessAdmin
}

// IsPublic reports whether a can be performed without an identity.
func (a Action) IsPublic() bool {
	return a.Level() == AccessPublic
}

// Authorize decides whether id may perform action on a resource owned by
// ownerID (nil when the action has no owner). A nil id means the request
// carried no verified credentials.
//
// Rules, first match wins:
//  1. no identity: allowed only for public actions
//  2. admin: always allowed
//  3. self-or-admin: allowed when the identity owns the resource
//  4. authenticated: allowed for any identity
//  5. otherwise forbidden
func Authorize(id *Identity, action Action, ownerID *int64) error {
	level := action.Level()

	if id == nil {
		if level == AccessPublic {
			return nil
		}
		return ErrAuthenticationRequired
	}

	if id.Role == RoleAdmin {
		return nil
	}

	switch level {
	case AccessPublic, AccessAuthenticated:
		return nil
	case AccessSelfOrAdmin:
		if ownerID != nil && *ownerID == id.Subject {
			return nil
		}
	}
	return ErrForbidden
}
