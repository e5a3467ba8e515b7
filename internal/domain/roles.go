package domain

// RoleProfile is the typed "me" view of an account. Every role shares the
// AccountProfile shape and adds its own fields.
type RoleProfile interface {
	Account() AccountProfile
}

// ClientProfile is the view of a CLIENT account.
type ClientProfile struct {
	AccountProfile
	Trainer *AccountProfile `json:"trainer,omitempty"`
}

// Account implements RoleProfile.
func (p ClientProfile) Account() AccountProfile { return p.AccountProfile }

// TrainerProfile is the view of any trainer account.
type TrainerProfile struct {
	AccountProfile
	ClientCount int `json:"clientCount"`
}

// Account implements RoleProfile.
func (p TrainerProfile) Account() AccountProfile { return p.AccountProfile }

// AdminProfile is the view of an ADMIN account.
type AdminProfile struct {
	AccountProfile
	AccountCount int `json:"accountCount"`
}

// Account implements RoleProfile.
func (p AdminProfile) Account() AccountProfile { return p.AccountProfile }
