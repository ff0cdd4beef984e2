package validate

import "github.com/dmitrijs2005/hoteldesk/internal/client/models"

type profileRules struct {
	Username string `json:"username" validate:"omitempty,min=3,max=50"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type registrationRules struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	AdminKey string `json:"adminKey" validate:"required"`
}

// Profile checks a profile change. Empty fields are left unchanged by the
// backend and are not checked.
func Profile(p models.ProfileUpdate) error {
	if p.Username == "" && p.Email == "" {
		return ValidationErrors{{Field: "profile", Message: "nothing to update"}}
	}
	return translate(v.Struct(profileRules{Username: p.Username, Email: p.Email}), "")
}

// Registration checks the development-only admin signup.
func Registration(r models.AdminRegistration) error {
	return translate(v.Struct(registrationRules{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
		AdminKey: r.AdminKey,
	}), "")
}
