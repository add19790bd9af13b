package auth

import "github.com/cmlabs-hris/hris-admin-go/internal/pkg/validator"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "Please enter email",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "Please enter password",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Admin is the identity returned by the remote API for a signed-in administrator.
type Admin struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// RemoteLoginResponse is the body of POST /admin/login.
type RemoteLoginResponse struct {
	Token string `json:"token"`
	Admin Admin  `json:"admin"`
}

// RemoteAdminResponse is the body of GET /admin/me.
type RemoteAdminResponse struct {
	Admin Admin `json:"admin"`
}

// LoginResponse is returned to the dashboard page.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
	Admin       Admin  `json:"admin"`
}
