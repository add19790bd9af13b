package employee

import (
	"strings"

	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/validator"
)

// EmployeeFilter is the query of GET /employees. Empty fields are not sent.
type EmployeeFilter struct {
	Search string
	Status string
	Page   int
	Limit  int
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != "" && !Status(f.Status).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: ErrInvalidStatus.Error(),
		})
	}
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit > 200 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 200",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Params returns the query parameters. Zero values are dropped by the query builder.
func (f EmployeeFilter) Params() map[string]any {
	params := map[string]any{
		"search": strings.TrimSpace(f.Search),
		"status": f.Status,
	}
	if f.Page > 0 {
		params["page"] = f.Page
	}
	if f.Limit > 0 {
		params["limit"] = f.Limit
	}
	return params
}

type ListEmployeeResponse struct {
	Data       []Employee `json:"data"`
	Total      int        `json:"total,omitempty"`
	Page       int        `json:"page,omitempty"`
	TotalPages int        `json:"totalPages,omitempty"`
}

type CreateEmployeeRequest struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	Status      Status  `json:"status"`
	Phone       *string `json:"phone,omitempty"`
	Department  *string `json:"department,omitempty"`
	JoiningDate *string `json:"joiningDate,omitempty"`
	Address     *string `json:"address,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Role = strings.TrimSpace(r.Role)

	if r.Name == "" || r.Email == "" || r.Role == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "employee",
			Message: "Name, email, and role are required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if r.Status == "" {
		r.Status = StatusActive
	}
	if !r.Status.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: ErrInvalidStatus.Error(),
		})
	}

	if r.JoiningDate != nil && *r.JoiningDate != "" {
		if _, valid := validator.IsValidDate(*r.JoiningDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "joiningDate",
				Message: "joiningDate must be in YYYY-MM-DD format",
			})
		}
	}

	r.Phone = blankToNil(r.Phone)
	r.Department = blankToNil(r.Department)
	r.JoiningDate = blankToNil(r.JoiningDate)
	r.Address = blankToNil(r.Address)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateEmployeeResponse struct {
	Data    *Employee `json:"data"`
	Message string    `json:"message,omitempty"`
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}
