package employee

type Status string

const (
	StatusActive    Status = "Active"
	StatusProbation Status = "Probation"
	StatusNotice    Status = "Notice"
	StatusInactive  Status = "Inactive"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusProbation, StatusNotice, StatusInactive:
		return true
	}
	return false
}

// Employee as served by the remote employee API. This service never mutates it
// except through CreateEmployee.
type Employee struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Status      Status `json:"status"`
	Phone       string `json:"phone,omitempty"`
	Department  string `json:"department,omitempty"`
	JoiningDate string `json:"joiningDate,omitempty"`
	Address     string `json:"address,omitempty"`
}
