package enquiry

import (
	"strings"

	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/validator"
)

type EnquiryFilter struct {
	Status   string
	Priority string
	Channel  string
	Search   string
	Limit    int
}

func (f *EnquiryFilter) Validate() error {
	var errs validator.ValidationErrors

	statuses := []string{string(StatusNew), string(StatusInProgress), string(StatusResolved), string(StatusClosed)}
	if f.Status != "" && !validator.IsInSlice(f.Status, statuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: New, In Progress, Resolved, Closed",
		})
	}

	priorities := []string{string(PriorityHigh), string(PriorityMedium), string(PriorityLow)}
	if f.Priority != "" && !validator.IsInSlice(f.Priority, priorities) {
		errs = append(errs, validator.ValidationError{
			Field:   "priority",
			Message: "priority must be one of: High, Medium, Low",
		})
	}

	if f.Limit == 0 {
		f.Limit = 50
	}
	if f.Limit < 0 || f.Limit > 200 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be between 1 and 200",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (f EnquiryFilter) Params() map[string]any {
	params := map[string]any{
		"status":   f.Status,
		"priority": f.Priority,
		"channel":  f.Channel,
		"search":   strings.TrimSpace(f.Search),
	}
	if f.Limit > 0 {
		params["limit"] = f.Limit
	}
	return params
}

type ListEnquiryResponse struct {
	Data  []Enquiry `json:"data"`
	Total int       `json:"total,omitempty"`
}
