package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-admin-go/internal/domain/enquiry"
	"github.com/cmlabs-hris/hris-admin-go/internal/handler/http/response"
)

type EnquiryHandler interface {
	ListEnquiries(w http.ResponseWriter, r *http.Request)
}

type enquiryHandlerImpl struct{}

func NewEnquiryHandler() EnquiryHandler {
	return &enquiryHandlerImpl{}
}

// ListEnquiries implements EnquiryHandler
func (h *enquiryHandlerImpl) ListEnquiries(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filter := enquiry.EnquiryFilter{
		Status:   query.Get("status"),
		Priority: query.Get("priority"),
		Channel:  query.Get("channel"),
		Search:   query.Get("search"),
	}
	if l := query.Get("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil {
			response.BadRequest(w, "limit must be a number", nil)
			return
		}
		filter.Limit = limit
	}

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := ws.Client.ListEnquiries(r.Context(), filter)
	if err != nil {
		slog.Error("ListEnquiries remote error", "error", err)
		response.HandleError(w, err)
		return
	}

	total := result.Total
	if total == 0 {
		total = len(result.Data)
	}
	response.SuccessWithMeta(w, result.Data, &response.Meta{
		Limit:      filter.Limit,
		TotalItems: total,
	})
}
