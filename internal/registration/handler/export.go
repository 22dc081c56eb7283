package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fundrace/internal/registration/models"
	"fundrace/pkg/platform/httputil"
	"fundrace/pkg/requestcontext"
)

var exportHeader = []string{
	"id", "participant_name", "teammate_name", "email", "address",
	"contact_number_1", "contact_number_2", "whatsapp_number", "zone",
	"diocese", "how_known", "previous_participation", "amount",
	"actual_amount", "status", "team_id", "tickets_assigned",
	"ticket_numbers", "payment_link_used", "created_at",
}

// exportLimit keeps the export a single page covering every record.
const exportLimit = 100000

// handleExport streams all matching registrations as CSV. The same filters
// as the list endpoint apply; pagination is ignored so the export is always
// complete.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := filterFromQuery(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	filter.Page = 0
	filter.Limit = exportLimit

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to export registrations",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=registrations-%s.csv", requestcontext.Now(ctx).Format("2006-01-02")))

	writer := csv.NewWriter(w)
	_ = writer.Write(exportHeader)
	for _, reg := range result.Registrations {
		_ = writer.Write(exportRow(reg))
	}
	writer.Flush()
}

func exportRow(reg *models.Registration) []string {
	actual := ""
	if reg.ActualAmount != nil {
		actual = reg.ActualAmount.StringFixed(2)
	}
	teamID := ""
	if reg.TeamID != nil {
		teamID = *reg.TeamID
	}
	tickets := ""
	if reg.TicketsAssigned != nil {
		tickets = fmt.Sprintf("%d", *reg.TicketsAssigned)
	}
	return []string{
		reg.ID.String(),
		reg.ParticipantName,
		reg.TeammateName,
		reg.Email,
		reg.Address,
		reg.ContactNumber1,
		reg.ContactNumber2,
		reg.WhatsappNumber,
		reg.Zone,
		reg.Diocese,
		reg.HowKnown,
		fmt.Sprintf("%t", reg.PreviousParticipation),
		reg.Amount.StringFixed(2),
		actual,
		string(reg.Status),
		teamID,
		tickets,
		strings.Join(reg.TicketNumbers, ";"),
		reg.PaymentLinkUsed,
		reg.CreatedAt.Format(time.RFC3339),
	}
}
