package handlers

import (
	"context"
	"database/sql"
	"encoding/csv"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/AlexTLDR/wedding/internal/config"
	"github.com/AlexTLDR/wedding/internal/database"
	"github.com/AlexTLDR/wedding/internal/logging"
)

var csvHeader = []string{"Guest", "Email", "Phone", "Token", "Link", "Status", "Opened", "Responded", "Note"}

func csvTime(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.UTC().Format("2006-01-02 15:04:05")
}

// writeInvitationsCSV writes one row per invitation followed by one column
// per catalog question holding the chosen texts.
func writeInvitationsCSV(ctx context.Context, out io.Writer, db *database.DB, cfg *config.Config) error {
	invitations, err := db.ListInvitations(ctx)
	if err != nil {
		return err
	}
	questions, err := db.ListQuestions(ctx, false)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(out)
	header := append([]string{}, csvHeader...)
	for _, q := range questions {
		header = append(header, q.Text)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, inv := range invitations {
		answers, err := db.ListAnswers(ctx, inv.ID)
		if err != nil {
			return err
		}
		chosen := make(map[int64][]string)
		for _, a := range answers {
			chosen[a.QuestionID] = append(chosen[a.QuestionID], a.ChoiceText)
		}

		row := []string{
			inv.Guest.FullName,
			inv.Guest.Email,
			inv.Guest.Phone,
			inv.Token,
			cfg.InvitationURL(inv.Token),
			string(inv.Status),
			csvTime(inv.OpenedAt),
			csvTime(inv.RespondedAt),
			inv.Note,
		}
		for _, q := range questions {
			row = append(row, strings.Join(chosen[q.ID], "; "))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// HandleAdminDownloadCSV exports invitations with their answers to CSV
func HandleAdminDownloadCSV(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf strings.Builder
		// UTF-8 BOM for Excel compatibility
		buf.WriteString("\uFEFF")
		if err := writeInvitationsCSV(r.Context(), &buf, s.GetDB(), s.GetConfig()); err != nil {
			logging.Log.Error("Failed to export CSV", zap.Error(err))
			http.Error(w, "Failed to export invitations", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename=rsvp-list.csv")
		_, _ = io.WriteString(w, buf.String())
	}
}
