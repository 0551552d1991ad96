package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/Arnav55278/study-vault/internal/database"
	"github.com/Arnav55278/study-vault/internal/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type CreateReportRequest struct {
	ItemType    models.ItemType `json:"item_type" example:"file"`
	ItemID      int64           `json:"item_id" example:"7"`
	Reason      string          `json:"reason" example:"copyright"`
	Description *string         `json:"description"`
}

func (r CreateReportRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ItemType, validation.Required, validation.In(
			models.ItemTypeFile, models.ItemTypeFolder, models.ItemTypeComment, models.ItemTypeUser,
		)),
		validation.Field(&r.ItemID, validation.Required, validation.Min(1)),
		validation.Field(&r.Reason, validation.Required, validation.Length(1, 100)),
	)
}

// @Summary      Report content
// @Description  Files a moderation report against a file, folder, comment or user.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        createReportRequest  body  CreateReportRequest  true  "Report"
// @Success      201  {object}  models.Report
// @Failure      400  {string}  string "Validation failed"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /reports [post]
func (s *Server) CreateReportHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := s.store.CreateReport(r.Context(), database.CreateReportParams{
		ReporterID:  claims.UserID,
		ItemType:    req.ItemType,
		ItemID:      req.ItemID,
		Reason:      req.Reason,
		Description: req.Description,
	})
	if err != nil {
		log.Printf("ERROR: Failed to create report: %v", err)
		http.Error(w, "Failed to file report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(report)
}
