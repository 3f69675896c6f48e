package handlers

import (
	"net/http"

	"github.com/AnshRaj112/petverse-backend/internal/models"
	"github.com/AnshRaj112/petverse-backend/pkg/utils"
)

const msgMissingFields = "Missing required fields!"

type PetResponse struct {
	Message string           `json:"message"`
	Pet     models.PetRecord `json:"pet"`
}

type FoundPetResponse struct {
	MatchFound bool              `json:"match_found"`
	Message    string            `json:"message"`
	Pet        *models.PetRecord `json:"pet,omitempty"`
}

// ReportLostPet files a new Lost record.
func (h *Handler) ReportLostPet(w http.ResponseWriter, r *http.Request) {
	var req models.PetReport
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.RequireFields(msgMissingFields,
		utils.Field{Name: "petName", Value: req.PetName},
		utils.Field{Name: "lastSeenLocation", Value: req.LastSeenLocation},
		utils.Field{Name: "dateLost", Value: req.DateLost},
		utils.Field{Name: "imageUrl", Value: req.ImageURL},
	); err != nil {
		writeError(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	pet, err := h.pets.ReportLost(r.Context(), req)
	if err != nil {
		h.internalError(w, r, "report lost pet", err)
		return
	}

	writeJSON(w, http.StatusCreated, PetResponse{Message: "Lost pet report added!", Pet: pet})
}

// ReportFoundPet reconciles a found report against open Lost records.
func (h *Handler) ReportFoundPet(w http.ResponseWriter, r *http.Request) {
	var req models.PetReport
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.RequireFields(msgMissingFields,
		utils.Field{Name: "petName", Value: req.PetName},
		utils.Field{Name: "lastSeenLocation", Value: req.LastSeenLocation},
		utils.Field{Name: "imageUrl", Value: req.ImageURL},
	); err != nil {
		writeError(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	res, err := h.pets.ReportFound(r.Context(), req)
	if err != nil {
		h.internalError(w, r, "report found pet", err)
		return
	}

	if res.Matched {
		writeJSON(w, http.StatusOK, FoundPetResponse{
			MatchFound: true,
			Message:    "Lost pet matched and removed from database!",
		})
		return
	}

	writeJSON(w, http.StatusCreated, FoundPetResponse{
		MatchFound: false,
		Message:    "Found pet reported!",
		Pet:        &res.Record,
	})
}

// LostPets lists every open Lost record.
func (h *Handler) LostPets(w http.ResponseWriter, r *http.Request) {
	pets, err := h.pets.ListLost(r.Context())
	if err != nil {
		h.internalError(w, r, "list lost pets", err)
		return
	}
	writeJSON(w, http.StatusOK, pets)
}
