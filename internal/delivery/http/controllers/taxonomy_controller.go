package controllers

import (
	"log/slog"
	"net/http"

	"communityevents/internal/delivery/http/helpers"
	"communityevents/internal/domain"
)

type TaxonomyController struct {
	Logger *slog.Logger
	Repo   domain.TaxonomyRepository
}

func NewTaxonomyController(logger *slog.Logger, repo domain.TaxonomyRepository) *TaxonomyController {
	return &TaxonomyController{Logger: logger, Repo: repo}
}

// LabelListSuccessResponse is the success response envelope for label listings.
type LabelListSuccessResponse struct {
	Data  []string          `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListCategories godoc
// @Summary List category labels
// @Description Lists the distinct category labels in use across all events, sorted alphabetically.
// @Tags taxonomy
// @Produce json
// @Success 200 {object} controllers.LabelListSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories [get]
func (c *TaxonomyController) ListCategories(w http.ResponseWriter, r *http.Request) {
	labels, err := c.Repo.ListCategories(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	if labels == nil {
		labels = []string{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, labels)
}

// ListTags godoc
// @Summary List tag labels
// @Description Lists the distinct tag labels in use across all events, sorted alphabetically.
// @Tags taxonomy
// @Produce json
// @Success 200 {object} controllers.LabelListSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tags [get]
func (c *TaxonomyController) ListTags(w http.ResponseWriter, r *http.Request) {
	labels, err := c.Repo.ListTags(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	if labels == nil {
		labels = []string{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, labels)
}
