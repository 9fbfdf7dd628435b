package http

import (
	"net/http"

	"github.com/MKhiriev/go-natours/internal/utils"
	"github.com/MKhiriev/go-natours/models"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) error {
	info := h.services.AppInfoService.GetAppInfo(r.Context())

	_, err := utils.WriteJSON(w, models.Success(info), http.StatusOK)
	return err
}
