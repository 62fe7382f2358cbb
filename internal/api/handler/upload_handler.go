package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/gmeta/backoffice/internal/core/ports"
)

type UploadHandler struct {
	uploadService ports.UploadService
}

func NewUploadHandler(uploadService ports.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// Params issues a pre-signed POST form for a file with the given extension.
//
// @Summary      Upload parameters
// @Tags         upload
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      uploadParamsRequest  true  "File extension"
// @Success      200   {object}  DataEnvelope{data=uploadParamsResponse}
// @Router       /back/upload/params [post]
func (h *UploadHandler) Params(c echo.Context) error {
	if _, err := currentAdmin(c); err != nil {
		return err
	}
	var req uploadParamsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ticket, err := h.uploadService.Params(c.Request().Context(), req.Ext)
	if err != nil {
		return err
	}
	return data(c, toUploadParams(ticket))
}
