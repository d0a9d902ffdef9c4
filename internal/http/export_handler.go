package httpapi

import (
	"net/http"
	"strconv"

	"elvanto-export/internal/domain"

	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves the spreadsheet download.
type ExportHandler struct {
	logger *zap.Logger
}

func NewExportHandler(logger *zap.Logger) *ExportHandler {
	return &ExportHandler{logger: logger}
}

type exportRequest struct {
	People []domain.ExportRecord `json:"people"`
}

// ExportXLSX renders the posted people list as an xlsx attachment.
// POST /api/export/xlsx
func (h *ExportHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	workbook, err := GenerateExportWorkbook(req.People)
	if err != nil {
		h.logger.Error("ExportXLSX failed",
			zap.Int("people", len(req.People)),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", "attachment; filename=elvanto_export.xlsx")
	w.Header().Set("Content-Length", strconv.Itoa(len(workbook)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(workbook)
}
