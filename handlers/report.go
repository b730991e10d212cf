package handlers

import (
	"bytes"
	"clementus360/doit/report"
	"clementus360/doit/types"
	"net/http"
	"strconv"
)

func (h *Handler) renderReport() (*bytes.Buffer, error) {
	var buf bytes.Buffer
	rows := report.Rows(h.store.Snapshot().Tasks)
	if err := h.renderer.Render(&buf, h.reportTitle, rows); err != nil {
		return nil, err
	}
	return &buf, nil
}

func (h *Handler) GetReportHandler(w http.ResponseWriter, r *http.Request) {
	buf, err := h.renderReport()
	if err != nil {
		h.log.Error("Failed to render report:", err)
		writeError(w, "Failed to render report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="doit-report.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func (h *Handler) UploadReportHandler(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		writeError(w, "Report storage is not configured", http.StatusServiceUnavailable)
		return
	}

	ident := h.store.Snapshot().Identity
	if ident == nil {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	buf, err := h.renderReport()
	if err != nil {
		h.log.Error("Failed to render report:", err)
		writeError(w, "Failed to render report", http.StatusInternalServerError)
		return
	}

	path, url, err := h.uploader.Upload(r.Context(), *ident, buf)
	if err != nil {
		h.log.WithError(err).WithField("user_id", ident.UserID).Error("Failed to upload report")
		writeJSON(w, http.StatusBadGateway, types.ReportUploadResponse{
			Path:         path,
			ErrorMessage: "Failed to upload report",
		})
		return
	}

	writeJSON(w, http.StatusCreated, types.ReportUploadResponse{
		Success: true,
		Path:    path,
		URL:     url,
	})
}
