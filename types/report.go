package types

// ReportRow is one line of the exported task report.
type ReportRow struct {
	Index    int    `json:"index"`
	Text     string `json:"text"`
	Category string `json:"category"`
	Status   string `json:"status"`
}

type ReportUploadResponse struct {
	Success      bool   `json:"success"`
	Path         string `json:"path,omitempty"`
	URL          string `json:"url,omitempty"`
	ErrorMessage string `json:"error,omitempty"`
}
