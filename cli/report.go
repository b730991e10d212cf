package cli

import (
	"bytes"
	"clementus360/doit/report"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	reportOut    string
	reportUpload bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export the task list as a PDF",
	Long: `Render the current task list to a PDF file.

With --upload the report is also stored in the configured Supabase bucket.
Uploading needs a signed-in session (DOIT_REFRESH_TOKEN).`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportOut, "output", "o", "doit-report.pdf", "output file")
	reportCmd.Flags().BoolVar(&reportUpload, "upload", false, "upload to Supabase Storage")
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), settings)
	if err != nil {
		return err
	}
	defer a.Close()

	var buf bytes.Buffer
	rows := report.Rows(a.store.Snapshot().Tasks)
	if err := report.NewPDFRenderer().Render(&buf, settings.ReportTitle, rows); err != nil {
		return err
	}
	if err := os.WriteFile(reportOut, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d tasks to %s\n", len(rows), reportOut)

	if !reportUpload {
		return nil
	}
	ident := a.currentIdentity()
	if a.uploader == nil || ident == nil {
		return fmt.Errorf("upload needs Supabase settings and a signed-in session")
	}
	path, url, err := a.uploader.Upload(cmd.Context(), *ident, &buf)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded to %s\n%s\n", path, url)
	return nil
}
