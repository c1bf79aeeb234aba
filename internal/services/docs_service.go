package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"jobboard/internal/repositories"
	"jobboard/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders the PDF receipt an applicant gets after applying.
type DocsService struct {
	Applications repositories.ApplicationRepository
	Jobs         repositories.JobRepository
	Employers    repositories.EmployerRepository
	RequestID    string
	Loader       func(ctx context.Context, applicationID int64) (receiptData, error)
}

type receiptData struct {
	ApplicationID int64
	FullName      string
	Email         string
	Phone         string
	JobTitle      string
	JobType       string
	SalaryMin     int64
	SalaryMax     int64
	EmployerName  string
	Status        string
	CVPath        string
	CVLink        string
	SubmittedAt   time.Time
}

// GenerateReceipt returns the PDF bytes and a download filename.
func (s DocsService) GenerateReceipt(ctx context.Context, applicationID int64) ([]byte, string, error) {
	data, err := s.load(ctx, applicationID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_receipt", fmt.Sprintf("application_id=%d", applicationID))
	return buildReceiptPDF(data)
}

func (s DocsService) load(ctx context.Context, applicationID int64) (receiptData, error) {
	if s.Loader != nil {
		return s.Loader(ctx, applicationID)
	}
	a, err := s.Applications.GetByID(ctx, applicationID)
	if err != nil {
		return receiptData{}, storeErr("load application", err)
	}
	out := receiptData{
		ApplicationID: a.ID,
		FullName:      a.FullName,
		Email:         a.Email,
		Phone:         a.Phone,
		Status:        a.Status,
		CVPath:        a.CVPath,
		CVLink:        a.CVLink,
		SubmittedAt:   a.CreatedAt,
	}
	// job and employer details are best effort; the receipt still renders
	// when they were deleted after the application.
	if job, err := s.Jobs.GetByID(ctx, a.JobID); err == nil {
		out.JobTitle = job.Title
		out.JobType = job.JobType
		out.SalaryMin, out.SalaryMax = job.SalaryMin, job.SalaryMax
		if emp, err := s.Employers.GetByID(ctx, job.EmployerID); err == nil {
			out.EmployerName = emp.Name
		}
	}
	return out, nil
}

func buildReceiptPDF(d receiptData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Application Receipt", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "APPLICATION RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	cv := safe(d.CVLink, "-")
	if d.CVPath != "" {
		cv = "uploaded file"
	}
	lines := []string{
		fmt.Sprintf("Receipt No : APP-%06d", d.ApplicationID),
		fmt.Sprintf("Applicant  : %s", safe(d.FullName, "-")),
		fmt.Sprintf("Email      : %s", safe(d.Email, "-")),
		fmt.Sprintf("Phone      : %s", safe(d.Phone, "-")),
		fmt.Sprintf("Position   : %s", safe(d.JobTitle, "-")),
		fmt.Sprintf("Job type   : %s", safe(strings.ReplaceAll(d.JobType, "_", " "), "-")),
		fmt.Sprintf("Salary     : %s", utils.FormatSalaryRange(d.SalaryMin, d.SalaryMax)),
		fmt.Sprintf("Employer   : %s", safe(d.EmployerName, "-")),
		fmt.Sprintf("Submitted  : %s", utils.FormatDateTime(d.SubmittedAt)),
		fmt.Sprintf("Status     : %s", safe(d.Status, "-")),
		fmt.Sprintf("CV         : %s", cv),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Keep this receipt for your records. The employer will contact you through the email above.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("RECEIPT_%d_%s.pdf", d.ApplicationID, safeFilenamePart(d.FullName))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
