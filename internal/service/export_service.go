package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"pmrs/internal/domain"
	"pmrs/internal/domain/patient"
	"pmrs/pkg/metrics"
)

// exportColumns fixes the CSV header and the JSON field order.
var exportColumns = []string{
	"id", "first_name", "middle_name", "last_name", "name_ext",
	"birthdate", "age", "gender", "contact", "address", "diagnosis", "notes",
}

// ExportRecord is the flat wire shape shared by the CSV and JSON exports.
type ExportRecord struct {
	ID         string `json:"id"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
	NameExt    string `json:"name_ext"`
	BirthDate  string `json:"birthdate"` // YYYY-MM-DD
	Age        int    `json:"age"`
	Gender     string `json:"gender"`
	Contact    string `json:"contact"`
	Address    string `json:"address"`
	Diagnosis  string `json:"diagnosis"`
	Notes      string `json:"notes"`
}

func toExportRecord(p *patient.Patient) ExportRecord {
	return ExportRecord{
		ID:         p.ID.String(),
		FirstName:  p.FirstName,
		MiddleName: p.MiddleName,
		LastName:   p.LastName,
		NameExt:    p.NameExt,
		BirthDate:  p.BirthDateString(),
		Age:        p.Age(),
		Gender:     string(p.Gender),
		Contact:    p.Contact,
		Address:    p.Address,
		Diagnosis:  p.Diagnosis,
		Notes:      p.Notes,
	}
}

type ExportService struct {
	repo       patient.Repository
	patientSvc *PatientService
	auditSvc   *AuditService
	m          *metrics.Collector
	log        *zap.Logger
}

func NewExportService(repo patient.Repository, patientSvc *PatientService, auditSvc *AuditService, m *metrics.Collector, log *zap.Logger) *ExportService {
	return &ExportService{
		repo:       repo,
		patientSvc: patientSvc,
		auditSvc:   auditSvc,
		m:          m,
		log:        log,
	}
}

// ExportCSV writes all live patients to w as CSV with a header row.
func (s *ExportService) ExportCSV(ctx context.Context, w io.Writer, caller *domain.Claims, ip string) error {
	patients, err := s.repo.All(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, p := range patients {
		r := toExportRecord(p)
		row := []string{
			r.ID, r.FirstName, r.MiddleName, r.LastName, r.NameExt,
			r.BirthDate, fmt.Sprintf("%d", r.Age), r.Gender, r.Contact,
			r.Address, r.Diagnosis, r.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}

	s.finishExport(ctx, "csv", len(patients), caller, ip)
	return nil
}

// ExportJSON writes all live patients to w as an indented JSON array.
func (s *ExportService) ExportJSON(ctx context.Context, w io.Writer, caller *domain.Claims, ip string) error {
	patients, err := s.repo.All(ctx)
	if err != nil {
		return err
	}

	records := make([]ExportRecord, 0, len(patients))
	for _, p := range patients {
		records = append(records, toExportRecord(p))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding JSON export: %w", err)
	}

	s.finishExport(ctx, "json", len(patients), caller, ip)
	return nil
}

// ImportJSON reads an exported JSON array from r and inserts each record,
// returning the number of records created. Records that duplicate an
// existing patient are skipped; any other validation failure aborts the
// import.
func (s *ExportService) ImportJSON(ctx context.Context, r io.Reader, caller *domain.Claims, ip string) (int, error) {
	var records []ExportRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return 0, &ValidationError{Fields: []string{"body must be a JSON array of patient records"}}
	}

	count := 0
	for i, rec := range records {
		year, month, day, err := parseBirthDate(rec.BirthDate)
		if err != nil {
			return count, &ValidationError{Fields: []string{fmt.Sprintf("record %d: %v", i, err)}}
		}

		gender := patient.Gender(strings.ToLower(strings.TrimSpace(rec.Gender)))
		if gender == "" {
			gender = patient.GenderUnknown
		}

		cmd := &patient.CreatePatientCommand{
			FirstName:  rec.FirstName,
			MiddleName: rec.MiddleName,
			LastName:   rec.LastName,
			NameExt:    rec.NameExt,
			BirthYear:  year,
			BirthMonth: month,
			BirthDay:   day,
			Gender:     gender,
			Contact:    rec.Contact,
			Address:    rec.Address,
			Diagnosis:  rec.Diagnosis,
			Notes:      rec.Notes,
		}

		_, err = s.patientSvc.CreatePatient(ctx, cmd, caller, ip)
		if errors.Is(err, patient.ErrPatientAlreadyExists) {
			continue
		}
		if err != nil {
			var vErr *ValidationError
			if errors.As(err, &vErr) {
				return count, &ValidationError{Fields: []string{fmt.Sprintf("record %d: %s", i, vErr.Error())}}
			}
			return count, fmt.Errorf("importing record %d: %w", i, err)
		}
		count++
	}

	s.m.ImportedRecordsTotal.Add(float64(count))
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       caller.UserID,
		UserRole:     caller.Role,
		Action:       domain.ActionImport,
		ResourceType: "patient",
		ResourceID:   fmt.Sprintf("%d records", count),
		IPAddress:    ip,
	})

	return count, nil
}

func (s *ExportService) finishExport(ctx context.Context, format string, n int, caller *domain.Claims, ip string) {
	s.m.ExportsTotal.WithLabelValues(format).Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       caller.UserID,
		UserRole:     caller.Role,
		Action:       domain.ActionExport,
		ResourceType: "patient",
		ResourceID:   fmt.Sprintf("%d records (%s)", n, format),
		IPAddress:    ip,
	})
	s.log.Info("patients exported",
		zap.String("format", format),
		zap.Int("count", n),
	)
}

// parseBirthDate splits a YYYY-MM-DD string into its dropdown triple. The
// parts are validated later by the patient service, not here.
func parseBirthDate(s string) (year, month, day int, err error) {
	if _, e := fmt.Sscanf(strings.TrimSpace(s), "%d-%d-%d", &year, &month, &day); e != nil {
		return 0, 0, 0, fmt.Errorf("birthdate %q is not YYYY-MM-DD", s)
	}
	return year, month, day, nil
}
