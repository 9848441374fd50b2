package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"pmrs/internal/domain/patient"
	"pmrs/internal/middleware"
	"pmrs/internal/service"
)

type PatientHandler struct {
	svc *service.PatientService
}

func NewPatientHandler(svc *service.PatientService) *PatientHandler {
	return &PatientHandler{svc: svc}
}

type createPatientRequest struct {
	FirstName  string `json:"first_name" binding:"required"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name" binding:"required"`
	NameExt    string `json:"name_ext"`

	BirthYear  int `json:"birth_year" binding:"required"`
	BirthMonth int `json:"birth_month" binding:"required"`
	BirthDay   int `json:"birth_day" binding:"required"`

	Gender    string `json:"gender" binding:"required"`
	Contact   string `json:"contact"`
	Address   string `json:"address"`
	Diagnosis string `json:"diagnosis"`
	Notes     string `json:"notes"`
}

type updatePatientRequest struct {
	FirstName  *string `json:"first_name"`
	MiddleName *string `json:"middle_name"`
	LastName   *string `json:"last_name"`
	NameExt    *string `json:"name_ext"`

	BirthYear  *int `json:"birth_year"`
	BirthMonth *int `json:"birth_month"`
	BirthDay   *int `json:"birth_day"`

	Gender    *string `json:"gender"`
	Contact   *string `json:"contact"`
	Address   *string `json:"address"`
	Diagnosis *string `json:"diagnosis"`
	Notes     *string `json:"notes"`
}

type patientResponse struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"first_name"`
	MiddleName string    `json:"middle_name,omitempty"`
	LastName   string    `json:"last_name"`
	NameExt    string    `json:"name_ext,omitempty"`
	FullName   string    `json:"full_name"`
	BirthDate  string    `json:"birthdate"`
	Age        int       `json:"age"`
	Gender     string    `json:"gender"`
	Contact    string    `json:"contact,omitempty"`
	Address    string    `json:"address,omitempty"`
	Diagnosis  string    `json:"diagnosis,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type pagedPatientsResponse struct {
	Patients   []patientResponse `json:"patients"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

func toPatientResponse(p *patient.Patient) patientResponse {
	return patientResponse{
		ID:         p.ID.String(),
		FirstName:  p.FirstName,
		MiddleName: p.MiddleName,
		LastName:   p.LastName,
		NameExt:    p.NameExt,
		FullName:   p.FullName(),
		BirthDate:  p.BirthDateString(),
		Age:        p.Age(),
		Gender:     string(p.Gender),
		Contact:    p.Contact,
		Address:    p.Address,
		Diagnosis:  p.Diagnosis,
		Notes:      p.Notes,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func (h *PatientHandler) Create(c *gin.Context) {
	var req createPatientRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &patient.CreatePatientCommand{
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		NameExt:    req.NameExt,
		BirthYear:  req.BirthYear,
		BirthMonth: req.BirthMonth,
		BirthDay:   req.BirthDay,
		Gender:     patient.Gender(req.Gender),
		Contact:    req.Contact,
		Address:    req.Address,
		Diagnosis:  req.Diagnosis,
		Notes:      req.Notes,
	}

	p, err := h.svc.CreatePatient(c.Request.Context(), cmd, middleware.GetClaims(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, toPatientResponse(p))
}

func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.GetPatient(c.Request.Context(), id, middleware.GetClaims(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toPatientResponse(p))
}

func (h *PatientHandler) Update(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updatePatientRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &patient.UpdatePatientCommand{
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		NameExt:    req.NameExt,
		BirthYear:  req.BirthYear,
		BirthMonth: req.BirthMonth,
		BirthDay:   req.BirthDay,
		Contact:    req.Contact,
		Address:    req.Address,
		Diagnosis:  req.Diagnosis,
		Notes:      req.Notes,
	}
	if req.Gender != nil {
		g := patient.Gender(*req.Gender)
		cmd.Gender = &g
	}

	p, err := h.svc.UpdatePatient(c.Request.Context(), id, cmd, middleware.GetClaims(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toPatientResponse(p))
}

func (h *PatientHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeletePatient(c.Request.Context(), id, middleware.GetClaims(c), c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"deleted": id.String()})
}

func (h *PatientHandler) List(c *gin.Context) {
	q := &patient.ListPatientsQuery{
		Search:    c.Query("q"),
		Page:      parseQueryInt(c, "page", 1),
		PageSize:  parseQueryInt(c, "page_size", 20),
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}

	paged, err := h.svc.ListPatients(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := pagedPatientsResponse{
		Patients:   make([]patientResponse, 0, len(paged.Patients)),
		TotalCount: paged.TotalCount,
		Page:       paged.Page,
		PageSize:   paged.PageSize,
		TotalPages: paged.TotalPages,
	}
	for _, p := range paged.Patients {
		resp.Patients = append(resp.Patients, toPatientResponse(p))
	}

	respondOK(c, resp)
}
