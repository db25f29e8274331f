package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/delivery/http/middleware"
	"mediconnect/internal/usecase"
	"mediconnect/pkg/response"
	"mediconnect/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type MedicalRecordHandler struct {
	recordUsecase usecase.MedicalRecordUsecase
	validator     *validator.CustomValidator
}

func NewMedicalRecordHandler(recordUsecase usecase.MedicalRecordUsecase, validator *validator.CustomValidator) *MedicalRecordHandler {
	return &MedicalRecordHandler{
		recordUsecase: recordUsecase,
		validator:     validator,
	}
}

func (h *MedicalRecordHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.CreateMedicalRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	record, err := h.recordUsecase.CreateRecord(r.Context(), session, &req)
	if err != nil {
		h.recordError(w, err, "Failed to create medical record")
		return
	}

	response.Success(w, http.StatusCreated, "Medical record created successfully", record)
}

func (h *MedicalRecordHandler) GetMyRecords(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	records, err := h.recordUsecase.ListPatientRecords(r.Context(), session.UserID)
	if err != nil {
		response.InternalServerError(w, "Failed to get medical records")
		return
	}

	response.Success(w, http.StatusOK, "Medical records retrieved successfully", records)
}

func (h *MedicalRecordHandler) GetPatientRecords(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	patientID, err := uuid.Parse(mux.Vars(r)["patientId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	records, err := h.recordUsecase.ListRecordsForDoctor(r.Context(), session, patientID)
	if err != nil {
		h.recordError(w, err, "Failed to get medical records")
		return
	}

	response.Success(w, http.StatusOK, "Medical records retrieved successfully", records)
}

func (h *MedicalRecordHandler) recordError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrDoctorNotFound), errors.Is(err, usecase.ErrDoctorNotVerified):
		response.Forbidden(w, "Only verified doctors can access medical records")
	case errors.Is(err, usecase.ErrPatientNotAssigned):
		response.Forbidden(w, "You can only view records of your own patients")
	case errors.Is(err, usecase.ErrPatientNotFound):
		response.NotFound(w, "Patient not found")
	case errors.Is(err, usecase.ErrInvalidDate):
		response.ValidationError(w, map[string]string{"date": "date must be in format YYYY-MM-DD"})
	default:
		response.InternalServerError(w, fallback)
	}
}
