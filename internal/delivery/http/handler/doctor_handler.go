package handler

import (
	"errors"
	"net/http"

	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/delivery/http/middleware"
	"mediconnect/internal/usecase"
	"mediconnect/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type DoctorHandler struct {
	doctorUsecase       usecase.DoctorUsecase
	availabilityUsecase usecase.AvailabilityUsecase
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase, availabilityUsecase usecase.AvailabilityUsecase) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase:       doctorUsecase,
		availabilityUsecase: availabilityUsecase,
	}
}

// GetAllDoctors supports ?specialty= and ?city=
func (h *DoctorHandler) GetAllDoctors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	doctors, err := h.doctorUsecase.ListDoctors(r.Context(), q.Get("specialty"), q.Get("city"))
	if err != nil {
		response.InternalServerError(w, "Failed to get doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	doctor, err := h.doctorUsecase.GetDoctor(r.Context(), doctorID)
	if err != nil {
		if errors.Is(err, usecase.ErrDoctorNotFound) {
			response.NotFound(w, "Doctor not found")
			return
		}
		response.InternalServerError(w, "Failed to get doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor retrieved successfully", doctor)
}

func (h *DoctorHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		response.BadRequest(w, "date query parameter is required")
		return
	}

	availability, err := h.availabilityUsecase.GetAvailability(r.Context(), doctorID, date)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidDate):
			response.BadRequest(w, "Invalid date format, use YYYY-MM-DD")
		case errors.Is(err, usecase.ErrDoctorNotFound):
			response.NotFound(w, "Doctor not found")
		default:
			response.InternalServerError(w, "Failed to get availability")
		}
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", availability)
}

func (h *DoctorHandler) GetTimeSlots(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Time slots retrieved successfully", dto.TimeSlotListResponse{
		Slots: h.availabilityUsecase.TimeSlots(),
	})
}

func (h *DoctorHandler) GetPendingDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.doctorUsecase.ListPendingDoctors(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get pending doctors")
		return
	}

	response.Success(w, http.StatusOK, "Pending doctors retrieved successfully", doctors)
}

func (h *DoctorHandler) VerifyDoctor(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	doctorID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	doctor, err := h.doctorUsecase.VerifyDoctor(r.Context(), session, doctorID)
	if err != nil {
		if errors.Is(err, usecase.ErrDoctorNotFound) {
			response.NotFound(w, "Doctor not found")
			return
		}
		response.InternalServerError(w, "Failed to verify doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor verified successfully", doctor)
}
