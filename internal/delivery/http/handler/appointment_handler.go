package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/delivery/http/middleware"
	"mediconnect/internal/domain/entity"
	"mediconnect/internal/usecase"
	"mediconnect/pkg/response"
	"mediconnect/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Book(r.Context(), session.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrReasonTooShort):
			response.ValidationError(w, map[string]string{"reason": "reason must be at least 5 characters"})
		case errors.Is(err, usecase.ErrInvalidTimeSlot):
			response.ValidationError(w, map[string]string{"time": "time must be one of the available slots"})
		case errors.Is(err, usecase.ErrInvalidDate):
			response.ValidationError(w, map[string]string{"date": "date must be in format YYYY-MM-DD"})
		case errors.Is(err, usecase.ErrPastDate):
			response.ValidationError(w, map[string]string{"date": "date must be today or later"})
		case errors.Is(err, usecase.ErrWeekendDate):
			response.ValidationError(w, map[string]string{"date": "appointments are not available on weekends"})
		case errors.Is(err, usecase.ErrDoctorNotFound):
			response.NotFound(w, "Doctor not found")
		case errors.Is(err, usecase.ErrDoctorNotVerified):
			response.Error(w, http.StatusUnprocessableEntity, "Doctor is not verified yet", nil)
		case errors.Is(err, usecase.ErrSlotConflict):
			response.Conflict(w, "This time slot is already booked")
		default:
			response.InternalServerError(w, "Failed to book appointment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

func (h *AppointmentHandler) GetPatientAppointments(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	appointments, err := h.appointmentUsecase.ListByPatient(r.Context(), session.UserID)
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", dto.AppointmentListResponse{
		Appointments: appointments,
		Total:        len(appointments),
	})
}

func (h *AppointmentHandler) GetDoctorAppointments(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	appointments, err := h.appointmentUsecase.ListByDoctor(r.Context(), session.UserID)
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", dto.AppointmentListResponse{
		Appointments: appointments,
		Total:        len(appointments),
	})
}

// CancelAppointment is the patient shortcut for a status change to cancelled
func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, entity.AppointmentStatusCancelled)
}

func (h *AppointmentHandler) UpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	status, _ := entity.ParseAppointmentStatus(req.Status)
	h.changeStatus(w, r, status)
}

func (h *AppointmentHandler) changeStatus(w http.ResponseWriter, r *http.Request, status entity.AppointmentStatus) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	appointmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	appointment, err := h.appointmentUsecase.UpdateStatus(r.Context(), session, appointmentID, status)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAppointmentNotFound):
			response.NotFound(w, "Appointment not found")
		case errors.Is(err, usecase.ErrAppointmentNotOwned):
			response.Forbidden(w, "Appointment does not belong to you")
		case errors.Is(err, usecase.ErrStatusNotPermitted):
			response.Forbidden(w, "You are not allowed to set this status")
		case errors.Is(err, usecase.ErrInvalidStatusTransition):
			response.Conflict(w, "Appointment is already completed or cancelled")
		default:
			response.InternalServerError(w, "Failed to update appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated successfully", appointment)
}
