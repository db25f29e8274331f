package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/delivery/http/middleware"
	"mediconnect/internal/domain/entity"
	"mediconnect/internal/usecase"
	"mediconnect/pkg/response"
	"mediconnect/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// -- Mock Usecase --

type mockAppointmentUsecase struct {
	bookErr    error
	updateErr  error
	booked     *dto.BookAppointmentRequest
	lastStatus entity.AppointmentStatus
	list       []dto.AppointmentResponse
}

func (m *mockAppointmentUsecase) Book(_ context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	if m.bookErr != nil {
		return nil, m.bookErr
	}
	m.booked = req
	return &dto.AppointmentResponse{
		ID:        uuid.New(),
		PatientID: patientID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Time:      req.Time,
		Reason:    req.Reason,
		Status:    string(entity.AppointmentStatusScheduled),
	}, nil
}

func (m *mockAppointmentUsecase) ListByPatient(context.Context, uuid.UUID) ([]dto.AppointmentResponse, error) {
	return m.list, nil
}

func (m *mockAppointmentUsecase) ListByDoctor(context.Context, uuid.UUID) ([]dto.AppointmentResponse, error) {
	return m.list, nil
}

func (m *mockAppointmentUsecase) UpdateStatus(_ context.Context, _ entity.Session, id uuid.UUID, status entity.AppointmentStatus) (*dto.AppointmentResponse, error) {
	m.lastStatus = status
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return &dto.AppointmentResponse{ID: id, Status: string(status)}, nil
}

func withPatient(r *http.Request) *http.Request {
	return r.WithContext(middleware.WithSession(r.Context(), entity.Session{UserID: uuid.New(), Role: entity.RolePatient}))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestBookAppointment(t *testing.T) {
	doctorID := uuid.New()
	valid := `{"doctor_id":"` + doctorID.String() + `","date":"2025-06-10","time":"10:00 AM","reason":"Persistent headache"}`

	tests := []struct {
		name    string
		body    string
		bookErr error
		status  int
	}{
		{"created", valid, nil, http.StatusCreated},
		{"invalid json", `{"doctor_id":`, nil, http.StatusBadRequest},
		{"short reason", `{"doctor_id":"` + doctorID.String() + `","date":"2025-06-10","time":"10:00 AM","reason":"Ow"}`, nil, http.StatusBadRequest},
		{"bad date format", `{"doctor_id":"` + doctorID.String() + `","date":"10/06/2025","time":"10:00 AM","reason":"Persistent headache"}`, nil, http.StatusBadRequest},
		{"past date", valid, usecase.ErrPastDate, http.StatusBadRequest},
		{"weekend", valid, usecase.ErrWeekendDate, http.StatusBadRequest},
		{"unknown doctor", valid, usecase.ErrDoctorNotFound, http.StatusNotFound},
		{"unverified doctor", valid, usecase.ErrDoctorNotVerified, http.StatusUnprocessableEntity},
		{"conflict", valid, usecase.ErrSlotConflict, http.StatusConflict},
		{"persistence", valid, usecase.ErrPersistence, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockAppointmentUsecase{bookErr: tt.bookErr}
			h := NewAppointmentHandler(uc, validator.NewValidator())

			req := withPatient(httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(tt.body)))
			rec := httptest.NewRecorder()
			h.BookAppointment(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			body := decodeEnvelope(t, rec)
			if body.Success != (tt.status == http.StatusCreated) {
				t.Errorf("unexpected success flag in %+v", body)
			}
		})
	}
}

func TestBookAppointment_ValidationFieldNames(t *testing.T) {
	h := NewAppointmentHandler(&mockAppointmentUsecase{}, validator.NewValidator())

	req := withPatient(httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(`{"date":"2025-06-10"}`)))
	rec := httptest.NewRecorder()
	h.BookAppointment(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	fields, ok := body.Error.(map[string]interface{})
	if !ok {
		t.Fatalf("expected field map, got %T", body.Error)
	}
	for _, f := range []string{"doctor_id", "time", "reason"} {
		if _, ok := fields[f]; !ok {
			t.Errorf("expected error for %s, got %v", f, fields)
		}
	}
}

func TestBookAppointment_RequiresSession(t *testing.T) {
	h := NewAppointmentHandler(&mockAppointmentUsecase{}, validator.NewValidator())

	rec := httptest.NewRecorder()
	h.BookAppointment(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(`{}`)))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGetPatientAppointments_EmptyList(t *testing.T) {
	h := NewAppointmentHandler(&mockAppointmentUsecase{list: []dto.AppointmentResponse{}}, validator.NewValidator())

	rec := httptest.NewRecorder()
	h.GetPatientAppointments(rec, withPatient(httptest.NewRequest(http.MethodGet, "/appointments/me", nil)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"appointments":[]`) {
		t.Errorf("expected empty array in body, got %s", rec.Body.String())
	}
}

func TestCancelAppointment(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		err    error
		status int
	}{
		{"ok", uuid.NewString(), nil, http.StatusOK},
		{"bad id", "not-a-uuid", nil, http.StatusBadRequest},
		{"not found", uuid.NewString(), usecase.ErrAppointmentNotFound, http.StatusNotFound},
		{"not owned", uuid.NewString(), usecase.ErrAppointmentNotOwned, http.StatusForbidden},
		{"already closed", uuid.NewString(), usecase.ErrInvalidStatusTransition, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockAppointmentUsecase{updateErr: tt.err}
			h := NewAppointmentHandler(uc, validator.NewValidator())

			req := withPatient(httptest.NewRequest(http.MethodPatch, "/appointments/"+tt.id+"/cancel", nil))
			req = mux.SetURLVars(req, map[string]string{"id": tt.id})
			rec := httptest.NewRecorder()
			h.CancelAppointment(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if tt.status != http.StatusBadRequest && uc.lastStatus != entity.AppointmentStatusCancelled {
				t.Errorf("expected cancelled status to be requested, got %q", uc.lastStatus)
			}
		})
	}
}

func TestUpdateAppointmentStatus_RejectsUnknownStatus(t *testing.T) {
	uc := &mockAppointmentUsecase{}
	h := NewAppointmentHandler(uc, validator.NewValidator())
	id := uuid.NewString()

	req := withPatient(httptest.NewRequest(http.MethodPatch, "/appointments/"+id+"/status", strings.NewReader(`{"status":"scheduled"}`)))
	req = mux.SetURLVars(req, map[string]string{"id": id})
	rec := httptest.NewRecorder()
	h.UpdateAppointmentStatus(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if uc.lastStatus != "" {
		t.Error("usecase must not be called for invalid status")
	}
}

func TestUpdateAppointmentStatus_ConflictWhenAlreadyMoved(t *testing.T) {
	uc := &mockAppointmentUsecase{updateErr: usecase.ErrInvalidStatusTransition}
	h := NewAppointmentHandler(uc, validator.NewValidator())
	id := uuid.NewString()

	req := withPatient(httptest.NewRequest(http.MethodPatch, "/appointments/"+id+"/status", strings.NewReader(`{"status":"completed"}`)))
	req = mux.SetURLVars(req, map[string]string{"id": id})
	rec := httptest.NewRecorder()
	h.UpdateAppointmentStatus(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	if uc.lastStatus != entity.AppointmentStatusCompleted {
		t.Errorf("expected completed to be requested, got %q", uc.lastStatus)
	}
}
