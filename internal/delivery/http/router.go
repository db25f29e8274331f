package http

import (
	"net/http"

	"mediconnect/internal/delivery/http/handler"
	"mediconnect/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router               *mux.Router
	authHandler          *handler.AuthHandler
	doctorHandler        *handler.DoctorHandler
	appointmentHandler   *handler.AppointmentHandler
	medicalRecordHandler *handler.MedicalRecordHandler
	paymentHandler       *handler.PaymentHandler
	analysisHandler      *handler.AnalysisHandler
	auditLogHandler      *handler.AuditLogHandler
	authMiddleware       *middleware.AuthMiddleware
	corsMiddleware       *middleware.CORSMiddleware
	loggingMiddleware    *middleware.LoggingMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	doctorHandler *handler.DoctorHandler,
	appointmentHandler *handler.AppointmentHandler,
	medicalRecordHandler *handler.MedicalRecordHandler,
	paymentHandler *handler.PaymentHandler,
	analysisHandler *handler.AnalysisHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
) *Router {
	return &Router{
		router:               mux.NewRouter(),
		authHandler:          authHandler,
		doctorHandler:        doctorHandler,
		appointmentHandler:   appointmentHandler,
		medicalRecordHandler: medicalRecordHandler,
		paymentHandler:       paymentHandler,
		analysisHandler:      analysisHandler,
		auditLogHandler:      auditLogHandler,
		authMiddleware:       authMiddleware,
		corsMiddleware:       corsMiddleware,
		loggingMiddleware:    loggingMiddleware,
	}
}

// Setup registers every route and returns the root handler. CORS and request
// logging wrap the router itself so preflight and unmatched requests pass
// through them too.
func (r *Router) Setup() http.Handler {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register/patient", r.authHandler.RegisterPatient).Methods(http.MethodPost)
	auth.HandleFunc("/register/doctor", r.authHandler.RegisterDoctor).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/logout-all", r.authHandler.LogoutAll).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.Me).Methods(http.MethodGet)

	// Directory and availability (public)
	api.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}/availability", r.doctorHandler.GetAvailability).Methods(http.MethodGet)
	api.HandleFunc("/time-slots", r.doctorHandler.GetTimeSlots).Methods(http.MethodGet)
	api.HandleFunc("/plans", r.paymentHandler.GetPlans).Methods(http.MethodGet)

	// Patient routes
	patient := api.PathPrefix("/patient").Subrouter()
	patient.Use(r.authMiddleware.Authenticate)
	patient.Use(middleware.RequirePatient)
	patient.HandleFunc("/appointments", r.appointmentHandler.BookAppointment).Methods(http.MethodPost)
	patient.HandleFunc("/appointments", r.appointmentHandler.GetPatientAppointments).Methods(http.MethodGet)
	patient.HandleFunc("/appointments/{id}/cancel", r.appointmentHandler.CancelAppointment).Methods(http.MethodPatch)
	patient.HandleFunc("/medical-records", r.medicalRecordHandler.GetMyRecords).Methods(http.MethodGet)

	// Doctor routes
	doctor := api.PathPrefix("/doctor").Subrouter()
	doctor.Use(r.authMiddleware.Authenticate)
	doctor.Use(middleware.RequireDoctor)
	doctor.HandleFunc("/appointments", r.appointmentHandler.GetDoctorAppointments).Methods(http.MethodGet)
	doctor.HandleFunc("/appointments/{id}/status", r.appointmentHandler.UpdateAppointmentStatus).Methods(http.MethodPatch)
	doctor.HandleFunc("/medical-records", r.medicalRecordHandler.CreateRecord).Methods(http.MethodPost)
	doctor.HandleFunc("/patients/{patientId}/medical-records", r.medicalRecordHandler.GetPatientRecords).Methods(http.MethodGet)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/doctors/pending", r.doctorHandler.GetPendingDoctors).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}/verify", r.doctorHandler.VerifyDoctor).Methods(http.MethodPatch)
	admin.HandleFunc("/appointments/{id}/status", r.appointmentHandler.UpdateAppointmentStatus).Methods(http.MethodPatch)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Routes kept at the paths the web client already calls
	legacy := r.router.PathPrefix("/api").Subrouter()
	legacy.HandleFunc("/payment", r.paymentHandler.CreatePaymentSession).Methods(http.MethodPost)
	legacy.HandleFunc("/payment", r.paymentHandler.VerifyPayment).Methods(http.MethodGet)
	legacy.HandleFunc("/analyze-symptoms", r.analysisHandler.AnalyzeSymptoms).Methods(http.MethodPost)
	legacy.HandleFunc("/analyze-report", r.analysisHandler.AnalyzeReport).Methods(http.MethodPost)

	return r.corsMiddleware.Handle(r.loggingMiddleware.Handle(r.router))
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
