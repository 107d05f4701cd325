package http

import (
	"net/http"

	"clinic-appointment-service/internal/delivery/http/handler"
	"clinic-appointment-service/internal/delivery/http/middleware"
	"clinic-appointment-service/internal/domain/entity"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	doctorHandler       *handler.DoctorHandler
	patientHandler      *handler.PatientHandler
	appointmentHandler  *handler.AppointmentHandler
	prescriptionHandler *handler.PrescriptionHandler
	auditLogHandler     *handler.AuditLogHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	doctorHandler *handler.DoctorHandler,
	patientHandler *handler.PatientHandler,
	appointmentHandler *handler.AppointmentHandler,
	prescriptionHandler *handler.PrescriptionHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		doctorHandler:       doctorHandler,
		patientHandler:      patientHandler,
		appointmentHandler:  appointmentHandler,
		prescriptionHandler: prescriptionHandler,
		auditLogHandler:     auditLogHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register/patient", r.patientHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login/admin", r.authHandler.AdminLogin).Methods(http.MethodPost)
	auth.HandleFunc("/login/doctor", r.authHandler.DoctorLogin).Methods(http.MethodPost)
	auth.HandleFunc("/login/patient", r.authHandler.PatientLogin).Methods(http.MethodPost)

	// Logout routes (protected, one per role)
	adminAuth := api.PathPrefix("/auth").Subrouter()
	adminAuth.Use(r.authMiddleware.Require(entity.RoleAdmin))
	adminAuth.HandleFunc("/logout/admin", r.authHandler.AdminLogout).Methods(http.MethodPost)

	doctorAuth := api.PathPrefix("/auth").Subrouter()
	doctorAuth.Use(r.authMiddleware.Require(entity.RoleDoctor))
	doctorAuth.HandleFunc("/logout/doctor", r.authHandler.DoctorLogout).Methods(http.MethodPost)

	patientAuth := api.PathPrefix("/auth").Subrouter()
	patientAuth.Use(r.authMiddleware.Require(entity.RolePatient))
	patientAuth.HandleFunc("/logout/patient", r.authHandler.PatientLogout).Methods(http.MethodPost)

	// Public doctor directory
	api.HandleFunc("/doctors", r.doctorHandler.FilterDoctors).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)

	// Availability requires a token of any role
	requireAny := r.authMiddleware.RequireAny()
	api.Handle("/doctors/{id}/availability",
		requireAny(http.HandlerFunc(r.appointmentHandler.GetAvailability))).Methods(http.MethodGet)

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Require(entity.RoleAdmin))
	admin.HandleFunc("/doctors", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.UpdateDoctor).Methods(http.MethodPut)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.DeleteDoctor).Methods(http.MethodDelete)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAuditLogs).Methods(http.MethodGet)

	// Doctor routes
	doctor := api.PathPrefix("/doctor").Subrouter()
	doctor.Use(r.authMiddleware.Require(entity.RoleDoctor))
	doctor.HandleFunc("/appointments", r.appointmentHandler.GetDoctorAppointments).Methods(http.MethodGet)
	doctor.HandleFunc("/appointments/{id}/complete", r.appointmentHandler.CompleteAppointment).Methods(http.MethodPost)
	doctor.HandleFunc("/prescriptions", r.prescriptionHandler.SavePrescription).Methods(http.MethodPost)
	doctor.HandleFunc("/appointments/{id}/prescription", r.prescriptionHandler.GetPrescription).Methods(http.MethodGet)

	// Patient routes
	patient := api.PathPrefix("/patient").Subrouter()
	patient.Use(r.authMiddleware.Require(entity.RolePatient))
	patient.HandleFunc("/me", r.patientHandler.GetProfile).Methods(http.MethodGet)
	patient.HandleFunc("/appointments", r.patientHandler.GetMyAppointments).Methods(http.MethodGet)
	patient.HandleFunc("/appointments", r.appointmentHandler.BookAppointment).Methods(http.MethodPost)
	patient.HandleFunc("/appointments/{id}", r.appointmentHandler.RescheduleAppointment).Methods(http.MethodPut)
	patient.HandleFunc("/appointments/{id}", r.appointmentHandler.CancelAppointment).Methods(http.MethodDelete)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
