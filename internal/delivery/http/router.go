package http

import (
	"net/http"

	"hospital-scheduling/internal/delivery/http/handler"
	"hospital-scheduling/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	slotHandler        *handler.SlotHandler
	appointmentHandler *handler.AppointmentHandler
	waitlistHandler    *handler.WaitlistHandler
	scheduleHandler    *handler.ScheduleHandler
	auditLogHandler    *handler.AuditLogHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
}

func NewRouter(
	slotHandler *handler.SlotHandler,
	appointmentHandler *handler.AppointmentHandler,
	waitlistHandler *handler.WaitlistHandler,
	scheduleHandler *handler.ScheduleHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		slotHandler:        slotHandler,
		appointmentHandler: appointmentHandler,
		waitlistHandler:    waitlistHandler,
		scheduleHandler:    scheduleHandler,
		auditLogHandler:    auditLogHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Patient routes (protected)
	patient := api.PathPrefix("").Subrouter()
	patient.Use(r.authMiddleware.Authenticate)
	patient.HandleFunc("/doctors/{doctorId}/slots", r.slotHandler.GetByDoctorAndDate).Methods(http.MethodGet)
	patient.HandleFunc("/appointments", r.appointmentHandler.Create).Methods(http.MethodPost)
	patient.HandleFunc("/appointments/me", r.appointmentHandler.GetMy).Methods(http.MethodGet)
	patient.HandleFunc("/appointments/{id}/status", r.appointmentHandler.UpdateStatus).Methods(http.MethodPatch)
	patient.HandleFunc("/waitlist", r.waitlistHandler.Create).Methods(http.MethodPost)
	patient.HandleFunc("/waitlist/{id}/cancel", r.waitlistHandler.Cancel).Methods(http.MethodPost)

	// Staff routes (protected - admin and staff)
	staff := api.PathPrefix("/staff").Subrouter()
	staff.Use(r.authMiddleware.Authenticate)
	staff.Use(middleware.RequireStaff)
	staff.HandleFunc("/waitlist", r.waitlistHandler.GetActive).Methods(http.MethodGet)
	staff.HandleFunc("/waitlist/stats", r.waitlistHandler.GetStats).Methods(http.MethodGet)
	staff.HandleFunc("/waitlist/{id}/notify", r.waitlistHandler.Notify).Methods(http.MethodPost)
	staff.HandleFunc("/waitlist/{id}/book", r.waitlistHandler.Book).Methods(http.MethodPost)
	staff.HandleFunc("/doctors/{doctorId}/appointments", r.appointmentHandler.GetByDoctor).Methods(http.MethodGet)
	staff.HandleFunc("/appointments/{id}/status", r.appointmentHandler.UpdateStatus).Methods(http.MethodPatch)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	// Schedule management (admin)
	admin.HandleFunc("/schedules/weekly", r.scheduleHandler.CreateWeekly).Methods(http.MethodPost)
	admin.HandleFunc("/schedules/weekly/{id}", r.scheduleHandler.UpdateWeekly).Methods(http.MethodPut)
	admin.HandleFunc("/schedules/weekly/{id}", r.scheduleHandler.DeleteWeekly).Methods(http.MethodDelete)
	admin.HandleFunc("/schedules/weekly/staff/{staffId}", r.scheduleHandler.GetWeeklyByStaff).Methods(http.MethodGet)
	admin.HandleFunc("/schedules/overrides", r.scheduleHandler.CreateOverride).Methods(http.MethodPost)
	admin.HandleFunc("/schedules/overrides/{id}", r.scheduleHandler.DeleteOverride).Methods(http.MethodDelete)
	admin.HandleFunc("/schedules/overrides/staff/{staffId}", r.scheduleHandler.GetOverridesByStaff).Methods(http.MethodGet)

	// Audit logs (admin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
