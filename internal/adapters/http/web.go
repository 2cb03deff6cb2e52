package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"coachdesk/internal/adapters/email"
	"coachdesk/internal/adapters/http/middleware"
	"coachdesk/internal/adapters/http/perf"
	accountStore "coachdesk/internal/adapters/storage/account"
	agendaStore "coachdesk/internal/adapters/storage/agenda"
	checkinStore "coachdesk/internal/adapters/storage/checkin"
	clientStore "coachdesk/internal/adapters/storage/client"
	financeStore "coachdesk/internal/adapters/storage/finance"
	routineStore "coachdesk/internal/adapters/storage/routine"
	workoutStore "coachdesk/internal/adapters/storage/workout"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore accountStore.Store
	ClientStore  clientStore.Store
	AgendaStore  agendaStore.Store
	RoutineStore routineStore.Store
	WorkoutStore workoutStore.Store
	CheckInStore checkinStore.Store
	FinanceStore financeStore.Store
}

// loadCSRFKey reads the CSRF secret from COACHDESK_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("COACHDESK_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("COACHDESK_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("COACHDESK_ENV") == "production" {
		log.Fatal("COACHDESK_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set COACHDESK_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var emailReplyTo string

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from, replyTo string) {
	emailSender = sender
	emailFromAddress = from
	emailReplyTo = replyTo
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, collector *perf.Collector) http.Handler {
	stores = s
	perfCollector = collector
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("COACHDESK_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}

// registerRoutes wires all application routes onto the mux.
func registerRoutes(mux *http.ServeMux) {
	// Auth
	mux.HandleFunc("/api/login", handleLogin)
	mux.HandleFunc("/api/logout", handleLogout)
	mux.HandleFunc("/api/change-password", handleChangePassword)

	// Weekly agenda grid
	mux.HandleFunc("/api/agenda/week", handleAgendaWeek)
	mux.HandleFunc("/api/agenda/week/next", handleAgendaWeekNext)
	mux.HandleFunc("/api/agenda/week/prev", handleAgendaWeekPrev)
	mux.HandleFunc("/api/agenda/click", handleAgendaClickCell)
	mux.HandleFunc("/api/agenda/edit", handleAgendaOpenEdit)
	mux.HandleFunc("/api/agenda/submit", handleAgendaSubmit)
	mux.HandleFunc("/api/agenda/cancel", handleAgendaCancel)
	mux.HandleFunc("/api/agenda/drag", handleAgendaStartDrag)
	mux.HandleFunc("/api/agenda/drop", handleAgendaDrop)
	mux.HandleFunc("/api/agenda/events", handleAgendaDeleteEvent)
	mux.HandleFunc("/api/agenda/export.ics", handleAgendaExportICS)

	// Client roster
	mux.HandleFunc("/api/clients", handleClients)
	mux.HandleFunc("/api/clients/profile", handleClientProfile)
	mux.HandleFunc("/api/clients/archive", handleArchiveClient)
	mux.HandleFunc("/api/clients/restore", handleRestoreClient)

	// Routines
	mux.HandleFunc("/api/routines", handleRoutines)
	mux.HandleFunc("/api/routines/items", handleRoutineItems)
	mux.HandleFunc("/api/routines/items/move", handleMoveRoutineItem)

	// Athlete check-ins and workout logging
	mux.HandleFunc("/api/checkins", handleCheckIns)
	mux.HandleFunc("/api/workouts", handleWorkouts)
	mux.HandleFunc("/api/workouts/volume", handleTrainingVolume)

	// Finance
	mux.HandleFunc("/api/finance", handleFinance)
	mux.HandleFunc("/api/finance/summary", handleFinanceSummary)
	mux.HandleFunc("/api/finance/export.csv", handleFinanceExportCSV)

	// Dashboard and ops
	mux.HandleFunc("/api/dashboard", handleDashboard)
	mux.HandleFunc("/api/perf", handlePerfSnapshot)
}
