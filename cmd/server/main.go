package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	_ "modernc.org/sqlite"

	emailPkg "coachdesk/internal/adapters/email"
	web "coachdesk/internal/adapters/http"
	"coachdesk/internal/adapters/http/perf"
	"coachdesk/internal/adapters/storage"
	accountStore "coachdesk/internal/adapters/storage/account"
	agendaStore "coachdesk/internal/adapters/storage/agenda"
	checkinStore "coachdesk/internal/adapters/storage/checkin"
	clientStore "coachdesk/internal/adapters/storage/client"
	financeStore "coachdesk/internal/adapters/storage/finance"
	routineStore "coachdesk/internal/adapters/storage/routine"
	workoutStore "coachdesk/internal/adapters/storage/workout"
	"coachdesk/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// reminderCron fires the next-day agenda reminder at 18:00 server time.
const reminderCron = "0 18 * * *"

func main() {
	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("COACHDESK_DB", "coachdesk.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	log.Println("Database initialized successfully!")

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	acctStore := accountStore.NewSQLiteStore(timedDB)
	agStore := agendaStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore: acctStore,
		ClientStore:  clientStore.NewSQLiteStore(timedDB),
		AgendaStore:  agStore,
		RoutineStore: routineStore.NewSQLiteStore(timedDB),
		WorkoutStore: workoutStore.NewSQLiteStore(timedDB),
		CheckInStore: checkinStore.NewSQLiteStore(timedDB),
		FinanceStore: financeStore.NewSQLiteStore(timedDB),
	}

	// Seed default admin account if no accounts exist
	adminEmail := envOrDefault("COACHDESK_ADMIN_EMAIL", "admin@coachdesk.app")
	adminPassword := envOrDefault("COACHDESK_ADMIN_PASSWORD", "change me before launch")
	seedDeps := orchestrators.CreateAccountDeps{AccountStore: acctStore}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, adminEmail, adminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Configure email sender
	resendKey := os.Getenv("COACHDESK_RESEND_KEY")
	emailFrom := envOrDefault("COACHDESK_RESEND_FROM", "CoachDesk <noreply@coachdesk.app>")
	emailReply := envOrDefault("COACHDESK_REPLY_TO", "support@coachdesk.app")
	var sender emailPkg.Sender
	if resendKey != "" {
		sender = emailPkg.NewResendSender(resendKey, emailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if os.Getenv("COACHDESK_ENV") == "production" {
			log.Println("WARNING: COACHDESK_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set COACHDESK_RESEND_KEY for real delivery)")
		}
	}
	web.SetEmailSender(sender, emailFrom, emailReply)

	// Daily next-day agenda reminder emails
	scheduler := cron.New()
	_, err = scheduler.AddFunc(reminderCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		sent, err := orchestrators.ExecuteSendAgendaReminders(ctx, orchestrators.AgendaRemindersDeps{
			AgendaStore:  agStore,
			AccountStore: acctStore,
			Email:        sender,
			Now:          time.Now,
		})
		if err != nil {
			slog.Error("reminder_event", "event", "reminder_run_failed", "error", err)
			return
		}
		slog.Info("reminder_event", "event", "reminder_run_complete", "sent", sent)
	})
	if err != nil {
		log.Fatalf("failed to schedule agenda reminders: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create HTTP handler with middleware (pass collector for timing + ops snapshot)
	mux := web.NewMux("static", stores, collector)

	addr := envOrDefault("COACHDESK_ADDR", ":8080")
	log.Printf("CoachDesk %s starting on %s (env=%s)", version, addr, envOrDefault("COACHDESK_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
