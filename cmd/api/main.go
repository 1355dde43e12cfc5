package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/peopledesk/hrops-backend-go/internal/config"
	"github.com/peopledesk/hrops-backend-go/internal/domain/notification"
	appHTTP "github.com/peopledesk/hrops-backend-go/internal/handler/http"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/calendar"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/cron"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/database"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/jwt"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/mail"
	"github.com/peopledesk/hrops-backend-go/internal/pkg/sse"
	"github.com/peopledesk/hrops-backend-go/internal/repository/postgresql"
	attendanceService "github.com/peopledesk/hrops-backend-go/internal/service/attendance"
	leaveService "github.com/peopledesk/hrops-backend-go/internal/service/leave"
	notificationService "github.com/peopledesk/hrops-backend-go/internal/service/notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	taskRepo := postgresql.NewTaskRepository(db)
	txManager := postgresql.NewTxManager(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)

	lateThreshold, err := calendar.ParseTimeOfDay(cfg.Attendance.LateThreshold)
	if err != nil {
		log.Fatal("Invalid ATTENDANCE_LATE_THRESHOLD: ", err)
	}
	workdayEnd, err := calendar.ParseTimeOfDay(cfg.Attendance.WorkdayEnd)
	if err != nil {
		log.Fatal("Invalid ATTENDANCE_WORKDAY_END: ", err)
	}

	hub := sse.NewHub()
	deliverers := []notification.Deliverer{notificationService.NewSSEDeliverer(hub)}
	if cfg.SMTP.Enabled {
		deliverers = append(deliverers, notificationService.NewMailDeliverer(mail.NewSender(cfg.SMTP), employeeRepo))
	}
	notifier := notificationService.NewService(notificationRepo, deliverers...)

	ledger := leaveService.NewLedger(txManager, leaveBalanceRepo, employeeRepo)
	requestService := leaveService.NewRequestService(txManager, leaveRequestRepo, employeeRepo, ledger, notifier)
	attendanceSvc := attendanceService.NewService(txManager, attendanceRepo, employeeRepo, lateThreshold, workdayEnd)

	jobs := cron.NewReconciliationJobs(attendanceSvc, notifier, employeeRepo, taskRepo)
	if cfg.Cron.Enabled {
		scheduler := cron.NewScheduler()
		jobs.Register(scheduler, cfg.Cron.CloseoutInterval, cfg.Cron.ReminderInterval)
		scheduler.Start()
		defer scheduler.Stop()
	}

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	leaveHandler := appHTTP.NewLeaveHandler(ledger, requestService)
	notificationHandler := appHTTP.NewNotificationHandler(notifier, hub)
	taskHandler := appHTTP.NewTaskHandler(taskRepo)
	jobsHandler := appHTTP.NewJobsHandler(jobs)

	router := appHTTP.NewRouter(
		JWTService,
		cfg.App.Env,
		attendanceHandler,
		leaveHandler,
		notificationHandler,
		taskHandler,
		jobsHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
