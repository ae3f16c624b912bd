package services

import (
	"context"
	"log"
	"time"

	"shelfwise/internal/adapters/persistence/models"
	"shelfwise/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StreakGraceHours is how long a streak survives without a return
const StreakGraceHours = 48

// CronService runs the daily maintenance jobs: the 08:30 overdue-loan
// report, and the midnight sweep that clears lapsed streaks and purges
// expired sessions.
type CronService struct {
	db          *gorm.DB
	loanRepo    *repositories.LoanRepository
	sessionRepo repositories.SessionRepository
	cron        *cron.Cron
}

// NewCronService creates a new cron service
func NewCronService(db *gorm.DB) *CronService {
	return &CronService{
		db:          db,
		loanRepo:    repositories.NewLoanRepository(db),
		sessionRepo: repositories.NewSessionRepository(db),
		cron:        cron.New(),
	}
}

// Start registers and launches the scheduled jobs
func (s *CronService) Start() {
	s.cron.AddFunc("30 8 * * *", s.reportOverdueLoans)
	s.cron.AddFunc("0 0 * * *", s.midnightSweep)
	s.cron.Start()
	log.Println("🚀 CronService started (overdue report 08:30, sweep 00:00)")
}

// Stop stops the scheduler, waiting for a running job to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 CronService stopped")
}

// reportOverdueLoans logs every active loan past its due date
func (s *CronService) reportOverdueLoans() {
	ctx := context.Background()

	loans, err := s.loanRepo.ListOverdue(ctx, time.Now())
	if err != nil {
		log.Printf("❌ Overdue report query error: %v", err)
		return
	}

	for _, loan := range loans {
		title := ""
		if loan.Copy != nil && loan.Copy.Book != nil {
			title = loan.Copy.Book.Title
		}
		username := ""
		if loan.User != nil {
			username = loan.User.Username
		}
		log.Printf("⏰ Overdue: loan %d (%q) held by %s, due %s",
			loan.ID, title, username, loan.DueDate.Format("2006-01-02"))
	}

	if len(loans) > 0 {
		log.Printf("⏰ %d overdue loans outstanding", len(loans))
	}
}

// midnightSweep resets streaks with no return inside the grace window and
// purges expired sessions
func (s *CronService) midnightSweep() {
	ctx := context.Background()
	cutoff := time.Now().Add(-StreakGraceHours * time.Hour)

	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("current_streak > 0 AND (last_return_at IS NULL OR last_return_at < ?)", cutoff).
		Update("current_streak", 0)
	if res.Error != nil {
		log.Printf("❌ Streak sweep error: %v", res.Error)
	} else if res.RowsAffected > 0 {
		log.Printf("🧹 Reset %d lapsed streaks", res.RowsAffected)
	}

	if err := s.sessionRepo.DeleteExpired(ctx); err != nil {
		log.Printf("❌ Session purge error: %v", err)
	}
}
