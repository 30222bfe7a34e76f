package cron

import (
	"context"
	"log"
	"time"

	"github.com/apexracing/waypoint-backend/internal/email"
	"github.com/apexracing/waypoint-backend/internal/notification"
	"github.com/apexracing/waypoint-backend/internal/repository"
	"github.com/robfig/cron/v3"
)

// deadlineWindow is how far ahead the deadline sweep looks
const deadlineWindow = 14 * 24 * time.Hour

// Scheduler handles scheduled tasks
type Scheduler struct {
	cron             *cron.Cron
	notifSvc         *notification.Service
	emailSvc         *email.Service
	workPackageRepo  repository.WorkPackageRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
}

// NewScheduler creates a new scheduler
func NewScheduler(notifSvc *notification.Service, emailSvc *email.Service, workPackageRepo repository.WorkPackageRepository, userRepo repository.UserRepository, notificationRepo repository.NotificationRepository) *Scheduler {
	return &Scheduler{
		cron:             cron.New(),
		notifSvc:         notifSvc,
		emailSvc:         emailSvc,
		workPackageRepo:  workPackageRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	// Run every day at 9 AM - work package deadline reminders
	s.cron.AddFunc("0 9 * * *", func() {
		log.Println("[Cron] Running work package deadline check...")
		s.checkWorkPackageDeadlines()
	})

	// Clean up old notifications - Run every Sunday at midnight
	s.cron.AddFunc("0 0 * * 0", func() {
		log.Println("[Cron] Running notification cleanup...")
		s.cleanupOldNotifications()
	})

	s.cron.Start()
	log.Println("[Cron] Scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[Cron] Scheduler stopped")
}

// checkWorkPackageDeadlines notifies leads about work packages ending soon
func (s *Scheduler) checkWorkPackageDeadlines() {
	ctx := context.Background()

	workPackages, err := s.workPackageRepo.FindEndingWithin(ctx, deadlineWindow)
	if err != nil {
		log.Printf("[Cron] Error finding work packages ending soon: %v", err)
		return
	}

	now := time.Now()
	perLead := make(map[string][]email.DeadlineReminderWorkPackage)

	for _, wp := range workPackages {
		daysLeft := int(wp.EndDate().Sub(now).Hours() / 24)
		if daysLeft < 0 {
			daysLeft = 0
		}

		if wp.WbsElement == nil {
			continue
		}

		if err := s.notifSvc.SendWorkPackageDueSoon(ctx, wp.WbsElement, daysLeft); err != nil {
			log.Printf("[Cron] Error sending deadline notification for %s: %v", wp.WbsElement.WbsNumber(), err)
		} else {
			log.Printf("[Cron] Sent deadline notification for %s (due in %d days)", wp.WbsElement.WbsNumber(), daysLeft)
		}

		if wp.WbsElement.LeadID != nil {
			perLead[*wp.WbsElement.LeadID] = append(perLead[*wp.WbsElement.LeadID], email.DeadlineReminderWorkPackage{
				WbsNum:        wp.WbsElement.WbsNumber().String(),
				Name:          wp.WbsElement.Name,
				DaysRemaining: daysLeft,
			})
		}
	}

	if s.emailSvc == nil {
		return
	}

	for leadID, reminders := range perLead {
		lead, err := s.userRepo.FindByID(ctx, leadID)
		if err != nil {
			log.Printf("[Cron] Error looking up lead %s for deadline email: %v", leadID, err)
			continue
		}

		data := email.DeadlineReminderData{
			UserName:     lead.FirstName + " " + lead.LastName,
			WorkPackages: reminders,
		}
		if err := s.emailSvc.SendDeadlineReminder(lead.Email, data); err != nil {
			log.Printf("[Cron] Error sending deadline email to %s: %v", lead.Email, err)
		} else {
			log.Printf("[Cron] Sent deadline email to %s (%d work packages)", lead.Email, len(reminders))
		}
	}
}

// cleanupOldNotifications removes read notifications older than 30 days
func (s *Scheduler) cleanupOldNotifications() {
	ctx := context.Background()

	cutoff := time.Now().AddDate(0, 0, -30)
	deleted, err := s.notificationRepo.DeleteOlderThan(ctx, cutoff, true)
	if err != nil {
		log.Printf("[Cron] Error cleaning up notifications: %v", err)
		return
	}
	log.Printf("[Cron] Deleted %d old notifications", deleted)
}

// ManualTrigger allows manual triggering of scheduled checks (for testing)
func (s *Scheduler) ManualTrigger(checkType string) {
	switch checkType {
	case "deadlines":
		s.checkWorkPackageDeadlines()
	case "cleanup":
		s.cleanupOldNotifications()
	case "all":
		s.checkWorkPackageDeadlines()
		s.cleanupOldNotifications()
	}
}
