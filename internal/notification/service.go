package notification

import (
	"context"
	"fmt"

	"github.com/apexracing/waypoint-backend/internal/repository"
	"github.com/apexracing/waypoint-backend/internal/socket"
)

// Notification types
const (
	TypeRiskCreated         = "RISK_CREATED"
	TypeRiskResolved        = "RISK_RESOLVED"
	TypeAddedToTeam         = "ADDED_TO_TEAM"
	TypeWorkPackageDueSoon  = "WORK_PACKAGE_DUE_SOON"
	TypeReimbursementStatus = "REIMBURSEMENT_STATUS"
)

// Service handles sending notifications
type Service struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	broadcaster      *socket.Broadcaster
}

func (s *Service) SetBroadcaster(b *socket.Broadcaster) {
	s.broadcaster = b
}

// NewService creates a new notification service
func NewService(notificationRepo repository.NotificationRepository) *Service {
	return &Service{
		notificationRepo: notificationRepo,
	}
}

// SetUserRepo sets the user repository (for dependency injection)
func (s *Service) SetUserRepo(userRepo repository.UserRepository) {
	s.userRepo = userRepo
}

// ============================================
// WebSocket Helper
// ============================================

// sendWebSocketNotification sends real-time notification via WebSocket
func (s *Service) sendWebSocketNotification(notification *repository.Notification) {
	if s.broadcaster == nil || notification == nil {
		return
	}

	s.broadcaster.SendNotification(notification.UserID, map[string]interface{}{
		"id":        notification.ID,
		"type":      notification.Type,
		"title":     notification.Title,
		"message":   notification.Message,
		"data":      notification.Data,
		"read":      notification.Read,
		"createdAt": notification.CreatedAt,
	})
}

// ============================================
// Risk Notifications
// ============================================

// SendRiskCreated notifies the project lead and manager about a new risk
func (s *Service) SendRiskCreated(ctx context.Context, element *repository.WbsElement, risk *repository.Risk, creator *repository.User) error {
	if element == nil {
		return nil
	}

	var errs []error
	for _, userID := range elementOwnerIDs(element) {
		if userID == creator.ID {
			continue // don't notify the creator
		}

		notification := &repository.Notification{
			UserID:  userID,
			Type:    TypeRiskCreated,
			Title:   "New Risk",
			Message: fmt.Sprintf("%s %s identified a risk on %s: %s", creator.FirstName, creator.LastName, element.Name, risk.Detail),
			Read:    false,
			Data: map[string]interface{}{
				"riskId":    risk.ID,
				"projectId": risk.ProjectID,
				"action":    "view_risk",
			},
		}

		if err := s.notificationRepo.Create(ctx, notification); err != nil {
			errs = append(errs, err)
			continue
		}
		s.sendWebSocketNotification(notification)
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to send %d risk notifications", len(errs))
	}
	return nil
}

// ============================================
// Team Notifications
// ============================================

// SendAddedToTeam notifies users that they were added to a team's roster
func (s *Service) SendAddedToTeam(ctx context.Context, userIDs []string, team *repository.Team) error {
	var errs []error
	for _, userID := range userIDs {
		if userID == "" {
			continue
		}

		notification := &repository.Notification{
			UserID:  userID,
			Type:    TypeAddedToTeam,
			Title:   "Added to Team",
			Message: fmt.Sprintf("You have been added to team: %s", team.Name),
			Read:    false,
			Data: map[string]interface{}{
				"teamId": team.ID,
				"action": "view_team",
			},
		}

		if err := s.notificationRepo.Create(ctx, notification); err != nil {
			errs = append(errs, err)
			continue
		}
		s.sendWebSocketNotification(notification)
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to send %d team notifications", len(errs))
	}
	return nil
}

// ============================================
// Work Package Notifications
// ============================================

// SendWorkPackageDueSoon notifies the element's lead and manager that the
// work package's end date is approaching. Used by the deadline sweep.
func (s *Service) SendWorkPackageDueSoon(ctx context.Context, element *repository.WbsElement, daysLeft int) error {
	if element == nil {
		return nil
	}

	var errs []error
	for _, userID := range elementOwnerIDs(element) {
		notification := &repository.Notification{
			UserID:  userID,
			Type:    TypeWorkPackageDueSoon,
			Title:   "Work Package Due Soon",
			Message: fmt.Sprintf("Work package %s ends in %d days", element.Name, daysLeft),
			Read:    false,
			Data: map[string]interface{}{
				"wbsNum": element.WbsNumber().String(),
				"action": "view_work_package",
			},
		}

		if err := s.notificationRepo.Create(ctx, notification); err != nil {
			errs = append(errs, err)
			continue
		}
		s.sendWebSocketNotification(notification)
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to send %d deadline notifications", len(errs))
	}
	return nil
}

// ============================================
// Reimbursement Notifications
// ============================================

var reimbursementStatusMessages = map[string]string{
	"SABO_ASSIGNED":  "your reimbursement request has been assigned a sabo number",
	"ADVISOR_REVIEW": "your reimbursement request has been sent to the advisor",
	"APPROVED":       "your reimbursement request has been approved",
	"DELIVERED":      "your reimbursement has been delivered",
}

// SendReimbursementStatusChanged notifies the recipient of a lifecycle move
func (s *Service) SendReimbursementStatusChanged(ctx context.Context, recipientID, requestID, status string) error {
	message, ok := reimbursementStatusMessages[status]
	if !ok {
		return nil
	}

	notification := &repository.Notification{
		UserID:  recipientID,
		Type:    TypeReimbursementStatus,
		Title:   "Reimbursement Update",
		Message: message,
		Read:    false,
		Data: map[string]interface{}{
			"reimbursementRequestId": requestID,
			"status":                 status,
			"action":                 "view_reimbursement",
		},
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return err
	}
	s.sendWebSocketNotification(notification)
	return nil
}

// elementOwnerIDs collects the lead and manager ids of a WBS element
func elementOwnerIDs(element *repository.WbsElement) []string {
	var ids []string
	if element.LeadID != nil {
		ids = append(ids, *element.LeadID)
	}
	if element.ManagerID != nil && (element.LeadID == nil || *element.ManagerID != *element.LeadID) {
		ids = append(ids, *element.ManagerID)
	}
	return ids
}
