package socket

import (
	"fmt"
	"log"
)

// Broadcaster provides high-level methods for broadcasting events
type Broadcaster struct {
	hub *Hub
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

// ============================================
// Notification Broadcasting
// ============================================

// SendNotification sends a notification to a specific user
func (b *Broadcaster) SendNotification(userID string, notification map[string]interface{}) {
	b.hub.SendToUser(userID, MessageNotification, notification)
}

// SendNotificationCount updates notification count for a user
func (b *Broadcaster) SendNotificationCount(userID string, total, unread int) {
	b.hub.SendToUser(userID, MessageNotificationCount, map[string]interface{}{
		"total":  total,
		"unread": unread,
	})
}

// ============================================
// Project Broadcasting
// ============================================

// BroadcastProjectCreated announces a new project to every connected client
func (b *Broadcaster) BroadcastProjectCreated(projectID string) {
	b.hub.SendToRoom(roomProjects, MessageProjectCreated, map[string]interface{}{
		"projectId": projectID,
	}, "")
}

// BroadcastProjectUpdated broadcasts a project edit to its subscribers
func (b *Broadcaster) BroadcastProjectUpdated(projectID string) {
	log.Printf("[Broadcaster] project updated: %s", projectID)
	b.hub.SendToRoom(projectRoom(projectID), MessageProjectUpdated, map[string]interface{}{
		"projectId": projectID,
	}, "")
}

// BroadcastProjectDeleted broadcasts a project deletion to its subscribers
func (b *Broadcaster) BroadcastProjectDeleted(projectID string) {
	b.hub.SendToRoom(projectRoom(projectID), MessageProjectDeleted, map[string]interface{}{
		"projectId": projectID,
	}, "")
}

// ============================================
// Work Package Broadcasting
// ============================================

// BroadcastWorkPackageUpdated broadcasts a work package change
func (b *Broadcaster) BroadcastWorkPackageUpdated(workPackageID string) {
	b.hub.SendToRoom(roomProjects, MessageWorkPackageUpdated, map[string]interface{}{
		"workPackageId": workPackageID,
	}, "")
}

// ============================================
// Risk Broadcasting
// ============================================

// BroadcastRiskCreated broadcasts a new risk to the project's subscribers
func (b *Broadcaster) BroadcastRiskCreated(projectID, riskID string) {
	b.hub.SendToRoom(projectRoom(projectID), MessageRiskCreated, map[string]interface{}{
		"projectId": projectID,
		"riskId":    riskID,
	}, "")
}

// BroadcastRiskUpdated broadcasts a risk edit to the project's subscribers
func (b *Broadcaster) BroadcastRiskUpdated(projectID, riskID string) {
	b.hub.SendToRoom(projectRoom(projectID), MessageRiskUpdated, map[string]interface{}{
		"projectId": projectID,
		"riskId":    riskID,
	}, "")
}

// BroadcastRiskDeleted broadcasts a risk deletion to the project's subscribers
func (b *Broadcaster) BroadcastRiskDeleted(projectID, riskID string) {
	b.hub.SendToRoom(projectRoom(projectID), MessageRiskDeleted, map[string]interface{}{
		"projectId": projectID,
		"riskId":    riskID,
	}, "")
}

// ============================================
// Team Broadcasting
// ============================================

// BroadcastTeamUpdated broadcasts a roster or description change
func (b *Broadcaster) BroadcastTeamUpdated(teamID string) {
	log.Printf("[Broadcaster] team updated: %s", teamID)
	b.hub.SendToRoom(teamRoom(teamID), MessageTeamUpdated, map[string]interface{}{
		"teamId": teamID,
	}, "")
}

// ============================================
// Reimbursement Broadcasting
// ============================================

// BroadcastReimbursementUpdated broadcasts a lifecycle change to reviewers
func (b *Broadcaster) BroadcastReimbursementUpdated(requestID string) {
	b.hub.SendToRoom(roomReimbursements, MessageReimbursementUpdated, map[string]interface{}{
		"reimbursementRequestId": requestID,
	}, "")
}

// ============================================
// Direct User Messaging
// ============================================

// SendToUsers sends a message to multiple specific users
func (b *Broadcaster) SendToUsers(userIDs []string, msgType MessageType, payload map[string]interface{}) {
	for _, userID := range userIDs {
		b.hub.SendToUser(userID, msgType, payload)
	}
}

// ============================================
// Rooms
// ============================================

const (
	roomProjects       = "projects"
	roomReimbursements = "reimbursements"
)

func projectRoom(projectID string) string {
	return fmt.Sprintf("project:%s", projectID)
}

func teamRoom(teamID string) string {
	return fmt.Sprintf("team:%s", teamID)
}
