package repository

import (
	"testing"
	"time"

	"github.com/apexracing/waypoint-backend/internal/types"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestReimbursementRequestStatus(t *testing.T) {
	now := time.Now()
	sabo := 42

	tests := []struct {
		name    string
		request ReimbursementRequest
		want    string
	}{
		{"fresh request", ReimbursementRequest{}, types.ReimbursementPending},
		{"sabo assigned", ReimbursementRequest{SaboID: &sabo}, types.ReimbursementSaboAssigned},
		{
			"sent to advisor",
			ReimbursementRequest{SaboID: &sabo, DatePendingAdvisor: timePtr(now)},
			types.ReimbursementAdvisorReview,
		},
		{
			"approved",
			ReimbursementRequest{SaboID: &sabo, DatePendingAdvisor: timePtr(now), DateApproved: timePtr(now)},
			types.ReimbursementApproved,
		},
		{
			"delivered",
			ReimbursementRequest{SaboID: &sabo, DatePendingAdvisor: timePtr(now), DateApproved: timePtr(now), DateDelivered: timePtr(now)},
			types.ReimbursementDelivered,
		},
		{
			"deleted wins over everything",
			ReimbursementRequest{SaboID: &sabo, DateDelivered: timePtr(now), DateDeleted: timePtr(now)},
			types.ReimbursementDeleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.request.Status())
		})
	}
}

func TestWbsElementWbsNumber(t *testing.T) {
	element := WbsElement{CarNumber: 2, ProjectNumber: 5, WorkPackageNumber: 3}
	require.Equal(t, types.WbsNumber{CarNumber: 2, ProjectNumber: 5, WorkPackageNumber: 3}, element.WbsNumber())
	require.Equal(t, "2.5.3", element.WbsNumber().String())
}

func TestWbsElementDeletion(t *testing.T) {
	element := WbsElement{}
	require.False(t, element.IsDeleted())

	element.MarkDeleted("user-1", time.Now())
	require.True(t, element.IsDeleted())
	require.NotNil(t, element.DeletedByID)
	require.Equal(t, "user-1", *element.DeletedByID)
}

func TestWorkPackageEndDate(t *testing.T) {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	wp := WorkPackage{StartDate: start, Duration: 3}
	require.Equal(t, start.AddDate(0, 0, 21), wp.EndDate())
}

func TestDescriptionBulletIsChecked(t *testing.T) {
	bullet := DescriptionBullet{}
	require.False(t, bullet.IsChecked())

	now := time.Now()
	bullet.DateTimeChecked = &now
	require.True(t, bullet.IsChecked())
}

func TestTeamLeadIDs(t *testing.T) {
	team := Team{Leads: []*User{{ID: "a"}, {ID: "b"}}}
	require.Equal(t, []string{"a", "b"}, team.LeadIDs())
}
