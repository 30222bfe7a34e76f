package service

import (
	"context"
	"testing"
	"time"

	"github.com/apexracing/waypoint-backend/internal/repository"
	"github.com/apexracing/waypoint-backend/internal/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newWorkPackageService(wpRepo *workPackageRepoMock, projectRepo *projectRepoMock, bulletRepo *bulletRepoMock) WorkPackageService {
	return NewWorkPackageService(wpRepo, projectRepo, bulletRepo, NewPermissionService(), nil, nil)
}

func foamCoreWorkPackage(leadID string) *repository.WorkPackage {
	return &repository.WorkPackage{
		ID:           "wp-1",
		WbsElementID: "wbs-2",
		WbsElement: &repository.WbsElement{
			ID:                "wbs-2",
			CarNumber:         1,
			ProjectNumber:     1,
			WorkPackageNumber: 1,
			Name:              "Foam Core Testing",
			Status:            types.WbsActive,
			LeadID:            &leadID,
		},
		ProjectID: "project-1",
	}
}

func checkedBullet(id string) *repository.DescriptionBullet {
	now := time.Now()
	checker := "lead-1"
	return &repository.DescriptionBullet{
		ID:              id,
		DateTimeChecked: &now,
		CheckedByID:     &checker,
	}
}

func TestGetSingleRejectsProjectWbs(t *testing.T) {
	svc := newWorkPackageService(&workPackageRepoMock{}, &projectRepoMock{}, &bulletRepoMock{})

	_, err := svc.GetSingle(context.Background(), types.WbsNumber{CarNumber: 1, ProjectNumber: 1})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCreateDeniedForGuests(t *testing.T) {
	svc := newWorkPackageService(&workPackageRepoMock{}, &projectRepoMock{}, &bulletRepoMock{})
	guest := userWithRole("guest-1", types.RoleGuest)

	_, err := svc.Create(context.Background(), guest, types.WbsNumber{CarNumber: 1, ProjectNumber: 1}, "name", time.Now(), 2, nil, nil)

	var aerr *AccessDeniedError
	require.ErrorAs(t, err, &aerr)
}

func TestCreateNumbersAfterHighestExisting(t *testing.T) {
	project := &repository.Project{
		ID:         "project-1",
		WbsElement: &repository.WbsElement{ID: "wbs-1"},
		WorkPackages: []*repository.WorkPackage{
			{WbsElement: &repository.WbsElement{WorkPackageNumber: 1}},
			{WbsElement: &repository.WbsElement{WorkPackageNumber: 3}},
		},
	}
	projectRepo := &projectRepoMock{}
	projectRepo.On("FindProjectByWbs", mock.Anything, types.WbsNumber{CarNumber: 1, ProjectNumber: 1}).
		Return(project, nil)
	wpRepo := &workPackageRepoMock{}
	wpRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			element := args.Get(1).(*repository.WbsElement)
			wp := args.Get(2).(*repository.WorkPackage)
			require.Equal(t, 4, element.WorkPackageNumber)
			require.Equal(t, types.WbsInactive, element.Status)
			require.Equal(t, 3, wp.OrderInProject)
			wp.ID = "wp-new"
		}).
		Return(nil)
	bulletRepo := &bulletRepoMock{}
	bulletRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Twice()

	svc := newWorkPackageService(wpRepo, projectRepo, bulletRepo)
	member := userWithRole("member-1", types.RoleMember)

	wbs, err := svc.Create(context.Background(), member,
		types.WbsNumber{CarNumber: 1, ProjectNumber: 1},
		"Impact Plate Layup", time.Now(), 3,
		[]string{"cut plies"}, []string{"test report"})
	require.NoError(t, err)
	require.Equal(t, "1.1.4", wbs.String())
	wpRepo.AssertExpectations(t)
	bulletRepo.AssertExpectations(t)
}

func TestMarkCompleteBlockedOnUncheckedActivities(t *testing.T) {
	wp := foamCoreWorkPackage("lead-1")
	wp.ExpectedActivities = []*repository.DescriptionBullet{{ID: "b1"}}
	wpRepo := &workPackageRepoMock{}
	wpRepo.On("FindByWbs", mock.Anything, wp.WbsElement.WbsNumber()).Return(wp, nil)

	svc := newWorkPackageService(wpRepo, &projectRepoMock{}, &bulletRepoMock{})
	lead := userWithRole("lead-1", types.RoleMember)

	_, err := svc.MarkComplete(context.Background(), lead, wp.WbsElement.WbsNumber())
	require.EqualError(t, err, "work package has unchecked expected activities")
}

func TestMarkCompleteBlockedOnUncheckedDeliverables(t *testing.T) {
	wp := foamCoreWorkPackage("lead-1")
	wp.ExpectedActivities = []*repository.DescriptionBullet{checkedBullet("b1")}
	wp.Deliverables = []*repository.DescriptionBullet{{ID: "b2"}}
	wpRepo := &workPackageRepoMock{}
	wpRepo.On("FindByWbs", mock.Anything, wp.WbsElement.WbsNumber()).Return(wp, nil)

	svc := newWorkPackageService(wpRepo, &projectRepoMock{}, &bulletRepoMock{})
	lead := userWithRole("lead-1", types.RoleMember)

	_, err := svc.MarkComplete(context.Background(), lead, wp.WbsElement.WbsNumber())
	require.EqualError(t, err, "work package has unchecked deliverables")
}

func TestMarkCompleteIgnoresDeletedBullets(t *testing.T) {
	deletedAt := time.Now()
	deleted := &repository.DescriptionBullet{ID: "b3", DateDeleted: &deletedAt}

	wp := foamCoreWorkPackage("lead-1")
	wp.ExpectedActivities = []*repository.DescriptionBullet{checkedBullet("b1"), deleted}
	wp.Deliverables = []*repository.DescriptionBullet{checkedBullet("b2")}
	wpRepo := &workPackageRepoMock{}
	wpRepo.On("FindByWbs", mock.Anything, wp.WbsElement.WbsNumber()).Return(wp, nil)
	wpRepo.On("UpdateStatus", mock.Anything, "wbs-2", types.WbsComplete).Return(nil)

	svc := newWorkPackageService(wpRepo, &projectRepoMock{}, &bulletRepoMock{})
	lead := userWithRole("lead-1", types.RoleMember)

	completed, err := svc.MarkComplete(context.Background(), lead, wp.WbsElement.WbsNumber())
	require.NoError(t, err)
	require.Equal(t, types.WbsComplete, completed.WbsElement.Status)
	wpRepo.AssertExpectations(t)
}

func TestMarkCompleteDeniedForUnrelatedMember(t *testing.T) {
	wp := foamCoreWorkPackage("lead-1")
	wpRepo := &workPackageRepoMock{}
	wpRepo.On("FindByWbs", mock.Anything, wp.WbsElement.WbsNumber()).Return(wp, nil)

	svc := newWorkPackageService(wpRepo, &projectRepoMock{}, &bulletRepoMock{})
	member := userWithRole("member-2", types.RoleMember)

	_, err := svc.MarkComplete(context.Background(), member, wp.WbsElement.WbsNumber())

	var aerr *AccessDeniedError
	require.ErrorAs(t, err, &aerr)
}

func TestDeleteIsAdminOnly(t *testing.T) {
	svc := newWorkPackageService(&workPackageRepoMock{}, &projectRepoMock{}, &bulletRepoMock{})
	head := userWithRole("head-1", types.RoleHead)

	_, err := svc.Delete(context.Background(), head, types.WbsNumber{CarNumber: 1, ProjectNumber: 1, WorkPackageNumber: 1})

	var aerr *AccessDeniedError
	require.ErrorAs(t, err, &aerr)
}

func TestCheckDescriptionBulletRejectsProjectBullet(t *testing.T) {
	bullet := &repository.DescriptionBullet{ID: "b1", ProjectID: strPtr("project-1")}
	bulletRepo := &bulletRepoMock{}
	bulletRepo.On("FindByID", mock.Anything, "b1").Return(bullet, nil)

	svc := newWorkPackageService(&workPackageRepoMock{}, &projectRepoMock{}, bulletRepo)
	lead := userWithRole("lead-1", types.RoleMember)

	_, err := svc.CheckDescriptionBullet(context.Background(), lead, "b1")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCheckDescriptionBulletToggles(t *testing.T) {
	wp := foamCoreWorkPackage("lead-1")
	bullet := &repository.DescriptionBullet{ID: "b1", WorkPackageID: &wp.ID}
	bulletRepo := &bulletRepoMock{}
	bulletRepo.On("FindByID", mock.Anything, "b1").Return(bullet, nil)
	bulletRepo.On("SetChecked", mock.Anything, "b1", mock.Anything, mock.Anything).Return(nil)
	wpRepo := &workPackageRepoMock{}
	wpRepo.On("FindByID", mock.Anything, "wp-1").Return(wp, nil)

	svc := newWorkPackageService(wpRepo, &projectRepoMock{}, bulletRepo)
	lead := userWithRole("lead-1", types.RoleMember)

	checked, err := svc.CheckDescriptionBullet(context.Background(), lead, "b1")
	require.NoError(t, err)
	require.True(t, checked.IsChecked())
	require.Equal(t, "lead-1", *checked.CheckedByID)

	unchecked, err := svc.CheckDescriptionBullet(context.Background(), lead, "b1")
	require.NoError(t, err)
	require.False(t, unchecked.IsChecked())
	require.Nil(t, unchecked.CheckedByID)
}
