// internal/seed/seed.go
package seed

import (
	"context"
	"log"
	"time"

	"github.com/apexracing/waypoint-backend/internal/repository"
	"github.com/apexracing/waypoint-backend/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// SeedData creates an initial data set for local development
func SeedData(repos *repository.Repositories) {
	ctx := context.Background()

	users, _ := repos.UserRepo.FindAll(ctx)
	if len(users) > 0 {
		log.Println("[Seed] Data already exists, skipping...")
		return
	}

	log.Println("[Seed] 🌱 Creating initial data...")

	// ============================================
	// CREATE USERS (one per role tier)
	// ============================================
	password, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	batman := &repository.User{
		Email:     "batman@apexracing.edu",
		Password:  string(password),
		FirstName: "Bruce",
		LastName:  "Wayne",
		Role:      types.RoleAppAdmin,
	}
	repos.UserRepo.Create(ctx, batman)

	advisor := &repository.User{
		Email:     "advisor@apexracing.edu",
		Password:  string(password),
		FirstName: "Alfred",
		LastName:  "Pennyworth",
		Role:      types.RoleAdmin,
	}
	repos.UserRepo.Create(ctx, advisor)

	head := &repository.User{
		Email:     "head@apexracing.edu",
		Password:  string(password),
		FirstName: "Diana",
		LastName:  "Prince",
		Role:      types.RoleHead,
	}
	repos.UserRepo.Create(ctx, head)

	lead := &repository.User{
		Email:     "lead@apexracing.edu",
		Password:  string(password),
		FirstName: "Barry",
		LastName:  "Allen",
		Role:      types.RoleLeadership,
	}
	repos.UserRepo.Create(ctx, lead)

	member := &repository.User{
		Email:     "member@apexracing.edu",
		Password:  string(password),
		FirstName: "Clark",
		LastName:  "Kent",
		Role:      types.RoleMember,
	}
	repos.UserRepo.Create(ctx, member)

	guest := &repository.User{
		Email:     "guest@apexracing.edu",
		Password:  string(password),
		FirstName: "Hal",
		LastName:  "Jordan",
		Role:      types.RoleGuest,
	}
	repos.UserRepo.Create(ctx, guest)

	log.Printf("✅ Created 6 users: Bruce (app admin), Alfred (admin), Diana (head), Barry (leadership), Clark (member), Hal (guest)")

	// ============================================
	// CREATE TEAM
	// ============================================
	chassis := &repository.Team{
		Name:        "Chassis",
		Description: "Frame, suspension, and impact attenuator",
		HeadID:      head.ID,
	}
	repos.TeamRepo.Create(ctx, chassis)
	repos.TeamRepo.SetLeads(ctx, chassis.ID, []string{lead.ID})
	repos.TeamRepo.SetMembers(ctx, chassis.ID, []string{member.ID})

	log.Printf("✅ Created team Chassis: Diana (head), Barry (lead), Clark (member)")

	// ============================================
	// CREATE PROJECT 1.1.0 WITH WORK PACKAGES
	// ============================================
	projectElement := &repository.WbsElement{
		CarNumber:         1,
		ProjectNumber:     1,
		WorkPackageNumber: 0,
		Name:              "Impact Attenuator",
		Status:            types.WbsActive,
		LeadID:            &lead.ID,
		ManagerID:         &head.ID,
	}
	project := &repository.Project{
		Summary: "Design and fabricate the front impact attenuator",
		TeamID:  &chassis.ID,
	}
	repos.ProjectRepo.CreateProject(ctx, projectElement, project)

	for _, detail := range []string{"Pass the crash test", "Stay under 3 kg"} {
		repos.DescriptionBulletRepo.Create(ctx, &repository.DescriptionBullet{
			Detail:    detail,
			Type:      types.BulletGoal,
			ProjectID: &project.ID,
		})
	}
	repos.DescriptionBulletRepo.Create(ctx, &repository.DescriptionBullet{
		Detail:    "Must mount to the existing bulkhead",
		Type:      types.BulletConstraint,
		ProjectID: &project.ID,
	})

	wpElement := &repository.WbsElement{
		CarNumber:         1,
		ProjectNumber:     1,
		WorkPackageNumber: 1,
		Name:              "Foam Core Testing",
		Status:            types.WbsActive,
		LeadID:            &lead.ID,
	}
	workPackage := &repository.WorkPackage{
		ProjectID:      project.ID,
		OrderInProject: 1,
		StartDate:      time.Now().AddDate(0, 0, -7),
		Duration:       3,
	}
	repos.WorkPackageRepo.Create(ctx, wpElement, workPackage)

	repos.DescriptionBulletRepo.Create(ctx, &repository.DescriptionBullet{
		Detail:        "Run compression tests on three foam samples",
		Type:          types.BulletExpectedActivity,
		WorkPackageID: &workPackage.ID,
	})
	repos.DescriptionBulletRepo.Create(ctx, &repository.DescriptionBullet{
		Detail:        "Test report with force-displacement curves",
		Type:          types.BulletDeliverable,
		WorkPackageID: &workPackage.ID,
	})

	log.Printf("✅ Created project 1.1.0 (Impact Attenuator) with work package 1.1.1")

	// ============================================
	// CREATE RISK
	// ============================================
	repos.RiskRepo.Create(ctx, &repository.Risk{
		ProjectID:   project.ID,
		Detail:      "Foam supplier lead time may slip past the test window",
		CreatedByID: lead.ID,
	})

	// ============================================
	// CREATE VENDORS & EXPENSE TYPES
	// ============================================
	mcmaster := &repository.Vendor{Name: "McMaster-Carr"}
	repos.ReimbursementRepo.CreateVendor(ctx, mcmaster)
	repos.ReimbursementRepo.CreateVendor(ctx, &repository.Vendor{Name: "Summit Racing"})

	materials := &repository.ExpenseType{Name: "Raw Materials", Code: 740, Allowed: true}
	repos.ReimbursementRepo.CreateExpenseType(ctx, materials)
	repos.ReimbursementRepo.CreateExpenseType(ctx, &repository.ExpenseType{Name: "Tools", Code: 750, Allowed: true})
	repos.ReimbursementRepo.CreateExpenseType(ctx, &repository.ExpenseType{Name: "Travel", Code: 760, Allowed: false})

	// ============================================
	// CREATE REIMBURSEMENT REQUEST
	// ============================================
	request := &repository.ReimbursementRequest{
		RecipientID:   member.ID,
		VendorID:      mcmaster.ID,
		Account:       "CASH",
		ExpenseTypeID: materials.ID,
		TotalCost:     decimal.NewFromFloat(86.50),
		DateOfExpense: time.Now().AddDate(0, 0, -3),
		Products: []*repository.ReimbursementProduct{
			{
				WbsElementID: wpElement.ID,
				Name:         "Aluminum honeycomb sheet",
				Cost:         decimal.NewFromFloat(62.00),
			},
			{
				WbsElementID: wpElement.ID,
				Name:         "Epoxy adhesive",
				Cost:         decimal.NewFromFloat(24.50),
			},
		},
	}
	repos.ReimbursementRepo.CreateRequest(ctx, request)

	log.Printf("✅ Created vendors, expense types, and a pending reimbursement request")

	// ============================================
	// CREATE SAMPLE NOTIFICATIONS
	// ============================================
	now := time.Now()
	notifications := []repository.Notification{
		{
			UserID:    member.ID,
			Type:      "ADDED_TO_TEAM",
			Title:     "Added to Team",
			Message:   "You have been added to team: Chassis",
			Read:      true,
			Data:      map[string]interface{}{"teamId": chassis.ID},
			CreatedAt: now.Add(-5 * 24 * time.Hour),
		},
		{
			UserID:    lead.ID,
			Type:      "WORK_PACKAGE_DUE_SOON",
			Title:     "Work Package Due Soon",
			Message:   "Work package 1.1.1 (Foam Core Testing) ends in 14 days",
			Read:      false,
			Data:      map[string]interface{}{"wbsNum": "1.1.1", "daysRemaining": 14},
			CreatedAt: now.Add(-2 * time.Hour),
		},
		{
			UserID:    member.ID,
			Type:      "REIMBURSEMENT_STATUS",
			Title:     "Reimbursement Update",
			Message:   "Your reimbursement request has been submitted",
			Read:      false,
			Data:      map[string]interface{}{"requestId": request.ID, "status": types.ReimbursementPending},
			CreatedAt: now.Add(-1 * time.Hour),
		},
	}
	for _, n := range notifications {
		notif := n
		repos.NotificationRepo.Create(ctx, &notif)
	}

	log.Println("")
	log.Println("🎉 Seed complete")
	log.Println("🎯 Test Credentials:")
	log.Println("   Email: batman@apexracing.edu (or any seeded user)")
	log.Println("   Password: password123")
	log.Println("")
}
