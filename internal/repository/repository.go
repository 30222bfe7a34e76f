// internal/repository/repository.go
package repository

import (
	"time"

	"github.com/apexracing/waypoint-backend/internal/types"
	"github.com/shopspring/decimal"
)

// ============================================
// Models / Entities
// ============================================

type User struct {
	ID        string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
	Avatar    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type RefreshToken struct {
	ID        string
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Team groups users under exactly one head plus disjoint lead/member sets
type Team struct {
	ID          string
	Name        string
	Description string
	HeadID      string
	Head        *User
	Leads       []*User
	Members     []*User
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LeadIDs returns the user ids of the team's leads
func (t *Team) LeadIDs() []string {
	ids := make([]string, 0, len(t.Leads))
	for _, lead := range t.Leads {
		ids = append(ids, lead.ID)
	}
	return ids
}

// WbsElement is the shared identity record for projects and work packages.
// Once DateDeleted is set the element is permanently retired.
type WbsElement struct {
	ID                string
	CarNumber         int
	ProjectNumber     int
	WorkPackageNumber int
	Name              string
	Status            string
	LeadID            *string
	ManagerID         *string
	Lead              *User
	Manager           *User
	DateCreated       time.Time
	DateDeleted       *time.Time
	DeletedByID       *string
}

func (e *WbsElement) WbsNumber() types.WbsNumber {
	return types.WbsNumber{
		CarNumber:         e.CarNumber,
		ProjectNumber:     e.ProjectNumber,
		WorkPackageNumber: e.WorkPackageNumber,
	}
}

func (e *WbsElement) IsDeleted() bool {
	return e.DateDeleted != nil
}

func (e *WbsElement) MarkDeleted(userID string, when time.Time) {
	e.DateDeleted = &when
	e.DeletedByID = &userID
}

type Project struct {
	ID           string
	WbsElementID string
	WbsElement   *WbsElement
	Summary      string
	TeamID       *string
	Goals        []*DescriptionBullet
	Features     []*DescriptionBullet
	Constraints  []*DescriptionBullet
	WorkPackages []*WorkPackage
}

type WorkPackage struct {
	ID                 string
	WbsElementID       string
	WbsElement         *WbsElement
	ProjectID          string
	OrderInProject     int
	StartDate          time.Time
	Duration           int
	ExpectedActivities []*DescriptionBullet
	Deliverables       []*DescriptionBullet
}

// EndDate returns the scheduled end of the work package. Duration is in weeks.
func (w *WorkPackage) EndDate() time.Time {
	return w.StartDate.AddDate(0, 0, w.Duration*7)
}

// DescriptionBullet is a checklist item attached to a project or work package
type DescriptionBullet struct {
	ID              string
	Detail          string
	Type            string
	ProjectID       *string
	WorkPackageID   *string
	DateAdded       time.Time
	DateTimeChecked *time.Time
	CheckedByID     *string
	DateDeleted     *time.Time
}

func (b *DescriptionBullet) IsDeleted() bool {
	return b.DateDeleted != nil
}

func (b *DescriptionBullet) IsChecked() bool {
	return b.DateTimeChecked != nil
}

// Risk tracks a concern raised against a project.
// ResolvedByID/ResolvedAt are set together and cleared together.
type Risk struct {
	ID           string
	ProjectID    string
	Detail       string
	IsResolved   bool
	ResolvedByID *string
	ResolvedAt   *time.Time
	CreatedByID  string
	DateCreated  time.Time
	DateDeleted  *time.Time
	DeletedByID  *string
}

func (r *Risk) IsDeleted() bool {
	return r.DateDeleted != nil
}

func (r *Risk) MarkDeleted(userID string, when time.Time) {
	r.DateDeleted = &when
	r.DeletedByID = &userID
}

type Vendor struct {
	ID          string
	Name        string
	DateCreated time.Time
}

type ExpenseType struct {
	ID      string
	Name    string
	Code    int
	Allowed bool
}

// Receipt is stored-file metadata for a reimbursement request attachment
type Receipt struct {
	ID                     string
	Name                   string
	FileID                 string
	ReimbursementRequestID string
	CreatedByID            string
	DateDeleted            *time.Time
}

type ReimbursementProduct struct {
	ID                     string
	ReimbursementRequestID string
	WbsElementID           string
	Name                   string
	Cost                   decimal.Decimal
	DateDeleted            *time.Time
}

type ReimbursementRequest struct {
	ID                 string
	SaboID             *int
	RecipientID        string
	Recipient          *User
	VendorID           string
	Vendor             *Vendor
	Account            string
	ExpenseTypeID      string
	ExpenseType        *ExpenseType
	TotalCost          decimal.Decimal
	DateOfExpense      time.Time
	DateCreated        time.Time
	DatePendingAdvisor *time.Time
	DateApproved       *time.Time
	DateDelivered      *time.Time
	DateDeleted        *time.Time
	DeletedByID        *string
	Products           []*ReimbursementProduct
	Receipts           []*Receipt
}

func (r *ReimbursementRequest) IsDeleted() bool {
	return r.DateDeleted != nil
}

func (r *ReimbursementRequest) MarkDeleted(userID string, when time.Time) {
	r.DateDeleted = &when
	r.DeletedByID = &userID
}

// Status derives the lifecycle state from the timestamp set. Later stages win.
func (r *ReimbursementRequest) Status() string {
	switch {
	case r.DateDeleted != nil:
		return types.ReimbursementDeleted
	case r.DateDelivered != nil:
		return types.ReimbursementDelivered
	case r.DateApproved != nil:
		return types.ReimbursementApproved
	case r.DatePendingAdvisor != nil:
		return types.ReimbursementAdvisorReview
	case r.SaboID != nil:
		return types.ReimbursementSaboAssigned
	default:
		return types.ReimbursementPending
	}
}
