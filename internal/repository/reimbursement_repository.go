package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// Reimbursement Repository Interface
// ============================================

// ReimbursementRepository defines reimbursement request, vendor and
// expense type data operations
type ReimbursementRepository interface {
	CreateRequest(ctx context.Context, request *ReimbursementRequest) error
	FindRequestByID(ctx context.Context, id string) (*ReimbursementRequest, error)
	FindAllRequests(ctx context.Context) ([]*ReimbursementRequest, error)
	FindRequestsByRecipient(ctx context.Context, userID string) ([]*ReimbursementRequest, error)
	// FindPendingAdvisor returns live requests with a sabo number that have
	// not yet been sent to the advisor.
	FindPendingAdvisor(ctx context.Context) ([]*ReimbursementRequest, error)
	// UpdateRequest replaces the request fields and its product list in one
	// transaction.
	UpdateRequest(ctx context.Context, request *ReimbursementRequest) error
	SetSaboNumber(ctx context.Context, requestID string, saboNumber int) error
	MarkPendingAdvisor(ctx context.Context, requestIDs []string, when time.Time) error
	Approve(ctx context.Context, requestID string, when time.Time) error
	MarkDelivered(ctx context.Context, requestID string, when time.Time) error
	SoftDeleteRequest(ctx context.Context, request *ReimbursementRequest) error
	AddReceipt(ctx context.Context, receipt *Receipt) error
	FindReceiptByFileID(ctx context.Context, fileID string) (*Receipt, error)

	CreateVendor(ctx context.Context, vendor *Vendor) error
	FindVendorByID(ctx context.Context, id string) (*Vendor, error)
	FindAllVendors(ctx context.Context) ([]*Vendor, error)
	CreateExpenseType(ctx context.Context, expenseType *ExpenseType) error
	FindExpenseTypeByID(ctx context.Context, id string) (*ExpenseType, error)
	FindAllExpenseTypes(ctx context.Context) ([]*ExpenseType, error)
	UpdateExpenseType(ctx context.Context, expenseType *ExpenseType) error
}

// ============================================
// PostgreSQL Reimbursement Repository Implementation
// ============================================

type pgReimbursementRepository struct {
	pool *pgxpool.Pool
}

// NewReimbursementRepository creates a new PostgreSQL reimbursement repository
func NewReimbursementRepository(pool *pgxpool.Pool) ReimbursementRepository {
	return &pgReimbursementRepository{pool: pool}
}

const requestColumns = `id, sabo_id, recipient_id, vendor_id, account, expense_type_id, total_cost,
	date_of_expense, date_created, date_pending_advisor, date_approved, date_delivered,
	date_deleted, deleted_by_id`

func (r *pgReimbursementRepository) CreateRequest(ctx context.Context, request *ReimbursementRequest) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO reimbursement_requests
			(recipient_id, vendor_id, account, expense_type_id, total_cost, date_of_expense)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, date_created
	`, request.RecipientID, request.VendorID, request.Account, request.ExpenseTypeID,
		request.TotalCost, request.DateOfExpense,
	).Scan(&request.ID, &request.DateCreated)
	if err != nil {
		return err
	}

	for _, product := range request.Products {
		product.ReimbursementRequestID = request.ID
		if err := tx.QueryRow(ctx, `
			INSERT INTO reimbursement_products (reimbursement_request_id, wbs_element_id, name, cost)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, request.ID, product.WbsElementID, product.Name, product.Cost).Scan(&product.ID); err != nil {
			return err
		}
	}

	for _, receipt := range request.Receipts {
		receipt.ReimbursementRequestID = request.ID
		if err := tx.QueryRow(ctx, `
			INSERT INTO receipts (reimbursement_request_id, name, file_id, created_by_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, request.ID, receipt.Name, receipt.FileID, receipt.CreatedByID).Scan(&receipt.ID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func scanRequest(row pgx.Row) (*ReimbursementRequest, error) {
	req := &ReimbursementRequest{}
	err := row.Scan(
		&req.ID, &req.SaboID, &req.RecipientID, &req.VendorID, &req.Account,
		&req.ExpenseTypeID, &req.TotalCost, &req.DateOfExpense, &req.DateCreated,
		&req.DatePendingAdvisor, &req.DateApproved, &req.DateDelivered,
		&req.DateDeleted, &req.DeletedByID,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *pgReimbursementRepository) FindRequestByID(ctx context.Context, id string) (*ReimbursementRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM reimbursement_requests WHERE id = $1`
	request, err := scanRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil || request == nil {
		return request, err
	}
	if err := r.loadRequest(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (r *pgReimbursementRepository) FindAllRequests(ctx context.Context) ([]*ReimbursementRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM reimbursement_requests ORDER BY date_created DESC`
	return r.queryRequests(ctx, query)
}

func (r *pgReimbursementRepository) FindRequestsByRecipient(ctx context.Context, userID string) ([]*ReimbursementRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM reimbursement_requests WHERE recipient_id = $1
		ORDER BY date_created DESC
	`
	return r.queryRequests(ctx, query, userID)
}

func (r *pgReimbursementRepository) FindPendingAdvisor(ctx context.Context) ([]*ReimbursementRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM reimbursement_requests
		WHERE sabo_id IS NOT NULL AND date_pending_advisor IS NULL AND date_deleted IS NULL
		ORDER BY date_created
	`
	return r.queryRequests(ctx, query)
}

func (r *pgReimbursementRepository) UpdateRequest(ctx context.Context, request *ReimbursementRequest) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		UPDATE reimbursement_requests
		SET vendor_id = $2, account = $3, expense_type_id = $4, total_cost = $5, date_of_expense = $6
		WHERE id = $1
	`, request.ID, request.VendorID, request.Account, request.ExpenseTypeID,
		request.TotalCost, request.DateOfExpense); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM reimbursement_products WHERE reimbursement_request_id = $1`, request.ID); err != nil {
		return err
	}
	for _, product := range request.Products {
		product.ReimbursementRequestID = request.ID
		if err := tx.QueryRow(ctx, `
			INSERT INTO reimbursement_products (reimbursement_request_id, wbs_element_id, name, cost)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, request.ID, product.WbsElementID, product.Name, product.Cost).Scan(&product.ID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *pgReimbursementRepository) SetSaboNumber(ctx context.Context, requestID string, saboNumber int) error {
	query := `UPDATE reimbursement_requests SET sabo_id = $2 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, requestID, saboNumber)
	return err
}

func (r *pgReimbursementRepository) MarkPendingAdvisor(ctx context.Context, requestIDs []string, when time.Time) error {
	query := `UPDATE reimbursement_requests SET date_pending_advisor = $2 WHERE id = ANY($1)`
	_, err := r.pool.Exec(ctx, query, requestIDs, when)
	return err
}

func (r *pgReimbursementRepository) Approve(ctx context.Context, requestID string, when time.Time) error {
	query := `UPDATE reimbursement_requests SET date_approved = $2 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, requestID, when)
	return err
}

func (r *pgReimbursementRepository) MarkDelivered(ctx context.Context, requestID string, when time.Time) error {
	query := `UPDATE reimbursement_requests SET date_delivered = $2 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, requestID, when)
	return err
}

func (r *pgReimbursementRepository) SoftDeleteRequest(ctx context.Context, request *ReimbursementRequest) error {
	query := `
		UPDATE reimbursement_requests SET date_deleted = $2, deleted_by_id = $3
		WHERE id = $1 AND date_deleted IS NULL
	`
	_, err := r.pool.Exec(ctx, query, request.ID, request.DateDeleted, request.DeletedByID)
	return err
}

func (r *pgReimbursementRepository) AddReceipt(ctx context.Context, receipt *Receipt) error {
	query := `
		INSERT INTO receipts (reimbursement_request_id, name, file_id, created_by_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.pool.QueryRow(ctx, query,
		receipt.ReimbursementRequestID, receipt.Name, receipt.FileID, receipt.CreatedByID,
	).Scan(&receipt.ID)
}

func (r *pgReimbursementRepository) FindReceiptByFileID(ctx context.Context, fileID string) (*Receipt, error) {
	query := `
		SELECT id, name, file_id, reimbursement_request_id, created_by_id, date_deleted
		FROM receipts
		WHERE file_id = $1 AND date_deleted IS NULL
	`
	receipt := &Receipt{}
	err := r.pool.QueryRow(ctx, query, fileID).Scan(
		&receipt.ID, &receipt.Name, &receipt.FileID,
		&receipt.ReimbursementRequestID, &receipt.CreatedByID, &receipt.DateDeleted,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// ============================================
// Vendors & Expense Types
// ============================================

func (r *pgReimbursementRepository) CreateVendor(ctx context.Context, vendor *Vendor) error {
	query := `INSERT INTO vendors (name) VALUES ($1) RETURNING id, date_created`
	return r.pool.QueryRow(ctx, query, vendor.Name).Scan(&vendor.ID, &vendor.DateCreated)
}

func (r *pgReimbursementRepository) FindVendorByID(ctx context.Context, id string) (*Vendor, error) {
	query := `SELECT id, name, date_created FROM vendors WHERE id = $1`
	vendor := &Vendor{}
	err := r.pool.QueryRow(ctx, query, id).Scan(&vendor.ID, &vendor.Name, &vendor.DateCreated)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return vendor, nil
}

func (r *pgReimbursementRepository) FindAllVendors(ctx context.Context) ([]*Vendor, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, date_created FROM vendors ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vendors []*Vendor
	for rows.Next() {
		vendor := &Vendor{}
		if err := rows.Scan(&vendor.ID, &vendor.Name, &vendor.DateCreated); err != nil {
			return nil, err
		}
		vendors = append(vendors, vendor)
	}
	return vendors, nil
}

func (r *pgReimbursementRepository) CreateExpenseType(ctx context.Context, expenseType *ExpenseType) error {
	query := `INSERT INTO expense_types (name, code, allowed) VALUES ($1, $2, $3) RETURNING id`
	return r.pool.QueryRow(ctx, query,
		expenseType.Name, expenseType.Code, expenseType.Allowed).Scan(&expenseType.ID)
}

func (r *pgReimbursementRepository) FindExpenseTypeByID(ctx context.Context, id string) (*ExpenseType, error) {
	query := `SELECT id, name, code, allowed FROM expense_types WHERE id = $1`
	et := &ExpenseType{}
	err := r.pool.QueryRow(ctx, query, id).Scan(&et.ID, &et.Name, &et.Code, &et.Allowed)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return et, nil
}

func (r *pgReimbursementRepository) FindAllExpenseTypes(ctx context.Context) ([]*ExpenseType, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, code, allowed FROM expense_types ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenseTypes []*ExpenseType
	for rows.Next() {
		et := &ExpenseType{}
		if err := rows.Scan(&et.ID, &et.Name, &et.Code, &et.Allowed); err != nil {
			return nil, err
		}
		expenseTypes = append(expenseTypes, et)
	}
	return expenseTypes, nil
}

func (r *pgReimbursementRepository) UpdateExpenseType(ctx context.Context, expenseType *ExpenseType) error {
	query := `UPDATE expense_types SET name = $2, code = $3, allowed = $4 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query,
		expenseType.ID, expenseType.Name, expenseType.Code, expenseType.Allowed)
	return err
}

// ============================================
// Loading helpers
// ============================================

func (r *pgReimbursementRepository) queryRequests(ctx context.Context, query string, args ...interface{}) ([]*ReimbursementRequest, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*ReimbursementRequest
	for rows.Next() {
		req := &ReimbursementRequest{}
		if err := rows.Scan(
			&req.ID, &req.SaboID, &req.RecipientID, &req.VendorID, &req.Account,
			&req.ExpenseTypeID, &req.TotalCost, &req.DateOfExpense, &req.DateCreated,
			&req.DatePendingAdvisor, &req.DateApproved, &req.DateDelivered,
			&req.DateDeleted, &req.DeletedByID,
		); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	rows.Close()

	for _, req := range requests {
		if err := r.loadRequest(ctx, req); err != nil {
			return nil, err
		}
	}
	return requests, nil
}

func (r *pgReimbursementRepository) loadRequest(ctx context.Context, request *ReimbursementRequest) error {
	recipient, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, request.RecipientID))
	if err != nil {
		return err
	}
	request.Recipient = recipient

	vendor, err := r.FindVendorByID(ctx, request.VendorID)
	if err != nil {
		return err
	}
	request.Vendor = vendor

	expenseType, err := r.FindExpenseTypeByID(ctx, request.ExpenseTypeID)
	if err != nil {
		return err
	}
	request.ExpenseType = expenseType

	rows, err := r.pool.Query(ctx, `
		SELECT id, reimbursement_request_id, wbs_element_id, name, cost, date_deleted
		FROM reimbursement_products
		WHERE reimbursement_request_id = $1 AND date_deleted IS NULL
	`, request.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	request.Products = nil
	for rows.Next() {
		product := &ReimbursementProduct{}
		if err := rows.Scan(
			&product.ID, &product.ReimbursementRequestID, &product.WbsElementID,
			&product.Name, &product.Cost, &product.DateDeleted,
		); err != nil {
			return err
		}
		request.Products = append(request.Products, product)
	}
	rows.Close()

	receiptRows, err := r.pool.Query(ctx, `
		SELECT id, name, file_id, reimbursement_request_id, created_by_id, date_deleted
		FROM receipts
		WHERE reimbursement_request_id = $1 AND date_deleted IS NULL
	`, request.ID)
	if err != nil {
		return err
	}
	defer receiptRows.Close()

	request.Receipts = nil
	for receiptRows.Next() {
		receipt := &Receipt{}
		if err := receiptRows.Scan(
			&receipt.ID, &receipt.Name, &receipt.FileID,
			&receipt.ReimbursementRequestID, &receipt.CreatedByID, &receipt.DateDeleted,
		); err != nil {
			return err
		}
		request.Receipts = append(request.Receipts, receipt)
	}
	return nil
}
