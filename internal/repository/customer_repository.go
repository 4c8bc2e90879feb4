package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/enigma-dining/reservation-backend/internal/model"
)

// CustomerRepo manages guest profiles and their consent history.
// Profiles are keyed by email; reservation creation upserts into this
// table so repeat guests accumulate under one profile.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo returns a new CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

const customerCols = "id, name, email, phone, is_vip, email_consent, sms_consent, marketing_consent, data_processing_consent, consent_updated_at, gdpr_policy_version, created_at, updated_at"

func scanCustomer(row interface{ Scan(...any) error }) (model.Customer, error) {
	var (
		c         model.Customer
		consentAt sql.NullTime
		version   sql.NullString
	)
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.IsVIP,
		&c.EmailConsent, &c.SMSConsent, &c.MarketingConsent, &c.DataProcessingConsent,
		&consentAt, &version, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return c, err
	}
	if consentAt.Valid {
		c.ConsentUpdatedAt = &consentAt.Time
	}
	c.GDPRPolicyVersion = version.String
	return c, nil
}

// UpsertByEmailTx finds or creates a customer profile by email inside a
// transaction and refreshes the name and phone snapshot.  Consent flags
// are only written on insert; changing them later goes through
// UpdateConsents so every change lands in the consent log.
func (r *CustomerRepo) UpsertByEmailTx(ctx context.Context, tx *sql.Tx, name, email, phone string, dataProcessing bool, policyVersion string) (model.Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	q := "SELECT " + customerCols + " FROM customers WHERE email = ?"
	c, err := scanCustomer(tx.QueryRowContext(ctx, q, email))
	switch {
	case err == sql.ErrNoRows:
		now := time.Now().UTC()
		res, err := tx.ExecContext(ctx,
			`INSERT INTO customers (name, email, phone, data_processing_consent, consent_updated_at, gdpr_policy_version)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			name, email, phone, dataProcessing, now, policyVersion)
		if err != nil {
			return model.Customer{}, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return model.Customer{}, err
		}
		c = model.Customer{
			ID: uint64(id), Name: name, Email: email, Phone: phone,
			DataProcessingConsent: dataProcessing, ConsentUpdatedAt: &now,
			GDPRPolicyVersion: policyVersion, CreatedAt: now, UpdatedAt: now,
		}
		return c, nil
	case err != nil:
		return model.Customer{}, err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE customers SET name=?, phone=? WHERE id=?", name, phone, c.ID); err != nil {
		return model.Customer{}, err
	}
	c.Name, c.Phone = name, phone
	return c, nil
}

// GetByID loads a single customer profile.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (model.Customer, error) {
	q := "SELECT " + customerCols + " FROM customers WHERE id = ?"
	c, err := scanCustomer(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return c, ErrCustomerNotFound
	}
	return c, err
}

// List returns customer profiles matching an optional name/email search,
// newest first, capped at limit.
func (r *CustomerRepo) List(ctx context.Context, search string, limit int) ([]model.Customer, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := "SELECT " + customerCols + " FROM customers"
	args := []any{}
	if search != "" {
		q += " WHERE name LIKE ? OR email LIKE ?"
		like := "%" + search + "%"
		args = append(args, like, like)
	}
	q += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ConsentChange describes a single consent flag flip to be recorded.
type ConsentChange struct {
	Type    string // model.ConsentTypeEmail etc.
	Granted bool
}

// ConsentOrigin identifies where a consent change came from, for the
// audit trail.
type ConsentOrigin struct {
	RecordedBy string // staff username, or "customer" for self-service
	IPAddress  string
	UserAgent  string
}

// UpdateConsents rewrites the consent flags of a customer and appends one
// consent_logs row per changed flag, all in one transaction.
func (r *CustomerRepo) UpdateConsents(ctx context.Context, customerID uint64, changes []ConsentChange, policyVersion string, origin ConsentOrigin) error {
	if len(changes) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	for _, ch := range changes {
		var col string
		switch ch.Type {
		case model.ConsentTypeEmail:
			col = "email_consent"
		case model.ConsentTypeSMS:
			col = "sms_consent"
		case model.ConsentTypeMarketing:
			col = "marketing_consent"
		case model.ConsentTypeDataProcessing:
			col = "data_processing_consent"
		default:
			return ErrConflict
		}
		res, err := tx.ExecContext(ctx,
			"UPDATE customers SET "+col+"=?, consent_updated_at=?, gdpr_policy_version=? WHERE id=?",
			ch.Granted, now, policyVersion, customerID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			var one int
			if err := tx.QueryRowContext(ctx, "SELECT 1 FROM customers WHERE id=?", customerID).Scan(&one); err == sql.ErrNoRows {
				return ErrCustomerNotFound
			}
		}
		action := model.ConsentWithdrawn
		if ch.Granted {
			action = model.ConsentGranted
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO consent_logs (customer_id, consent_type, action, recorded_by, ip_address, user_agent, policy_version)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			customerID, ch.Type, action, origin.RecordedBy,
			nullStr(origin.IPAddress), nullStr(origin.UserAgent), policyVersion); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ConsentLogs returns the consent history of a customer, newest first.
func (r *CustomerRepo) ConsentLogs(ctx context.Context, customerID uint64) ([]model.ConsentLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, customer_id, consent_type, action, recorded_by, ip_address, user_agent, policy_version, created_at
		 FROM consent_logs WHERE customer_id = ? ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ConsentLog
	for rows.Next() {
		var (
			l       model.ConsentLog
			ip      sql.NullString
			agent   sql.NullString
			version sql.NullString
		)
		if err := rows.Scan(&l.ID, &l.CustomerID, &l.ConsentType, &l.Action, &l.RecordedBy, &ip, &agent, &version, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.IPAddress = ip.String
		l.UserAgent = agent.String
		l.PolicyVersion = version.String
		out = append(out, l)
	}
	return out, rows.Err()
}

// SetVIP flips the VIP flag on a profile.
func (r *CustomerRepo) SetVIP(ctx context.Context, customerID uint64, vip bool) error {
	res, err := r.db.ExecContext(ctx, "UPDATE customers SET is_vip=? WHERE id=?", vip, customerID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, "SELECT 1 FROM customers WHERE id=?", customerID).Scan(&one); err == sql.ErrNoRows {
			return ErrCustomerNotFound
		}
	}
	return nil
}

// EraseTx anonymizes the profile in place for a GDPR erasure request and
// appends one consent log row recording who performed it.  Consent logs
// are kept as evidence of the erasure itself.
func (r *CustomerRepo) EraseTx(ctx context.Context, tx *sql.Tx, customerID uint64, policyVersion string, origin ConsentOrigin) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE customers SET name='', email=CONCAT('erased-', id, '@invalid'), phone='',
		 email_consent=0, sms_consent=0, marketing_consent=0, data_processing_consent=0
		 WHERE id=?`, customerID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var one int
		if err := tx.QueryRowContext(ctx, "SELECT 1 FROM customers WHERE id=?", customerID).Scan(&one); err == sql.ErrNoRows {
			return ErrCustomerNotFound
		}
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO consent_logs (customer_id, consent_type, action, recorded_by, ip_address, user_agent, policy_version)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		customerID, model.ConsentTypeDataProcessing, model.ConsentWithdrawn, origin.RecordedBy,
		nullStr(origin.IPAddress), nullStr(origin.UserAgent), policyVersion)
	return err
}
