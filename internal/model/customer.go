package model

import (
	"strings"
	"time"
)

// Customer is a guest profile.  The profile itself is owned by the
// customer-data concern; reservation endpoints read email, phone and VIP
// status for display and deep-links, and the consent endpoints maintain
// the GDPR flags below together with an audit trail in consent_logs.
//
// Fields:
//  ID                    – primary key identifier.
//  Name                  – full name.
//  Email                 – unique contact address.
//  Phone                 – contact number, used for WhatsApp deep-links.
//  IsVIP                 – derived loyalty attribute, displayed only.
//  EmailConsent          – may be contacted by email.
//  SMSConsent            – may be contacted by SMS/WhatsApp.
//  MarketingConsent      – may receive marketing material.
//  DataProcessingConsent – required base consent for storing the profile.
//  ConsentUpdatedAt      – when any consent flag last changed.
//  GDPRPolicyVersion     – policy version the consents were given under.
//  CreatedAt             – creation timestamp.
//  UpdatedAt             – last update timestamp.
type Customer struct {
	ID                    uint64     `json:"id"`
	Name                  string     `json:"name"`
	Email                 string     `json:"email"`
	Phone                 string     `json:"phone"`
	IsVIP                 bool       `json:"is_vip"`
	EmailConsent          bool       `json:"email_consent"`
	SMSConsent            bool       `json:"sms_consent"`
	MarketingConsent      bool       `json:"marketing_consent"`
	DataProcessingConsent bool       `json:"data_processing_consent"`
	ConsentUpdatedAt      *time.Time `json:"consent_updated_at,omitempty"`
	GDPRPolicyVersion     string     `json:"gdpr_policy_version,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// WhatsAppLink builds the wa.me deep-link for the customer's phone, or an
// empty string when the number has no digits.
func (c *Customer) WhatsAppLink() string {
	var b strings.Builder
	for _, r := range c.Phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "https://wa.me/" + b.String()
}

// ConsentLog is one append-only audit row recording a consent change.
//
// Fields:
//  ID          – primary key identifier.
//  CustomerID  – customer whose consent changed.
//  ConsentType – which flag changed (email, sms, marketing,
//                data_processing).
//  Action      – "granted" or "withdrawn".
//  RecordedBy  – staff username or "customer" for self-service changes.
//  IPAddress   – origin address of the change, when known.
//  UserAgent   – origin user agent, when known.
//  PolicyVersion – GDPR policy version in force at the time.
//  CreatedAt   – when the change was recorded.
type ConsentLog struct {
	ID            uint64    `json:"id"`
	CustomerID    uint64    `json:"customer_id"`
	ConsentType   string    `json:"consent_type"`
	Action        string    `json:"action"`
	RecordedBy    string    `json:"recorded_by"`
	IPAddress     string    `json:"ip_address,omitempty"`
	UserAgent     string    `json:"user_agent,omitempty"`
	PolicyVersion string    `json:"policy_version,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Consent actions and types used in consent_logs rows.
const (
	ConsentGranted   = "granted"
	ConsentWithdrawn = "withdrawn"

	ConsentTypeEmail          = "email"
	ConsentTypeSMS            = "sms"
	ConsentTypeMarketing      = "marketing"
	ConsentTypeDataProcessing = "data_processing"
)
