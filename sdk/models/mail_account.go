package models

import (
	"github.com/birbparty/clusterapi/sdk/validation"
)

// MailAccount is a mailbox in a mail domain.
//
// The password is write-only: the API never returns it, so a decoded account
// has no password and ToMap emits nil for it.
type MailAccount struct {
	resource

	localPart    *string
	password     *string
	quota        *int
	mailDomainID *int
}

func (a *MailAccount) LocalPart() string { return deref(a.localPart) }

func (a *MailAccount) SetLocalPart(localPart string) error {
	err := validation.Value("local_part", localPart).
		MaxLength(64).
		Pattern(`[a-z0-9-.]+`).
		Validate()
	if err != nil {
		return err
	}
	a.localPart = &localPart
	return nil
}

func (a *MailAccount) Password() *string { return refCopy(a.password) }

func (a *MailAccount) SetPassword(password string) error {
	if err := validation.Value("password", password).MaxLength(255).Pattern(patternPrintable).Validate(); err != nil {
		return err
	}
	a.password = &password
	return nil
}

// Quota is in MiB; nil means unlimited.
func (a *MailAccount) Quota() *int { return refCopy(a.quota) }

func (a *MailAccount) SetQuota(quota *int) { a.quota = refCopy(quota) }

func (a *MailAccount) MailDomainID() *int { return refCopy(a.mailDomainID) }

func (a *MailAccount) SetMailDomainID(id int) { a.mailDomainID = &id }

// FromMap implements Model.
func (a *MailAccount) FromMap(data map[string]any) error {
	var m MailAccount
	r := newReader(data)
	required(r, "local_part", asString, m.SetLocalPart)
	maybe(r, "password", asString, m.SetPassword)
	optional(r, "quota", asInt, plain(m.SetQuota))
	required(r, "mail_domain_id", asInt, plain(m.SetMailDomainID))
	m.resource.read(r)
	if err := r.done(); err != nil {
		return err
	}
	*a = m
	return nil
}

// ToMap implements Model.
func (a *MailAccount) ToMap() map[string]any {
	return a.resource.write(map[string]any{
		"local_part":     val(a.localPart),
		"password":       val(a.password),
		"quota":          val(a.quota),
		"mail_domain_id": val(a.mailDomainID),
	})
}

// MailAccountUsage is one data point of a mailbox's disk usage in MiB.
type MailAccountUsage struct {
	mailAccountID *int
	usage         float64
	timestamp     *string
}

func (u *MailAccountUsage) MailAccountID() int { return deref(u.mailAccountID) }

func (u *MailAccountUsage) SetMailAccountID(id int) { u.mailAccountID = &id }

func (u *MailAccountUsage) Usage() float64 { return u.usage }

func (u *MailAccountUsage) SetUsage(usage float64) { u.usage = usage }

func (u *MailAccountUsage) Timestamp() string { return deref(u.timestamp) }

func (u *MailAccountUsage) SetTimestamp(ts string) { u.timestamp = &ts }

// FromMap implements Model.
func (u *MailAccountUsage) FromMap(data map[string]any) error {
	var m MailAccountUsage
	r := newReader(data)
	required(r, "mail_account_id", asInt, plain(m.SetMailAccountID))
	field(r, "usage", 0.0, asFloat, plain(m.SetUsage))
	required(r, "timestamp", asString, plain(m.SetTimestamp))
	if err := r.done(); err != nil {
		return err
	}
	*u = m
	return nil
}

// ToMap implements Model.
func (u *MailAccountUsage) ToMap() map[string]any {
	return map[string]any{
		"mail_account_id": val(u.mailAccountID),
		"usage":           u.usage,
		"timestamp":       val(u.timestamp),
	}
}
