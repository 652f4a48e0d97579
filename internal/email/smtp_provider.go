package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// SMTPProvider sends mail through a plain SMTP relay via gomail.
type SMTPProvider struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPProvider(cfg SMTPConfig) *SMTPProvider {
	return &SMTPProvider{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (p *SMTPProvider) SendMembershipReceipt(to string, data ReceiptData) error {
	subject := "Your membership is active"
	if data.Upgraded {
		subject = "Your membership upgrade is active"
	}

	body := fmt.Sprintf(
		"Hello,\n\nYour %s membership is now active until %s.\n",
		data.PlanName, data.EndDate,
	)
	if data.OrderID != "" {
		body += fmt.Sprintf("\nAmount paid: %.2f %s\nOrder reference: %s\n", data.Amount, data.Currency, data.OrderID)
	} else {
		body += "\nNo payment was due for this activation.\n"
	}
	body += "\nThank you for being a member."

	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.cfg.From, p.cfg.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	return p.dialer.DialAndSend(m)
}
