package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"growthmind/internal/domain"
)

// SMTPNotifier envia cada lead por correo a la casilla comercial.
type SMTPNotifier struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
	to       string
	useTLS   bool
}

func NewSMTPNotifier(host string, port int, username, password, from, fromName, to string, useTLS bool) (*SMTPNotifier, error) {
	if strings.TrimSpace(host) == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if strings.TrimSpace(from) == "" {
		return nil, fmt.Errorf("smtp from is required")
	}
	if strings.TrimSpace(to) == "" {
		return nil, fmt.Errorf("lead notification recipient is required")
	}
	if port == 0 {
		port = 587
	}
	return &SMTPNotifier{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		fromName: fromName,
		to:       to,
		useTLS:   useTLS,
	}, nil
}

func (s *SMTPNotifier) NotifyLead(_ context.Context, lead LeadNotification) error {
	subject := headerSafe(fmt.Sprintf("New growth audit lead: %s (%s)", lead.Contact.CompanyName, lead.Contact.Name))
	msg := buildMessage(s.from, s.fromName, s.to, lead.Contact.Email, subject, leadBody(lead))
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	if !s.useTLS {
		return smtp.SendMail(addr, auth, s.from, []string{s.to}, []byte(msg))
	}

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.host})
	if err != nil {
		return fmt.Errorf("smtp tls dial: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Quit()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := client.Mail(s.from); err != nil {
		return err
	}
	if err := client.Rcpt(s.to); err != nil {
		return err
	}
	writer, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := writer.Write([]byte(msg)); err != nil {
		_ = writer.Close()
		return err
	}
	return writer.Close()
}

func leadBody(lead LeadNotification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\nEmail: %s\nCompany: %s\n\n", lead.Contact.Name, lead.Contact.Email, lead.Contact.CompanyName)
	fmt.Fprintf(&b, "Industry: %s\nRole: %s\nCompany size: %s\nMonthly revenue: %s\nPrimary challenge: %s\nChannels: %s\n\n",
		lead.Profile.Industry,
		lead.Profile.Role,
		lead.Profile.CompanySize,
		lead.Profile.RevenueRange,
		lead.Profile.PrimaryChallenge,
		strings.Join(lead.Profile.MarketingChannels, ", "),
	)
	fmt.Fprintf(&b, "Growth score: %d/100 (%s)", lead.Audit.OverallScore, domain.ScoreBand(lead.Audit.OverallScore))
	if lead.AuditSource == domain.AuditSourceFallback {
		b.WriteString(" [fallback report]")
	}
	b.WriteString("\n")
	if lead.Audit.ExecutiveSummary != "" {
		fmt.Fprintf(&b, "\n%s\n", lead.Audit.ExecutiveSummary)
	}
	return b.String()
}

func buildMessage(from, fromName, to, replyTo, subject, body string) string {
	fromHeader := from
	if strings.TrimSpace(fromName) != "" {
		fromHeader = fmt.Sprintf("%s <%s>", fromName, from)
	}

	headers := []string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
	}
	// El email del lead solo se valida por "@"; no se copia a headers si trae saltos de linea.
	if replyTo != "" && !strings.ContainsAny(replyTo, "\r\n") {
		headers = append(headers, fmt.Sprintf("Reply-To: %s", replyTo))
	}

	return strings.Join(headers, "\r\n") + "\r\n\r\n" + body
}

func headerSafe(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
