// Package email provides email sending functionality
package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strings"
	"time"
)

// Config holds email configuration
type Config struct {
	Host         string
	Port         int
	User         string
	Password     string
	From         string
	FromName     string
	UseTLS       bool
	AdvisorEmail string
}

// Service handles email sending
type Service struct {
	config    *Config
	templates map[string]*template.Template
}

// NewService creates a new email service
func NewService(config *Config) *Service {
	s := &Service{
		config:    config,
		templates: make(map[string]*template.Template),
	}
	s.loadTemplates()
	return s
}

// Email represents an email message
type Email struct {
	To       []string
	CC       []string
	BCC      []string
	Subject  string
	Body     string
	HTMLBody string
}

// loadTemplates loads all email templates
func (s *Service) loadTemplates() {

	// Pending Advisor List Template
	s.templates["pending_advisor_list"] = template.Must(template.New("pending_advisor_list").Parse(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #b91c1c; color: white; padding: 24px; border-radius: 8px 8px 0 0; }
        .content { background: #f9fafb; padding: 24px; border-radius: 0 0 8px 8px; }
        .sabo-list { background: white; border-radius: 8px; padding: 16px; margin: 16px 0; }
        .footer { margin-top: 24px; font-size: 12px; color: #6b7280; text-align: center; }
    </style>
</head>
<body>
<div class="container">
    <div class="header">
        <h2>Reimbursements Awaiting Review</h2>
    </div>
    <div class="content">
        <p>Hello,</p>
        <p>The following sabo numbers are ready for your review:</p>

        <div class="sabo-list">
            <ul>
            {{range .SaboNumbers}}<li>Sabo #{{.}}</li>
            {{end}}</ul>
        </div>

        <p style="margin-top: 16px; font-size: 14px; color: #6b7280;">
            Please review and approve these requests at your earliest convenience.
        </p>
    </div>
    <div class="footer">
        Waypoint • Apex Racing Project Management
    </div>
</div>
</body>
</html>
`))

	// Added To Team Template
	s.templates["added_to_team"] = template.Must(template.New("added_to_team").Parse(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #10b981; color: white; padding: 24px; border-radius: 8px 8px 0 0; }
        .content { background: #f9fafb; padding: 24px; border-radius: 0 0 8px 8px; }
        .btn { display: inline-block; background: #10b981; color: white; padding: 12px 20px; text-decoration: none; border-radius: 6px; margin-top: 16px; }
        .footer { margin-top: 24px; font-size: 12px; color: #6b7280; text-align: center; }
    </style>
</head>
<body>
<div class="container">
    <div class="header">
        <h2>Welcome to {{.TeamName}}</h2>
    </div>
    <div class="content">
        <p>Hi {{.UserName}},</p>
        <p><strong>{{.AddedBy}}</strong> added you to team <strong>{{.TeamName}}</strong>.</p>

        <a href="{{.TeamURL}}" class="btn">View Team</a>
    </div>
    <div class="footer">
        Waypoint • Apex Racing Project Management
    </div>
</div>
</body>
</html>
`))

	// Work Package Deadline Reminder Template
	s.templates["deadline_reminder"] = template.Must(template.New("deadline_reminder").Parse(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #f59e0b; color: white; padding: 24px; border-radius: 8px 8px 0 0; }
        .content { background: #f9fafb; padding: 24px; border-radius: 0 0 8px 8px; }
        .wp-card { background: white; border-radius: 8px; padding: 16px; margin: 12px 0; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .footer { margin-top: 24px; font-size: 12px; color: #6b7280; text-align: center; }
    </style>
</head>
<body>
<div class="container">
    <div class="header">
        <h2>⏰ Work Packages Ending Soon</h2>
    </div>
    <div class="content">
        <p>Hi {{.UserName}},</p>
        <p>These work packages you lead are approaching their end dates:</p>

        {{range .WorkPackages}}<div class="wp-card">
            <h3>{{.WbsNum}} - {{.Name}}</h3>
            <p><strong>Ends in:</strong> {{.DaysRemaining}} days</p>
        </div>
        {{end}}
    </div>
    <div class="footer">
        Waypoint • Apex Racing Project Management
    </div>
</div>
</body>
</html>
`))

	// Reimbursement Status Template
	s.templates["reimbursement_status"] = template.Must(template.New("reimbursement_status").Parse(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #2563eb; color: white; padding: 24px; border-radius: 8px 8px 0 0; }
        .content { background: #f9fafb; padding: 24px; border-radius: 0 0 8px 8px; }
        .footer { margin-top: 24px; font-size: 12px; color: #6b7280; text-align: center; }
    </style>
</head>
<body>
<div class="container">
    <div class="header">
        <h2>Reimbursement Update</h2>
    </div>
    <div class="content">
        <p>Hi {{.UserName}},</p>
        <p>Your reimbursement request for <strong>${{.TotalCost}}</strong> is now <strong>{{.Status}}</strong>.</p>
    </div>
    <div class="footer">
        Waypoint • Apex Racing Project Management
    </div>
</div>
</body>
</html>
`))
}

// Send sends an email via SMTP
func (s *Service) Send(email *Email) error {
	var msg bytes.Buffer

	// Headers
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(email.To, ", ")))
	if len(email.CC) > 0 {
		msg.WriteString(fmt.Sprintf("Cc: %s\r\n", strings.Join(email.CC, ", ")))
	}
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))
	msg.WriteString("MIME-Version: 1.0\r\n")

	if email.HTMLBody != "" {
		msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(email.HTMLBody)
	} else {
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(email.Body)
	}

	// Build recipient list
	recipients := append(email.To, email.CC...)
	recipients = append(recipients, email.BCC...)

	// Create auth
	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	if s.config.UseTLS {
		// TLS connection
		tlsConfig := &tls.Config{
			ServerName: s.config.Host,
		}

		conn, err := tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			return fmt.Errorf("TLS dial error: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, s.config.Host)
		if err != nil {
			return fmt.Errorf("SMTP client error: %w", err)
		}
		defer client.Close()

		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("auth error: %w", err)
		}

		if err = client.Mail(s.config.From); err != nil {
			return fmt.Errorf("mail error: %w", err)
		}

		for _, rcpt := range recipients {
			if err = client.Rcpt(rcpt); err != nil {
				return fmt.Errorf("rcpt error: %w", err)
			}
		}

		w, err := client.Data()
		if err != nil {
			return fmt.Errorf("data error: %w", err)
		}

		_, err = w.Write(msg.Bytes())
		if err != nil {
			return fmt.Errorf("write error: %w", err)
		}

		err = w.Close()
		if err != nil {
			return fmt.Errorf("close error: %w", err)
		}

		return client.Quit()
	}

	// Non-TLS
	return smtp.SendMail(addr, auth, s.config.From, recipients, msg.Bytes())
}

// SendWithTemplate sends an email using a template
func (s *Service) SendWithTemplate(to []string, subject, templateName string, data interface{}) error {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("template not found: %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	return s.Send(&Email{
		To:       to,
		Subject:  subject,
		HTMLBody: body.String(),
	})
}

// ============================================
// Convenience Methods
// ============================================

// PendingAdvisorListData holds data for the advisor review email
type PendingAdvisorListData struct {
	SaboNumbers []int
}

// SendPendingAdvisorList sends the list of sabo numbers awaiting review to
// the advisor address configured for the service.
func (s *Service) SendPendingAdvisorList(saboNumbers []int) error {
	if s.config.AdvisorEmail == "" {
		return fmt.Errorf("no advisor email configured")
	}
	return s.SendWithTemplate(
		[]string{s.config.AdvisorEmail},
		fmt.Sprintf("[Waypoint] %d Reimbursements Awaiting Review", len(saboNumbers)),
		"pending_advisor_list",
		PendingAdvisorListData{SaboNumbers: saboNumbers},
	)
}

// AddedToTeamData holds data for team addition email
type AddedToTeamData struct {
	UserName string
	TeamName string
	AddedBy  string
	TeamURL  string
}

// SendAddedToTeam sends a team addition email
func (s *Service) SendAddedToTeam(to string, data AddedToTeamData) error {
	return s.SendWithTemplate(
		[]string{to},
		fmt.Sprintf("[Waypoint] Added to team: %s", data.TeamName),
		"added_to_team",
		data,
	)
}

// DeadlineReminderWorkPackage holds work package info for deadline reminder
type DeadlineReminderWorkPackage struct {
	WbsNum        string
	Name          string
	DaysRemaining int
}

// DeadlineReminderData holds data for deadline reminder email
type DeadlineReminderData struct {
	UserName     string
	WorkPackages []DeadlineReminderWorkPackage
}

// SendDeadlineReminder sends a work package deadline reminder email
func (s *Service) SendDeadlineReminder(to string, data DeadlineReminderData) error {
	return s.SendWithTemplate(
		[]string{to},
		"[Waypoint] Work Package Deadline Reminder",
		"deadline_reminder",
		data,
	)
}

// ReimbursementStatusData holds data for reimbursement status email
type ReimbursementStatusData struct {
	UserName  string
	TotalCost string
	Status    string
}

// SendReimbursementStatus sends a reimbursement status email
func (s *Service) SendReimbursementStatus(to string, data ReimbursementStatusData) error {
	return s.SendWithTemplate(
		[]string{to},
		fmt.Sprintf("[Waypoint] Reimbursement %s", data.Status),
		"reimbursement_status",
		data,
	)
}

// ============================================
// Async Email Queue (simple in-memory)
// ============================================

// EmailQueue handles async email sending
type EmailQueue struct {
	service *Service
	queue   chan *queuedEmail
	done    chan bool
}

type queuedEmail struct {
	to           []string
	subject      string
	templateName string
	data         interface{}
	retries      int
}

// NewEmailQueue creates a new email queue
func NewEmailQueue(service *Service, workers int) *EmailQueue {
	q := &EmailQueue{
		service: service,
		queue:   make(chan *queuedEmail, 1000),
		done:    make(chan bool),
	}

	// Start workers
	for i := 0; i < workers; i++ {
		go q.worker()
	}

	return q
}

func (q *EmailQueue) worker() {
	for {
		select {
		case email := <-q.queue:
			err := q.service.SendWithTemplate(email.to, email.subject, email.templateName, email.data)
			if err != nil {
				log.Printf("Email send error: %v", err)
				// Retry logic
				if email.retries < 3 {
					email.retries++
					time.Sleep(time.Second * time.Duration(email.retries*2))
					q.queue <- email
				}
			}
		case <-q.done:
			return
		}
	}
}

// Enqueue adds an email to the queue
func (q *EmailQueue) Enqueue(to []string, subject, templateName string, data interface{}) {
	q.queue <- &queuedEmail{
		to:           to,
		subject:      subject,
		templateName: templateName,
		data:         data,
		retries:      0,
	}
}

// Stop stops the email queue workers
func (q *EmailQueue) Stop() {
	close(q.done)
}
