/*
Package notify reports the outcome of a run via email.
*/
package notify

import (
	"fmt"
	"strings"
	"time"

	gomail "gopkg.in/mail.v2"

	"github.com/sw33tLie/autoneg/internal/utils"
	"github.com/sw33tLie/autoneg/pkg/runner"
)

type EmailConfig struct {
	SMTPServer string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	FromEmail  string
	ToEmail    string
	Enabled    bool
}

// Subject returns the subject line for a run summary.
func Subject(res *runner.Result) string {
	status := "OK"
	if len(res.Errors) > 0 {
		status = fmt.Sprintf("%d errors", len(res.Errors))
	}
	return fmt.Sprintf("autoneg: %d added, %d removed (%s)", res.Added(), res.Removed(), status)
}

// Summary renders a plain text report of a run.
func Summary(res *runner.Result) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run %s\n", res.RunID))
	sb.WriteString(fmt.Sprintf("Passes: %d processed, %d skipped, %d failed\n", res.Processed(), res.Skipped, res.Failed()))
	sb.WriteString(fmt.Sprintf("Negative keywords: %d added, %d removed\n", res.Added(), res.Removed()))

	for _, p := range res.Passes {
		sb.WriteString(fmt.Sprintf("\n[%s] %s\n", p.Sheet, p.Lookup))
		if p.Err != nil {
			sb.WriteString(fmt.Sprintf("\tError: %v\n", p.Err))
		}
		for _, a := range p.Added {
			sb.WriteString(fmt.Sprintf("\t+ %s\n", a))
		}
		for _, r := range p.Removed {
			sb.WriteString(fmt.Sprintf("\t- %s (blocks '%s')\n", r.Negative.Text, r.Positive))
		}
	}

	if warnings := res.Warnings(); len(warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		sb.WriteString(formatBulletList(warnings))
	}
	if len(res.Errors) > 0 {
		errs := make([]string, len(res.Errors))
		for i, err := range res.Errors {
			errs[i] = err.Error()
		}
		sb.WriteString("\nErrors:\n")
		sb.WriteString(formatBulletList(errs))
	}
	return sb.String()
}

func formatBulletList(points []string) string {
	var sb strings.Builder
	for _, p := range points {
		sb.WriteString(fmt.Sprintf("\t- %s\n", p))
	}
	return sb.String()
}

// EmailResult sends the run summary. It does nothing when email is disabled.
func EmailResult(res *runner.Result, cfg EmailConfig) error {
	if !cfg.Enabled {
		return nil
	}
	utils.Log.Infof("Emailing run summary (SMTP: %s:%d).", cfg.SMTPServer, cfg.SMTPPort)
	return sendEmail(cfg, Subject(res), Summary(res))
}

func sendEmail(cfg EmailConfig, subject, body string) error {
	message := gomail.NewMessage()

	message.SetHeader("From", cfg.FromEmail)
	message.SetHeader("To", cfg.ToEmail)
	message.SetHeader("Subject", subject)

	message.SetBody("text/plain", body)

	dialer := gomail.NewDialer(cfg.SMTPServer, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	dialer.Timeout = 10 * time.Second

	if err := dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("failed to send email to %s (Subject: %s): %w", cfg.ToEmail, subject, err)
	}
	utils.Log.Infof("Email sent successfully: %s", subject)
	return nil
}
