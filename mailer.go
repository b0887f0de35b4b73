package main

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

// sendResetEmail delivers the recovery link over SMTP with STARTTLS.
// When mail credentials are not configured the link is logged instead of
// sent, which keeps the reset flow usable in development.
func sendResetEmail(to, name, resetLink string) error {
	server := envOr("MAIL_SERVER", "smtp.gmail.com")
	port := envOr("MAIL_PORT", "587")
	username := os.Getenv("MAIL_USERNAME")
	password := os.Getenv("MAIL_PASSWORD")
	sender := envOr("MAIL_USERNAME", "noreply@bnstudy.com")

	if username == "" || password == "" {
		log.Printf("[mail] not configured, recovery link: %s", resetLink)
		return fmt.Errorf("mail not configured")
	}

	body := strings.Join([]string{
		"Hello " + name + ",",
		"",
		"You requested a password recovery on BNStudy.",
		"",
		"Click the link below to reset your password:",
		resetLink,
		"",
		"This link expires in 1 hour.",
		"",
		"If you did not request this, ignore this email.",
		"",
		"Regards,",
		"BNStudy Team",
	}, "\r\n")

	msg := strings.Join([]string{
		"From: " + sender,
		"To: " + to,
		"Subject: Password Recovery - BNStudy",
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	auth := smtp.PlainAuth("", username, password, server)
	if err := smtp.SendMail(server+":"+port, auth, sender, []string{to}, []byte(msg)); err != nil {
		return err
	}
	log.Printf("[mail] reset email sent to %s", to)
	return nil
}
