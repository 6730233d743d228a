package utils

import (
	"fmt"
	"net/http"
	"time"

	"gradus/config"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// Generic Send Email (SendGrid)
func SendEmail(to []string, subject string, htmlBody string) error {
	if config.AppConfig.SendGridApiKey == "" {
		fmt.Println("SENDGRID_API_KEY not set, skipping email:", subject)
		return nil
	}

	from := sgmail.NewEmail(config.AppConfig.EmailFromName, config.AppConfig.EmailSender)

	p := sgmail.NewPersonalization()
	p.Subject = subject
	for _, addr := range to {
		p.AddTos(sgmail.NewEmail("", addr))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/html", htmlBody))

	req := sendgrid.GetRequest(config.AppConfig.SendGridApiKey, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	// Debug Logs
	fmt.Printf("--- Sending Email ---\nTo: %v\nSubject: %s\n", to, subject)

	res, err := sendgrid.API(req)
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	if res.StatusCode >= http.StatusBadRequest {
		fmt.Printf("Error sending email, status: %d body: %s\n", res.StatusCode, res.Body)
		return fmt.Errorf("sendgrid returned status %d", res.StatusCode)
	}
	fmt.Println("--- Email Sent Successfully ---")
	return nil
}

// HTML Wrapper (Professional Look)
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A237E; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A237E; line-height: 1.6; }
			.content h2 { color: #1A237E; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #FF8F00; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #FF8F00; margin: 20px 0; }
			.otp-code { text-align: center; color: #FF8F00; font-size: 40px; margin: 20px 0; letter-spacing: 6px; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>GRADUS</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 Gradus Learning. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Welcome / Signup
func SendWelcomeEmail(email, name string) {
	subject := "Welcome to Gradus"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>Gradus</strong>! We are thrilled to have you onboard.</p>
		<p>Your account has been successfully created. You can now browse our courses and start learning.</p>
		<p>If you have any questions, feel free to reach out to our support team.</p>
	`, name)

	go SendEmail([]string{email}, subject, getEmailTemplate("Welcome Onboard!", body))
}

// 2. OTP Verification
func SendOTPEmail(email, otp, purpose string) {
	subject := "Your Gradus Verification Code"
	reason := "verify your email address"
	if purpose == "PASSWORD_RESET" {
		subject = "Your Gradus Password Reset Code"
		reason = "reset your password"
	}
	body := fmt.Sprintf(`
		<p>Use the One Time Password below to %s:</p>
		<h1 class="otp-code">%s</h1>
		<p>The code is valid for 10 minutes. Do not share it with anyone.</p>
	`, reason, otp)

	go SendEmail([]string{email}, subject, getEmailTemplate("Verification Code", body))
}

// 3. Enrollment Confirmation
func SendEnrollmentEmail(email, name, courseName, referenceCode string) {
	subject := "Enrollment Confirmed: " + courseName
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have successfully enrolled in <strong>%s</strong>.</p>
		<div class="info-box">
			<strong>Reference:</strong> %s
		</div>
		<p>You can now access the course from your dashboard. Happy learning!</p>
	`, name, courseName, referenceCode)

	fmt.Println("Triggering Enrollment Email for:", email)
	go SendEmail([]string{email}, subject, getEmailTemplate("Enrollment Successful", body))
}

// 4. Payment Confirmation
func SendPaymentConfirmationEmail(email, name, courseName string, amount float64) {
	subject := "Payment Received: " + courseName
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We have received your payment of <strong>₹%.2f</strong> for <strong>%s</strong>.</p>
		<p>Your enrollment is fully active. A receipt is available on your dashboard.</p>
	`, name, amount, courseName)

	go SendEmail([]string{email}, subject, getEmailTemplate("Payment Confirmed", body))
}

// 5. Live Class Scheduled
func SendLiveClassEmail(email, name, title string, scheduledAt time.Time) {
	subject := "Live Class Scheduled: " + title
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>A new live class <strong>%s</strong> has been scheduled.</p>
		<div class="info-box">
			<strong>Starts:</strong> %s
		</div>
		<p>Join from your dashboard once the class goes live.</p>
	`, name, title, scheduledAt.Format("Mon, 02 Jan 2006 at 3:04 PM MST"))

	go SendEmail([]string{email}, subject, getEmailTemplate("You Are Invited", body))
}

// 6. Live Class Cancelled
func SendLiveClassCancelledEmail(email, name, title string) {
	subject := "Live Class Cancelled: " + title
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>The live class <strong>%s</strong> has been cancelled.</p>
		<p>We are sorry for the inconvenience. Keep an eye on your dashboard for the new schedule.</p>
	`, name, title)

	go SendEmail([]string{email}, subject, getEmailTemplate("Class Cancelled", body))
}

// 7. Landing Page Registration
func SendRegistrationEmail(email, name, pageTitle, referenceCode string) {
	subject := "Registration Confirmed: " + pageTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your seat for <strong>%s</strong> is confirmed.</p>
		<div class="info-box">
			<strong>Reference:</strong> %s
		</div>
		<p>We will email you the joining details closer to the date.</p>
	`, name, pageTitle, referenceCode)

	fmt.Println("Triggering Registration Email for:", email)
	go SendEmail([]string{email}, subject, getEmailTemplate("Registration Successful", body))
}

// 8. Admin Invite (temp password)
func SendAdminInviteEmail(email, name, tempPassword string) {
	subject := "Your Gradus Admin Account"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>An admin account has been created for you on the Gradus panel.</p>
		<div class="info-box">
			<strong>Email:</strong> %s<br>
			<strong>Temporary Password:</strong> %s
		</div>
		<p>Please sign in and change your password right away.</p>
	`, name, email, tempPassword)

	go SendEmail([]string{email}, subject, getEmailTemplate("Admin Access Granted", body))
}

// 9. Password Changed
func SendPasswordChangedEmail(email, name string) {
	subject := "Your Gradus Password Was Changed"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your account password was changed just now.</p>
		<p>If this was not you, reset your password immediately and contact support.</p>
	`, name)

	go SendEmail([]string{email}, subject, getEmailTemplate("Password Changed", body))
}
