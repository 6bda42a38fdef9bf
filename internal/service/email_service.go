package service

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"
)

// EmailService sends transactional email via Amazon SES. When no sender
// address is configured it stays disabled and every send is a logged no-op.
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	log        *zap.SugaredLogger
}

// NewEmailService creates a new email service
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string, log *zap.SugaredLogger) (*EmailService, error) {
	if fromEmail == "" {
		log.Info("email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, log: log}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Infow("email service enabled", "from", fromEmail, "region", awsRegion)

	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		log:        log,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendWelcomeEmail greets a newly registered account
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !s.enabled {
		s.log.Debugw("skipping welcome email, service disabled", "to", toEmail)
		return nil
	}

	subject := "Selamat datang di Cerdas!"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h1 style="color: #4F46E5;">Selamat datang di Cerdas!</h1>
		<p>Halo %s,</p>
		<p>Akun kamu sudah siap. Pilih mata pelajaran favoritmu, kumpulkan poin,
		dan naikkan levelmu sambil belajar.</p>
		<p><a href="%s" style="display: inline-block; padding: 12px 30px; background-color: #4F46E5; color: white; text-decoration: none; border-radius: 5px;">Mulai Belajar</a></p>
		<p style="font-size: 12px; color: #666;">Email ini dikirim otomatis oleh Cerdas. Mohon tidak membalas.</p>
	</div>
</body>
</html>
`, toName, s.appBaseURL)

	textBody := fmt.Sprintf(`Halo %s,

Akun kamu sudah siap. Pilih mata pelajaran favoritmu, kumpulkan poin,
dan naikkan levelmu sambil belajar.

Mulai belajar: %s

---
Email ini dikirim otomatis oleh Cerdas. Mohon tidak membalas.
`, toName, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendInviteEmail invites someone to join the platform in a given role
func (s *EmailService) SendInviteEmail(ctx context.Context, toEmail, inviterName, role string) error {
	if !s.enabled {
		s.log.Debugw("skipping invite email, service disabled", "to", toEmail)
		return nil
	}

	registerLink := fmt.Sprintf("%s/register?role=%s", s.appBaseURL, role)

	subject := fmt.Sprintf("%s mengundang Anda bergabung di Cerdas", inviterName)
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h1 style="color: #4F46E5;">Undangan Bergabung</h1>
		<p>%s mengundang Anda bergabung di Cerdas sebagai %s.</p>
		<p><a href="%s" style="display: inline-block; padding: 12px 30px; background-color: #4F46E5; color: white; text-decoration: none; border-radius: 5px;">Buat Akun</a></p>
		<p style="word-break: break-all; font-size: 12px; color: #666;">%s</p>
		<p style="font-size: 12px; color: #666;">Email ini dikirim otomatis oleh Cerdas. Mohon tidak membalas.</p>
	</div>
</body>
</html>
`, inviterName, role, registerLink, registerLink)

	textBody := fmt.Sprintf(`%s mengundang Anda bergabung di Cerdas sebagai %s.

Buat akun: %s

---
Email ini dikirim otomatis oleh Cerdas. Mohon tidak membalas.
`, inviterName, role, registerLink)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends one message through SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	s.log.Infow("email sent", "to", toEmail, "subject", subject)
	return nil
}
