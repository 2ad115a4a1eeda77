package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"lostfound/internal/models"
	"lostfound/internal/repository"

	"gopkg.in/gomail.v2"
)

// Notifier - порт уведомлений, потребляемый подбором совпадений.
// Реализация не должна влиять на исход подбора: вызывающий логирует
// ошибку и продолжает работу.
type Notifier interface {
	NotifyMatch(ctx context.Context, match *models.Match, lostItem, foundItem *models.Item) error
	SendPasswordReset(ctx context.Context, email, fullName, resetToken string) error
}

// MailConfig - настройки SMTP и внешние ссылки для писем
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	AppName  string
	AppURL   string
	Enabled  bool
}

type notificationService struct {
	cfg      MailConfig
	userRepo repository.UserRepository
	logRepo  repository.NotificationRepository
	dialer   *gomail.Dialer
}

func NewNotificationService(cfg MailConfig, userRepo repository.UserRepository, logRepo repository.NotificationRepository) Notifier {
	var dialer *gomail.Dialer
	if cfg.Enabled {
		dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	} else {
		log.Println("Mail disabled, notifications will only be logged")
	}

	return &notificationService{
		cfg:      cfg,
		userRepo: userRepo,
		logRepo:  logRepo,
		dialer:   dialer,
	}
}

// NotifyMatch отправляет письма владельцам обеих вещей. Сбой доставки
// одному адресату не отменяет отправку второму.
func (s *notificationService) NotifyMatch(ctx context.Context, match *models.Match, lostItem, foundItem *models.Item) error {
	lostOwner, err := s.userRepo.GetByID(ctx, lostItem.UserID)
	if err != nil {
		return fmt.Errorf("failed to load lost item owner: %w", err)
	}

	foundOwner, err := s.userRepo.GetByID(ctx, foundItem.UserID)
	if err != nil {
		return fmt.Errorf("failed to load found item owner: %w", err)
	}

	lostSubject := fmt.Sprintf("Good News! Potential Match Found for Your Lost %s", lostItem.Title)
	foundSubject := fmt.Sprintf("Match Alert! Your Found %s May Belong to Someone", foundItem.Title)

	errLost := s.sendMatchEmail(ctx, match, lostOwner, lostSubject, lostItem, foundItem, true)
	errFound := s.sendMatchEmail(ctx, match, foundOwner, foundSubject, lostItem, foundItem, false)

	return errors.Join(errLost, errFound)
}

func (s *notificationService) sendMatchEmail(ctx context.Context, match *models.Match, recipient *models.User, subject string, lostItem, foundItem *models.Item, toLostOwner bool) error {
	body := s.buildMatchEmailBody(recipient, match, lostItem, foundItem, toLostOwner)

	if err := s.send(recipient.Email, recipient.FullName, subject, body); err != nil {
		return err
	}

	s.logNotification(ctx, match, recipient.Email, subject, lostItem, foundItem)
	return nil
}

func (s *notificationService) buildMatchEmailBody(recipient *models.User, match *models.Match, lostItem, foundItem *models.Item, toLostOwner bool) string {
	name := recipient.FullName
	if name == "" {
		name = recipient.Email
	}

	intro := "Someone may be looking for the item you found!"
	action := "Review the details and help reunite this item with its owner."
	if toLostOwner {
		intro = "Great news! We found a potential match for your lost item."
		action = "Check if this is your item and contact the finder to arrange a return."
	}

	return fmt.Sprintf(`<html><body>
<h1>Match Found!</h1>
<p>Hi %s,</p>
<p>%s</p>
<p><strong>%d%% Match</strong></p>
<table>
<tr><td>Lost item:</td><td>%s (%s, %s)</td></tr>
<tr><td>Found item:</td><td>%s (%s, %s)</td></tr>
</table>
<p>%s</p>
<p><a href="%s/matches">View the match in %s</a></p>
</body></html>`,
		name, intro, match.MatchScore,
		lostItem.Title, lostItem.Category, lostItem.Location,
		foundItem.Title, foundItem.Category, foundItem.Location,
		action, s.cfg.AppURL, s.cfg.AppName)
}

// SendPasswordReset отправляет письмо со ссылкой на сброс пароля
func (s *notificationService) SendPasswordReset(ctx context.Context, email, fullName, resetToken string) error {
	name := fullName
	if name == "" {
		name = email
	}

	body := fmt.Sprintf(`<html><body>
<p>Hi %s,</p>
<p>We received a request to reset your %s password.</p>
<p><a href="%s/reset-password?token=%s">Reset your password</a></p>
<p>The link is valid for one hour. If you did not request a reset, ignore this email.</p>
</body></html>`,
		name, s.cfg.AppName, s.cfg.AppURL, resetToken)

	return s.send(email, fullName, "Password Reset Request", body)
}

func (s *notificationService) send(toEmail, toName, subject, htmlBody string) error {
	if s.dialer == nil {
		log.Printf("Mail disabled, skipping email to %s: %s", toEmail, subject)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.cfg.From)
	msg.SetAddressHeader("To", toEmail, toName)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}
	return nil
}

// logNotification пишет запись в журнал уведомлений. Сбой записи не
// считается сбоем доставки.
func (s *notificationService) logNotification(ctx context.Context, match *models.Match, recipient, subject string, lostItem, foundItem *models.Item) {
	payload, err := json.Marshal(map[string]interface{}{
		"match_score": match.MatchScore,
		"lost_item":   map[string]string{"id": lostItem.ID, "title": lostItem.Title},
		"found_item":  map[string]string{"id": foundItem.ID, "title": foundItem.Title},
	})
	if err != nil {
		log.Printf("Failed to marshal notification payload: %v", err)
		return
	}

	entry := &models.NotificationLog{
		MatchID:   match.ID,
		Recipient: recipient,
		Subject:   subject,
		Payload:   payload,
		SentAt:    time.Now().UTC(),
	}

	if err := s.logRepo.Create(ctx, entry); err != nil {
		log.Printf("Failed to record notification log: %v", err)
	}
}
