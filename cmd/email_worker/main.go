package main

import (
	"context"
	"encoding/json"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/config"
	"github.com/oksasatya/go-ddd-blog/pkg/helpers"
	"github.com/oksasatya/go-ddd-blog/pkg/mailer"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)
	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(16, 0, false); err != nil {
		logger.Fatalf("qos: %v", err)
	}
	if err := helpers.DeclareQueue(ch, cfg.RabbitMQEmailQueue); err != nil {
		logger.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQEmailQueue, "", false, false, false, false, nil)
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	sender := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			switch handle(ctx, sender, msg.Body, logger) {
			case outcomeAck:
				_ = msg.Ack(false)
			case outcomeRetry:
				// one more attempt, then give up
				_ = msg.Nack(false, !msg.Redelivered)
			default:
				_ = msg.Nack(false, false)
			}
		}
	}()

	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")
	<-ctx.Done()
	logger.Info("shutting down...")
	_ = ch.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

type outcome int

const (
	outcomeAck outcome = iota
	outcomeRetry
	outcomeDrop
)

// handle decodes, renders and sends one job. Malformed or unaddressed jobs
// are dropped, delivery failures are retried.
func handle(ctx context.Context, sender mailer.Sender, body []byte, logger logrus.FieldLogger) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		logger.WithError(err).Warn("bad message")
		return outcomeDrop
	}
	helpers.EnsureRecipientAndEmail(&job)

	subject, text, html, err := mailer.Compose(job)
	if err != nil {
		logger.WithError(err).WithField("template", job.Template).Warn("render failed")
		return outcomeDrop
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := sender.Send(c, job.To, subject, text, html); err != nil {
		logger.WithError(err).WithField("to", job.To).Warn("send failed")
		if errors.Is(err, mailer.ErrNoRecipient) {
			return outcomeDrop
		}
		return outcomeRetry
	}
	logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	return outcomeAck
}
