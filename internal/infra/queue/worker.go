package queue

import (
	"context"
	"encoding/json"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// LeadDirectory resolves the lead a won deal came from.
type LeadDirectory interface {
	FindByID(ctx context.Context, id string) (*entity.Lead, error)
}

// UserDirectory resolves the rep a lead is assigned to.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

type DealWonNotifier interface {
	SendDealWon(to, repName, dealName string, valueCents int64) error
}

// Worker consumes deal-won events and mails the assigned rep. It is
// fully decoupled from the HTTP layer.
type Worker struct {
	Channel  *amqp.Channel
	Leads    LeadDirectory
	Users    UserDirectory
	Notifier DealWonNotifier
	Log      *zap.Logger
}

func NewWorker(ch *amqp.Channel, leads LeadDirectory, users UserDirectory, notifier DealWonNotifier, log *zap.Logger) *Worker {
	return &Worker{
		Channel:  ch,
		Leads:    leads,
		Users:    users,
		Notifier: notifier,
		Log:      log.Named("deal.worker"),
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		w.Log.Fatal("registering consumer failed", zap.Error(err))
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload DealWonPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				w.Log.Error("malformed deal event, rejecting", zap.Error(err))
				// No requeue: a malformed message never gets better.
				d.Nack(false, false)
				continue
			}

			if err := w.processMessage(context.Background(), payload); err != nil {
				w.Log.Error("deal event processing failed",
					zap.String("opportunity_id", payload.OpportunityID), zap.Error(err))
				d.Nack(false, false)
				continue
			}

			d.Ack(false)
		}
	}()

	w.Log.Info("worker waiting for deal events", zap.String("queue", queueName))
	<-forever
}

// processMessage finds the rep through lead -> assigned_to -> user. Any
// dangling link means there is nobody to notify; that is a skip, not a
// failure.
func (w *Worker) processMessage(ctx context.Context, payload DealWonPayload) error {
	if payload.LeadID == "" {
		w.Log.Info("won deal has no lead reference, skipping notification",
			zap.String("opportunity_id", payload.OpportunityID))
		return nil
	}

	lead, err := w.Leads.FindByID(ctx, payload.LeadID)
	if errors.Is(err, entity.ErrNotFound) {
		w.Log.Info("lead behind won deal was deleted, skipping notification",
			zap.String("lead_id", payload.LeadID))
		return nil
	}
	if err != nil {
		return err
	}
	if lead.AssignedTo == "" {
		return nil
	}

	user, err := w.Users.FindByID(ctx, lead.AssignedTo)
	if errors.Is(err, entity.ErrNotFound) {
		w.Log.Info("assigned rep not in directory, skipping notification",
			zap.String("user_id", lead.AssignedTo))
		return nil
	}
	if err != nil {
		return err
	}

	if err := w.Notifier.SendDealWon(user.Email, user.FullName, payload.Name, payload.ValueCents); err != nil {
		return err
	}

	w.Log.Info("deal won notification sent",
		zap.String("opportunity_id", payload.OpportunityID), zap.String("to", user.Email))
	return nil
}
