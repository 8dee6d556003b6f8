// Package consumer reacts to registration lifecycle events.
package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"company-registry/internal/events"
	registryerrors "company-registry/internal/registry/errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// CertificateWarmer renders and caches the certificate of an approved
// registration.
type CertificateWarmer interface {
	WarmCertificate(ctx context.Context, id string) error
}

// CacheInvalidator drops cached lookups of a registration.
type CacheInvalidator interface {
	InvalidateLookup(ctx context.Context, keys ...string) error
}

func ConsumeRegistrationLifecycle(
	ctx context.Context,
	reader MessageReader,
	warmer CertificateWarmer,
	invalidator CacheInvalidator,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.registration_lifecycle")
	log.Info("registration lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("registration lifecycle consumer stopped")
				return
			}
			log.Error("fetch registration lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.RegistrationLifecycleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode registration lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := HandleRegistrationEvent(ctx, event, warmer, invalidator); err != nil {
			log.Error("handle registration lifecycle event failed",
				zap.String("event_type", event.EventType),
				zap.String("company_id", event.CompanyID),
				zap.String("request_id", event.RequestID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit registration lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("registration lifecycle event handled",
			zap.String("event_type", event.EventType),
			zap.String("company_id", event.CompanyID),
			zap.String("registration_number", event.RegistrationNumber),
		)
	}
}

// HandleRegistrationEvent applies the side effects of one event. Events
// about registrations that no longer qualify are treated as handled.
func HandleRegistrationEvent(
	ctx context.Context,
	event events.RegistrationLifecycleEvent,
	warmer CertificateWarmer,
	invalidator CacheInvalidator,
) error {
	if invalidator != nil {
		if err := invalidator.InvalidateLookup(ctx, event.CompanyID, event.RegistrationNumber); err != nil {
			return err
		}
	}

	if event.EventType != events.RegistrationApproved || warmer == nil {
		return nil
	}

	err := warmer.WarmCertificate(ctx, event.CompanyID)
	if errors.Is(err, registryerrors.ErrRegistrationNotFound) || errors.Is(err, registryerrors.ErrCertificateUnavailable) {
		return nil
	}
	return err
}
