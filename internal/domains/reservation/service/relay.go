package service

import (
	"context"
	"teesheet/config"
	"teesheet/infras/kafka"
	"teesheet/internal/domains/reservation/model"
	"teesheet/shared/bus"

	"github.com/rs/zerolog/log"
)

// KafkaRelay forwards reservation change events to the change topic. Messages
// are keyed by bay so consumers see per-bay changes in commit order.
type KafkaRelay struct {
	changeBus *bus.Bus[model.ChangeEvent]
	producer  kafka.Client
	cfg       *config.Config
}

func NewKafkaRelay(changeBus *bus.Bus[model.ChangeEvent], producer kafka.Client, cfg *config.Config) *KafkaRelay {
	return &KafkaRelay{
		changeBus: changeBus,
		producer:  producer,
		cfg:       cfg,
	}
}

func (r *KafkaRelay) Run(ctx context.Context) {
	if !r.cfg.Kafka.Enable {
		log.Info().Msg("Kafka relay disabled")

		return
	}

	sub := r.changeBus.Subscribe("kafka-relay", 256, nil)
	defer r.changeBus.Unsubscribe(sub)

	log.Info().Str("topic", r.cfg.Kafka.ChangeTopic).Msg("Kafka relay started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Kafka relay stopped")

			return
		case envelope, open := <-sub.Events():
			if !open {
				return
			}

			if envelope.Resync {
				log.Warn().Msg("Change stream has a gap, downstream consumers should reconcile from the store")
			}

			message := kafka.Message{
				Key:   envelope.Event.BayID,
				Value: envelope.Event,
			}

			if err := r.producer.SendMessages(ctx, r.cfg.Kafka.ChangeTopic, message); err != nil {
				log.Error().Err(err).Str("reservationID", envelope.Event.ReservationID).Msg("failed to relay change event")
			}
		}
	}
}
