package handler

import (
	"encoding/json"
	"strconv"

	"github.com/Astemirdum/livraria/devserver/internal/model"
	"github.com/Astemirdum/livraria/pkg/kafka"
	"github.com/IBM/sarama"
)

type Enqueuer interface {
	Enqueue(ev model.LoanEvent) error
}

// NewEnqueuer publishes loan events to topic, keyed by book so the events
// of one book stay ordered. A nil producer disables publishing.
func NewEnqueuer(producer sarama.SyncProducer, topic string) Enqueuer {
	if producer == nil {
		return NopEnqueuer{}
	}
	if topic == "" {
		topic = kafka.LoanTopic
	}
	return &enqueuerImpl{
		producer: producer,
		topic:    topic,
	}
}

type enqueuerImpl struct {
	producer sarama.SyncProducer
	topic    string
}

func (q *enqueuerImpl) Enqueue(ev model.LoanEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: q.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(ev.BookID, 10)),
		Value: sarama.ByteEncoder(data),
	}
	_, _, err = q.producer.SendMessage(msg)
	return err
}

type NopEnqueuer struct{}

func (NopEnqueuer) Enqueue(model.LoanEvent) error { return nil }
