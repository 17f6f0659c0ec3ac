package kafka

import (
	"context"
	"log/slog"

	"github.com/niksmo/vip-store/internal/core/domain"
	"github.com/niksmo/vip-store/internal/core/port"
	"github.com/niksmo/vip-store/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.OrderEventsProducer = (*OrderEventsProducer)(nil)

// A producer is used for composition.
//
// Producing records to kafka broker and closing underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
}

func (p producer) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p producer) produce(
	ctx context.Context, rs ...*kgo.Record,
) error {
	const op = "produce"
	res := p.cl.ProduceSync(ctx, rs...)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

// An OrderEventsProducer publishes [domain.OrderStatusChanged] keyed by order id.
type OrderEventsProducer struct {
	producer producer
	encoder  Encoder
	opPrefix string
}

func NewOrderEventsProducer(
	opts ...ProducerOpt,
) (OrderEventsProducer, error) {
	const op = "NewOrderEventsProducer"

	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return OrderEventsProducer{}, opErr(err, op)
		}
	}

	opPrefix := "OrderEventsProducer"
	p := producer{
		opPrefix: opPrefix,
		cl:       options.cl,
	}

	return OrderEventsProducer{
		producer: p,
		encoder:  options.encoder,
		opPrefix: opPrefix,
	}, nil
}

func (p OrderEventsProducer) Close() {
	p.producer.close()
}

func (p OrderEventsProducer) ProduceStatusChanged(
	ctx context.Context, evt domain.OrderStatusChanged,
) error {
	const op = "ProduceStatusChanged"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r, err := p.createRecord(evt)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	if err := p.producer.produce(ctx, r); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

func (p OrderEventsProducer) createRecord(
	v domain.OrderStatusChanged,
) (*kgo.Record, error) {
	const op = "createRecord"

	s := p.toSchema(v)
	b, err := p.encoder.Encode(s)
	if err != nil {
		return nil, opErr(err, p.opPrefix, op)
	}
	return &kgo.Record{Key: []byte(s.OrderID), Value: b}, nil
}

func (OrderEventsProducer) toSchema(
	v domain.OrderStatusChanged,
) schema.OrderStatusChangedV1 {
	return orderStatusChangedToSchemaV1(v)
}
