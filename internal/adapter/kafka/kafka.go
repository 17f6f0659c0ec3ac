package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/niksmo/vip-store/internal/core/domain"
	"github.com/niksmo/vip-store/pkg/retry"
	"github.com/niksmo/vip-store/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	ErrTooFewOpts = errors.New("too few options")
)

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl      ProducerClient
	encoder Encoder
}

// ProducerClientOpt dials the brokers and waits until one answers.
//
// tlsConfig may be nil for plaintext listeners.
func ProducerClientOpt(
	ctx context.Context, seedBrokers []string, topic string, tlsConfig *tls.Config,
) ProducerOpt {
	return func(opts *producerOpts) error {
		kgoOpts := []kgo.Opt{
			kgo.SeedBrokers(seedBrokers...),
			kgo.DefaultProduceTopicAlways(),
			kgo.DefaultProduceTopic(topic),
			kgo.RequiredAcks(kgo.AllISRAcks()),
			kgo.ProducerBatchCompression(kgo.SnappyCompression()),
		}
		if tlsConfig != nil {
			kgoOpts = append(kgoOpts, kgo.DialTLSConfig(tlsConfig))
		}

		cl, err := kgo.NewClient(kgoOpts...)
		if err != nil {
			return err
		}

		err = retry.Do(ctx, retry.RetryConfig{
			MaxAttempts: 3,
			Backoff:     retry.ExponentialBackoff(500 * time.Millisecond),
		}, func() error {
			return cl.Ping(ctx)
		})
		if err != nil {
			cl.Close()
			return err
		}
		opts.cl = cl
		return nil
	}
}

// ProducerClientInstanceOpt uses an already built client.
func ProducerClientInstanceOpt(cl ProducerClient) ProducerOpt {
	return func(opts *producerOpts) error {
		if cl == nil {
			return errors.New("producer client is nil")
		}
		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func orderStatusChangedToSchemaV1(
	v domain.OrderStatusChanged,
) (s schema.OrderStatusChangedV1) {
	s.OrderID = v.OrderID
	s.PreviousStatus = string(v.PreviousStatus)
	s.Status = string(v.Status)
	s.ChangedAt = v.ChangedAt.UTC().Truncate(time.Millisecond)
	return
}
