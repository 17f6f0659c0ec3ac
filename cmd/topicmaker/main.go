package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/niksmo/vip-store/config"
	"github.com/niksmo/vip-store/internal/app"
	"github.com/niksmo/vip-store/pkg/sigctx"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	partitions        = 3
	replicationFactor = 3
	cleanupPolicy     = "delete"
	minISR            = "2"
	retention         = "604800000" // 7 days
)

func main() {
	sigCtx, closeApp := sigctx.NotifyContext(context.Background())
	defer closeApp()

	cfg := config.Load()
	if len(cfg.Broker.SeedBrokers) == 0 {
		printFail(errors.New("broker.seed_brokers is empty"))
		return
	}

	cl, err := createClient(cfg)
	if err != nil {
		printFail(err)
		return
	}
	defer cl.Close()

	printStart(cfg)
	defer printComplete(time.Now())

	if err := makeTopics(sigCtx, cl, cfg.Broker.OrderEventsTopic); err != nil {
		printFail(err)
		return
	}
}

func createClient(cfg config.Config) (*kadm.Client, error) {
	opts := []kgo.Opt{kgo.SeedBrokers(cfg.Broker.SeedBrokers...)}

	tlsConfig, err := app.BrokerTLSConfig(cfg)
	if err != nil {
		return nil, err
	}
	if tlsConfig != nil {
		opts = append(opts, kgo.DialTLSConfig(tlsConfig))
	}

	return kadm.NewOptClient(opts...)
}

func makeTopics(ctx context.Context, cl *kadm.Client, topics ...string) error {
	policy, isr, ms := cleanupPolicy, minISR, retention
	topicConfig := map[string]*string{
		"cleanup.policy":      &policy,
		"min.insync.replicas": &isr,
		"retention.ms":        &ms,
	}

	responses, err := cl.CreateTopics(
		ctx,
		partitions,
		replicationFactor,
		topicConfig,
		topics...,
	)
	if err != nil {
		return err
	}

	var errs []error
	for _, res := range responses.Sorted() {
		if res.Err != nil {
			if errors.Is(res.Err, kerr.TopicAlreadyExists) {
				fmt.Printf("topic: %q already exists\n", res.Topic)
			} else {
				errs = append(errs, fmt.Errorf("topic %q: %w", res.Topic, res.Err))
			}
			continue
		}
		fmt.Printf("topic: %q successfully created\n", res.Topic)
	}

	return errors.Join(errs...)
}

func printStart(cfg config.Config) {
	fmt.Printf(`initializing topics...
	- %q

`,
		cfg.Broker.OrderEventsTopic,
	)
}

func printComplete(start time.Time) {
	fmt.Printf("\ncomplete in %s\n", time.Since(start))
}

func printFail(err error) {
	fmt.Printf("failed to create topics: \n%s\n", err)
}
