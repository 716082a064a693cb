package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/IBM/sarama"

	"valpipe/internal/logging"
	"valpipe/internal/value"
	"valpipe/source"
)

// SaramaDriver consumes every partition of the configured topics and emits
// one value per message. Messages of a partition keep their order; the
// interleaving across partitions is arrival order.
type SaramaDriver struct {
	cfg      Config
	consumer sarama.Consumer

	closeOnce sync.Once
}

func (d *SaramaDriver) Configure(raw any) error {
	config, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("kafka-source: expected Config, got %T", raw)
	}
	applyDefaults(&config)
	if err := config.Validate(); err != nil {
		return err
	}
	d.cfg = config

	ver, err := sarama.ParseKafkaVersion(config.Version)
	if err != nil {
		return err
	}
	sc := sarama.NewConfig()
	sc.Version = ver
	sc.Consumer.Return.Errors = true
	if config.TLSEn {
		sc.Net.TLS.Enable = true
	}
	if config.SASLUser != "" {
		sc.Net.SASL.Enable = true
		sc.Net.SASL.User, sc.Net.SASL.Password = config.SASLUser, config.SASLPass
	}

	d.consumer, err = sarama.NewConsumer(config.Brokers, sc)
	return err
}

func (d *SaramaDriver) initialOffset() int64 {
	if d.cfg.StartFrom == "oldest" {
		return sarama.OffsetOldest
	}
	return sarama.OffsetNewest
}

func (d *SaramaDriver) Run(ctx context.Context, emit source.EmitFunc) error {
	if d.consumer == nil {
		return errors.New("kafka-source: not configured")
	}
	ctx, cancel := context.WithCancel(ctx)
	var (
		pcs []sarama.PartitionConsumer
		wg  sync.WaitGroup
	)
	defer func() {
		cancel()
		for _, pc := range pcs {
			pc.AsyncClose()
		}
		wg.Wait()
	}()

	msgs := make(chan *sarama.ConsumerMessage)
	for _, topic := range d.cfg.Topics {
		parts, err := d.consumer.Partitions(topic)
		if err != nil {
			return fmt.Errorf("kafka-source: partitions of %s: %w", topic, err)
		}
		for _, p := range parts {
			pc, err := d.consumer.ConsumePartition(topic, p, d.initialOffset())
			if err != nil {
				return fmt.Errorf("kafka-source: consume %s[%d]: %w", topic, p, err)
			}
			pcs = append(pcs, pc)
			wg.Add(1)
			go func() {
				defer wg.Done()
				forward(ctx, pc, msgs)
			}()
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-msgs:
			if err := emit(d.decode(msg)); err != nil {
				return err
			}
		}
	}
}

func forward(ctx context.Context, pc sarama.PartitionConsumer, out chan<- *sarama.ConsumerMessage) {
	errs := pc.Errors()
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logging.L().Warn("kafka-source: consumer error", "err", err)
		case msg, ok := <-pc.Messages():
			if !ok {
				return
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (d *SaramaDriver) decode(msg *sarama.ConsumerMessage) value.Value {
	span := value.UnknownSpan()
	switch d.cfg.Format {
	case FormatString:
		return value.NewString(string(msg.Value), span)
	case FormatJSONL:
		v, err := value.UnmarshalJSON(msg.Value)
		if err != nil {
			return value.NewError(value.CantConvert,
				fmt.Sprintf("%s[%d]@%d: invalid value: %v", msg.Topic, msg.Partition, msg.Offset, err), span)
		}
		return v
	}
	return value.NewBinary(msg.Value, span)
}

func (d *SaramaDriver) Close() error {
	var err error
	d.closeOnce.Do(func() {
		if d.consumer != nil {
			err = d.consumer.Close()
		}
	})
	return err
}

func init() {
	source.Register("kafka", func() source.Adapter { return &SaramaDriver{} })
}
