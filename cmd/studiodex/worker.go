package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	kafkaTransport "github.com/kailas-cloud/studiodex/internal/transport/kafka"
)

func newWorkerCmd(opts *rootOptions) *cobra.Command {
	var adminPort int

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Apply studio change events from Kafka to the live index",
		Long: `Consumes studio change events, folds them into batched updates of the live
index and commits offsets once a batch was applied. Deploy separately from serve.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(ctx context.Context, a *app) error {
				if !a.cfg.Kafka.Enabled() {
					return errors.New("worker requires kafka.brokers and kafka.topic")
				}
				if adminPort > 0 {
					a.cfg.Admin.Port = adminPort
				}

				reader := kafkaTransport.NewReader(a.cfg.Kafka)
				defer func() {
					if err := reader.Close(); err != nil {
						a.logger.Warn("close kafka reader", zap.Error(err))
					}
				}()

				consumer := kafkaTransport.NewConsumer(reader, &liveUpdater{index: a.indexer, ready: a.handle}, a.logger).
					WithBatch(a.cfg.Kafka.BatchSize, time.Duration(a.cfg.Kafka.FlushMs)*time.Millisecond)

				a.logger.Info("worker: starting Kafka consumer",
					zap.Strings("brokers", a.cfg.Kafka.Brokers),
					zap.String("group", a.cfg.Kafka.GroupID),
					zap.String("topic", a.cfg.Kafka.Topic),
				)

				g, ctx := errgroup.WithContext(ctx)
				g.Go(func() error { return consumer.Run(ctx) })
				g.Go(func() error { return a.runAdmin(ctx) })
				return g.Wait()
			})
		},
	}
	cmd.Flags().IntVar(&adminPort, "admin-port", 0, "admin listener port (0 = config)")
	return cmd
}

// liveIndex is the part of the indexer the worker drives.
type liveIndex interface {
	Attach(ctx context.Context) (bool, error)
	UpdateByID(ctx context.Context, ids []string) (int, error)
}

// liveUpdater attaches to the index lazily, since serve may promote the first
// build after the worker started.
type liveUpdater struct {
	index liveIndex
	ready interface{ Ready() bool }
}

func (u *liveUpdater) UpdateByID(ctx context.Context, ids []string) (int, error) {
	if !u.ready.Ready() {
		if _, err := u.index.Attach(ctx); err != nil {
			return 0, err
		}
	}
	return u.index.UpdateByID(ctx, ids)
}
