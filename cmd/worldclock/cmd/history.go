package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/spf13/cobra"

	"worldclock/internal/models"
	"worldclock/internal/service"
	"worldclock/pkg/kafkaclient"
)

var historyFollow bool

func init() {
	historyCmd.Flags().BoolVar(&historyFollow, "follow", false, "only print new events instead of replaying the topic")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Prints the session events published to Kafka.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Kafka.Enabled() {
			return errors.New("history needs WORLDCLOCK_KAFKA_BROKER and WORLDCLOCK_KAFKA_TOPIC")
		}
		ctx := cmd.Context()

		start := kafka.FirstOffset
		if historyFollow {
			start = kafka.LastOffset
		}
		consumer, err := kafkaclient.NewKafkaConsumer(kafkaclient.ConsumerConfig{
			Broker:      cfg.Kafka.Broker,
			Topic:       cfg.Kafka.Topic,
			GroupID:     cfg.Kafka.GroupID,
			StartOffset: start,
		}, logger)
		if err != nil {
			return fmt.Errorf("kafka consumer: %w", err)
		}
		defer consumer.Stop()

		logger.Info("reading session events", "broker", cfg.Kafka.Broker, "topic", cfg.Kafka.Topic, "group", cfg.Kafka.GroupID)
		consumer.StartConsuming(ctx)

		it := service.NewIterator[models.Event](consumer, service.DecodeJSON[models.Event], logger)
		w := cmd.OutOrStdout()
		for obj := range it.Objects(ctx) {
			fmt.Fprintln(w, formatEvent(obj.Data))
		}
		return nil
	},
}

func formatEvent(e models.Event) string {
	line := fmt.Sprintf("%s  %-16s  %s", e.At.UTC().Format(time.DateTime), e.Type, e.Label)
	if e.TZ != "" {
		line += "  " + e.TZ
	}
	if e.ImageURL != "" {
		line += "  " + e.ImageURL
	}
	return line
}
