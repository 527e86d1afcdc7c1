package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/birbparty/clusterapi/internal/queue"
)

func newReportsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "reports", Short: "Affected cluster reports published with --publish"}
	cmd.AddCommand(newReportsWatchCmd(a))
	return cmd
}

func newReportsWatchCmd(a *app) *cobra.Command {
	var consumer string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print affected cluster reports as they arrive",
		Long: `Print affected cluster reports as they arrive. The durable consumer keeps
its position between runs, so reports published while nothing watched are
printed on the next run. NATS is configured with the NATS_* environment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := queue.NewConfigFromEnv()
			if err != nil {
				return err
			}
			if consumer != "" {
				cfg.ConsumerName = consumer
			}
			client, err := queue.NewClient(cfg, a.logger, nil)
			if err != nil {
				return err
			}
			defer client.Close()

			return client.Subscribe(cmd.Context(), func(_ context.Context, msg *queue.ClustersAffectedMessage) error {
				return a.print(map[string]any{
					"id":          msg.ID,
					"timestamp":   msg.Timestamp.Format(time.RFC3339),
					"operation":   msg.Operation,
					"cluster_ids": msg.ClusterIDs,
					"source":      msg.Source,
				})
			})
		},
	}
	cmd.Flags().StringVar(&consumer, "consumer", "", "durable consumer name (default $NATS_CONSUMER_NAME)")
	return cmd
}
