package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/config"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/consumer"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/domain"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/service"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Inspect recorded donation orders",
	}
	cmd.AddCommand(ordersListCmd())
	cmd.AddCommand(ordersTailCmd())
	return cmd
}

func ordersListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the most recent orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DB.Host == "" || cfg.DB.Name == "" {
				return fmt.Errorf("DB_HOST and DB_NAME must be set")
			}
			log := logger.New("museum", cfg.LogLevel)

			repo, err := connectRepository(cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
			defer cancel()

			orders, err := service.NewOrderService(repo, nil, log).RecentOrders(ctx, limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CREATED\tSESSION\tTOTAL\tSTATUS\tPAYMENT")
			for _, o := range orders {
				fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\t%s\n",
					o.CreatedAt.Format("2006-01-02 15:04"), o.CheckoutSessionID,
					formatCents(o.AmountTotal), o.Currency, o.Status, o.PaymentStatus)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum orders to show")
	return cmd
}

func ordersTailCmd() *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Follow order events as the webhook records them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if len(cfg.KafkaBrokers) == 0 {
				return fmt.Errorf("KAFKA_BROKERS must be set")
			}
			log := logger.New("museum", cfg.LogLevel)

			enc := json.NewEncoder(cmd.OutOrStdout())
			c := consumer.NewConsumer(func(_ context.Context, ev domain.OrderRecordedEvent) error {
				return enc.Encode(ev)
			}, log, group, cfg.KafkaBrokers...)
			defer c.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info("following order events", slog.String("group", group))
			c.Run(ctx)
			return nil
		},
	}
	cmd.Flags().StringVar(&group, "group", "museum-orders-tail", "kafka consumer group")
	return cmd
}

func formatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
