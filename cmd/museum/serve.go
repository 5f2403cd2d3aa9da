package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/config"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/donation"
	museumhttp "github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/http"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/payment"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/poller"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/publisher"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/service"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/pkg/logger"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gallery API, donation endpoints and Stripe webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.ValidateServe(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return runServe(cfg)
		},
	}
}

func runServe(cfg *config.Config) error {
	log := logger.New("museum", cfg.LogLevel)
	slog.SetDefault(log)
	log.Info("museum starting", slog.String("version", Version))

	shutdownTracing := setupTracing("museum")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	repo, err := openRepository(cfg, log)
	if err != nil {
		return err
	}
	defer repo.Close()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 5*time.Second)
	gallery, closeCache := galleryService(startupCtx, cfg, log)
	cancelStartup()
	defer closeCache()

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	if cfg.GalleryRefreshInterval > 0 {
		refresher := poller.NewGalleryRefresher(gallery, cfg.GalleryRefreshInterval, cfg.RequestTimeout, log)
		go refresher.Run(bgCtx)
	}

	var pub publisher.OrderPublisher = publisher.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := publisher.NewKafkaPublisher(cfg.KafkaBrokers...)
		defer kp.Close()
		pub = kp
		log.Info("publishing order events", slog.String("topic", publisher.OrdersTopic))
	}
	orders := service.NewOrderService(repo, pub, log)

	checkout := payment.NewCheckoutCreator(payment.CheckoutConfig{
		SecretKey: cfg.StripeSecretKey,
		SiteURL:   cfg.SiteURL,
	})
	donations := donation.NewClient(donation.ClientConfig{
		BaseURL:      cfg.BackendURL,
		AnonKey:      cfg.BackendAnonKey,
		ContactEmail: cfg.ContactEmail,
		Timeout:      cfg.RequestTimeout,
	})

	var sessions museumhttp.SessionLookup
	if l := payment.NewSessionLookup(cfg.StripeSecretKey); l != nil {
		sessions = l
	}
	if cfg.StripeWebhookSecret == "" {
		log.Warn("STRIPE_WEBHOOK_SECRET not set, webhook deliveries will be rejected")
	}

	router := museumhttp.NewRouter(museumhttp.Handlers{
		Gallery:        museumhttp.NewGalleryHandler(gallery, cfg.RequestTimeout, log),
		Donation:       museumhttp.NewDonationHandler(donations, cfg.ContactEmail, cfg.RequestTimeout, log),
		Success:        museumhttp.NewSuccessHandler(orders, sessions, cfg.ContactEmail, cfg.RequestTimeout, log),
		Webhook:        museumhttp.NewWebhookHandler(payment.NewWebhookVerifier(cfg.StripeWebhookSecret), orders, log),
		CreateDonation: museumhttp.NewCreateDonationFunction(checkout, cfg.BackendAnonKey, cfg.RequestTimeout, log),
		DB:             repo,
	}, cfg.RequestTimeout, log)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           otelhttp.NewHandler(router, "museum"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	log.Info("shutting down museum")
	stopBackground()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("http server shutdown", slog.String("error", err.Error()))
	}
	log.Info("museum stopped")
	return nil
}
