package main

import (
	"context"
	"fmt"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/config"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/donation"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/payment"
	"github.com/spf13/cobra"
)

func donateCmd() *cobra.Command {
	var (
		form   donation.Form
		direct bool
	)
	cmd := &cobra.Command{
		Use:   "donate",
		Short: "Start a donation checkout and print the payment link",
		Long: `Start a donation checkout and print the payment link.

Examples:
  museum donate --amount 25 --artist "Jaxsen" --title "Blue Hour"
  museum donate --amount 10 --direct`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.ValidateDonate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			var creator donation.Creator = donation.NewClient(donation.ClientConfig{
				BaseURL:      cfg.BackendURL,
				AnonKey:      cfg.BackendAnonKey,
				ContactEmail: cfg.ContactEmail,
				Timeout:      cfg.RequestTimeout,
			})
			if direct {
				creator = payment.NewCheckoutCreator(payment.CheckoutConfig{
					SecretKey: cfg.StripeSecretKey,
					SiteURL:   cfg.SiteURL,
				})
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
			defer cancel()

			out := cmd.OutOrStdout()
			flow := donation.NewFlow(creator, func(url string) {
				fmt.Fprintf(out, "Continue to checkout: %s\n", url)
			}, cfg.ContactEmail)

			if _, err := flow.Submit(ctx, form); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), flow.Message())
				if flow.State() == donation.StateError {
					if contact, cerr := flow.Contact(); cerr == nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "Or donate by email: %s\n", contact)
					}
				}
				return fmt.Errorf("donation not started: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&form.Amount, "amount", "a", "", "donation amount in dollars (minimum 1)")
	cmd.Flags().StringVarP(&form.Email, "email", "e", "", "receipt email")
	cmd.Flags().StringVar(&form.ArtistName, "artist", "", "artist to support")
	cmd.Flags().StringVar(&form.ArtTitle, "title", "", "art piece the donation is for")
	cmd.Flags().BoolVar(&direct, "direct", false, "create the Stripe session directly instead of calling the backend")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
