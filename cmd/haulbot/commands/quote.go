package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nurpe/haulbot/internal/catalog"
	"github.com/nurpe/haulbot/internal/model"
	"github.com/nurpe/haulbot/internal/pricing"
	"github.com/nurpe/haulbot/internal/repository"
	"github.com/nurpe/haulbot/internal/service"
)

func quoteCmd() *cobra.Command {
	var (
		origin   string
		quantity int
	)
	cmd := &cobra.Command{
		Use:   "quote [commodity] [destination]",
		Short: "Price a delivery against the local catalog",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(cfg.Catalog.CommoditiesPath, cfg.Catalog.SystemsPath, log)
			if err != nil {
				return err
			}
			contracts := service.NewContractService(repository.NewContractStore(), pricing.NewEngine(cfg.Pricing), cat, cat, cfg.Contracts, log)

			quote, err := contracts.RequestQuote(cmd.Context(), service.QuoteRequest{
				Commodity:   args[0],
				Quantity:    quantity,
				Origin:      origin,
				Destination: args[1],
			})
			if err != nil {
				return err
			}
			printQuote(cmd.OutOrStdout(), quote)
			return nil
		},
	}
	cmd.Flags().StringVar(&origin, "from", "", "origin system (default nearest supply hub)")
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "quantity in tons")
	return cmd
}

func printQuote(w io.Writer, q model.Quote) {
	fmt.Fprintf(w, "%d t %s: %s -> %s (%.2f ly, ~%dh)\n", q.Quantity, q.Commodity, q.Origin, q.Destination, q.DistanceLy, q.EstimatedHours)
	fmt.Fprintf(w, "  base cost     %14s CR\n", q.BaseCost.StringFixed(2))
	fmt.Fprintf(w, "  risk premium  %14s CR\n", q.RiskPremium.StringFixed(2))
	fmt.Fprintf(w, "  fuel          %14s CR\n", q.FuelCost.StringFixed(2))
	if q.LongHaul() {
		fmt.Fprintf(w, "  long haul     %14s CR\n", q.TimeSurcharge.StringFixed(2))
	}
	fmt.Fprintf(w, "  total         %14s CR\n", q.Total.String())
}
