package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/talentscout/internal/app"
	"github.com/dmitrijs2005/talentscout/internal/common"
	"github.com/dmitrijs2005/talentscout/internal/cryptox"
)

func (a *App) openComponents(cmd *cobra.Command) (*app.Components, error) {
	logger, err := app.NewLogger(a.config, a.logOutput(cmd))
	if err != nil {
		return nil, err
	}
	return app.Build(cmd.Context(), a.config, logger)
}

func (a *App) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one stored record, decrypted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comps, err := a.openComponents(cmd)
			if err != nil {
				return err
			}
			defer comps.Close()

			c, err := comps.Store.Get(cmd.Context(), args[0])
			if errors.Is(err, common.ErrorNotFound) {
				return fmt.Errorf("record %s not found", args[0])
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(c)
		},
	}
}

func (a *App) newListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			comps, err := a.openComponents(cmd)
			if err != nil {
				return err
			}
			defer comps.Close()

			items, err := comps.Store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tNAME\tPOSITIONS\tTECH STACK")
			for _, s := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.CreatedAt.Format("2006-01-02 15:04"), s.Name, s.DesiredPositions, s.TechStack)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of records")
	return cmd
}

func newGenKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genkey",
		Short: "Print a new encryption key for ENCRYPTION_KEY",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), cryptox.GenerateKey())
			return err
		},
	}
}
