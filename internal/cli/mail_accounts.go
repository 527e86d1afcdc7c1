package cli

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/birbparty/clusterapi/sdk"
	"github.com/birbparty/clusterapi/sdk/models"
)

func newMailAccountsCmd(a *app) *cobra.Command {
	cmd := resource[models.MailAccount, *models.MailAccount]{
		use:     "mail-accounts",
		short:   "Manage mail accounts",
		listKey: sdk.KeyMailAccounts,
		key:     sdk.KeyMailAccount,
		list:    func(c *sdk.Client) listFunc { return c.MailAccounts().List },
		get:     func(c *sdk.Client) idFunc { return c.MailAccounts().Get },
		create:  func(c *sdk.Client) writeFunc[models.MailAccount] { return c.MailAccounts().Create },
		update:  func(c *sdk.Client) writeFunc[models.MailAccount] { return c.MailAccounts().Update },
		delete:  func(c *sdk.Client) idFunc { return c.MailAccounts().Delete },
	}.command(a)

	cmd.AddCommand(newMailAccountUsagesCmd(a))
	return cmd
}

func newMailAccountUsagesCmd(a *app) *cobra.Command {
	var (
		since time.Duration
		unit  string
	)
	cmd := &cobra.Command{
		Use:   "usages ID",
		Short: "Show the disk usage history of a mail account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !slices.Contains(models.TimeUnits, unit) {
				return fmt.Errorf("invalid --unit %q: expected one of %v", unit, models.TimeUnits)
			}
			from := time.Now().Add(-since).Truncate(time.Second)
			return showList[models.MailAccountUsage](a, sdk.KeyMailAccountUsages, func() (*sdk.Response, error) {
				return a.client.MailAccounts().Usages(cmd.Context(), id, from, models.TimeUnit(unit))
			})
		},
	}
	cmd.Flags().DurationVar(&since, "since", 24*time.Hour, "how far back to report")
	cmd.Flags().StringVar(&unit, "unit", string(models.TimeUnitHourly), "aggregation: hourly|daily|weekly|monthly")
	return cmd
}
