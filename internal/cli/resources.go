package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/birbparty/clusterapi/sdk"
	"github.com/birbparty/clusterapi/sdk/models"
)

type listFunc func(context.Context, *sdk.ListFilter) (*sdk.Response, error)

type idFunc func(context.Context, int) (*sdk.Response, error)

type writeFunc[T any] func(context.Context, *T) (*sdk.Response, error)

// resource describes the CRUD subcommands of one collection. Nil
// functions leave the matching subcommand out.
type resource[T any, PT modelPtr[T]] struct {
	use     string
	aliases []string
	short   string
	listKey string
	key     string

	list   func(*sdk.Client) listFunc
	get    func(*sdk.Client) idFunc
	create func(*sdk.Client) writeFunc[T]
	update func(*sdk.Client) writeFunc[T]
	delete func(*sdk.Client) idFunc
}

func (r resource[T, PT]) command(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: r.use, Aliases: r.aliases, Short: r.short}
	if r.list != nil {
		cmd.AddCommand(r.listCmd(a))
	}
	if r.get != nil {
		cmd.AddCommand(r.getCmd(a))
	}
	if r.create != nil {
		cmd.AddCommand(r.createCmd(a))
	}
	if r.update != nil {
		cmd.AddCommand(r.updateCmd(a))
	}
	if r.delete != nil {
		cmd.AddCommand(r.deleteCmd(a))
	}
	return cmd
}

func (r resource[T, PT]) listCmd(a *app) *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + r.use,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := flags.build()
			if err != nil {
				return err
			}
			return showList[T, PT](a, r.listKey, func() (*sdk.Response, error) {
				return r.list(a.client)(cmd.Context(), filter)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func (r resource[T, PT]) getCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one of the " + r.use,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return show[T, PT](a, r.key, func() (*sdk.Response, error) {
				return r.get(a.client)(cmd.Context(), id)
			})
		},
	}
}

func (r resource[T, PT]) createCmd(a *app) *cobra.Command {
	var in input
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create one of the " + r.use,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := decode[T, PT](cmd, &in)
			if err != nil {
				return err
			}
			return show[T, PT](a, r.key, func() (*sdk.Response, error) {
				return r.create(a.client)(cmd.Context(), m)
			})
		},
	}
	in.register(cmd)
	return cmd
}

// updateCmd fetches the object, applies --file and --set on top and sends
// the result.
func (r resource[T, PT]) updateCmd(a *app) *cobra.Command {
	var in input
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update one of the " + r.use,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			current, err := sdk.Result[*T](r.get(a.client)(cmd.Context(), id))(r.key)
			if err != nil {
				return err
			}
			m, err := patch[T, PT](cmd, &in, current)
			if err != nil {
				return err
			}
			return show[T, PT](a, r.key, func() (*sdk.Response, error) {
				return r.update(a.client)(cmd.Context(), m)
			})
		},
	}
	in.register(cmd)
	return cmd
}

func (r resource[T, PT]) deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete one of the " + r.use,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.done(func() (*sdk.Response, error) {
				return r.delete(a.client)(cmd.Context(), id)
			}, map[string]any{"id": id, "deleted": true})
		},
	}
}

func newClustersCmd(a *app) *cobra.Command {
	return resource[models.Cluster, *models.Cluster]{
		use:     "clusters",
		short:   "Inspect clusters",
		listKey: sdk.KeyClusters,
		key:     sdk.KeyCluster,
		list:    func(c *sdk.Client) listFunc { return c.Clusters().List },
		get:     func(c *sdk.Client) idFunc { return c.Clusters().Get },
	}.command(a)
}

func newVirtualHostsCmd(a *app) *cobra.Command {
	return resource[models.VirtualHost, *models.VirtualHost]{
		use:     "virtual-hosts",
		aliases: []string{"vhosts"},
		short:   "Manage virtual hosts",
		listKey: sdk.KeyVirtualHosts,
		key:     sdk.KeyVirtualHost,
		list:    func(c *sdk.Client) listFunc { return c.VirtualHosts().List },
		get:     func(c *sdk.Client) idFunc { return c.VirtualHosts().Get },
		create:  func(c *sdk.Client) writeFunc[models.VirtualHost] { return c.VirtualHosts().Create },
		update:  func(c *sdk.Client) writeFunc[models.VirtualHost] { return c.VirtualHosts().Update },
		delete:  func(c *sdk.Client) idFunc { return c.VirtualHosts().Delete },
	}.command(a)
}

func newPassengerAppsCmd(a *app) *cobra.Command {
	return resource[models.PassengerApp, *models.PassengerApp]{
		use:     "passenger-apps",
		short:   "Manage Passenger apps",
		listKey: sdk.KeyPassengerApps,
		key:     sdk.KeyPassengerApp,
		list:    func(c *sdk.Client) listFunc { return c.PassengerApps().List },
		get:     func(c *sdk.Client) idFunc { return c.PassengerApps().Get },
		create:  func(c *sdk.Client) writeFunc[models.PassengerApp] { return c.PassengerApps().Create },
		update:  func(c *sdk.Client) writeFunc[models.PassengerApp] { return c.PassengerApps().Update },
		delete:  func(c *sdk.Client) idFunc { return c.PassengerApps().Delete },
	}.command(a)
}

func newDomainRoutersCmd(a *app) *cobra.Command {
	return resource[models.DomainRouter, *models.DomainRouter]{
		use:     "domain-routers",
		short:   "Manage domain routers",
		listKey: sdk.KeyDomainRouters,
		key:     sdk.KeyDomainRouter,
		list:    func(c *sdk.Client) listFunc { return c.DomainRouters().List },
		get:     func(c *sdk.Client) idFunc { return c.DomainRouters().Get },
		update:  func(c *sdk.Client) writeFunc[models.DomainRouter] { return c.DomainRouters().Update },
	}.command(a)
}
