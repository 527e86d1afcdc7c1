package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/birbparty/clusterapi/sdk"
	"github.com/birbparty/clusterapi/sdk/models"
)

func newCmsesCmd(a *app) *cobra.Command {
	cmd := resource[models.Cms, *models.Cms]{
		use:     "cmses",
		aliases: []string{"cms"},
		short:   "Manage CMS installations",
		listKey: sdk.KeyCmses,
		key:     sdk.KeyCms,
		list:    func(c *sdk.Client) listFunc { return c.Cmses().List },
		get:     func(c *sdk.Client) idFunc { return c.Cmses().Get },
		create:  func(c *sdk.Client) writeFunc[models.Cms] { return c.Cmses().Create },
		delete:  func(c *sdk.Client) idFunc { return c.Cmses().Delete },
	}.command(a)

	cmd.AddCommand(
		newCmsInstallCmd(a),
		newCmsLoginCmd(a),
		newCmsSetOptionCmd(a),
		newCmsSetConstantCmd(a),
		newCmsSearchReplaceCmd(a),
		newCmsRegenerateSaltsCmd(a),
	)
	return cmd
}

func newCmsInstallCmd(a *app) *cobra.Command {
	var (
		in          input
		callbackURL string
	)
	cmd := &cobra.Command{
		Use:   "install ID",
		Short: "Install the CMS software",
		Long: `Install the CMS software. The installation fields come from --file and --set:
database_name, database_user_name, database_user_password, database_host,
site_title, site_url, locale, version, admin_username, admin_password and
admin_email_address are all required.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			install, err := decode[models.CmsInstallation](cmd, &in)
			if err != nil {
				return err
			}
			return show[models.TaskCollection](a, sdk.KeyTaskCollection, func() (*sdk.Response, error) {
				return a.client.Cmses().Install(cmd.Context(), id, install, callbackURL)
			})
		},
	}
	in.register(cmd)
	cmd.Flags().StringVar(&callbackURL, "callback-url", "", "URL called when the task finishes")
	return cmd
}

func newCmsLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login ID",
		Short: "Print a one-time admin login URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			url, err := sdk.Result[string](a.client.Cmses().OneTimeLogin(cmd.Context(), id))(sdk.KeyURL)
			if err != nil {
				return err
			}
			return a.print(map[string]any{"url": url})
		},
	}
}

func newCmsSetOptionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-option ID NAME VALUE",
		Short: "Set a CMS option",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			option := &models.CmsOption{}
			if err := option.SetName(args[1]); err != nil {
				return err
			}
			value, err := strconv.Atoi(args[2])
			if err != nil {
				return err
			}
			if err := option.SetValue(value); err != nil {
				return err
			}
			return show[models.CmsOption](a, sdk.KeyCmsOption, func() (*sdk.Response, error) {
				return a.client.Cmses().UpdateOption(cmd.Context(), id, option)
			})
		},
	}
}

func newCmsSetConstantCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-constant ID NAME VALUE",
		Short: "Set a constant in the CMS configuration file",
		Long: `Set a constant in the CMS configuration file. VALUE is read as a YAML
scalar: 3 is a number, true a boolean and '"3"' the string 3.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			constant := &models.CmsConfigurationConstant{}
			if err := constant.SetName(args[1]); err != nil {
				return err
			}
			if err := constant.SetValue(parseScalar(args[2])); err != nil {
				return err
			}
			return show[models.CmsConfigurationConstant](a, sdk.KeyCmsConfigurationConstant, func() (*sdk.Response, error) {
				return a.client.Cmses().UpdateConfigurationConstant(cmd.Context(), id, constant)
			})
		},
	}
}

func newCmsSearchReplaceCmd(a *app) *cobra.Command {
	var search, replace, callbackURL string
	cmd := &cobra.Command{
		Use:   "search-replace ID",
		Short: "Replace a string in the CMS database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return show[models.TaskCollection](a, sdk.KeyTaskCollection, func() (*sdk.Response, error) {
				return a.client.Cmses().SearchReplace(cmd.Context(), id, search, replace, callbackURL)
			})
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "string to search for")
	cmd.Flags().StringVar(&replace, "replace", "", "replacement")
	cmd.Flags().StringVar(&callbackURL, "callback-url", "", "URL called when the task finishes")
	_ = cmd.MarkFlagRequired("search")
	_ = cmd.MarkFlagRequired("replace")
	return cmd
}

func newCmsRegenerateSaltsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "regenerate-salts ID",
		Short: "Regenerate the CMS security salts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return show[models.Cms](a, sdk.KeyCms, func() (*sdk.Response, error) {
				return a.client.Cmses().RegenerateSalts(cmd.Context(), id)
			})
		},
	}
}
