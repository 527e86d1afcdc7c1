package cli

import (
	"github.com/spf13/cobra"

	"github.com/birbparty/clusterapi/sdk"
	"github.com/birbparty/clusterapi/sdk/models"
)

func newBorgCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "borg", Short: "Create Borg backups"}
	cmd.AddCommand(newBorgArchiveDatabaseCmd(a))
	return cmd
}

func newBorgArchiveDatabaseCmd(a *app) *cobra.Command {
	var (
		name         string
		databaseID   int
		repositoryID int
		callbackURL  string
	)
	cmd := &cobra.Command{
		Use:   "archive-database",
		Short: "Archive a database into a Borg repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			creation := &models.BorgArchiveDatabaseCreation{}
			if err := creation.SetName(name); err != nil {
				return err
			}
			creation.SetDatabaseID(databaseID)
			creation.SetBorgRepositoryID(repositoryID)
			return show[models.TaskCollection](a, sdk.KeyTaskCollection, func() (*sdk.Response, error) {
				return a.client.BorgArchives().CreateDatabase(cmd.Context(), creation, callbackURL)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "archive name")
	cmd.Flags().IntVar(&databaseID, "database-id", 0, "database to archive")
	cmd.Flags().IntVar(&repositoryID, "borg-repository-id", 0, "target repository")
	cmd.Flags().StringVar(&callbackURL, "callback-url", "", "URL called when the task finishes")
	for _, flag := range []string{"name", "database-id", "borg-repository-id"} {
		_ = cmd.MarkFlagRequired(flag)
	}
	return cmd
}
