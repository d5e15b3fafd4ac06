package migrate

import (
	"github.com/maintdesk/maintdesk/pkg/db"
	"github.com/maintdesk/maintdesk/pkg/log"
	"github.com/spf13/cobra"
)

const (
	usage   = "migrate"
	short   = "Run the maintdesk database migrations"
	long    = "This command migrates the maintdesk database schema and exits"
	example = "maintdesk migrate"
)

var (
	// Cmd is the migrate command.
	Cmd = &cobra.Command{
		Use:     usage,
		Short:   short,
		Long:    long,
		Aliases: []string{"m"},
		Example: example,
		RunE:    migrate,
	}
)

func migrate(cmd *cobra.Command, args []string) error {
	log.Info("connecting to database")
	if err := db.Connect(); err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("database close failure", "error", err)
		}
	}()

	log.Info("migrating database")
	return db.Migrate()
}
