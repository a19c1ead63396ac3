package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	gormlogger "gorm.io/gorm/logger"

	"github.com/adminhub/adminhub/cmd/flags"
	"github.com/adminhub/adminhub/pkg/db"
)

func init() {
	f := flags.NewPostgresDatabaseFlags()

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the database schema and seed the relation metadata",
		Run: func(cmd *cobra.Command, args []string) {
			dbc, err := db.New(f.DSN, gormlogger.LogLevel(f.LogLevel))
			if err != nil {
				log.WithError(err).Fatal("could not connect to db")
			}

			if err := dbc.UpdateSchema(); err != nil {
				log.WithError(err).Fatal("could not migrate schema")
			}
			log.Info("schema migrated and relation metadata seeded")
		},
	}

	f.BindFlags(cmd.Flags())
	rootCmd.AddCommand(cmd)
}
