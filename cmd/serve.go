package cmd

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	metricsprometheus "github.com/slok/go-http-metrics/metrics/prometheus"
	"github.com/slok/go-http-metrics/middleware"
	middlewarestd "github.com/slok/go-http-metrics/middleware/std"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	gormlogger "gorm.io/gorm/logger"

	"github.com/adminhub/adminhub/cmd/flags"
	"github.com/adminhub/adminhub/pkg/api"
	"github.com/adminhub/adminhub/pkg/db"
	"github.com/adminhub/adminhub/pkg/gcs"
	"github.com/adminhub/adminhub/pkg/history"
)

type ServerFlags struct {
	DBFlags     *flags.PostgresDatabaseFlags
	GoogleFlags *flags.GoogleCloudFlags
	ListenAddr  string
	MetricsAddr string
}

func NewServerFlags() *ServerFlags {
	return &ServerFlags{
		DBFlags:     flags.NewPostgresDatabaseFlags(),
		GoogleFlags: flags.NewGoogleCloudFlags(),
		ListenAddr:  ":8080",
		MetricsAddr: ":2112",
	}
}

func (f *ServerFlags) BindFlags(fs *pflag.FlagSet) {
	f.DBFlags.BindFlags(fs)
	f.GoogleFlags.BindFlags(fs)
	fs.StringVar(&f.ListenAddr, "listen", f.ListenAddr, "The address to serve the API on (default :8080)")
	fs.StringVar(&f.MetricsAddr, "listen-metrics", f.MetricsAddr, "The address to serve prometheus metrics on (default :2112)")
}

func init() {
	f := NewServerFlags()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the history query and export API",
		Run: func(cmd *cobra.Command, args []string) {
			dbc, err := db.New(f.DBFlags.DSN, gormlogger.LogLevel(f.DBFlags.LogLevel))
			if err != nil {
				log.WithError(err).Fatal("could not connect to db")
			}

			var uploader history.Uploader
			if f.GoogleFlags.Bucket != "" {
				gcsUploader, err := gcs.NewUploader(cmd.Context(), f.GoogleFlags.ServiceAccountCredentialFile, f.GoogleFlags.Bucket)
				if err != nil {
					log.WithError(err).Fatal("could not create gcs uploader")
				}
				uploader = gcsUploader
			} else {
				log.Warn("no export bucket configured, history exports are disabled")
			}

			svc, err := history.NewServiceFromDB(dbc, uploader)
			if err != nil {
				log.WithError(err).Fatal("could not build history service, database may need to be initialized with the migrate command")
			}

			// Serve our metrics endpoint for prometheus to scrape
			go func() {
				http.Handle("/metrics", promhttp.Handler())
				if err := http.ListenAndServe(f.MetricsAddr, nil); err != nil {
					log.WithError(err).Fatal("error serving metrics")
				}
			}()

			mux := http.NewServeMux()
			historyAPI := &api.HistoryAPI{Service: svc}
			historyAPI.Register(mux)

			mdlw := middleware.New(middleware.Config{
				Recorder: metricsprometheus.NewRecorder(metricsprometheus.Config{}),
			})

			log.WithField("listen", f.ListenAddr).Info("serving history API")
			if err := http.ListenAndServe(f.ListenAddr, middlewarestd.Handler("", mdlw, mux)); err != nil {
				log.WithError(err).Fatal("error serving API")
			}
		},
	}

	f.BindFlags(cmd.Flags())
	rootCmd.AddCommand(cmd)
}
