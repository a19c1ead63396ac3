package flags

import (
	"os"

	"github.com/spf13/pflag"
)

// GoogleCloudFlags contain auth and bucket information for Google cloud storage.
type GoogleCloudFlags struct {
	ServiceAccountCredentialFile string
	Bucket                       string
}

func NewGoogleCloudFlags() *GoogleCloudFlags {
	return &GoogleCloudFlags{
		ServiceAccountCredentialFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		Bucket:                       os.Getenv("ADMINHUB_EXPORT_BUCKET"),
	}
}

func (f *GoogleCloudFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.ServiceAccountCredentialFile,
		"google-service-account-credential-file",
		f.ServiceAccountCredentialFile,
		"location of a credential file described by https://cloud.google.com/docs/authentication/production")

	fs.StringVar(&f.Bucket,
		"export-bucket",
		f.Bucket,
		"Google cloud storage bucket receiving history CSV exports")
}
