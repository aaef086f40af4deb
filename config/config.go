// Package config reads settings from command line flags and VSIX_
// prefixed environment variables. There is no configuration file.
package config

import (
	"strings"
	"time"

	"github.com/spagettikod/vsixinstaller/marketplace"
	"github.com/spf13/viper"
)

const envPrefix = "VSIX"

type Config struct {
	Install   bool
	Editor    string
	Output    string
	Source    string
	Mirror    string
	Progress  bool
	Verbose   bool
	Debug     bool
	UserAgent string
	Timeout   time.Duration

	QueryURL string
	ItemURL  string

	S3 S3
}

type S3 struct {
	Endpoint        string
	Region          string
	AccessKey       string
	SecretKey       string
	CredentialsFile string
	Profile         string
}

// New returns a viper instance with defaults set and environment lookup
// enabled, key marketplace.query_url is read from VSIX_MARKETPLACE_QUERY_URL.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("install", false)
	v.SetDefault("editor", "")
	v.SetDefault("output", ".")
	v.SetDefault("source", string(marketplace.SourceQuery))
	v.SetDefault("mirror", "")
	v.SetDefault("progress", true)
	v.SetDefault("verbose", false)
	v.SetDefault("debug", false)
	v.SetDefault("user_agent", marketplace.DefaultUserAgent)
	v.SetDefault("timeout", marketplace.DefaultTimeout)
	v.SetDefault("marketplace.query_url", marketplace.DefaultQueryURL)
	v.SetDefault("marketplace.item_url", marketplace.DefaultItemURL)
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.credentials_file", "")
	v.SetDefault("s3.profile", "")
	return v
}

func Get(v *viper.Viper) Config {
	return Config{
		Install:   v.GetBool("install"),
		Editor:    v.GetString("editor"),
		Output:    v.GetString("output"),
		Source:    v.GetString("source"),
		Mirror:    v.GetString("mirror"),
		Progress:  v.GetBool("progress"),
		Verbose:   v.GetBool("verbose"),
		Debug:     v.GetBool("debug"),
		UserAgent: v.GetString("user_agent"),
		Timeout:   v.GetDuration("timeout"),

		QueryURL: v.GetString("marketplace.query_url"),
		ItemURL:  v.GetString("marketplace.item_url"),

		S3: S3{
			Endpoint:        v.GetString("s3.endpoint"),
			Region:          v.GetString("s3.region"),
			AccessKey:       v.GetString("s3.access_key"),
			SecretKey:       v.GetString("s3.secret_key"),
			CredentialsFile: v.GetString("s3.credentials_file"),
			Profile:         v.GetString("s3.profile"),
		},
	}
}
