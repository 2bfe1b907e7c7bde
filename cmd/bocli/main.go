package main

import (
	"encoding/json"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/brightpath-it/backoffice/cmd/backoffice/config"
	"github.com/brightpath-it/backoffice/storage/model"
)

var configFile string
var backends model.Backends

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "bocli",
		Short:             "bocli can help you manage your back office",
		Long:              "bocli can help you manage your back office: admin users, requests and imports of legacy data",
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "the config file to use")
	cmd.AddCommand(newUsersCmd())
	cmd.AddCommand(newRequestsCmd())
	cmd.AddCommand(newImportCmd())
	return cmd
}

func loadConfig(_ *cobra.Command, _ []string) error {
	if err := config.Load(configFile); err != nil {
		return err
	}
	log.Debug("Loaded Config")
	var err error
	backends, err = config.LoadStorageBackends(config.Get())
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
