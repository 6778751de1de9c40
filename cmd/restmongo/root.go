package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vinicius-lino-figueiredo/restmongo/internal/config"
	"go.uber.org/zap"
)

type app struct {
	v      *viper.Viper
	file   string
	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:           "restmongo",
		Short:         "REST serializers for MongoDB-style models",
		Long:          "restmongo inspects model metadata, works with ObjectIds and serves models over a REST API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.file, "config", "", "config file (default ./restmongo.yaml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	_ = a.v.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))

	root.AddCommand(newObjectIDCmd(a))
	root.AddCommand(newInspectCmd(a))
	root.AddCommand(newServeCmd(a))
	return root
}

func (a *app) load() error {
	cfg, err := config.Load(a.v, a.file)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if cfg.Verbose {
		a.logger, err = zap.NewDevelopment()
	} else {
		a.logger, err = zap.NewProduction()
	}
	return err
}
