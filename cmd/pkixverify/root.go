package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var logLevel string

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pkixverify",
		Short:         "Check certificate hostnames and name constraints outside of a TLS handshake",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logrus.SetLevel(level)
			logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: trace, debug, info, warn, error")

	cmd.AddCommand(newCheckHostnameCommand())
	cmd.AddCommand(newCheckConstraintsCommand())

	return cmd
}
