package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/a-h/pkixverify/pkix"
)

func newCheckHostnameCommand() *cobra.Command {
	var certPath, hostname string

	cmd := &cobra.Command{
		Use:   "check-hostname",
		Short: "Check whether a certificate's presented identifiers match a hostname",
		RunE: func(cmd *cobra.Command, args []string) error {
			entry := logrus.WithFields(logrus.Fields{
				"cert":     certPath,
				"hostname": hostname,
			})
			pkix.SetTracer(newLogrusTracer(entry))

			certs, err := loadCertChain(certPath)
			if err != nil {
				return err
			}

			endEntity, err := backCertFromX509(certs[0])
			if err != nil {
				return err
			}
			endEntity.IsEndEntity = true

			hostnameInput, err := pkix.NewInput([]byte(hostname))
			if err != nil {
				return fmt.Errorf("hostname %q: %w", hostname, err)
			}

			if err := pkix.CheckCertHostname(endEntity, hostnameInput); err != nil {
				entry.WithError(err).Warn("hostname check failed")
				return err
			}
			entry.Info("hostname matches certificate")
			return nil
		},
	}

	cmd.Flags().StringVar(&certPath, "cert", "", "path to a PEM-encoded certificate (only the first CERTIFICATE block is used)")
	cmd.Flags().StringVar(&hostname, "hostname", "", "hostname, IPv4 dotted-quad, or IPv6 literal to check against the certificate")
	cmd.MarkFlagRequired("cert")
	cmd.MarkFlagRequired("hostname")

	return cmd
}
