package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/a-h/pkixverify/pkix"
)

func newCheckConstraintsCommand() *cobra.Command {
	var chainPath, issuerPath, eku string

	cmd := &cobra.Command{
		Use:   "check-constraints",
		Short: "Check a certificate chain against an issuer's RFC 5280 name constraints",
		RunE: func(cmd *cobra.Command, args []string) error {
			entry := logrus.WithFields(logrus.Fields{
				"chain":  chainPath,
				"issuer": issuerPath,
				"eku":    eku,
			})
			pkix.SetTracer(newLogrusTracer(entry))

			issuerCerts, err := loadCertChain(issuerPath)
			if err != nil {
				return err
			}
			raw, ok := findExtensionValue(issuerCerts[0], oidNameConstraints)
			if !ok {
				entry.Info("issuer certificate carries no NameConstraints extension, nothing to check")
				return nil
			}
			nc, err := pkix.NewInput(raw)
			if err != nil {
				return fmt.Errorf("NameConstraints extension of %q: %w", issuerCerts[0].Subject, err)
			}

			chainCerts, err := loadCertChain(chainPath)
			if err != nil {
				return err
			}
			chain, err := backCertChain(chainCerts)
			if err != nil {
				return err
			}

			requiredEKU, err := parseKeyPurpose(eku)
			if err != nil {
				return err
			}

			// chain is ordered end-entity first; firstChild for
			// CheckNameConstraints is the certificate directly issued by
			// the certificate carrying encodedNameConstraints, which is
			// the last (most senior) entry in chain.
			firstChild := chain[len(chain)-1]

			if err := pkix.CheckNameConstraints(nc, firstChild, requiredEKU); err != nil {
				entry.WithError(err).Warn("name constraint check failed")
				return err
			}
			entry.Info("chain satisfies name constraints")
			return nil
		},
	}

	cmd.Flags().StringVar(&chainPath, "chain", "", "path to a PEM file containing the certificate chain below the constrained issuer, end entity first")
	cmd.Flags().StringVar(&issuerPath, "issuer", "", "path to the PEM-encoded certificate carrying the NameConstraints extension")
	cmd.Flags().StringVar(&eku, "eku", "serverAuth", "required extended key usage for CN-ID fallback on the end entity: any, serverAuth, clientAuth, codeSigning, emailProtection, ocspSigning")
	cmd.MarkFlagRequired("chain")
	cmd.MarkFlagRequired("issuer")

	return cmd
}
