// Command pkixverify is a small CLI wrapper around package pkix for
// checking certificate hostnames and RFC 5280 name constraints without a
// full TLS handshake.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.WithError(err).Error("pkixverify failed")
		os.Exit(1)
	}
}
