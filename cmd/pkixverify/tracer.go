package main

import (
	"github.com/sirupsen/logrus"

	"github.com/a-h/pkixverify/pkix"
)

// logrusTracer adapts pkix.Tracer to logrus, so the matching engine's
// diagnostic messages (which constraint rejected a name, which SAN type
// was found) flow through the same structured logger as the rest of the
// CLI, at debug level so a normal run stays quiet.
type logrusTracer struct {
	entry *logrus.Entry
}

func newLogrusTracer(entry *logrus.Entry) pkix.Tracer {
	return &logrusTracer{entry: entry}
}

func (t *logrusTracer) Tracef(format string, args ...any) {
	t.entry.Debugf(format, args...)
}
