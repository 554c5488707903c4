package pkix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPresentedIDConformsToConstraintsPermittedDNSName(t *testing.T) {
	nc := mustInput(t, nameConstraintsExtension(
		[][]byte{generalSubtree(generalNameDNS("example.com"))},
		nil,
	))

	err := CheckPresentedIDConformsToConstraints(DNSName, input(t, "www.example.com"), nc)
	assert.NoError(t, err)

	err = CheckPresentedIDConformsToConstraints(DNSName, input(t, "www.evil.com"), nc)
	assert.ErrorIs(t, err, ErrNotInNameSpace)
}

func TestCheckPresentedIDConformsToConstraintsIgnoresOtherTypes(t *testing.T) {
	// A dNSName-only permittedSubtrees list imposes no constraint on an
	// iPAddress presented ID.
	nc := mustInput(t, nameConstraintsExtension(
		[][]byte{generalSubtree(generalNameDNS("example.com"))},
		nil,
	))

	err := CheckPresentedIDConformsToConstraints(IPAddress, mustInput(t, []byte{192, 0, 2, 1}), nc)
	assert.NoError(t, err)
}

func TestCheckPresentedIDConformsToConstraintsExcludedDirectoryNameStrictness(t *testing.T) {
	// An empty excluded directoryName base forbids any non-empty
	// presented directoryName outright.
	nc := mustInput(t, nameConstraintsExtension(
		nil,
		[][]byte{generalSubtree(generalNameDirectory(subjectName()))},
	))

	presented := mustInput(t, subjectName(tlv(tagSET, []byte("org"))))
	err := CheckPresentedIDConformsToConstraints(DirectoryName, presented, nc)
	assert.ErrorIs(t, err, ErrNotInNameSpace)
}

func TestCheckPresentedIDConformsToConstraintsExcludedDirectoryNameEmptyPresented(t *testing.T) {
	nc := mustInput(t, nameConstraintsExtension(
		nil,
		[][]byte{generalSubtree(generalNameDirectory(subjectName()))},
	))

	empty := mustInput(t, subjectName())
	err := CheckPresentedIDConformsToConstraints(DirectoryName, empty, nc)
	assert.ErrorIs(t, err, ErrNotInNameSpace)
}

func TestCheckPresentedIDConformsToConstraintsRejectsEmptyNameConstraints(t *testing.T) {
	nc := mustInput(t, tlv(tagSEQUENCE, nil))
	err := CheckPresentedIDConformsToConstraints(DNSName, input(t, "example.com"), nc)
	assert.ErrorIs(t, err, ErrBadDER)
}

func TestCheckPresentedIDConformsToConstraintsRejectsEmptySubtrees(t *testing.T) {
	nc := mustInput(t, tlv(tagSEQUENCE, tlv(tagPermittedSubtrees, nil)))
	err := CheckPresentedIDConformsToConstraints(DNSName, input(t, "example.com"), nc)
	assert.ErrorIs(t, err, ErrBadDER)
}

func TestCheckPresentedIDConformsToConstraintsRfc822NameUnimplemented(t *testing.T) {
	nc := mustInput(t, nameConstraintsExtension(
		[][]byte{generalSubtree(tlv(byte(Rfc822Name), []byte("example.com")))},
		nil,
	))

	err := CheckPresentedIDConformsToConstraints(Rfc822Name, input(t, "user@example.com"), nc)
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, FatalLibraryFailure, e.Kind)
}

func TestCheckPresentedIDConformsToConstraintsMultiplePermittedRequiresOneMatch(t *testing.T) {
	nc := mustInput(t, nameConstraintsExtension(
		[][]byte{
			generalSubtree(generalNameDNS("example.com")),
			generalSubtree(generalNameDNS("example.net")),
		},
		nil,
	))

	assert.NoError(t, CheckPresentedIDConformsToConstraints(DNSName, input(t, "www.example.net"), nc))
	assert.ErrorIs(t, CheckPresentedIDConformsToConstraints(DNSName, input(t, "www.example.org"), nc), ErrNotInNameSpace)
}
