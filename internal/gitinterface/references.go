// Copyright The gitshallow Authors
// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

const (
	RefPrefix       = "refs/"
	BranchRefPrefix = "refs/heads/"
	TagRefPrefix    = "refs/tags/"
	RemoteRefPrefix = "refs/remotes/"
)

var (
	ErrReferenceNotFound = errors.New("requested Git reference not found")
)

// Reference describes a Git reference as enumerated by for-each-ref: its
// fully qualified name, the type of the object it points to, and, for
// annotated tags, the type of the object the tag dereferences to.
type Reference struct {
	Name             string
	TargetKind       string
	DereferencedKind string
}

// ReferenceFilter selects references during enumeration.
type ReferenceFilter func(ref Reference) bool

// CommitReferencesFilter selects references that point to a commit, directly
// or via an annotated tag.
func CommitReferencesFilter(ref Reference) bool {
	return ref.TargetKind == "commit" || ref.DereferencedKind == "commit"
}

// ListReferences enumerates every reference in the repository, in for-each-ref
// order. A nil filter selects all references.
func (r *Repository) ListReferences(filter ReferenceFilter) ([]string, error) {
	output, err := r.executor("for-each-ref", "--format=%(refname)%09%(objecttype)%09%(*objecttype)").executeString()
	if err != nil {
		return nil, fmt.Errorf("unable to enumerate references: %w", err)
	}

	if output == "" {
		return nil, nil
	}

	refNames := []string{}
	for _, line := range strings.Split(output, "\n") {
		if line == "" {
			continue
		}

		// The dereferenced type field is empty for everything but annotated
		// tags, so a line may have fewer than three fields.
		fields := strings.SplitN(line, "\t", 3)
		ref := Reference{Name: fields[0]}
		if len(fields) > 1 {
			ref.TargetKind = fields[1]
		}
		if len(fields) > 2 {
			ref.DereferencedKind = fields[2]
		}

		if filter != nil && !filter(ref) {
			continue
		}

		refNames = append(refNames, ref.Name)
	}

	return refNames, nil
}

// GetReference returns the tip of the specified Git reference.
func (r *Repository) GetReference(refName string) (Hash, error) {
	refTipID, err := r.executor("rev-parse", refName).executeString()
	if err != nil {
		if strings.Contains(err.Error(), "unknown revision or path not in the working tree") {
			return ZeroHash, ErrReferenceNotFound
		}
		return ZeroHash, fmt.Errorf("unable to read reference '%s': %w", refName, err)
	}

	hash, err := NewHash(refTipID)
	if err != nil {
		return ZeroHash, fmt.Errorf("invalid Git ID for reference '%s': %w", refName, err)
	}

	return hash, nil
}

// SetReference sets the specified reference to the provided Git ID.
func (r *Repository) SetReference(refName string, gitID Hash) error {
	_, err := r.executor("update-ref", "--create-reflog", refName, gitID.String()).executeString()
	if err != nil {
		return fmt.Errorf("unable to set Git reference '%s' to '%s': %w", refName, gitID.String(), err)
	}

	return nil
}

// CheckAndSetReference sets the specified reference to the provided Git ID if
// the reference is currently set to `oldGitID`.
func (r *Repository) CheckAndSetReference(refName string, newGitID, oldGitID Hash) error {
	_, err := r.executor("update-ref", "--create-reflog", refName, newGitID.String(), oldGitID.String()).executeString()
	if err != nil {
		return fmt.Errorf("unable to set Git reference '%s' to '%s': %w", refName, newGitID.String(), err)
	}

	return nil
}

// DeleteReferences removes the specified references in a single update-ref
// transaction. Symbolic references are not dereferenced, so deleting a branch
// that HEAD points to removes the branch rather than clearing HEAD. Either
// every deletion applies or none do.
func (r *Repository) DeleteReferences(refNames []string) error {
	if len(refNames) == 0 {
		return nil
	}

	stdIn := &bytes.Buffer{}
	for _, refName := range refNames {
		// The -z input stream terminates both the directive and the omitted
		// old object ID with NUL.
		stdIn.WriteString(fmt.Sprintf("delete %s\x00\x00", refName))
	}

	_, err := r.executor("update-ref", "--no-deref", "--stdin", "-z").withStdIn(stdIn).executeString()
	if err != nil {
		return fmt.Errorf("unable to delete %d references: %w", len(refNames), err)
	}

	return nil
}

// TagReferenceName returns the full reference name for the specified tag in the
// form `refs/tags/<tagName>`.
func TagReferenceName(tagName string) string {
	if strings.HasPrefix(tagName, TagRefPrefix) {
		return tagName
	}

	return fmt.Sprintf("%s%s", TagRefPrefix, tagName)
}

// BranchReferenceName returns the full reference name for the specified branch
// in the form `refs/heads/<branchName>`.
func BranchReferenceName(branchName string) string {
	if strings.HasPrefix(branchName, BranchRefPrefix) {
		return branchName
	}

	return fmt.Sprintf("%s%s", BranchRefPrefix, branchName)
}
