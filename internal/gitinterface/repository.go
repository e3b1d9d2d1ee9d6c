// Copyright The gitshallow Authors
// SPDX-License-Identifier: Apache-2.0

package gitinterface

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/go-git/go-git/v5"
	gitinterfaceopts "github.com/gitshallow/gitshallow/internal/gitinterface/options/gitinterface"
	"github.com/jonboulle/clockwork"
)

const (
	binary           = "git"
	committerTimeKey = "GIT_COMMITTER_DATE"
	authorTimeKey    = "GIT_AUTHOR_DATE"
)

// ErrGitNotFound indicates that the Git binary is not available on the
// system's PATH.
var ErrGitNotFound = errors.New("unable to find Git binary, is Git installed?")

// Repository is a lightweight wrapper around a Git repository. It stores the
// location of the repository's GIT_DIR.
type Repository struct {
	gitDirPath string
	clock      clockwork.Clock
}

// GetGoGitRepository returns the go-git representation of a repository. We use
// this to inspect repository state that Git does not expose via its plumbing,
// such as the parsed shallow record.
func (r *Repository) GetGoGitRepository() (*git.Repository, error) {
	return git.PlainOpenWithOptions(r.gitDirPath, &git.PlainOpenOptions{DetectDotGit: true})
}

// GetGitDir returns the GIT_DIR path for the repository.
func (r *Repository) GetGitDir() string {
	return r.gitDirPath
}

// LoadRepository returns a Repository instance. By default, the repository is
// discovered from the current working directory, honoring the GIT_DIR
// environment variable when set. WithRepositoryPath overrides discovery with
// an explicit location. LoadRepository also inspects the PATH to ensure Git is
// installed.
func LoadRepository(opts ...gitinterfaceopts.RepositoryOption) (*Repository, error) {
	if _, err := exec.LookPath(binary); err != nil {
		return nil, ErrGitNotFound
	}

	options := &gitinterfaceopts.RepositoryOptions{}
	for _, fn := range opts {
		fn(options)
	}

	repo := &Repository{clock: clockwork.NewRealClock()}

	if options.RepositoryPath != "" {
		gitDirPath, err := repo.executor("-C", options.RepositoryPath, "rev-parse", "--absolute-git-dir").executeString()
		if err != nil {
			return nil, fmt.Errorf("unable to identify GIT_DIR: %w", err)
		}
		repo.gitDirPath = gitDirPath

		return repo, nil
	}

	if envVar := os.Getenv("GIT_DIR"); envVar != "" {
		repo.gitDirPath = envVar
		return repo, nil
	}

	gitDirPath, err := repo.executor("rev-parse", "--git-dir").executeString()
	if err != nil {
		return nil, fmt.Errorf("unable to identify GIT_DIR: %w", err)
	}
	repo.gitDirPath = gitDirPath

	return repo, nil
}

// executor constructs a Git invocation for the repository. The `--git-dir`
// parameter is added automatically once the repository's GIT_DIR is known.
type executor struct {
	r     *Repository
	args  []string
	env   []string
	stdIn io.Reader
}

func (r *Repository) executor(args ...string) *executor {
	return &executor{r: r, args: args}
}

// withEnv adds the specified environment variables for the invocation. The
// command still inherits os.Environ() first.
func (e *executor) withEnv(env ...string) *executor {
	e.env = append(e.env, env...)
	return e
}

// withStdIn sets the contents the invocation receives on standard input.
func (e *executor) withStdIn(stdIn *bytes.Buffer) *executor {
	e.stdIn = stdIn
	return e
}

// executeString runs the command, returning the stdout for successful
// execution as a string, with leading and trailing spaces removed. On failure,
// the command and its stderr are folded into the returned error.
func (e *executor) executeString() (string, error) {
	stdOut, stdErr, err := e.execute()
	if err != nil {
		stdErrContents, newErr := io.ReadAll(stdErr)
		if newErr != nil {
			return "", fmt.Errorf("unable to read stderr contents: %w; original err: %w", newErr, err)
		}
		return "", fmt.Errorf("%w when executing `git %s`: %s", err, strings.Join(e.args, " "), string(stdErrContents))
	}

	stdOutContents, err := io.ReadAll(stdOut)
	if err != nil {
		return "", fmt.Errorf("unable to read stdout contents: %w", err)
	}

	return strings.TrimSpace(string(stdOutContents)), nil
}

// execute runs the command, returning its stdout and stderr.
func (e *executor) execute() (io.Reader, io.Reader, error) {
	args := e.args
	if e.r.gitDirPath != "" {
		args = append([]string{"--git-dir", e.r.gitDirPath}, args...)
	}

	cmd := exec.Command(binary, args...)
	cmd.Env = append(os.Environ(), e.env...)

	if e.stdIn != nil {
		cmd.Stdin = e.stdIn
	}

	var (
		stdOut bytes.Buffer
		stdErr bytes.Buffer
	)

	cmd.Stdout = &stdOut
	cmd.Stderr = &stdErr

	return &stdOut, &stdErr, cmd.Run()
}
