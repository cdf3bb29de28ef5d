package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/johanforsgren/stashreview/internal/domain"
	"github.com/johanforsgren/stashreview/internal/logger"
	"github.com/johanforsgren/stashreview/internal/provider/common"
	"github.com/johanforsgren/stashreview/internal/provider/stash"
	"github.com/johanforsgren/stashreview/internal/storage"
)

const (
	envURL      = "STASH_URL"
	envLogin    = "STASH_LOGIN"
	envPassword = "STASH_PASSWORD"
	envToken    = "STASH_TOKEN"
	envTimeout  = "STASH_TIMEOUT"
)

type options struct {
	url      string
	login    string
	password string
	token    string
	timeout  time.Duration
	output   string
	logFile  string
	debug    bool
	profile  string
	config   string

	version string
	client  domain.ReviewClient
}

// NewRootCmd builds the stashreview command tree. Flags left unset fall
// back to the STASH_* environment variables.
func NewRootCmd(version string) *cobra.Command {
	opts := &options{version: version}

	cmd := &cobra.Command{
		Use:           "stashreview",
		Short:         "Review pull requests on Bitbucket Server from the command line",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.url, "url", "", "Bitbucket Server base URL [$"+envURL+"]")
	flags.StringVar(&opts.login, "login", "", "login for basic authentication [$"+envLogin+"]")
	flags.StringVar(&opts.password, "password", "", "password for basic authentication [$"+envPassword+"]")
	flags.StringVar(&opts.token, "token", "", "personal access token, takes precedence over login [$"+envToken+"]")
	flags.DurationVar(&opts.timeout, "timeout", stash.DefaultTimeout, "timeout of each HTTP exchange [$"+envTimeout+"]")
	flags.StringVarP(&opts.output, "output", "o", FormatText, "output format: text, json or yaml")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	flags.BoolVar(&opts.debug, "debug", false, "log HTTP exchanges")
	flags.StringVar(&opts.profile, "profile", "", "saved profile to connect with (default: the active profile)")
	flags.StringVar(&opts.config, "config", "", "profile store (default: ~/.stashreview/config.yaml)")

	cmd.AddCommand(
		newUserCmd(opts),
		newPullRequestCmd(opts),
		newCommentsCmd(opts),
		newDiffsCmd(opts),
		newCommentCmd(opts),
		newCommentLineCmd(opts),
		newDeleteCommentCmd(opts),
		newApproveCmd(opts),
		newUnapproveCmd(opts),
		newAddReviewerCmd(opts),
		newTaskCmd(opts),
		newDeleteTaskCmd(opts),
		newProfileCmd(opts),
	)

	return cmd
}

func (o *options) applyEnv(cmd *cobra.Command) error {
	flags := cmd.Flags()
	fromEnv := func(name, env string, dst *string) {
		if !flags.Changed(name) {
			if v, ok := os.LookupEnv(env); ok {
				*dst = v
			}
		}
	}
	fromEnv("url", envURL, &o.url)
	fromEnv("login", envLogin, &o.login)
	fromEnv("password", envPassword, &o.password)
	fromEnv("token", envToken, &o.token)

	if !flags.Changed("timeout") {
		if v, ok := os.LookupEnv(envTimeout); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", common.ErrInvalidConfig, envTimeout, err)
			}
			o.timeout = d
		}
	}
	return nil
}

// applyProfile fills settings still unset after flags and environment from
// the named profile, or from the active one.
func (o *options) applyProfile() error {
	repo, err := storage.NewLocalRepository(o.config)
	if err != nil {
		return err
	}

	var p *domain.Profile
	if o.profile != "" {
		p, err = repo.GetProfile(o.profile)
	} else {
		p, err = repo.GetActiveProfile()
	}
	if err != nil || p == nil {
		return err
	}

	if o.url == "" {
		o.url = p.URL
	}
	if o.login == "" && o.token == "" {
		o.login = p.Login
		o.token = p.Token
	}
	logger.Debug("Using profile %s", p.Name)
	return nil
}

func (o *options) credentials() domain.Credentials {
	if o.token != "" {
		return domain.TokenAuth{Token: o.token}
	}
	return domain.NewCredentials(o.login, o.password)
}

func (o *options) setup(cmd *cobra.Command) error {
	if err := o.applyEnv(cmd); err != nil {
		return err
	}
	if !validFormat(o.output) {
		return fmt.Errorf("unknown output format %q", o.output)
	}
	if err := logger.Init(o.logFile, o.debug); err != nil {
		return err
	}
	if o.client != nil || !needsClient(cmd) {
		return nil
	}
	if err := o.applyProfile(); err != nil {
		return err
	}

	client, err := stash.NewClient(stash.Config{
		BaseURL:       o.url,
		Credentials:   o.credentials(),
		Timeout:       o.timeout,
		ClientVersion: o.version,
	})
	if err != nil {
		return err
	}
	logger.WithFields(map[string]interface{}{
		"url":   client.BaseURL(),
		"login": client.Login(),
	}).Debug("stash client configured")
	o.client = client
	return nil
}

const skipClientAnnotation = "skip-client"

func needsClient(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[skipClientAnnotation]; ok {
			return false
		}
	}
	return true
}

func (o *options) print(cmd *cobra.Command, v interface{}) error {
	return render(cmd.OutOrStdout(), o.output, v)
}
