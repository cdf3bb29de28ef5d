package cli

import (
	"github.com/spf13/cobra"

	"github.com/johanforsgren/stashreview/internal/domain"
	"github.com/johanforsgren/stashreview/internal/storage"
)

func newProfileCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "profile",
		Short:       "Manage saved server connections",
		Annotations: map[string]string{skipClientAnnotation: "true"},
	}

	save := &cobra.Command{
		Use:   "save NAME",
		Short: "Save --url, --login and --token under NAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := storage.NewLocalRepository(opts.config)
			if err != nil {
				return err
			}
			p := domain.Profile{Name: args[0], URL: opts.url, Login: opts.login, Token: opts.token}
			if err := repo.SaveProfile(p); err != nil {
				return err
			}
			return opts.print(cmd, actionResult{Action: "profile saved", Target: p.Name})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := storage.NewLocalRepository(opts.config)
			if err != nil {
				return err
			}
			profiles, err := repo.ListProfiles()
			if err != nil {
				return err
			}
			return opts.print(cmd, profiles)
		},
	}

	use := &cobra.Command{
		Use:   "use NAME",
		Short: "Make NAME the active profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := storage.NewLocalRepository(opts.config)
			if err != nil {
				return err
			}
			if err := repo.SetActiveProfile(args[0]); err != nil {
				return err
			}
			return opts.print(cmd, actionResult{Action: "active profile", Target: args[0]})
		},
	}

	remove := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a saved profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := storage.NewLocalRepository(opts.config)
			if err != nil {
				return err
			}
			if err := repo.DeleteProfile(args[0]); err != nil {
				return err
			}
			return opts.print(cmd, actionResult{Action: "profile deleted", Target: args[0]})
		},
	}

	cmd.AddCommand(save, list, use, remove)
	return cmd
}
