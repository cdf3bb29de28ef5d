package storage

import "github.com/johanforsgren/stashreview/internal/domain"

type Config struct {
	Profiles      []domain.Profile `yaml:"profiles"`
	ActiveProfile string           `yaml:"active_profile,omitempty"`
}
