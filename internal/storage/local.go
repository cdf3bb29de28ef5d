package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/johanforsgren/stashreview/internal/domain"
	"github.com/johanforsgren/stashreview/internal/logger"
)

const (
	configDir  = ".stashreview"
	configFile = "config.yaml"
)

var ErrProfileNotFound = errors.New("profile not found")

type LocalRepository struct {
	configPath string
	config     *Config
	mu         sync.RWMutex
}

var _ domain.ProfileRepository = (*LocalRepository)(nil)

// DefaultPath is ~/.stashreview/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, configDir, configFile), nil
}

// NewLocalRepository opens the profile store at configPath, or at
// DefaultPath when configPath is empty. A missing file is an empty store.
func NewLocalRepository(configPath string) (*LocalRepository, error) {
	if configPath == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		configPath = p
	}

	repo := &LocalRepository{
		configPath: configPath,
		config:     &Config{Profiles: []domain.Profile{}},
	}

	if err := repo.load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return repo, nil
}

func (r *LocalRepository) Path() string {
	return r.configPath
}

func (r *LocalRepository) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.LogError("PROFILE_LOAD", r.configPath, err)
		}
		return err
	}

	if err := yaml.Unmarshal(data, r.config); err != nil {
		logger.LogError("PROFILE_UNMARSHAL", r.configPath, err)
		return fmt.Errorf("failed to parse %s: %w", r.configPath, err)
	}

	logger.Debug("Profiles loaded from %s", r.configPath)
	return nil
}

func (r *LocalRepository) save() error {
	data, err := yaml.Marshal(r.config)
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.configPath), 0700); err != nil {
		logger.LogError("PROFILE_SAVE", r.configPath, err)
		return err
	}
	if err := os.WriteFile(r.configPath, data, 0600); err != nil {
		logger.LogError("PROFILE_SAVE", r.configPath, err)
		return err
	}

	logger.Debug("Profiles saved to %s", r.configPath)
	return nil
}

func (r *LocalRepository) withActiveFlag(p domain.Profile) domain.Profile {
	p.IsActive = p.Name == r.config.ActiveProfile
	return p
}

func (r *LocalRepository) ListProfiles() ([]domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profiles := make([]domain.Profile, 0, len(r.config.Profiles))
	for _, p := range r.config.Profiles {
		profiles = append(profiles, r.withActiveFlag(p))
	}
	return profiles, nil
}

func (r *LocalRepository) GetProfile(name string) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.config.Profiles {
		if p.Name == name {
			p = r.withActiveFlag(p)
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// SaveProfile adds p or replaces the profile of the same name.
func (r *LocalRepository) SaveProfile(p domain.Profile) error {
	if p.Name == "" {
		return errors.New("profile name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p.IsActive = false
	for i, existing := range r.config.Profiles {
		if existing.Name == p.Name {
			r.config.Profiles[i] = p
			logger.Log("Updating profile %s (%s)", p.Name, p.URL)
			return r.save()
		}
	}

	r.config.Profiles = append(r.config.Profiles, p)
	logger.Log("Adding profile %s (%s)", p.Name, p.URL)
	return r.save()
}

func (r *LocalRepository) DeleteProfile(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.config.Profiles {
		if p.Name == name {
			r.config.Profiles = append(r.config.Profiles[:i], r.config.Profiles[i+1:]...)
			if r.config.ActiveProfile == name {
				r.config.ActiveProfile = ""
			}
			logger.Log("Deleted profile %s", name)
			return r.save()
		}
	}

	return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

func (r *LocalRepository) SetActiveProfile(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.config.Profiles {
		if p.Name == name {
			r.config.ActiveProfile = name
			logger.Log("Active profile is now %s", name)
			return r.save()
		}
	}

	return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// GetActiveProfile returns nil without error when no profile is active.
func (r *LocalRepository) GetActiveProfile() (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.config.ActiveProfile == "" {
		return nil, nil
	}
	for _, p := range r.config.Profiles {
		if p.Name == r.config.ActiveProfile {
			p.IsActive = true
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: active profile %s", ErrProfileNotFound, r.config.ActiveProfile)
}
