// Package project persists evidence projects to a YAML file.
package project

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Project is one recorded-evidence workspace.
type Project struct {
	ID        string `yaml:"id" json:"id"`
	Name      string `yaml:"name" json:"name"`
	CreatedAt string `yaml:"created_at" json:"createdAt"`
}

// ErrNotFound is returned when a project id has no entry.
type ErrNotFound struct {
	ID string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("project not found: %s", e.ID)
}

// Store handles persistence of projects to a YAML file. Safe for
// concurrent use.
type Store struct {
	mu       sync.RWMutex
	path     string
	projects map[string]Project
}

type fileFormat struct {
	Projects []Project `yaml:"projects"`
}

// NewStore opens or creates the store at path.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:     path,
		projects: make(map[string]Project),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	var contents fileFormat
	if err := yaml.Unmarshal(data, &contents); err != nil {
		return nil, fmt.Errorf("failed to parse project store: %w", err)
	}
	for _, p := range contents.Projects {
		s.projects[p.ID] = p
	}
	return s, nil
}

// List returns all projects ordered by creation time.
func (s *Store) List() []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]Project, 0, len(s.projects))
	for _, p := range s.projects {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt == all[j].CreatedAt {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt < all[j].CreatedAt
	})
	return all
}

// Get fetches a project by id.
func (s *Store) Get(id string) (Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return Project{}, &ErrNotFound{ID: id}
	}
	return p, nil
}

// Create adds a project with a fresh id and persists the store.
func (s *Store) Create(name string) (Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := Project{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().Format(time.RFC3339),
	}
	s.projects[p.ID] = p

	if err := s.save(); err != nil {
		delete(s.projects, p.ID)
		return Project{}, err
	}
	return p, nil
}

// Delete removes a project by id and persists the store.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return &ErrNotFound{ID: id}
	}
	delete(s.projects, id)

	if err := s.save(); err != nil {
		s.projects[id] = p
		return err
	}
	return nil
}

func (s *Store) save() error {
	all := make([]Project, 0, len(s.projects))
	for _, p := range s.projects {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt == all[j].CreatedAt {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt < all[j].CreatedAt
	})

	data, err := yaml.Marshal(fileFormat{Projects: all})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
