package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Seed describes accounts and departments to provision, loaded from YAML:
//
//	users:
//	  - name: alice
//	    password: secret1
//	    role: user
//	    departments:
//	      - name: Sales
//	        password: sales-pw
type Seed struct {
	Users []SeedUser `yaml:"users"`
}

type SeedUser struct {
	Name        string           `yaml:"name"`
	Password    string           `yaml:"password"`
	Role        string           `yaml:"role"`
	Departments []SeedDepartment `yaml:"departments"`
}

type SeedDepartment struct {
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
}

func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", path, err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (*Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("seed: parse: %w", err)
	}
	s.applyDefaults()
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Seed) applyDefaults() {
	for i := range s.Users {
		s.Users[i].Name = strings.TrimSpace(s.Users[i].Name)
		if s.Users[i].Role == "" {
			s.Users[i].Role = "user"
		}
	}
}

func (s *Seed) validate() error {
	var errs []string
	seen := map[string]bool{}
	for i, u := range s.Users {
		if u.Name == "" {
			errs = append(errs, fmt.Sprintf("users[%d].name is required", i))
		} else if seen[u.Name] {
			errs = append(errs, fmt.Sprintf("users[%d].name %q is duplicated", i, u.Name))
		}
		seen[u.Name] = true
		if u.Password == "" {
			errs = append(errs, fmt.Sprintf("users[%d].password is required", i))
		}
		if u.Role != "user" && u.Role != "admin" {
			errs = append(errs, fmt.Sprintf("users[%d].role must be user or admin", i))
		}
		for j, d := range u.Departments {
			if strings.TrimSpace(d.Name) == "" {
				errs = append(errs, fmt.Sprintf("users[%d].departments[%d].name is required", i, j))
			}
			if d.Password == "" {
				errs = append(errs, fmt.Sprintf("users[%d].departments[%d].password is required", i, j))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("seed: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
