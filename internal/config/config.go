// internal/config/config.go
//
// This package handles configuration and the .jobchain directory structure.
// Every project that runs jobchain gets a .jobchain/ folder in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/jobchain/internal/generator"
	"github.com/kingrea/jobchain/internal/optree"
)

const (
	// JobchainDir is the name of the directory we create in each project
	JobchainDir = ".jobchain"

	// HomeEnv overrides the project directory when no flag is given.
	HomeEnv = "JOBCHAIN_HOME"

	defaultJobsDir   = ".jobchain/jobs"
	defaultTreeDepth = 3
)

const defaultProjectConfigYAML = `# jobchain project configuration
version: 1

# Random job source used when no job set is given.
generator:
  count: 100
  min_time: 0
  max_time: 9
  max_profit: 9   # 0 is kept: every generated job pays nothing
  # seed: 42   # fixed seed; omit for a fresh seed per run

solver:
  # immediate: descend into the option whose own job pays most (default)
  # total: descend into the option with the richest continuation
  policy: immediate
  parallel: false
  parallel_depth: 1
  # max_nodes: 1000000
  verify: false

render:
  tree_depth: 3

jobs:
  dir: .jobchain/jobs
`

// GeneratorConfig mirrors generator.Options plus an optional fixed seed.
// Nil fields take the generator defaults; an explicit 0 is kept.
type GeneratorConfig struct {
	Count     *int   `yaml:"count,omitempty"`
	MinTime   uint   `yaml:"min_time"`
	MaxTime   *uint  `yaml:"max_time,omitempty"`
	MaxProfit *uint  `yaml:"max_profit,omitempty"`
	Seed      *int64 `yaml:"seed,omitempty"`
}

// SolverConfig captures options-tree build settings.
type SolverConfig struct {
	Policy        string `yaml:"policy"`
	Parallel      bool   `yaml:"parallel"`
	ParallelDepth int    `yaml:"parallel_depth,omitempty"`
	MaxNodes      int    `yaml:"max_nodes,omitempty"`
	Verify        bool   `yaml:"verify"`
}

// RenderConfig captures display preferences.
type RenderConfig struct {
	TreeDepth int `yaml:"tree_depth"`
}

// JobsConfig locates named job sets.
type JobsConfig struct {
	Dir string `yaml:"dir"`
}

// ProjectConfig models .jobchain/config.yaml.
type ProjectConfig struct {
	Version   int             `yaml:"version"`
	Generator GeneratorConfig `yaml:"generator"`
	Solver    SolverConfig    `yaml:"solver"`
	Render    RenderConfig    `yaml:"render"`
	Jobs      JobsConfig      `yaml:"jobs"`
}

// Config holds the runtime configuration for jobchain.
type Config struct {
	// ProjectDir is the directory jobchain runs against
	ProjectDir string

	// JobchainProjectDir is ProjectDir/.jobchain
	JobchainProjectDir string

	Project ProjectConfig
}

// ResolveProjectDir picks the project directory: an explicit value first,
// then $JOBCHAIN_HOME, then the working directory.
func ResolveProjectDir(explicit string) (string, error) {
	dir := strings.TrimSpace(explicit)
	if dir == "" {
		dir = strings.TrimSpace(os.Getenv(HomeEnv))
	}
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("config: determine working directory: %w", err)
		}
		dir = cwd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("config: resolve %s: %w", dir, err)
	}
	return abs, nil
}

// InitJobchainDir creates the .jobchain directory structure in projectDir.
//
// Structure created:
// .jobchain/
// ├── config.yaml
// ├── logs/    <- run journal
// ├── runs/    <- persisted run reports
// └── jobs/    <- named job sets (*.yaml, *.go)
func InitJobchainDir(projectDir string) error {
	root := filepath.Join(projectDir, JobchainDir)
	dirs := []string{
		filepath.Join(root, "logs"),
		filepath.Join(root, "runs"),
		filepath.Join(root, "jobs"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return ensureProjectConfig(filepath.Join(root, "config.yaml"))
}

// NewConfig creates a Config populated from projectDir/.jobchain/config.yaml.
// A missing file yields the defaults.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:         projectDir,
		JobchainProjectDir: filepath.Join(projectDir, JobchainDir),
		Project:            defaultProjectConfig(),
	}
	cfg.Project.normalize(projectDir)
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.JobchainProjectDir, "logs")
}

// JournalPath returns the run journal file.
func (c *Config) JournalPath() string {
	return filepath.Join(c.LogsDir(), "journal.log")
}

// RunsDir returns the directory holding run reports
func (c *Config) RunsDir() string {
	return filepath.Join(c.JobchainProjectDir, "runs")
}

// JobsDir returns the directory scanned for named job sets
func (c *Config) JobsDir() string {
	return c.Project.Jobs.Dir
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.JobchainProjectDir, "config.yaml")
}

// GeneratorOptions converts the generator section into generator.Options.
func (c *Config) GeneratorOptions() generator.Options {
	return c.Project.generatorOptions()
}

// Seed returns the configured fixed seed, if any.
func (c *Config) Seed() (int64, bool) {
	if c.Project.Generator.Seed == nil {
		return 0, false
	}
	return *c.Project.Generator.Seed, true
}

// Builder returns an options-tree builder configured from the solver section.
func (c *Config) Builder() (*optree.Builder, error) {
	policy, err := optree.ParsePolicy(c.Project.Solver.Policy)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &optree.Builder{
		Policy:        policy,
		Parallel:      c.Project.Solver.Parallel,
		ParallelDepth: c.Project.Solver.ParallelDepth,
		MaxNodes:      c.Project.Solver.MaxNodes,
	}, nil
}

// Save validates the project config and writes it back to config.yaml.
func (c *Config) Save() error {
	return c.saveProjectConfig()
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	parsed := ProjectConfig{}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(c.ProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	pc := ProjectConfig{Version: 1}
	pc.applyDefaults()
	return pc
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	defaults := generator.DefaultOptions()
	if pc.Generator.Count == nil {
		count := defaults.Count
		pc.Generator.Count = &count
	}
	if pc.Generator.MaxTime == nil {
		maxTime := defaults.MaxTime
		pc.Generator.MaxTime = &maxTime
	}
	if pc.Generator.MaxProfit == nil {
		maxProfit := defaults.MaxProfit
		pc.Generator.MaxProfit = &maxProfit
	}
	if pc.Solver.ParallelDepth == 0 {
		pc.Solver.ParallelDepth = 1
	}
	if pc.Render.TreeDepth == 0 {
		pc.Render.TreeDepth = defaultTreeDepth
	}
	if strings.TrimSpace(pc.Jobs.Dir) == "" {
		pc.Jobs.Dir = defaultJobsDir
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Solver.Policy = strings.ToLower(strings.TrimSpace(pc.Solver.Policy))
	if pc.Solver.Policy == "" {
		pc.Solver.Policy = string(optree.SelectImmediateProfit)
	}
	pc.Jobs.Dir = resolvePath(base, pc.Jobs.Dir)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if err := pc.generatorOptions().Validate(); err != nil {
		return fmt.Errorf("generator: %w", err)
	}
	if _, err := optree.ParsePolicy(pc.Solver.Policy); err != nil {
		return fmt.Errorf("solver.policy: %w", err)
	}
	if pc.Solver.ParallelDepth < 0 {
		return fmt.Errorf("solver.parallel_depth must be >= 0")
	}
	if pc.Solver.MaxNodes < 0 {
		return fmt.Errorf("solver.max_nodes must be >= 0")
	}
	if pc.Render.TreeDepth < 0 {
		return fmt.Errorf("render.tree_depth must be >= 0")
	}
	return nil
}

func (pc *ProjectConfig) generatorOptions() generator.Options {
	opts := generator.DefaultOptions()
	opts.MinTime = pc.Generator.MinTime
	if pc.Generator.Count != nil {
		opts.Count = *pc.Generator.Count
	}
	if pc.Generator.MaxTime != nil {
		opts.MaxTime = *pc.Generator.MaxTime
	}
	if pc.Generator.MaxProfit != nil {
		opts.MaxProfit = *pc.Generator.MaxProfit
	}
	return opts
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0644)
}

func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize(c.ProjectDir)
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.JobchainProjectDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure jobchain dir: %w", err)
	}
	out := c.Project
	if rel, err := filepath.Rel(c.ProjectDir, out.Jobs.Dir); err == nil && !strings.HasPrefix(rel, "..") {
		out.Jobs.Dir = rel
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}
