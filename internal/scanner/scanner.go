package scanner

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/models"
)

// Directories inside a Home Assistant configuration directory that
// hold custom-component artifacts.
const (
	integrationsDir = "custom_components"
	themesDir       = "themes"
	frontendDir     = "www"
)

// frontendExtensions lists the file types counted as frontend
// resources under www/.
var frontendExtensions = map[string]bool{
	".js":   true,
	".css":  true,
	".html": true,
	".json": true,
}

// autoManagedDirs are www/ subtrees owned by a package manager or
// build tooling; their contents are installed and referenced
// automatically, so reporting them as unused would only produce noise.
var autoManagedDirs = map[string]bool{
	"community":     true,
	"hacsfiles":     true,
	"hacs-frontend": true,
	"node_modules":  true,
}

// Scanner discovers installed custom-component artifacts on disk. It
// only produces raw discovery records; classification happens in the
// engine.
type Scanner struct {
	configDir string
}

// New creates a scanner rooted at a Home Assistant config directory.
func New(configDir string) *Scanner {
	return &Scanner{configDir: configDir}
}

// Scan discovers artifacts of every kind. Missing directories are not
// errors; they yield empty record sets.
func (s *Scanner) Scan() (*models.Snapshot, error) {
	if info, err := os.Stat(s.configDir); err != nil {
		return nil, fmt.Errorf("config directory %q: %w", s.configDir, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("config path %q is not a directory", s.configDir)
	}

	integrations, err := s.ScanIntegrations()
	if err != nil {
		return nil, err
	}
	themes, err := s.ScanThemes()
	if err != nil {
		return nil, err
	}
	frontend, err := s.ScanFrontendResources()
	if err != nil {
		return nil, err
	}

	return &models.Snapshot{
		Integrations: integrations,
		Themes:       themes,
		Frontend:     frontend,
	}, nil
}

// ScanIntegrations walks custom_components/, reading each integration's
// manifest.json. Directories without a manifest, dot directories and
// __pycache__ are skipped. A broken manifest degrades to a record
// carrying only the directory name.
func (s *Scanner) ScanIntegrations() ([]models.RawRecord, error) {
	root := filepath.Join(s.configDir, integrationsDir)
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.RawRecord{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", root, err)
	}

	records := make([]models.RawRecord, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || skipName(entry.Name()) {
			continue
		}

		manifestPath := filepath.Join(root, entry.Name(), "manifest.json")
		record := models.RawRecord{
			Identifier: entry.Name(),
			Source:     filepath.Join(integrationsDir, entry.Name()),
		}
		if info, err := os.Stat(manifestPath); err == nil {
			record.InstalledAt = info.ModTime()
		} else {
			// No manifest means this is not an integration directory.
			continue
		}

		m, err := readManifest(manifestPath)
		if err != nil {
			slog.Warn("could not read manifest",
				slog.String("integration", entry.Name()),
				slog.String("error", err.Error()),
			)
			records = append(records, record)
			continue
		}

		record.DisplayName = m.Name
		record.Version = m.Version
		record.RepositoryURL = m.repositoryURL()
		records = append(records, record)
	}

	return records, nil
}

// ScanThemes collects YAML theme files from themes/, including one
// level of subdirectories. A file themes/<dir>/<name>.yaml is recorded
// with display name "<dir>/<name>".
func (s *Scanner) ScanThemes() ([]models.RawRecord, error) {
	root := filepath.Join(s.configDir, themesDir)
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.RawRecord{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", root, err)
	}

	records := []models.RawRecord{}
	for _, entry := range entries {
		if skipName(entry.Name()) {
			continue
		}

		if !entry.IsDir() {
			records = append(records, s.themeRecords(root, entry, "")...)
			continue
		}

		nested, err := os.ReadDir(filepath.Join(root, entry.Name()))
		if err != nil {
			slog.Warn("could not read theme directory",
				slog.String("dir", entry.Name()),
				slog.String("error", err.Error()),
			)
			continue
		}
		for _, file := range nested {
			if file.IsDir() || skipName(file.Name()) {
				continue
			}
			records = append(records, s.themeRecords(filepath.Join(root, entry.Name()), file, entry.Name())...)
		}
	}

	return records, nil
}

// themeRecords produces records for one theme file. A theme file may
// define several themes as its top-level YAML keys; each becomes its
// own record. Files that fail to parse fall back to a single record
// named after the file stem.
func (s *Scanner) themeRecords(dir string, entry fs.DirEntry, prefix string) []models.RawRecord {
	ext := strings.ToLower(filepath.Ext(entry.Name()))
	if ext != ".yaml" && ext != ".yml" {
		return nil
	}

	stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
	display := stem
	if prefix != "" {
		display = prefix + "/" + stem
	}
	source := filepath.ToSlash(filepath.Join(themesDir, display+ext))

	var installedAt time.Time
	if info, err := entry.Info(); err == nil {
		installedAt = info.ModTime()
	}

	names := themeNames(filepath.Join(dir, entry.Name()))
	if len(names) == 0 {
		names = []string{stem}
	}

	records := make([]models.RawRecord, 0, len(names))
	for _, name := range names {
		records = append(records, models.RawRecord{
			Identifier:  name,
			DisplayName: display,
			Source:      source,
			InstalledAt: installedAt,
		})
	}
	return records
}

// themeNames parses a theme file and returns the theme names it
// defines, in document order. Parse failures return nil; the caller
// falls back to the filename.
func themeNames(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		slog.Debug("could not parse theme file",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil
	}

	mapping := doc.Content[0]
	names := make([]string, 0, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if key := mapping.Content[i].Value; key != "" {
			names = append(names, key)
		}
	}
	return names
}

// ScanFrontendResources walks www/ recursively collecting js/css/html/
// json files. Auto-managed subtrees (HACS, node_modules) and source
// maps are excluded at discovery time rather than matched later.
func (s *Scanner) ScanFrontendResources() ([]models.RawRecord, error) {
	root := filepath.Join(s.configDir, frontendDir)
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return []models.RawRecord{}, nil
		}
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}

	records := []models.RawRecord{}
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path != root && (skipName(entry.Name()) || autoManagedDirs[strings.ToLower(entry.Name())]) {
				return filepath.SkipDir
			}
			return nil
		}
		if skipName(entry.Name()) {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".map" || !frontendExtensions[ext] {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = entry.Name()
		}
		record := models.RawRecord{
			Identifier:  entry.Name(),
			DisplayName: filepath.ToSlash(rel),
			Source:      filepath.ToSlash(filepath.Join(frontendDir, rel)),
		}
		if info, infoErr := entry.Info(); infoErr == nil {
			record.InstalledAt = info.ModTime()
		}
		records = append(records, record)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return records, nil
}

// skipName reports whether a directory entry is hidden or tooling
// noise.
func skipName(name string) bool {
	return strings.HasPrefix(name, ".") || name == "__pycache__"
}
