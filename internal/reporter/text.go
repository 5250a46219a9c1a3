package reporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/models"
	"github.com/loryanstrant/HA-CustomComponentMonitor/pkg/config"
)

const (
	textANSIReset = "\x1b[0m"
	textANSIBold  = "\x1b[1m"
)

// WriteText writes a human-readable text report to report.txt and stdout.
func WriteText(report *models.Report, cfg *config.Config) error {
	return writeText(report, cfg, os.Stdout)
}

func writeText(report *models.Report, cfg *config.Config, out io.Writer) error {
	if report == nil {
		return fmt.Errorf("report is nil")
	}
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if out == nil {
		return fmt.Errorf("writer is nil")
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rendered := renderTextReport(report, supportsANSI(out))
	outputPath := filepath.Join(cfg.OutputDir, "report.txt")

	if err := os.WriteFile(outputPath, []byte(rendered), 0644); err != nil {
		return fmt.Errorf("failed to write report.txt: %w", err)
	}

	if _, err := io.WriteString(out, rendered); err != nil {
		return fmt.Errorf("failed to write text report to output: %w", err)
	}

	return nil
}

func renderTextReport(report *models.Report, useANSI bool) string {
	var b strings.Builder

	generatedAt := strings.TrimSpace(report.Timestamp)
	if generatedAt == "" {
		if !report.Metadata.GeneratedAt.IsZero() {
			generatedAt = report.Metadata.GeneratedAt.UTC().Format(time.RFC3339)
		} else {
			generatedAt = "unknown"
		}
	}

	writeTextSectionHeader(&b, "Custom Component Usage Report", useANSI)
	fmt.Fprintf(&b, "Generated: %s\n", generatedAt)
	if dir := strings.TrimSpace(report.Metadata.ConfigDir); dir != "" {
		fmt.Fprintf(&b, "Config directory: %s\n", dir)
	}
	if host := strings.TrimSpace(report.Metadata.HomeAssistant); host != "" {
		fmt.Fprintf(&b, "Home Assistant: %s\n", host)
	}
	b.WriteString("\n")

	writeTextSectionHeader(&b, "Summary", useANSI)
	fmt.Fprintf(&b, "%-20s %8s %8s %8s %13s\n", "KIND", "TOTAL", "USED", "UNUSED", "ACKNOWLEDGED")
	for _, kind := range models.Kinds() {
		usage := report.ByKind(kind)
		fmt.Fprintf(&b, "%-20s %8d %8d %8d %13d\n",
			kindLabel(kind), usage.Total, usage.Used, len(usage.UnusedItems), usage.Acknowledged)
	}
	b.WriteString("\n")

	for _, kind := range models.Kinds() {
		usage := report.ByKind(kind)
		if len(usage.UnusedItems) == 0 {
			continue
		}

		writeTextSectionHeader(&b, "Unused "+kindLabel(kind), useANSI)
		for _, item := range usage.UnusedItems {
			line := item.Identifier
			if item.Name != "" && item.Name != item.Identifier {
				line += " (" + item.Name + ")"
			}
			if item.Version != "" {
				line += " v" + item.Version
			}
			fmt.Fprintf(&b, "- %s\n", line)
			if item.RepositoryURL != "" {
				fmt.Fprintf(&b, "    %s\n", item.RepositoryURL)
			}
		}
		b.WriteString("\n")
	}

	if report.UnusedTotal() == 0 {
		b.WriteString("No unused artifacts detected.\n")
	}

	if len(report.Skipped) > 0 {
		writeTextSectionHeader(&b, "Skipped Records", useANSI)
		for _, skip := range report.Skipped {
			source := skip.Source
			if source == "" {
				source = "(unknown source)"
			}
			fmt.Fprintf(&b, "- %s: %s\n", source, skip.Reason)
		}
	}

	return b.String()
}

func kindLabel(kind models.ArtifactKind) string {
	switch kind {
	case models.KindIntegration:
		return "Integrations"
	case models.KindTheme:
		return "Themes"
	case models.KindFrontendResource:
		return "Frontend Resources"
	}
	return string(kind)
}

func writeTextSectionHeader(b *strings.Builder, title string, useANSI bool) {
	header := title
	if useANSI {
		header = textANSIBold + title + textANSIReset
	}
	fmt.Fprintf(b, "%s\n", header)
	fmt.Fprintf(b, "%s\n", strings.Repeat("-", len(title)))
}

func supportsANSI(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}

	info, err := file.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}
