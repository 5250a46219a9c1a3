package reporter

import (
	"fmt"

	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/models"
	"github.com/loryanstrant/HA-CustomComponentMonitor/pkg/config"
)

// Reporter interface for generating reports
type Reporter interface {
	Generate(report *models.Report) error
}

// reporter implements the Reporter interface
type reporter struct {
	config *config.Config
}

// New creates a new reporter instance
func New(cfg *config.Config) Reporter {
	return &reporter{
		config: cfg,
	}
}

// Generate writes the report in the configured format. JSON always goes
// to the output directory; the text format additionally prints to
// stdout.
func (r *reporter) Generate(report *models.Report) error {
	switch r.config.Format {
	case "", config.FormatJSON:
		return WriteJSON(report, r.config)
	case config.FormatText:
		if err := WriteJSON(report, r.config); err != nil {
			return err
		}
		return WriteText(report, r.config)
	default:
		return fmt.Errorf("unsupported report format: %s", r.config.Format)
	}
}
