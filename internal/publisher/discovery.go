package publisher

import (
	"encoding/json"
	"fmt"

	"github.com/loryanstrant/HA-CustomComponentMonitor/internal/models"
)

// discoveryConfig is the Home Assistant MQTT discovery payload for one
// unused-count sensor.
type discoveryConfig struct {
	Name              string          `json:"name"`
	UniqueID          string          `json:"unique_id"`
	StateTopic        string          `json:"state_topic"`
	AttributesTopic   string          `json:"json_attributes_topic"`
	AvailabilityTopic string          `json:"availability_topic"`
	Icon              string          `json:"icon"`
	StateClass        string          `json:"state_class"`
	Device            discoveryDevice `json:"device"`
}

type discoveryDevice struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Manufacturer string   `json:"manufacturer"`
	SWVersion    string   `json:"sw_version,omitempty"`
}

// sensorAttributes mirrors the attribute payload of the original
// companion sensors: counts plus the timestamp of the last scan.
type sensorAttributes struct {
	Total        int      `json:"total"`
	Used         int      `json:"used"`
	Unused       []string `json:"unused"`
	Acknowledged int      `json:"acknowledged"`
	LastScan     string   `json:"last_scan"`
}

type sensorMeta struct {
	slug string
	name string
	icon string
}

var sensors = map[models.ArtifactKind]sensorMeta{
	models.KindIntegration:      {slug: "unused_integrations", name: "Unused Custom Integrations", icon: "mdi:puzzle-outline"},
	models.KindTheme:            {slug: "unused_themes", name: "Unused Themes", icon: "mdi:palette-outline"},
	models.KindFrontendResource: {slug: "unused_frontend_resources", name: "Unused Frontend Resources", icon: "mdi:web"},
}

// PublishDiscovery announces the three unused-count sensors. Discovery
// configs are retained so Home Assistant picks them up on restart.
func (p *Publisher) PublishDiscovery(version string) error {
	device := discoveryDevice{
		Identifiers:  []string{p.cfg.ClientID},
		Name:         "Custom Component Monitor",
		Manufacturer: "ccmon",
		SWVersion:    version,
	}

	for _, kind := range models.Kinds() {
		meta := sensors[kind]
		cfg := discoveryConfig{
			Name:              meta.name,
			UniqueID:          p.cfg.ClientID + "_" + meta.slug,
			StateTopic:        p.stateTopic(kind),
			AttributesTopic:   p.attributesTopic(kind),
			AvailabilityTopic: availabilityTopic(p.cfg),
			Icon:              meta.icon,
			StateClass:        "measurement",
			Device:            device,
		}

		payload, err := json.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal discovery config for %s: %w", kind, err)
		}
		topic := fmt.Sprintf("%s/sensor/%s_%s/config", p.cfg.DiscoveryPrefix, p.cfg.ClientID, meta.slug)
		if err := p.publish(topic, payload, true); err != nil {
			return err
		}
	}

	return nil
}

// PublishReport pushes per-kind states and attributes for one scan.
// The sensor state is the unused count, matching how the companion
// sensors exposed it.
func (p *Publisher) PublishReport(report *models.Report) error {
	for _, kind := range models.Kinds() {
		usage := report.ByKind(kind)

		if err := p.publish(p.stateTopic(kind), fmt.Sprintf("%d", len(usage.UnusedItems)), true); err != nil {
			return err
		}

		attrs := sensorAttributes{
			Total:        usage.Total,
			Used:         usage.Used,
			Unused:       make([]string, 0, len(usage.UnusedItems)),
			Acknowledged: usage.Acknowledged,
			LastScan:     report.Timestamp,
		}
		for _, item := range usage.UnusedItems {
			attrs.Unused = append(attrs.Unused, item.Identifier)
		}

		payload, err := json.Marshal(attrs)
		if err != nil {
			return fmt.Errorf("marshal attributes for %s: %w", kind, err)
		}
		if err := p.publish(p.attributesTopic(kind), payload, true); err != nil {
			return err
		}
	}

	return nil
}

func (p *Publisher) stateTopic(kind models.ArtifactKind) string {
	return p.cfg.TopicPrefix + "/" + sensors[kind].slug + "/state"
}

func (p *Publisher) attributesTopic(kind models.ArtifactKind) string {
	return p.cfg.TopicPrefix + "/" + sensors[kind].slug + "/attributes"
}
