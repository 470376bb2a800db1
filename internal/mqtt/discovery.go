package mqtt

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/agusx1211/noisebox/internal/eq"
	"github.com/agusx1211/noisebox/internal/noise"
)

// Home Assistant MQTT discovery. Each entity config is retained so HA
// picks the device up across restarts.

func (c *Client) publishDiscovery() {
	device := map[string]interface{}{
		"identifiers":  []string{"noisebox"},
		"name":         "Noisebox",
		"manufacturer": "Noisebox",
		"model":        "Noise Machine",
	}

	availability := map[string]interface{}{
		"topic": c.topic + "/availability",
	}

	c.publishEntity("switch", "noisebox_power", map[string]interface{}{
		"name":           "Power",
		"unique_id":      "noisebox_power",
		"device":         device,
		"availability":   availability,
		"command_topic":  c.topic + "/power/set",
		"state_topic":    c.topic + "/state",
		"value_template": "{% if value_json.power %}ON{% else %}OFF{% endif %}",
		"payload_on":     "ON",
		"payload_off":    "OFF",
		"icon":           "mdi:power",
	})

	c.publishEntity("number", "noisebox_volume", map[string]interface{}{
		"name":           "Volume",
		"unique_id":      "noisebox_volume",
		"device":         device,
		"availability":   availability,
		"command_topic":  c.topic + "/volume/set",
		"state_topic":    c.topic + "/state",
		"value_template": "{{ value_json.volume | round(0) }}",
		"min":            0,
		"max":            100,
		"step":           1,
		"icon":           "mdi:volume-high",
	})

	kindOptions := make([]string, len(noise.Kinds))
	for i, k := range noise.Kinds {
		kindOptions[i] = string(k)
	}
	c.publishEntity("select", "noisebox_noise", map[string]interface{}{
		"name":           "Noise Color",
		"unique_id":      "noisebox_noise",
		"device":         device,
		"availability":   availability,
		"command_topic":  c.topic + "/noise/set",
		"state_topic":    c.topic + "/state",
		"value_template": "{{ value_json.noiseType }}",
		"options":        kindOptions,
		"icon":           "mdi:waveform",
	})

	bands := []struct {
		id   string
		name string
		path string
	}{
		{"noisebox_eq_low", "EQ Low (320 Hz)", "low"},
		{"noisebox_eq_mid", "EQ Mid (1 kHz)", "mid"},
		{"noisebox_eq_high", "EQ High (3.2 kHz)", "high"},
	}
	for _, band := range bands {
		c.publishEntity("number", band.id, map[string]interface{}{
			"name":                band.name,
			"unique_id":           band.id,
			"device":              device,
			"availability":        availability,
			"command_topic":       fmt.Sprintf("%s/eq/%s/set", c.topic, band.path),
			"state_topic":         c.topic + "/state",
			"value_template":      fmt.Sprintf("{{ value_json.eq.%s }}", band.path),
			"min":                 -eq.MaxGainDB,
			"max":                 eq.MaxGainDB,
			"step":                0.5,
			"unit_of_measurement": "dB",
			"icon":                "mdi:equalizer",
		})
	}
}

func (c *Client) publishEntity(component, id string, cfg map[string]interface{}) {
	data, err := json.Marshal(cfg)
	if err != nil {
		c.log.Error("marshaling discovery config", zap.String("entity", id), zap.Error(err))
		return
	}
	topic := fmt.Sprintf("homeassistant/%s/%s/config", component, id)
	c.client.Publish(topic, 0, true, data)
}
