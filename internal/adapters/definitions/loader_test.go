package definitions_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/supplychain-go/internal/adapters/definitions"
	"github.com/andrescamacho/supplychain-go/internal/domain/catalog"
)

const minimal = `
resources:
  - { id: ore }
processes:
  - id: dig
    cycle_ticks: 1
    outputs: [{ resource: ore, quantity: 1 }]
    min_volume: 1
    max_volume: 2
entity_types:
  - { id: mine, storable: [ore], line_capacity: 1, production: [dig] }
locations:
  - { id: pit }
  - { id: port }
corridors:
  - { from: pit, to: port, cost: 4 }
contracts:
  delivery_interval: 5
  deliveries: 2
scenario:
  name: tiny
  default_entity: m1
  entities:
    - { id: m1, type: mine, location: pit, money: 10 }
`

func TestParse_Minimal(t *testing.T) {
	defs, err := definitions.Parse([]byte(minimal))
	require.NoError(t, err)

	assert.Equal(t, "tiny", defs.Config.Scenario.Name)
	_, ok := defs.Config.Process("dig")
	assert.True(t, ok, "lookups are indexed after validation")

	ticks, err := defs.Network.TransportTime("pit", "port")
	require.NoError(t, err)
	assert.Equal(t, 4, ticks)
}

func TestParse_Failures(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		message string
	}{
		{"empty", "", "empty"},
		{"unknown key", minimal + "\nweather: sunny\n", "weather"},
		{"shape", `
resources: []
entity_types: [{ id: x }]
locations: [{ id: a }]
scenario: { entities: [{ id: e, type: x, location: a }] }
`, "Resources"},
		{"dangling reference", `
resources: [{ id: ore }]
entity_types: [{ id: mine, storable: [gold] }]
locations: [{ id: pit }]
contracts: { delivery_interval: 1, deliveries: 1 }
scenario: { entities: [{ id: e, type: mine, location: pit }] }
`, "gold"},
		{"disconnected", `
resources: [{ id: ore }]
entity_types: [{ id: mine, storable: [ore] }]
locations: [{ id: pit }, { id: island }]
contracts: { delivery_interval: 1, deliveries: 1 }
scenario: { entities: [{ id: e, type: mine, location: pit }] }
`, "network"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := definitions.Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoadFile_SampleScenario(t *testing.T) {
	defs, err := definitions.LoadFile(filepath.Join("..", "..", "..", "configs", "scenario.yaml"))
	require.NoError(t, err)

	cfg := defs.Config
	assert.Equal(t, "bread-chain", cfg.Scenario.Name)
	assert.Len(t, cfg.Scenario.Entities, 7)
	bake, ok := cfg.Process("bake_bread")
	require.True(t, ok)
	assert.Equal(t, 2, bake.StartupTicks)

	route, err := defs.Network.Route("oilfield", "harbour")
	require.NoError(t, err)
	assert.Equal(t, []string{"oilfield", "town", "harbour"}, route.Path)
	assert.Equal(t, 1+4+2+2, route.Ticks)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := definitions.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFile_KeepsControllersAsWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimal), 0o600))

	defs, err := definitions.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "m1", defs.Config.Scenario.DefaultEntity)
	assert.Empty(t, defs.Config.Scenario.Entities[0].Controller, "the default entity is handed to the player when state is built")
	assert.NotEqual(t, catalog.PlayerController, defs.Config.Scenario.Entities[0].Controller)
}
