// Package catalog holds the static, validated definitions a simulation run is
// built from. A Config is constructed once at startup, validated, and then
// shared read-only by every component; nothing in it changes while ticks run.
package catalog

import (
	"github.com/andrescamacho/supplychain-go/internal/domain/shared"
)

// Config is the complete static definition of a supply chain scenario
type Config struct {
	Resources            []Resource            `yaml:"resources" validate:"required,min=1,dive"`
	Processes            []ProcessDefinition   `yaml:"processes" validate:"dive"`
	RetailProcesses      []RetailProcess       `yaml:"retail_processes" validate:"dive"`
	ProcurementProcesses []ProcurementProcess  `yaml:"procurement_processes" validate:"dive"`
	EntityTypes          []EntityType          `yaml:"entity_types" validate:"required,min=1,dive"`
	Locations            []Location            `yaml:"locations" validate:"required,min=1,dive"`
	Corridors            []Corridor            `yaml:"corridors" validate:"dive"`
	Pricing              Pricing               `yaml:"pricing"`
	Contracts            ContractDefaults      `yaml:"contracts"`
	AI                   Tuning                `yaml:"ai"`
	Scenario             Scenario              `yaml:"scenario"`

	resources   map[string]Resource
	processes   map[string]ProcessDefinition
	retail      map[string]RetailProcess
	procurement map[string]ProcurementProcess
	entityTypes map[string]EntityType
	locations   map[string]Location
}

// Resource is a tradeable good
type Resource struct {
	ID   string `yaml:"id" validate:"required"`
	Name string `yaml:"name"`
	Tier string `yaml:"tier"`
}

// ProcessDefinition describes a continuous production process.
// Startup inputs are paid once per line and are never volume scaled; cycle,
// tick and output quantities are multiplied by the line's volume.
type ProcessDefinition struct {
	ID            string          `yaml:"id" validate:"required"`
	StartupTicks  int             `yaml:"startup_ticks" validate:"min=0"`
	CycleTicks    int             `yaml:"cycle_ticks" validate:"min=1"`
	StartupInputs []shared.Amount `yaml:"startup_inputs" validate:"dive"`
	CycleInputs   []shared.Amount `yaml:"cycle_inputs" validate:"dive"`
	TickInputs    []shared.Amount `yaml:"tick_inputs" validate:"dive"`
	Outputs       []shared.Amount `yaml:"outputs" validate:"required,min=1,dive"`
	MinVolume     float64         `yaml:"min_volume" validate:"gt=0"`
	MaxVolume     float64         `yaml:"max_volume" validate:"gtefield=MinVolume"`
}

// IsSource reports whether the process consumes nothing at all
func (p ProcessDefinition) IsSource() bool {
	return len(p.StartupInputs) == 0 && len(p.CycleInputs) == 0 && len(p.TickInputs) == 0
}

// OutputOf returns the per-cycle output quantity of a resource at volume 1
func (p ProcessDefinition) OutputOf(resource string) float64 {
	total := 0.0
	for _, out := range p.Outputs {
		if out.Resource == resource {
			total += out.Quantity
		}
	}
	return total
}

// PrimaryOutput is the first listed output resource
func (p ProcessDefinition) PrimaryOutput() string {
	if len(p.Outputs) == 0 {
		return ""
	}
	return p.Outputs[0].Resource
}

// RetailProcess lets an entity sell a resource to location demand
type RetailProcess struct {
	ID       string `yaml:"id" validate:"required"`
	Resource string `yaml:"resource" validate:"required"`
}

// ProcurementProcess lets an entity buy a resource from suppliers
type ProcurementProcess struct {
	ID       string `yaml:"id" validate:"required"`
	Resource string `yaml:"resource" validate:"required"`
}

// EntityType is the capability set shared by entities of one kind
type EntityType struct {
	ID           string   `yaml:"id" validate:"required"`
	Storable     []string `yaml:"storable"`
	LineCapacity int      `yaml:"line_capacity" validate:"min=0"`
	Production   []string `yaml:"production"`
	Retail       []string `yaml:"retail"`
	Procurement  []string `yaml:"procurement"`
}

// CanStore reports whether the type may hold the resource
func (t EntityType) CanStore(resource string) bool {
	for _, r := range t.Storable {
		if r == resource {
			return true
		}
	}
	return false
}

// CanRun reports whether the production process is eligible for the type
func (t EntityType) CanRun(processID string) bool {
	for _, p := range t.Production {
		if p == processID {
			return true
		}
	}
	return false
}

// Location is a node of the transport network with its own demand cycle
type Location struct {
	ID             string             `yaml:"id" validate:"required"`
	LocalTransport int                `yaml:"local_transport" validate:"min=0"`
	BaseDemand     map[string]float64 `yaml:"base_demand"`
	Phases         []DemandPhase      `yaml:"phases" validate:"dive"`
	Variance       float64            `yaml:"variance" validate:"min=0,max=1"`
}

// DemandPhase is one step of a location's demand cycle
type DemandPhase struct {
	Name       string  `yaml:"name" validate:"required"`
	Ticks      int     `yaml:"ticks" validate:"min=1"`
	Multiplier float64 `yaml:"multiplier" validate:"min=0"`
}

// Corridor is an undirected weighted edge between two locations.
// Type is carried for display only.
type Corridor struct {
	From string `yaml:"from" validate:"required"`
	To   string `yaml:"to" validate:"required"`
	Cost int    `yaml:"cost" validate:"min=0"`
	Type string `yaml:"type"`
}

// Pricing holds the price tables
type Pricing struct {
	Base               map[string]float64 `yaml:"base"`
	Retail             map[string]float64 `yaml:"retail"`
	StorageCostPerUnit float64            `yaml:"storage_cost_per_unit" validate:"min=0"`
}

// ContractDefaults are applied to every new contract proposal
type ContractDefaults struct {
	WaitTicks             int     `yaml:"wait_ticks" validate:"min=0"`
	PenaltyRate           float64 `yaml:"penalty_rate" validate:"min=0"`
	CancellationThreshold float64 `yaml:"cancellation_threshold" validate:"min=0,max=1"`
	DeliveryInterval      int     `yaml:"delivery_interval" validate:"min=1"`
	Deliveries            int     `yaml:"deliveries" validate:"min=1"`
}

// Tuning holds the constants used by the default decision modules
type Tuning struct {
	OverstockThreshold float64 `yaml:"overstock_threshold" validate:"min=0"`
	ReorderThreshold   float64 `yaml:"reorder_threshold" validate:"min=0"`
	ReorderQuantity    float64 `yaml:"reorder_quantity" validate:"min=0"`
	EmergencyThreshold float64 `yaml:"emergency_threshold" validate:"min=0,ltefield=ReorderThreshold"`
	EmergencyQuantity  float64 `yaml:"emergency_quantity" validate:"min=0"`
	ContractUnits      float64 `yaml:"contract_units" validate:"min=0"`
	ContractPremium    float64 `yaml:"contract_premium" validate:"min=0"`
}

// Scenario describes the initial world
type Scenario struct {
	Name          string       `yaml:"name"`
	Seed          int64        `yaml:"seed"`
	DefaultEntity string       `yaml:"default_entity"`
	Entities      []EntitySeed `yaml:"entities" validate:"required,min=1,dive"`
}

// EntitySeed is the starting data of one entity.
// An empty Controller means the entity is driven by the decision modules.
type EntitySeed struct {
	ID         string              `yaml:"id" validate:"required"`
	Type       string              `yaml:"type" validate:"required"`
	Location   string              `yaml:"location" validate:"required"`
	Money      float64             `yaml:"money"`
	Controller string              `yaml:"controller"`
	Inventory  map[string]float64  `yaml:"inventory"`
	Suppliers  map[string][]string `yaml:"suppliers"`
}

// PlayerController is the controller assigned to the scenario's default entity
const PlayerController = "player"
