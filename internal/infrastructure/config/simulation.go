package config

// SimulationConfig holds the tick loop settings
type SimulationConfig struct {
	// Scenario definitions file (YAML)
	DefinitionsPath string `mapstructure:"definitions_path" validate:"required"`

	// Pacing of the runner; 0 steps as fast as possible
	TicksPerSecond float64 `mapstructure:"ticks_per_second" validate:"min=0"`

	// Stop after this many ticks; 0 runs until interrupted
	MaxTicks int `mapstructure:"max_ticks" validate:"min=0"`

	// Default look-ahead for order book queries
	OrderBookHorizon int `mapstructure:"order_book_horizon" validate:"min=1"`

	// Persist runs, tick summaries, transactions and contracts
	Journal bool `mapstructure:"journal"`
}
