package config

// Config holds app configuration
type Config struct {
	// Unpack is the container to extract. Mutually exclusive with Output.
	Unpack string `mapstructure:"unpack"`

	// Output is the container to create from the positional input files.
	Output string `mapstructure:"out"`

	// BufferSize is the payload copy buffer in bytes.
	// Zero selects the default (10 MiB).
	BufferSize int `mapstructure:"buffer_size"`

	DryRun       bool   `mapstructure:"dry_run"`
	LogLevel     string `mapstructure:"log_level"`
	LogOutputDir string `mapstructure:"log_output_dir"`
}
