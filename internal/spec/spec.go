// Package spec describes the pipeline file: where values come from, which
// command lines they flow through and where the results go.
package spec

import (
	"gopkg.in/yaml.v3"

	"valpipe/sink/badgerdb"
	"valpipe/sink/kafka"
	"valpipe/sink/stdout"
)

type SinkConfigs struct {
	Stdout stdout.Config   `yaml:"stdout"`
	Kafka  kafka.Config    `yaml:"kafka"`
	Badger badgerdb.Config `yaml:"badger"`
}

type SourceSpec struct {
	Kind   string `yaml:"kind"`   // stdin|kafka
	Format string `yaml:"format"` // lines|jsonl for stdin; binary|string|jsonl for kafka
	Config string `yaml:"config"` // kafka source config file, relative to the pipeline file
}

// StageSpec is one stage. A plain string in YAML is shorthand for
// {run: <line>}.
type StageSpec struct {
	Run         string `yaml:"run"`     // command line, e.g. "into binary"
	Address     string `yaml:"address"` // remote command service; empty runs in process
	TimeoutMS   int    `yaml:"timeout_ms"`
	RetryPolicy struct {
		Attempts  int `yaml:"attempts"`
		BackoffMS int `yaml:"backoff_ms"`
	} `yaml:"retry_policy"`
}

func (s *StageSpec) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		*s = StageSpec{Run: n.Value}
		return nil
	}
	type plain StageSpec
	return n.Decode((*plain)(s))
}

type File struct {
	SchemaVersion string `yaml:"schema_version"`

	Source SourceSpec `yaml:"source"`

	// Ordered stages applied between source and sinks.
	Stages []StageSpec `yaml:"stages"`

	Sinks       []string    `yaml:"sinks"`
	SinkConfigs SinkConfigs `yaml:"sink_configs"`
}
