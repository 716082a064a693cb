package config

import (
	"fmt"

	"valpipe/internal/spec"
	kcfg "valpipe/source/kafka"
)

// LoadKafkaSource loads the Kafka source config a pipeline points at. A
// format set on the pipeline source wins over the one in the config file.
func LoadKafkaSource(src spec.SourceSpec, confPath string) (kcfg.Config, error) {
	cfg, err := kcfg.LoadConfig(confPath)
	if err != nil {
		return cfg, fmt.Errorf("kafka config %s: %w", confPath, err)
	}
	if src.Format == "" {
		return cfg, nil
	}
	cfg.Format = src.Format
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("pipeline source: %w", err)
	}
	return cfg, nil
}
