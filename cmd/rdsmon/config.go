package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"fmrds/rds"
)

// Config mirrors the YAML configuration file: where groups come from,
// and the initial correction/progressive settings for PS and RT.
type Config struct {
	Input struct {
		File   string `yaml:"file"`
		Serial struct {
			Port string `yaml:"port"`
			Baud int    `yaml:"baud"`
		} `yaml:"serial"`
	} `yaml:"input"`
	Correction struct {
		PS struct {
			Info string `yaml:"info"`
			Data string `yaml:"data"`
		} `yaml:"ps"`
		RT struct {
			Info string `yaml:"info"`
			Data string `yaml:"data"`
		} `yaml:"rt"`
	} `yaml:"correction"`
	Progressive struct {
		PS bool `yaml:"ps"`
		RT bool `yaml:"rt"`
	} `yaml:"progressive"`
}

// LoadConfig reads and parses the YAML configuration file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &cfg, nil
}

func parseBlockError(s string) (rds.BlockError, error) {
	switch s {
	case "", "none":
		return rds.ErrorNone, nil
	case "small":
		return rds.ErrorSmall, nil
	case "large":
		return rds.ErrorLarge, nil
	default:
		return rds.ErrorNone, fmt.Errorf("unknown correction level %q (want none, small, or large)", s)
	}
}

// Apply pushes the config's correction/progressive settings onto parser.
func (c *Config) Apply(parser *rds.Parser) error {
	psInfo, err := parseBlockError(c.Correction.PS.Info)
	if err != nil {
		return fmt.Errorf("correction.ps.info: %w", err)
	}
	psData, err := parseBlockError(c.Correction.PS.Data)
	if err != nil {
		return fmt.Errorf("correction.ps.data: %w", err)
	}
	rtInfo, err := parseBlockError(c.Correction.RT.Info)
	if err != nil {
		return fmt.Errorf("correction.rt.info: %w", err)
	}
	rtData, err := parseBlockError(c.Correction.RT.Data)
	if err != nil {
		return fmt.Errorf("correction.rt.data: %w", err)
	}

	parser.SetTextCorrection(rds.TextPS, rds.BlockTypeInfo, psInfo)
	parser.SetTextCorrection(rds.TextPS, rds.BlockTypeData, psData)
	parser.SetTextCorrection(rds.TextRT, rds.BlockTypeInfo, rtInfo)
	parser.SetTextCorrection(rds.TextRT, rds.BlockTypeData, rtData)
	parser.SetTextProgressive(rds.TextPS, c.Progressive.PS)
	parser.SetTextProgressive(rds.TextRT, c.Progressive.RT)
	return nil
}
