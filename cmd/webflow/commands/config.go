package commands

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/livefir/webflow/internal/config"
)

// Config handles configuration management commands
func Config(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("command required: init, show")
	}

	switch args[0] {
	case "init":
		return configInit(args[1:])
	case "show":
		return configShow()
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

// configInit writes a default webflow.yaml to the working directory
func configInit(args []string) error {
	_, flags, err := splitFlags(args)
	if err != nil {
		return err
	}

	if _, err := os.Stat(config.ConfigFileName); err == nil && flags["--force"] != "true" {
		return fmt.Errorf("%s already exists (use --force to overwrite)", config.ConfigFileName)
	}

	if err := config.Save(config.DefaultConfig(), config.ConfigFileName); err != nil {
		return err
	}
	success("Created %s", config.ConfigFileName)
	return nil
}

// configShow prints the effective configuration
func configShow() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	printf("%s", data)
	return nil
}
