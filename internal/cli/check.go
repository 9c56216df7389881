package cli

import (
	"fmt"
)

// CheckCmd validates the configuration file and prints the effective settings.
type CheckCmd struct {
	root *Options
}

func (c *CheckCmd) Execute(_ []string) error {
	cfg, err := c.root.loadConfig()
	if err != nil {
		return err
	}
	data, err := cfg.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	_, err = c.root.env.stdout.Write(data)
	return err
}
