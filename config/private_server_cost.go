package config

import (
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
)

// PrivateServerCost models the two shapes the field accepts: the literal
// string "disabled", or a non-negative Robux price. Zero is a valid price
// and means free private servers, which is distinct from disabled.
type PrivateServerCost struct {
	Disabled bool
	Price    int64
}

func (c *PrivateServerCost) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return validationError("private-server-cost must be \"disabled\" or a non-negative price", nil)
	}
	if strings.EqualFold(strings.TrimSpace(value.Value), "disabled") {
		*c = PrivateServerCost{Disabled: true}
		return nil
	}
	price, err := strconv.ParseInt(strings.TrimSpace(value.Value), 10, 64)
	if err != nil {
		return validationError("private-server-cost must be \"disabled\" or a non-negative price", err)
	}
	if price < 0 {
		return validationError("private-server-cost cannot be negative", nil)
	}
	*c = PrivateServerCost{Price: price}
	return nil
}

func (c PrivateServerCost) MarshalYAML() (any, error) {
	if c.Disabled {
		return "disabled", nil
	}
	return c.Price, nil
}

func (c PrivateServerCost) String() string {
	if c.Disabled {
		return "disabled"
	}
	return strconv.FormatInt(c.Price, 10)
}
