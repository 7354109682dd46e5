package cli

import (
	"fmt"
	"strconv"
	"strings"

	simCommands "github.com/andrescamacho/supplychain-go/internal/application/simulation/commands"
)

// parseAction reads "entity:kind:target[:quantity[:price[:counterparty]]]"
func parseAction(raw string) (*simCommands.SubmitActionCommand, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 3 || len(parts) > 6 {
		return nil, fmt.Errorf("invalid action %q: want entity:kind:target[:quantity[:price[:counterparty]]]", raw)
	}

	cmd := &simCommands.SubmitActionCommand{
		EntityID: parts[0],
		Kind:     parts[1],
		Target:   parts[2],
	}
	if len(parts) > 3 && parts[3] != "" {
		q, err := strconv.ParseFloat(parts[3], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity in action %q: %w", raw, err)
		}
		cmd.Quantity = q
	}
	if len(parts) > 4 && parts[4] != "" {
		p, err := strconv.ParseFloat(parts[4], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid price in action %q: %w", raw, err)
		}
		cmd.Price = p
	}
	if len(parts) > 5 {
		cmd.Counterparty = parts[5]
	}
	return cmd, nil
}

// submitActions queues every action for the next tick
func (s *session) submitActions(raws []string) error {
	for _, raw := range raws {
		cmd, err := parseAction(raw)
		if err != nil {
			return err
		}
		if _, err := s.mediator.Send(s.ctx, cmd); err != nil {
			return fmt.Errorf("failed to submit action %q: %w", raw, err)
		}
	}
	return nil
}
