package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/meltgauge/internal/config"
	errs "github.com/matzehuels/meltgauge/pkg/errors"
	"github.com/matzehuels/meltgauge/pkg/events"
	"github.com/matzehuels/meltgauge/pkg/gauge"
	"github.com/matzehuels/meltgauge/pkg/store"
	"github.com/matzehuels/meltgauge/pkg/tank"
)

func (c *CLI) tankCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tank",
		Short: "Manage stored tanks",
		Long:  `Manage the tanks kept in the configured store.`,
	}

	cmd.AddCommand(c.tankPutCommand())
	cmd.AddCommand(c.tankGetCommand())
	cmd.AddCommand(c.tankListCommand())
	cmd.AddCommand(c.tankRemoveCommand())
	cmd.AddCommand(c.tankFillCommand())
	cmd.AddCommand(c.tankDrainCommand())
	cmd.AddCommand(c.tankClickCommand())

	return cmd
}

// withStore loads the config, opens the store, runs fn and closes the store.
func (c *CLI) withStore(ctx context.Context, fn func(config.Config, store.Store) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	s, err := c.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(cfg, s)
}

func (c *CLI) tankPutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "put <file.toml>",
		Short: "Create or replace a tank from a TOML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := config.LoadTank(args[0])
			if err != nil {
				return err
			}
			return c.withStore(cmd.Context(), func(_ config.Config, s store.Store) error {
				if err := s.Put(cmd.Context(), t); err != nil {
					return err
				}
				printSuccess("Stored tank %s", StyleHighlight.Render(t.ID))
				return nil
			})
		},
	}
}

func (c *CLI) tankGetCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a tank",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(_ config.Config, s store.Store) error {
				t, err := s.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					data, err := json.MarshalIndent(t, "", "  ")
					if err != nil {
						return err
					}
					fmt.Println(string(data))
					return nil
				}
				printTank(t)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the tank as JSON")
	return cmd
}

func (c *CLI) tankListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored tanks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(_ config.Config, s store.Store) error {
				ids, err := s.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(ids) == 0 {
					printInfo("No tanks stored")
					return nil
				}
				for _, id := range ids {
					fmt.Println(id)
				}
				return nil
			})
		},
	}
}

func (c *CLI) tankRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Remove a tank",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(_ config.Config, s store.Store) error {
				if err := s.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				printSuccess("Removed tank %s", StyleHighlight.Render(args[0]))
				return nil
			})
		},
	}
}

func (c *CLI) tankFillCommand() *cobra.Command {
	var color string
	var temperature int
	cmd := &cobra.Command{
		Use:   "fill <id> <fluid> <amount>",
		Short: "Add fluid to a tank",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			return c.updateTank(cmd.Context(), args[0], func(t *tank.Tank) error {
				accepted := t.Fill(tank.Fluid{Name: args[1], Amount: amount, Color: color, Temperature: temperature})
				if accepted < amount {
					printWarning("Tank full: accepted %d of %d mB", accepted, amount)
				} else {
					printSuccess("Filled %d mB of %s", accepted, gauge.DisplayName(args[1]))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&color, "color", "", "fluid colour as #rrggbb")
	cmd.Flags().IntVar(&temperature, "temperature", 0, "fluid temperature in K")
	return cmd
}

func (c *CLI) tankDrainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "drain <id> <fluid> <amount>",
		Short: "Remove fluid from a tank",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			return c.updateTank(cmd.Context(), args[0], func(t *tank.Tank) error {
				drained := t.Drain(args[1], amount)
				if drained == 0 {
					return errs.New(errs.ErrCodeNotFound, "tank %s holds no %s", t.ID, args[1])
				}
				printSuccess("Drained %d mB of %s", drained, gauge.DisplayName(args[1]))
				return nil
			})
		},
	}
}

// tankClickCommand sends a click through the configured transport, as the
// gauge would.
func (c *CLI) tankClickCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "click <id> <index>",
		Short: "Move fluid <index> to the bottom via the click transport",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return errs.New(errs.ErrCodeInvalidIndex, "index %q is not an integer", args[1])
			}
			return c.withStore(cmd.Context(), func(cfg config.Config, s store.Store) error {
				sender, closeSender, err := newSender(cfg, s)
				if err != nil {
					return err
				}
				defer closeSender()

				click := events.NewClick(args[0], index)
				if err := sender.Send(cmd.Context(), click); err != nil {
					return err
				}
				printSuccess("Sent click %s", StyleDim.Render(click.ID.String()))
				return nil
			})
		},
	}
}

// updateTank loads id, applies fn and saves the result.
func (c *CLI) updateTank(ctx context.Context, id string, fn func(*tank.Tank) error) error {
	return c.withStore(ctx, func(_ config.Config, s store.Store) error {
		t, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(t); err != nil {
			return err
		}
		return s.Put(ctx, t)
	})
}

func parseAmount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errs.New(errs.ErrCodeInvalidInput, "amount %q is not a positive integer", s)
	}
	return n, nil
}

// printTank prints a tank summary followed by one line per fluid, top first.
func printTank(t *tank.Tank) {
	fmt.Println(StyleTitle.Render(t.ID))
	printKeyValue("Capacity", fmt.Sprintf("%d mB", t.Capacity))
	printKeyValue("Used", fmt.Sprintf("%d mB", t.Contained()))
	for i := len(t.Fluids) - 1; i >= 0; i-- {
		f := t.Fluids[i]
		printDetail("%d  %-20s %6d mB", i, gauge.DisplayName(f.Name), f.Amount)
	}
}

// demoTank is shown by view and render when the store is empty.
func demoTank(id string) *tank.Tank {
	return &tank.Tank{
		ID:       id,
		Capacity: 4 * gauge.Block,
		Fluids: []tank.Fluid{
			{Name: "molten_iron", Amount: gauge.Block, Color: "#a81212", Temperature: 769},
			{Name: "molten_gold", Amount: 3 * gauge.Ingot, Color: "#f6d609", Temperature: 532},
			{Name: "water", Amount: gauge.Bucket, Color: "#3f76e4", Temperature: 300},
		},
	}
}

// loadTank returns the stored tank. When nothing is stored at all, the demo
// tank is stored and returned so a fresh install has something to show.
func loadTank(ctx context.Context, s store.Store, id string) (*tank.Tank, error) {
	t, err := s.Get(ctx, id)
	if err == nil || !errs.IsNotFound(err) {
		return t, err
	}
	ids, listErr := s.List(ctx)
	if listErr != nil || len(ids) > 0 {
		return nil, err
	}
	t = demoTank(id)
	if err := s.Put(ctx, t); err != nil {
		return nil, err
	}
	loggerFromContext(ctx).Info("Store is empty, created a demo tank", "id", id)
	return t, nil
}
