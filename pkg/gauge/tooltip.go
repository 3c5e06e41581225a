package gauge

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/matzehuels/meltgauge/pkg/tank"
)

// Fluid units in millibuckets.
const (
	Nugget     = 16
	Ingot      = 144
	Block      = 1296
	Bucket     = 1000
	KiloBucket = 1000 * Bucket
)

// Tooltip headings.
const (
	TooltipCapacity  = "Capacity:"
	TooltipAvailable = "Available:"
	TooltipUsed      = "Used:"
	TooltipShiftHint = "Hold Shift for buckets"
)

var printer = message.NewPrinter(language.English)

type unit struct {
	size             int
	singular, plural string
}

var (
	metalUnits  = []unit{{Block, "block", "blocks"}, {Ingot, "ingot", "ingots"}, {Nugget, "nugget", "nuggets"}}
	bucketUnits = []unit{{KiloBucket, "kB", "kB"}, {Bucket, "B", "B"}}
)

// AppendIngots appends amount as blocks, ingots, nuggets and leftover mB.
func AppendIngots(amount int, lines []string) []string {
	return appendUnits(amount, metalUnits, lines)
}

// AppendBuckets appends amount as kilobuckets, buckets and leftover mB.
func AppendBuckets(amount int, lines []string) []string {
	return appendUnits(amount, bucketUnits, lines)
}

func appendUnits(amount int, units []unit, lines []string) []string {
	if amount <= 0 {
		return append(lines, printer.Sprintf("%d mB", max(amount, 0)))
	}
	for _, u := range units {
		if amount < u.size {
			continue
		}
		n := amount / u.size
		name := u.plural
		if n == 1 {
			name = u.singular
		}
		lines = append(lines, printer.Sprintf("%d %s", n, name))
		amount %= u.size
	}
	if amount > 0 {
		lines = append(lines, printer.Sprintf("%d mB", amount))
	}
	return lines
}

func appendAmount(amount int, detail bool, lines []string) []string {
	if detail {
		return AppendBuckets(amount, lines)
	}
	return AppendIngots(amount, lines)
}

// TankTooltip describes the tank as a whole: capacity, free space and used
// space. detail switches amounts from ingots to buckets.
func TankTooltip(t *tank.Tank, detail bool) []string {
	lines := []string{TooltipCapacity}
	lines = appendAmount(t.Capacity, detail, lines)
	if remaining := t.Remaining(); remaining > 0 {
		lines = append(lines, TooltipAvailable)
		lines = appendAmount(remaining, detail, lines)
	}
	if used := t.Contained(); used > 0 {
		lines = append(lines, TooltipUsed)
		lines = appendAmount(used, detail, lines)
	}
	if !detail {
		lines = append(lines, TooltipShiftHint)
	}
	return lines
}

// FluidTooltip describes a single fluid.
func FluidTooltip(f tank.Fluid, detail bool) []string {
	lines := []string{DisplayName(f.Name)}
	lines = appendAmount(f.Amount, detail, lines)
	if detail {
		if f.Temperature > 0 {
			lines = append(lines, printer.Sprintf("Temperature: %d K", f.Temperature))
		}
	} else {
		lines = append(lines, TooltipShiftHint)
	}
	return lines
}

// DisplayName turns a fluid id such as "molten_iron" into "Molten Iron".
func DisplayName(name string) string {
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		name = name[i+1:]
	}
	// A Caser keeps state between calls, so each call gets its own.
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}
