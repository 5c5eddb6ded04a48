package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rackworks/rackviz/pkg/rack"
)

// validateCommand creates the validate command. It checks a rack
// definition against the catalog and reports every placement problem,
// not just the first one.
func (c *CLI) validateCommand() *cobra.Command {
	var catalogDir string

	cmd := &cobra.Command{
		Use:   "validate [rack file]",
		Short: "Check a rack definition against the device type catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0], catalogDir)
		},
	}

	cmd.Flags().StringVar(&catalogDir, "catalog", defaultCatalogDir, "device type catalog directory")
	return cmd
}

func runValidate(rackFile, catalogDir string) error {
	cat, err := rack.LoadCatalogDir(catalogDir)
	if err != nil {
		return err
	}
	rk, err := rack.LoadRackFile(rackFile)
	if err != nil {
		return err
	}

	printInfo("Validating %s (%dU, %d\" wide, %d devices)", rk.Name, rk.Height, int(rk.Width), len(rk.Devices))

	if rk.Height < rack.MinRackHeight || rk.Height > rack.MaxRackHeight {
		printError("height %d outside [%d, %d]", rk.Height, rack.MinRackHeight, rack.MaxRackHeight)
		return fmt.Errorf("invalid rack")
	}
	if !rk.Width.Valid() {
		printError("unsupported width class %d (must be 10, 19, 21 or 23)", int(rk.Width))
		return fmt.Errorf("invalid rack")
	}

	problems := 0
	for i := range rk.Devices {
		p := rk.Devices[i]
		res, err := rack.ValidatePlacement(rk, p, cat)
		if err != nil {
			printError("%s: %v", p.ID, err)
			problems++
			continue
		}
		if !res.OK {
			printError("%s at U%g collides with %s", p.ID, p.Position, strings.Join(res.Conflicts, ", "))
			problems++
			continue
		}
		printDetail("%s %s at U%g (%s)", iconSuccess, p.ID, p.Position, p.Face)
	}

	// Cable endpoints must name known placements and interfaces.
	for _, cable := range rk.Cables {
		for _, end := range []rack.CableEnd{cable.A, cable.B} {
			if err := checkCableEnd(rk, cat, end); err != nil {
				printError("cable %s:%s -- %s:%s: %v",
					cable.A.Device, cable.A.Interface, cable.B.Device, cable.B.Interface, err)
				problems++
				break
			}
		}
	}

	if problems > 0 {
		return fmt.Errorf("%d problem(s) found", problems)
	}
	printSuccess("Rack is valid")
	return nil
}

// checkCableEnd verifies one cable termination against the rack and catalog.
func checkCableEnd(rk *rack.Rack, cat *rack.Catalog, end rack.CableEnd) error {
	p := rk.Device(end.Device)
	if p == nil {
		return fmt.Errorf("unknown device %q", end.Device)
	}
	dt, ok := cat.Get(p.DeviceType)
	if !ok {
		return fmt.Errorf("unknown device type %q", p.DeviceType)
	}
	for _, iface := range dt.Interfaces {
		if iface.Name == end.Interface {
			return nil
		}
	}
	return fmt.Errorf("device %q has no interface %q", end.Device, end.Interface)
}
