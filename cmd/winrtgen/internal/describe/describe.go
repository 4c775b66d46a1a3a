package describe

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"winrtgen/config"
	"winrtgen/explore"
	"winrtgen/metadata"
)

// Cmd prints the composed surface of one type, the way a generation run
// would see it.
type Cmd struct {
	Type     string `arg:"" help:"Qualified type name, e.g. Windows.Foundation.IClosable."`
	Manifest string `default:"winrtgen.toml" help:"Path to the TOML manifest."`
	JSON     bool   `help:"Emit JSON instead of text."`
}

func (c *Cmd) Run() error {
	cfg, err := config.Load(c.Manifest)
	if err != nil {
		return err
	}

	store, err := metadata.LoadFile(cfg.Metadata)
	if err != nil {
		return err
	}

	desc, err := explore.Describe(store, cfg.Namespaces, nil, c.Type)
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(desc)
	}

	fmt.Print(format(desc))
	return nil
}

func format(desc *explore.Description) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s)\n", desc.Type, desc.Category)
	if len(desc.Generics) > 0 {
		fmt.Fprintf(&b, "  generics: %s\n", strings.Join(desc.Generics, ", "))
	}

	if len(desc.Surface) > 0 {
		b.WriteString("  surface:\n")
		for _, e := range desc.Surface {
			name := e.Interface
			if name == "" {
				name = "(synthesized)"
			}
			fmt.Fprintf(&b, "    %-18s %s%s\n", e.Role, name, surfaceFlags(e))
		}
	}

	if len(desc.Methods) > 0 {
		b.WriteString("  methods:\n")
		for _, m := range desc.Methods {
			suffix := ""
			if m.Dropped {
				suffix = " (dropped)"
			}
			fmt.Fprintf(&b, "    %-24s %s, %d params%s\n", m.Name, m.Category, m.Params, suffix)
		}
	}
	return b.String()
}

func surfaceFlags(e explore.SurfaceEntry) string {
	var flags []string
	if e.Exclusive {
		flags = append(flags, "exclusive")
	}
	if e.Overridable {
		flags = append(flags, "overridable")
	}
	if e.Excluded {
		flags = append(flags, "excluded")
	}
	if len(flags) == 0 {
		return ""
	}
	return " [" + strings.Join(flags, ", ") + "]"
}
