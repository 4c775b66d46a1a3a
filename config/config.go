// Package config loads the TOML manifest that describes a generation run.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Manifest is the root of the winrtgen.toml file:
//
//	metadata = "universe.yaml"
//	namespaces = ["Windows.Foundation", "Windows.Storage.Streams"]
//
//	[output]
//	dir = "src"
//	file = "bindings.rs"
type Manifest struct {
	// Metadata is the path of the metadata document to read.
	Metadata string `toml:"metadata" validate:"required"`
	// Namespaces is the inclusion set. Types outside it must not surface in
	// any generated signature.
	Namespaces []string `toml:"namespaces" validate:"required,min=1,dive,required"`

	Output Output `toml:"output"`
	Log    Log    `toml:"log"`
	Watch  Watch  `toml:"watch"`
}

// Output controls where generated files land.
type Output struct {
	// Dir is the directory written files are resolved against.
	Dir string `toml:"dir"`
	// File is the name of the generated Rust source.
	File string `toml:"file" validate:"omitempty,endswith=.rs"`
	// Report is an optional path for the JSON generation report, relative
	// to Dir. Empty disables the report.
	Report string `toml:"report"`
	// NoClobber refuses to replace output files that already exist.
	NoClobber bool `toml:"no_clobber"`
}

// Log controls the logger built for the run.
type Log struct {
	Verbose bool `toml:"verbose"`
	JSON    bool `toml:"json"`
}

// Watch controls gen --watch.
type Watch struct {
	// Debounce is how long to wait after the last metadata change before
	// regenerating.
	Debounce time.Duration `toml:"debounce"`
}

// Load reads and parses the manifest at path. Relative input and output
// paths inside the manifest are resolved against the manifest's directory,
// so a run behaves the same from any working directory.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading manifest")
	}
	m, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest %s", path)
	}
	m.Resolve(filepath.Dir(path))
	return m, nil
}

// Resolve anchors the manifest's relative filesystem paths at base. Paths
// inside the output directory (file, report) stay sink-relative.
func (m *Manifest) Resolve(base string) {
	if !filepath.IsAbs(m.Metadata) {
		m.Metadata = filepath.Join(base, m.Metadata)
	}
	if !filepath.IsAbs(m.Output.Dir) {
		m.Output.Dir = filepath.Join(base, m.Output.Dir)
	}
}

// Parse decodes a manifest, applies defaults, and validates it.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if _, err := toml.Decode(string(data), &m); err != nil {
		return nil, errors.Wrap(err, "decoding manifest")
	}

	applyDefaults(&m)

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func applyDefaults(m *Manifest) {
	if strings.TrimSpace(m.Output.Dir) == "" {
		m.Output.Dir = "."
	}
	if strings.TrimSpace(m.Output.File) == "" {
		m.Output.File = "bindings.rs"
	}
	if m.Watch.Debounce <= 0 {
		m.Watch.Debounce = 500 * time.Millisecond
	}
}

// Validate checks the manifest against its struct tags.
func (m *Manifest) Validate() error {
	err := validate.Struct(m)
	if err == nil {
		return nil
	}

	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return errors.Wrap(err, "validating manifest")
	}

	messages := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		messages = append(messages, fieldName(ve)+" "+describeTag(ve))
	}
	return errors.Newf("invalid manifest: %s", strings.Join(messages, "; "))
}

func fieldName(ve validator.FieldError) string {
	// Report the TOML spelling, not the Go field path.
	name := strings.TrimPrefix(ve.Namespace(), "Manifest.")
	return strings.ToLower(name)
}

func describeTag(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "is required"
	case "min":
		return "needs at least " + ve.Param() + " entries"
	case "endswith":
		return "must end with " + ve.Param()
	default:
		return "failed " + ve.Tag()
	}
}
