package dashsdk

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Endpoints maps each backend operation to its path.
type Endpoints struct {
	Login            string `yaml:"login" toml:"login"`
	Refresh          string `yaml:"refresh" toml:"refresh"`
	Me               string `yaml:"me" toml:"me"`
	Shifts           string `yaml:"shifts" toml:"shifts"`
	ConsumptionItems string `yaml:"consumptionItems" toml:"consumptionItems"`
	PayrollSummary   string `yaml:"payrollSummary" toml:"payrollSummary"`
}

// DefaultEndpoints returns the paths the backend serves out of the box.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Login:            "/api/auth/login",
		Refresh:          "/api/auth/refresh",
		Me:               "/api/users/me",
		Shifts:           "/api/shifts",
		ConsumptionItems: "/api/consumption-items",
		PayrollSummary:   "/api/payroll/summary",
	}
}

// LoadEndpoints reads an endpoint map from a YAML (.yaml, .yml) or TOML
// (.toml) file. Keys absent from the file keep their defaults.
func LoadEndpoints(path string) (Endpoints, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Endpoints{}, fmt.Errorf("dashsdk: read endpoints: %w", err)
	}

	var file Endpoints
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &file)
	case ".toml":
		err = toml.Unmarshal(raw, &file)
	default:
		return Endpoints{}, fmt.Errorf("dashsdk: unsupported endpoints file type %q", ext)
	}
	if err != nil {
		return Endpoints{}, fmt.Errorf("dashsdk: parse endpoints %s: %w", path, err)
	}

	return DefaultEndpoints().merge(file), nil
}

func (e Endpoints) merge(o Endpoints) Endpoints {
	pick := func(dst *string, src string) {
		if src = strings.TrimSpace(src); src != "" {
			*dst = src
		}
	}
	pick(&e.Login, o.Login)
	pick(&e.Refresh, o.Refresh)
	pick(&e.Me, o.Me)
	pick(&e.Shifts, o.Shifts)
	pick(&e.ConsumptionItems, o.ConsumptionItems)
	pick(&e.PayrollSummary, o.PayrollSummary)
	return e
}
