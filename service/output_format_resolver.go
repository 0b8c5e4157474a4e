package service

import (
	"fmt"

	"github.com/ludo-technologies/annforest/domain"
)

// OutputFormatResolver resolves the output format from CLI flags.
type OutputFormatResolver struct{}

func NewOutputFormatResolver() *OutputFormatResolver { return &OutputFormatResolver{} }

// Determine evaluates format flags and returns the selected format.
// At most one of json/yaml may be true; if neither is true, defaults to text.
func (r *OutputFormatResolver) Determine(json, yaml bool) (domain.OutputFormat, error) {
	switch {
	case json && yaml:
		return "", fmt.Errorf("only one output format flag can be specified")
	case json:
		return domain.OutputFormatJSON, nil
	case yaml:
		return domain.OutputFormatYAML, nil
	default:
		return domain.OutputFormatText, nil
	}
}
