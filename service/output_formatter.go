package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/ludo-technologies/annforest/domain"
)

// OutputFormatterImpl renders query responses as text, JSON, or YAML.
type OutputFormatterImpl struct{}

// NewOutputFormatter creates a new output formatter service
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// FormatPredict formats a nearest-neighbor query response.
func (f *OutputFormatterImpl) FormatPredict(response *domain.PredictResponse, format domain.OutputFormat) (string, error) {
	switch format {
	case domain.OutputFormatText:
		return f.formatPredictText(response), nil
	case domain.OutputFormatJSON:
		return EncodeJSON(response)
	case domain.OutputFormatYAML:
		return EncodeYAML(response)
	default:
		return "", domain.NewUnsupportedFormatError(string(format))
	}
}

// FormatLeaves formats a leaf-projection response.
func (f *OutputFormatterImpl) FormatLeaves(response *domain.LeavesResponse, format domain.OutputFormat) (string, error) {
	switch format {
	case domain.OutputFormatText:
		var b strings.Builder
		utils := NewFormatUtils()
		b.WriteString(utils.FormatSectionHeader("LEAF INDICES"))
		for i, leaf := range response.LeafIndices {
			b.WriteString(utils.FormatLabelWithIndent(SectionPadding, fmt.Sprintf("tree %d", i), leaf))
		}
		return b.String(), nil
	case domain.OutputFormatJSON:
		return EncodeJSON(response)
	case domain.OutputFormatYAML:
		return EncodeYAML(response)
	default:
		return "", domain.NewUnsupportedFormatError(string(format))
	}
}

// FormatDepth formats a per-tree depth response.
func (f *OutputFormatterImpl) FormatDepth(response *domain.DepthResponse, format domain.OutputFormat) (string, error) {
	switch format {
	case domain.OutputFormatText:
		var b strings.Builder
		utils := NewFormatUtils()
		b.WriteString(utils.FormatSectionHeader("TREE DEPTHS"))
		for i, depth := range response.Depths {
			b.WriteString(utils.FormatLabelWithIndent(SectionPadding, fmt.Sprintf("tree %d", i), depth))
		}
		return b.String(), nil
	case domain.OutputFormatJSON:
		return EncodeJSON(response)
	case domain.OutputFormatYAML:
		return EncodeYAML(response)
	default:
		return "", domain.NewUnsupportedFormatError(string(format))
	}
}

// formatPredictText renders neighbors as a simple ranked table.
func (f *OutputFormatterImpl) formatPredictText(response *domain.PredictResponse) string {
	var builder strings.Builder
	utils := NewFormatUtils()

	builder.WriteString(utils.FormatMainHeader("Nearest Neighbors"))
	builder.WriteString(utils.FormatTableHeader("Rank", "NodeID", "Distance"))

	for i, n := range response.Neighbors {
		builder.WriteString(fmt.Sprintf("%-6d %-20d %.6f\n", i+1, n.ID, n.Distance))
	}

	builder.WriteString(utils.FormatSectionSeparator())
	builder.WriteString(utils.FormatLabelWithIndent(0, "Generated at", response.GeneratedAt))

	return builder.String()
}

// WritePredict writes the formatted predict response to the writer.
func (f *OutputFormatterImpl) WritePredict(response *domain.PredictResponse, format domain.OutputFormat, writer io.Writer) error {
	output, err := f.FormatPredict(response, format)
	if err != nil {
		return err
	}
	if _, err := writer.Write([]byte(output)); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}
